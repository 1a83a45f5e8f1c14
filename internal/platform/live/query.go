package live

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Loader reads the current value of a view from the store.
type Loader[T any] func(ctx context.Context) (T, error)

// Query is a hot view over the store. It runs while observed, reloading on
// every publish of its topics, and stops once it has had no observers for the
// grace period. A stopped query restarts from the latest stored state.
type Query[T any] struct {
	name   string
	hub    *Hub
	topics []string
	load   Loader[T]
	grace  time.Duration
	log    *logrus.Logger

	mu        sync.Mutex
	observers map[*Observer[T]]struct{}
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	timer     *time.Timer
	timerGen  uint64
	latest    T
	hasLatest bool
}

// Observer receives the latest value of a Query. Values that are not read
// before the next reload are replaced, never queued.
type Observer[T any] struct {
	q    *Query[T]
	c    chan T
	once sync.Once
}

func NewQuery[T any](name string, hub *Hub, load Loader[T], grace time.Duration, logger *logrus.Logger, topics ...string) *Query[T] {
	return &Query[T]{
		name:      name,
		hub:       hub,
		topics:    topics,
		load:      load,
		grace:     grace,
		log:       logger,
		observers: make(map[*Observer[T]]struct{}),
	}
}

// Get reads the view once without observing it.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	return q.load(ctx)
}

// Observe attaches an observer, starting the query if it is stopped.
func (q *Query[T]) Observe() *Observer[T] {
	o := &Observer[T]{q: q, c: make(chan T, 1)}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.observers[o] = struct{}{}
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
		q.timerGen++
	}
	if !q.running {
		q.startLocked()
	} else if q.hasLatest {
		offer(o.c, q.latest)
	}
	return o
}

// Active reports whether the query is currently running.
func (q *Query[T]) Active() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Close stops the query immediately and waits for its goroutine to exit.
func (q *Query[T]) Close() {
	q.mu.Lock()
	done := q.done
	if q.running {
		q.stopLocked()
	}
	for o := range q.observers {
		delete(q.observers, o)
		close(o.c)
	}
	q.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (q *Query[T]) startLocked() {
	// Subscribe before the first load so no commit in between is missed.
	sub := q.hub.Subscribe(q.topics...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	q.running = true
	q.hasLatest = false
	q.cancel = cancel
	q.done = done
	q.log.WithField("query", q.name).Debug("Live: query started")
	go q.run(ctx, sub, done)
}

func (q *Query[T]) stopLocked() {
	q.cancel()
	q.running = false
	q.hasLatest = false
	var zero T
	q.latest = zero
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.timerGen++
	q.log.WithField("query", q.name).Debug("Live: query stopped")
}

func (q *Query[T]) run(ctx context.Context, sub *Subscription, done chan struct{}) {
	defer close(done)
	defer sub.Close()

	q.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C():
			q.refresh(ctx)
		}
	}
}

func (q *Query[T]) refresh(ctx context.Context) {
	v, err := q.load(ctx)
	if err != nil {
		if ctx.Err() == nil {
			q.log.WithField("query", q.name).Warnf("Live: reload failed: %v", err)
		}
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	q.latest = v
	q.hasLatest = true
	for o := range q.observers {
		offer(o.c, v)
	}
}

func (q *Query[T]) expire(gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.timerGen || !q.running || len(q.observers) > 0 {
		return
	}
	q.stopLocked()
}

// Updates delivers the view's value on start and after every change. The
// channel is closed by Close.
func (o *Observer[T]) Updates() <-chan T { return o.c }

// Close detaches the observer. When it was the last one the query keeps
// running for the grace period.
func (o *Observer[T]) Close() {
	o.once.Do(func() {
		q := o.q
		q.mu.Lock()
		defer q.mu.Unlock()
		if _, ok := q.observers[o]; !ok {
			return
		}
		delete(q.observers, o)
		close(o.c)
		if len(q.observers) > 0 || !q.running {
			return
		}
		if q.grace <= 0 {
			q.stopLocked()
			return
		}
		q.timerGen++
		gen := q.timerGen
		q.timer = time.AfterFunc(q.grace, func() { q.expire(gen) })
	})
}

// offer replaces any unread value in c with v.
func offer[T any](c chan T, v T) {
	select {
	case <-c:
	default:
	}
	select {
	case c <- v:
	default:
	}
}
