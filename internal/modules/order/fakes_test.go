package order

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/cart"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/mail"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memoryRepo struct {
	mu     sync.Mutex
	orders []*Order
	err    error
}

func (r *memoryRepo) CreateOrder(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	o.ID = int64(len(r.orders) + 1)
	o.CreatedAt = time.Now()
	for i, item := range o.Items {
		item.ID = int64(i + 1)
		item.OrderID = o.ID
	}
	r.orders = append(r.orders, o)
	return nil
}

func (r *memoryRepo) GetOrder(ctx context.Context, id int64) (*Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, true, nil
		}
	}
	return nil, false, nil
}

func (r *memoryRepo) ListOrdersByUser(ctx context.Context, userID int64) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeCart struct {
	items     []*cart.CartItem
	removeErr error
}

func (c *fakeCart) Summary(ctx context.Context) (*cart.Summary, error) {
	s := &cart.Summary{Count: len(c.items)}
	for _, it := range c.items {
		line := *it
		s.Items = append(s.Items, &line)
		s.Total += it.Price * float64(it.Quantity)
	}
	return s, nil
}

func (c *fakeCart) RemoveOrdered(ctx context.Context, lines []*cart.CartItem) error {
	if c.removeErr != nil {
		return c.removeErr
	}
	for _, ordered := range lines {
		for i, it := range c.items {
			if it.ID != ordered.ID {
				continue
			}
			if it.Quantity > ordered.Quantity {
				it.Quantity -= ordered.Quantity
			} else {
				c.items = append(c.items[:i], c.items[i+1:]...)
			}
			break
		}
	}
	return nil
}

func (c *fakeCart) add(item *cart.CartItem) {
	for _, it := range c.items {
		if it.ProductID == item.ProductID {
			it.Quantity++
			return
		}
	}
	c.items = append([]*cart.CartItem{item}, c.items...)
}

type userTable map[int64]*user.User

func (t userTable) GetByID(ctx context.Context, id int64) (*user.User, bool, error) {
	u, ok := t[id]
	return u, ok, nil
}

type stubReceipts struct {
	submitted []remote.Boleta
	err       error
	// during runs while the receipt is in flight.
	during func()
}

func (s *stubReceipts) CreateBoleta(ctx context.Context, b remote.Boleta) (*remote.Boleta, error) {
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return nil, s.err
	}
	s.submitted = append(s.submitted, b)
	id := int64(900 + len(s.submitted))
	b.ID = &id
	return &b, nil
}

func (s *stubReceipts) GetBoleta(ctx context.Context, id int64) (*remote.Boleta, error) {
	for i, b := range s.submitted {
		if int64(901+i) == id {
			b.ID = &id
			return &b, nil
		}
	}
	return nil, &remote.StatusError{Op: "get boleta", Code: 404}
}

// directTx runs fn without a real transaction.
type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type outbox struct {
	sent []*mail.Message
	err  error
}

func (o *outbox) Send(ctx context.Context, msg *mail.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, msg)
	return nil
}

var errBoom = errors.New("boom")
