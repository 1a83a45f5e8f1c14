// Package live turns committed store writes into push-based views.
package live

import "sync"

// Hub fans change topics out to subscriptions. Publish never blocks: each
// subscription holds at most one pending signal.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// Subscription receives a signal whenever one of its topics is published.
type Subscription struct {
	hub    *Hub
	topics []string
	c      chan struct{}
	once   sync.Once
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers interest in topics. Call Close when done.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	s := &Subscription{hub: h, topics: topics, c: make(chan struct{}, 1)}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range topics {
		set, ok := h.subs[t]
		if !ok {
			set = make(map[*Subscription]struct{})
			h.subs[t] = set
		}
		set[s] = struct{}{}
	}
	return s
}

// Publish signals every subscription listening on any of topics.
func (h *Hub) Publish(topics ...string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, t := range topics {
		for s := range h.subs[t] {
			select {
			case s.c <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers reports how many subscriptions listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// C is signalled after a publish on one of the subscription's topics.
func (s *Subscription) C() <-chan struct{} { return s.c }

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		for _, t := range s.topics {
			delete(s.hub.subs[t], s)
			if len(s.hub.subs[t]) == 0 {
				delete(s.hub.subs, t)
			}
		}
	})
}
