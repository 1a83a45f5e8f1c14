package cart

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	lines  map[int64]CartItem
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{lines: map[int64]CartItem{}}
}

func withSubtotal(it CartItem) *CartItem {
	it.Subtotal = it.Price * float64(it.Quantity)
	return &it
}

func (r *memoryRepo) List(ctx context.Context) ([]*CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*CartItem{}
	for _, it := range r.lines {
		out = append(out, withSubtotal(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*CartItem, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.lines[id]
	if !ok {
		return nil, false, nil
	}
	return withSubtotal(it), true, nil
}

func (r *memoryRepo) Merge(ctx context.Context, item *CartItem) (*CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.lines {
		if it.ProductID == item.ProductID {
			it.Quantity++
			r.lines[id] = it
			return withSubtotal(it), nil
		}
	}
	r.nextID++
	it := *item
	it.ID = r.nextID
	it.Quantity = 1
	it.AddedAt = time.Now()
	r.lines[it.ID] = it
	return withSubtotal(it), nil
}

func (r *memoryRepo) SetQuantity(ctx context.Context, id int64, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.lines[id]
	if !ok {
		return false, nil
	}
	it.Quantity = quantity
	r.lines[id] = it
	return true, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.lines[id]
	delete(r.lines, id)
	return ok, nil
}

func (r *memoryRepo) Deduct(ctx context.Context, id int64, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.lines[id]
	if !ok {
		return false, nil
	}
	if it.Quantity > quantity {
		it.Quantity -= quantity
		r.lines[id] = it
	} else {
		delete(r.lines, id)
	}
	return true, nil
}

func (r *memoryRepo) Clear(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.lines)
	r.lines = map[int64]CartItem{}
	return n, nil
}

func (r *memoryRepo) Total(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, it := range r.lines {
		total += it.Price * float64(it.Quantity)
	}
	return total, nil
}

func (r *memoryRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines), nil
}

// snapshots counts the consistent reads it was asked to run.
type snapshots struct{ runs int }

func (s *snapshots) WithSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	s.runs++
	return fn(ctx)
}

// productTable is a mutable ProductLookup.
type productTable struct {
	mu       sync.Mutex
	products map[int64]catalog.Product
}

func newProductTable(products ...catalog.Product) *productTable {
	t := &productTable{products: map[int64]catalog.Product{}}
	for _, p := range products {
		t.products[p.ID] = p
	}
	return t
}

func (t *productTable) GetProduct(ctx context.Context, id int64) (*catalog.Product, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.products[id]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (t *productTable) setPrice(id int64, price float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.products[id]
	p.Price = price
	t.products[id] = p
}
