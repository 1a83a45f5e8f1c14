package catalog

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memoryRepo is an in-memory Repository.
type memoryRepo struct {
	mu         sync.Mutex
	products   map[int64]Product
	categories map[int64]Category
	failDelete error
}

func newMemoryRepo() *memoryRepo {
	r := &memoryRepo{products: map[int64]Product{}, categories: map[int64]Category{}}
	for _, c := range []Category{
		{1, "Cocina", "Limpieza de cocina y loza", "🍳"},
		{2, "Baño", "Limpieza y desinfección de baños", "🚽"},
		{3, "Ropa", "Detergentes y suavizantes", "👕"},
	} {
		r.categories[c.ID] = c
	}
	return r
}

func (r *memoryRepo) sorted(keep func(Product) bool) []*Product {
	out := []*Product{}
	for _, p := range r.products {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *memoryRepo) ListProducts(ctx context.Context) ([]*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(Product) bool { return true }), nil
}

func (r *memoryRepo) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *memoryRepo) SearchProducts(ctx context.Context, query string) ([]*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	return r.sorted(func(p Product) bool { return strings.Contains(strings.ToLower(p.Name), q) }), nil
}

func (r *memoryRepo) ListOffers(ctx context.Context) ([]*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p Product) bool { return p.OnOffer() }), nil
}

func (r *memoryRepo) GetProduct(ctx context.Context, id int64) (*Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (r *memoryRepo) CountProducts(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

func (r *memoryRepo) UpsertProducts(ctx context.Context, products []*Product) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products[p.ID] = *p
	}
	return len(products), nil
}

func (r *memoryRepo) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[id]
	delete(r.products, id)
	return ok, nil
}

func (r *memoryRepo) DeleteProductsNotIn(ctx context.Context, keep []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete != nil {
		return 0, r.failDelete
	}
	set := map[int64]bool{}
	for _, id := range keep {
		set[id] = true
	}
	n := 0
	for id := range r.products {
		if !set[id] {
			delete(r.products, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*Category{}
	for _, c := range r.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) GetCategory(ctx context.Context, id int64) (*Category, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, false, nil
	}
	return &c, true, nil
}

// memoryTx restores the product table when fn fails, like a rollback.
type memoryTx struct{ repo *memoryRepo }

func (t memoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.repo.mu.Lock()
	snapshot := make(map[int64]Product, len(t.repo.products))
	for k, v := range t.repo.products {
		snapshot[k] = v
	}
	t.repo.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.repo.mu.Lock()
		t.repo.products = snapshot
		t.repo.mu.Unlock()
		return err
	}
	return nil
}

// stubRemote serves a fixed product list or error.
type stubRemote struct {
	remote.Client
	products []remote.Producto
	err      error
	offers   []remote.Producto
}

func (s *stubRemote) ListProducts(ctx context.Context) ([]remote.Producto, error) {
	return s.products, s.err
}

func (s *stubRemote) ListOffers(ctx context.Context) ([]remote.Producto, error) {
	return s.offers, s.err
}

func str(s string) *string { return &s }
func i64(v int64) *int64   { return &v }
