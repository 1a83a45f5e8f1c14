package admin

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// cacheRepo implements the catalog repository methods the back-office uses.
type cacheRepo struct {
	catalog.Repository
	mu       sync.Mutex
	products map[int64]*catalog.Product
}

func newCacheRepo(products ...*catalog.Product) *cacheRepo {
	r := &cacheRepo{products: map[int64]*catalog.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *cacheRepo) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *cacheRepo) CountProducts(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

func (r *cacheRepo) UpsertProducts(ctx context.Context, products []*catalog.Product) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products[p.ID] = p
	}
	return len(products), nil
}

func (r *cacheRepo) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[id]
	delete(r.products, id)
	return ok, nil
}

func (r *cacheRepo) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	return []*catalog.Category{{ID: 1, Name: "Cocina"}, {ID: 4, Name: "Pisos"}}, nil
}

type fakeRemote struct {
	created   []remote.Producto
	deleted   []int64
	uploads   []string
	offers    []remote.Producto
	records   map[int64]remote.Producto
	zeroID    bool
	createErr error
	deleteErr error
	uploadErr error
	nextID    int64
}

func (f *fakeRemote) CreateProduct(ctx context.Context, p remote.Producto) (*remote.Producto, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	p.ID = 100 + f.nextID
	if f.zeroID {
		p.ID = 0
	}
	f.created = append(f.created, p)
	return &p, nil
}

func (f *fakeRemote) GetProduct(ctx context.Context, id int64) (*remote.Producto, error) {
	p, ok := f.records[id]
	if !ok {
		return nil, &remote.StatusError{Op: "get product", Code: 404}
	}
	return &p, nil
}

func (f *fakeRemote) DeleteProduct(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, _ := io.ReadAll(content)
	f.uploads = append(f.uploads, string(b))
	return "uploads/" + filename, nil
}

func (f *fakeRemote) ListOffers(ctx context.Context) ([]remote.Producto, error) {
	return f.offers, nil
}

type lastSync struct{ result catalog.Result }

func (l lastSync) Last() (catalog.Result, bool) { return l.result, true }
