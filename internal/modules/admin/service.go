package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RemoteCatalog is the remote product administration API.
type RemoteCatalog interface {
	CreateProduct(ctx context.Context, p remote.Producto) (*remote.Producto, error)
	GetProduct(ctx context.Context, id int64) (*remote.Producto, error)
	DeleteProduct(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
	ListOffers(ctx context.Context) ([]remote.Producto, error)
}

// SyncStatus exposes the last catalog refresh.
type SyncStatus interface {
	Last() (catalog.Result, bool)
}

// Service defines the back-office operations.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	// CreateProduct creates the product remotely and caches the record the
	// remote returns.
	CreateProduct(ctx context.Context, req *ProductRequest) (*catalog.Product, error)
	// DeleteProduct deletes remotely first; the cached copy is removed only
	// when the remote delete succeeds.
	DeleteProduct(ctx context.Context, id int64) error
	// UploadImage stores an image remotely and returns its path. A nil
	// content returns PlaceholderImage.
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
	ExportProducts(ctx context.Context, w io.Writer) error
	ImportProducts(ctx context.Context, r io.ReaderAt, size int64) (*ImportReport, error)
	// RemoteOffers returns the remote offer list mapped like a sync.
	RemoteOffers(ctx context.Context) ([]*catalog.Product, error)
	// RemoteProduct returns the remote record for id mapped like a sync, so
	// it can be compared with the cached copy.
	RemoteProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type service struct {
	repo         catalog.Repository
	remote       RemoteCatalog
	sync         SyncStatus
	assetBaseURL string
	validate     *validator.Validate
	log          *logrus.Logger
}

// NewService creates the admin service. sync may be nil.
func NewService(repo catalog.Repository, rc RemoteCatalog, sync SyncStatus, assetBaseURL string, logger *logrus.Logger) Service {
	return &service{
		repo:         repo,
		remote:       rc,
		sync:         sync,
		assetBaseURL: assetBaseURL,
		validate:     validator.New(),
		log:          logger,
	}
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	d := &Dashboard{ProductCount: count, Products: products}
	if s.sync != nil {
		if last, ok := s.sync.Last(); ok {
			d.LastSync = &last
		}
	}
	return d, nil
}

func (s *service) mapper(ctx context.Context) (catalog.Mapper, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return catalog.Mapper{}, fmt.Errorf("list categories: %w", err)
	}
	return catalog.NewMapper(s.assetBaseURL, categories), nil
}

func (s *service) CreateProduct(ctx context.Context, req *ProductRequest) (*catalog.Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	image := req.Image
	if image == "" {
		image = PlaceholderImage
	}
	description := req.Description
	category := defaultCategory
	iva := defaultIVA

	created, err := s.remote.CreateProduct(ctx, remote.Producto{
		Nombre:           req.Name,
		DescripcionCorta: &description,
		DescripcionLarga: &description,
		Precio:           decimal.NewFromFloat(req.Price).Round(0).IntPart(),
		Categoria:        &category,
		Img:              &image,
		Stock:            req.Stock,
		IVA:              &iva,
	})
	if err != nil {
		return nil, fmt.Errorf("create remote product: %w", err)
	}
	if created.ID <= 0 {
		return nil, &remote.DecodeError{Op: "create product", Err: fmt.Errorf("remote returned product id %d", created.ID)}
	}

	m, err := s.mapper(ctx)
	if err != nil {
		return nil, err
	}
	p := m.ToProduct(*created)
	if _, err := s.repo.UpsertProducts(ctx, []*catalog.Product{p}); err != nil {
		return nil, fmt.Errorf("cache product %d: %w", p.ID, err)
	}
	s.log.WithFields(logrus.Fields{"product_id": p.ID, "name": p.Name}).Info("Admin: product created")
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.remote.DeleteProduct(ctx, id); err != nil {
		if remote.IsNotFound(err) {
			return catalog.ErrProductNotFound
		}
		return fmt.Errorf("delete remote product %d: %w", id, err)
	}
	removed, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("delete cached product %d: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{"product_id": id, "cached": removed}).Info("Admin: product deleted")
	return nil
}

func (s *service) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	if content == nil {
		return PlaceholderImage, nil
	}
	path, err := s.remote.UploadImage(ctx, filename, content)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return path, nil
}

func (s *service) RemoteOffers(ctx context.Context) ([]*catalog.Product, error) {
	offers, err := s.remote.ListOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote offers: %w", err)
	}
	m, err := s.mapper(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]*catalog.Product, 0, len(offers))
	for _, dto := range offers {
		products = append(products, m.ToProduct(dto))
	}
	return products, nil
}

func (s *service) RemoteProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	dto, err := s.remote.GetProduct(ctx, id)
	if err != nil {
		if remote.IsNotFound(err) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("get remote product %d: %w", id, err)
	}
	m, err := s.mapper(ctx)
	if err != nil {
		return nil, err
	}
	return m.ToProduct(*dto), nil
}
