package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/live"
	"github.com/sirupsen/logrus"
)

// Service defines read access to the cached catalog.
type Service interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, bool, error)
	ListOffers(ctx context.Context) ([]*Product, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, bool, error)

	// Products is the live, name-ordered product list.
	Products() *live.Query[[]*Product]
	// Categories is the live, name-ordered category list.
	Categories() *live.Query[[]*Category]
}

type service struct {
	repo       Repository
	products   *live.Query[[]*Product]
	categories *live.Query[[]*Category]
}

func NewService(repo Repository, hub *live.Hub, grace time.Duration, logger *logrus.Logger) Service {
	return &service{
		repo:       repo,
		products:   live.NewQuery("products", hub, repo.ListProducts, grace, logger, TopicProducts),
		categories: live.NewQuery("categories", hub, repo.ListCategories, grace, logger, TopicCategories),
	}
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	query := strings.TrimSpace(filter.Query)
	switch {
	case query == "" && filter.CategoryID == 0:
		return s.repo.ListProducts(ctx)
	case query == "":
		return s.repo.ListProductsByCategory(ctx, filter.CategoryID)
	}

	products, err := s.repo.SearchProducts(ctx, query)
	if err != nil || filter.CategoryID == 0 {
		return products, err
	}
	filtered := products[:0]
	for _, p := range products {
		if p.CategoryID == filter.CategoryID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, bool, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *service) ListOffers(ctx context.Context) ([]*Product, error) {
	return s.repo.ListOffers(ctx)
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) GetCategory(ctx context.Context, id int64) (*Category, bool, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *service) Products() *live.Query[[]*Product]    { return s.products }
func (s *service) Categories() *live.Query[[]*Category] { return s.categories }
