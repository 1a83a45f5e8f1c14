package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/live"
	"github.com/sirupsen/logrus"
)

// Snapshotter runs reads against one consistent view of the store.
type Snapshotter interface {
	WithSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductLookup resolves the product being added to the cart.
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, bool, error)
}

// Service defines cart operations.
type Service interface {
	// AddToCart adds one unit of the product, merging into an existing line.
	AddToCart(ctx context.Context, productID int64) (*CartItem, error)
	// UpdateQuantity sets a line's quantity. A quantity of zero or less
	// removes the line and returns nil.
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context) error
	// RemoveOrdered takes the ordered quantities off the given lines. Units
	// added after the lines were read stay in the cart.
	RemoveOrdered(ctx context.Context, lines []*CartItem) error
	// Summary reads items, total and count from one snapshot.
	Summary(ctx context.Context) (*Summary, error)

	Items() *live.Query[[]*CartItem]
	Total() *live.Query[float64]
	Count() *live.Query[int]
	Live() *live.Query[*Summary]
}

type service struct {
	repo     Repository
	products ProductLookup
	snap     Snapshotter
	log      *logrus.Logger

	items   *live.Query[[]*CartItem]
	total   *live.Query[float64]
	count   *live.Query[int]
	summary *live.Query[*Summary]
}

func NewService(repo Repository, products ProductLookup, snap Snapshotter, hub *live.Hub, grace time.Duration, logger *logrus.Logger) Service {
	s := &service{repo: repo, products: products, snap: snap, log: logger}
	s.items = live.NewQuery("cart.items", hub, repo.List, grace, logger, TopicCart)
	s.total = live.NewQuery("cart.total", hub, repo.Total, grace, logger, TopicCart)
	s.count = live.NewQuery("cart.count", hub, repo.Count, grace, logger, TopicCart)
	s.summary = live.NewQuery("cart.summary", hub, s.Summary, grace, logger, TopicCart)
	return s
}

func (s *service) AddToCart(ctx context.Context, productID int64) (*CartItem, error) {
	p, found, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lookup product %d: %w", productID, err)
	}
	if !found {
		return nil, catalog.ErrProductNotFound
	}

	item, err := s.repo.Merge(ctx, &CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("merge cart line: %w", err)
	}
	s.log.WithFields(logrus.Fields{"product_id": p.ID, "quantity": item.Quantity}).Debug("Cart: product added")
	return item, nil
}

func (s *service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*CartItem, error) {
	if quantity <= 0 {
		return nil, s.RemoveItem(ctx, itemID)
	}
	ok, err := s.repo.SetQuantity(ctx, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update cart line %d: %w", itemID, err)
	}
	if !ok {
		return nil, ErrItemNotFound
	}
	item, found, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, itemID int64) error {
	ok, err := s.repo.Delete(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete cart line %d: %w", itemID, err)
	}
	if !ok {
		return ErrItemNotFound
	}
	return nil
}

func (s *service) Clear(ctx context.Context) error {
	if _, err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *service) RemoveOrdered(ctx context.Context, lines []*CartItem) error {
	for _, line := range lines {
		ok, err := s.repo.Deduct(ctx, line.ID, line.Quantity)
		if err != nil {
			return fmt.Errorf("deduct cart line %d: %w", line.ID, err)
		}
		if !ok {
			s.log.WithField("item_id", line.ID).Warn("Cart: ordered line was already removed")
		}
	}
	return nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	sum := &Summary{}
	err := s.snap.WithSnapshot(ctx, func(ctx context.Context) error {
		var err error
		if sum.Items, err = s.repo.List(ctx); err != nil {
			return err
		}
		if sum.Total, err = s.repo.Total(ctx); err != nil {
			return err
		}
		sum.Count, err = s.repo.Count(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *service) Items() *live.Query[[]*CartItem] { return s.items }
func (s *service) Total() *live.Query[float64]     { return s.total }
func (s *service) Count() *live.Query[int]         { return s.count }
func (s *service) Live() *live.Query[*Summary]     { return s.summary }
