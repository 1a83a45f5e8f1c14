package catalog

import "context"

// Repository defines access to the cached catalog.
type Repository interface {
	// ListProducts returns every cached product ordered by name.
	ListProducts(ctx context.Context) ([]*Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]*Product, error)
	// SearchProducts matches a case-insensitive substring of the name.
	SearchProducts(ctx context.Context, query string) ([]*Product, error)
	ListOffers(ctx context.Context) ([]*Product, error)
	// GetProduct reports found=false, not an error, for an unknown id.
	GetProduct(ctx context.Context, id int64) (p *Product, found bool, err error)
	CountProducts(ctx context.Context) (int, error)

	// UpsertProducts inserts or replaces by id and returns how many rows
	// were inserted or actually changed.
	UpsertProducts(ctx context.Context, products []*Product) (int, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	// DeleteProductsNotIn removes every product whose id is not in keep.
	DeleteProductsNotIn(ctx context.Context, keep []int64) (int, error)

	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id int64) (c *Category, found bool, err error)
}
