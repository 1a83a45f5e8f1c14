package cart

import "context"

// Repository defines cart line storage.
type Repository interface {
	// List returns lines newest first.
	List(ctx context.Context) ([]*CartItem, error)
	Get(ctx context.Context, id int64) (*CartItem, bool, error)

	// Merge creates the line for item.ProductID with quantity 1, or adds 1 to
	// the existing line leaving its snapshot fields untouched.
	Merge(ctx context.Context, item *CartItem) (*CartItem, error)
	SetQuantity(ctx context.Context, id int64, quantity int) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// Deduct takes quantity units off a line and deletes the line when no
	// units are left. It reports false when the line no longer exists.
	Deduct(ctx context.Context, id int64, quantity int) (bool, error)
	Clear(ctx context.Context) (int, error)

	// Total is SUM(price*quantity) over all lines.
	Total(ctx context.Context) (float64, error)
	// Count is the number of lines.
	Count(ctx context.Context) (int, error)
}
