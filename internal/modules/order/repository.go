package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists an order and its items. It joins the caller's
	// transaction when one is active.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrder retrieves an order with its items.
	GetOrder(ctx context.Context, id int64) (*Order, bool, error)

	// ListOrdersByUser returns a user's orders, newest first, without items.
	ListOrdersByUser(ctx context.Context, userID int64) ([]*Order, error)
}
