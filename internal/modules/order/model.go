package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RouteCheckoutSuccess = "checkout_success"
	RouteCheckoutFailed  = "checkout_failed"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// Order is the local record of a receipt submitted to the remote API.
// Amounts are whole pesos.
type Order struct {
	ID        int64        `json:"id"`
	Reference uuid.UUID    `json:"reference"`
	RemoteID  *int64       `json:"remote_id,omitempty"`
	UserID    int64        `json:"user_id"`
	Total     int64        `json:"total"`
	Items     []*OrderItem `json:"items,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// OrderItem is a single line item within an order.
type OrderItem struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// CheckoutResponse tells the client where to navigate after a checkout.
type CheckoutResponse struct {
	Order *Order `json:"order,omitempty"`
	Route string `json:"route"`
	Error string `json:"error,omitempty"`
}
