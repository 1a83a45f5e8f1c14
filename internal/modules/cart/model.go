package cart

import (
	"errors"
	"time"
)

// TopicCart is published whenever cart rows change.
const TopicCart = "cart"

var ErrItemNotFound = errors.New("cart item not found")

// CartItem is one cart line. Name, Price and ImageURL are a snapshot of the
// product taken when the line was created; repeat adds do not refresh them.
type CartItem struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url"`
	Subtotal  float64   `json:"subtotal"`
	AddedAt   time.Time `json:"added_at"`
}

// Summary is the whole cart with its store-computed aggregates.
type Summary struct {
	Items []*CartItem `json:"items"`
	Total float64     `json:"total"`
	Count int         `json:"count"`
}
