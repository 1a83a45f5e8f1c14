package catalog

import (
	"errors"
	"time"
)

// Change topics published when catalog rows are written.
const (
	TopicProducts   = "products"
	TopicCategories = "categories"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Product is a cached catalog product. Its ID is the remote catalog id.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	PreviousPrice *float64  `json:"previous_price,omitempty"`
	Stock         int       `json:"stock"`
	CategoryID    int64     `json:"category_id"`
	ImageURL      string    `json:"image_url"`
	Brand         string    `json:"brand"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	Format        *string   `json:"format,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OnOffer reports whether the product is discounted from a previous price.
func (p *Product) OnOffer() bool {
	return p.PreviousPrice != nil && *p.PreviousPrice > p.Price
}

// Category groups products. The six base categories are seeded with the schema.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ProductFilter narrows ListProducts. Zero values mean no filter.
type ProductFilter struct {
	CategoryID int64
	Query      string
}
