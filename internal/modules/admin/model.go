package admin

import (
	"errors"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
)

const (
	// PlaceholderImage is stored when a product is created without a photo.
	PlaceholderImage = "placeholder"
	defaultCategory  = "General"
	defaultIVA       = 19
	productsSheet    = "Products"
)

var ErrInvalidProduct = errors.New("invalid product")

// Dashboard is the admin landing view.
type Dashboard struct {
	ProductCount int                `json:"product_count"`
	Products     []*catalog.Product `json:"products"`
	LastSync     *catalog.Result    `json:"last_sync,omitempty"`
}

// ProductRequest is the admin product form.
type ProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Image       string  `json:"image"`
}

// ImportReport summarises a spreadsheet import.
type ImportReport struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
