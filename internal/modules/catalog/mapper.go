package catalog

import (
	"strings"

	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
)

const (
	DefaultBrand       = "Genérica"
	DefaultDescription = "Sin descripción"
	// DefaultCategoryID is used while the remote taxonomy has no local match.
	DefaultCategoryID int64 = 1
)

// Mapper turns remote product records into cached products.
type Mapper struct {
	assetBaseURL string
	categories   map[string]int64
}

// NewMapper prefixes relative image paths with assetBaseURL and resolves
// remote category names against the known categories.
func NewMapper(assetBaseURL string, categories []*Category) Mapper {
	byName := make(map[string]int64, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c.ID
	}
	return Mapper{assetBaseURL: assetBaseURL, categories: byName}
}

func (m Mapper) ToProduct(dto remote.Producto) *Product {
	p := &Product{
		ID:          dto.ID,
		Name:        dto.Nombre,
		Description: DefaultDescription,
		Price:       float64(dto.Precio),
		Stock:       dto.Stock,
		CategoryID:  DefaultCategoryID,
		ImageURL:    m.ImageURL(deref(dto.Img)),
		Brand:       DefaultBrand,
	}
	if d := strings.TrimSpace(deref(dto.DescripcionCorta)); d != "" {
		p.Description = d
	}
	if dto.Oferta && dto.PrecioOferta != nil {
		regular := float64(dto.Precio)
		p.Price = float64(*dto.PrecioOferta)
		p.PreviousPrice = &regular
	}
	if name := strings.ToLower(strings.TrimSpace(deref(dto.Categoria))); name != "" {
		if id, ok := m.categories[name]; ok {
			p.CategoryID = id
		}
	}
	return p
}

// ImageURL keeps absolute URLs and prefixes everything else with the asset
// base path. An empty reference stays empty.
func (m Mapper) ImageURL(img string) string {
	img = strings.TrimSpace(img)
	if img == "" || strings.HasPrefix(img, "http") {
		return img
	}
	if strings.HasSuffix(m.assetBaseURL, "/") {
		img = strings.TrimLeft(img, "/")
	}
	return m.assetBaseURL + img
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
