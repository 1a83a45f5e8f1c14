package database

import (
	"context"
	"database/sql"
	"fmt"
)

type sampleProduct struct {
	name          string
	description   string
	price         float64
	previousPrice *float64
	stock         int
	categoryID    int64
	image         string
	brand         string
	rating        float64
	reviews       int
	format        string
}

func floatPtr(v float64) *float64 { return &v }

var sampleProducts = []sampleProduct{
	{"Lavaloza Quix 1L", "Poderoso desengrasante con aroma a limón", 2990, nil, 50, 1, "quix", "Quix", 4.7, 120, "Botella 1L"},
	{"Cif Crema Limpiador", "Limpiador cremoso multiuso con micropartículas", 2490, floatPtr(2790), 40, 1, "cif", "Cif", 4.8, 98, "Botella 750g"},
	{"Clorox Cloro Gel 900ml", "Desinfecta, limpia y blanquea. Aroma original.", 3190, nil, 35, 2, "clorox", "Clorox", 4.9, 210, "Botella 900ml"},
	{"Pato Discos Activos", "Gel limpiador adhesivo para inodoro", 4990, nil, 30, 2, "pato", "Pato", 4.5, 75, "Pack 6 discos"},
	{"Detergente Ariel 3L", "Líquido concentrado para ropa blanca y de color", 12990, floatPtr(14990), 20, 3, "ariel", "Ariel", 4.8, 340, "Botella 3L"},
	{"Suavizante Downy 1.5L", "Aroma fresco y duradero, protege las fibras", 6990, nil, 25, 3, "downy", "Downy", 4.7, 180, "Botella 1.5L"},
	{"Poett Limpiador Lavanda 1.8L", "Aromatizante y limpiador para todo tipo de pisos", 3590, nil, 40, 4, "poett", "Poett", 4.6, 112, "Botella 1.8L"},
	{"Esponja Virutex (Pack 3)", "Esponja multiuso para cocina y baño", 1990, nil, 100, 5, "esponja", "Virutex", 4.4, 55, "Pack 3 unidades"},
	{"Paños de Microfibra (Pack 5)", "Paños reutilizables para todo tipo de superficies", 4990, nil, 60, 5, "panos", "Genérica", 4.5, 88, "Pack 5 unidades"},
	{"Lysol Spray Desinfectante", "Elimina el 99.9% de gérmenes. Aroma brisa fresca.", 5990, nil, 30, 6, "lysol", "Lysol", 4.9, 410, "Aerosol 340g"},
}

// SeedSampleProducts fills an empty product cache with the demo catalog so the
// storefront has something to show before the first successful refresh. It
// returns the number of inserted rows.
func SeedSampleProducts(ctx context.Context, db *sql.DB) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for i, p := range sampleProducts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products
			  (id, name, description, price, previous_price, stock, category_id,
			   image_url, brand, rating, review_count, format)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			i+1, p.name, p.description, p.price, p.previousPrice, p.stock, p.categoryID,
			p.image, p.brand, p.rating, p.reviews, p.format)
		if err != nil {
			return 0, fmt.Errorf("insert sample product %q: %w", p.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(sampleProducts), nil
}
