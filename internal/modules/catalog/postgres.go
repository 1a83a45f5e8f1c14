package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
	"github.com/lib/pq"
)

type postgresRepo struct{ store *database.Store }

func NewPostgresRepository(store *database.Store) Repository { return &postgresRepo{store: store} }

const productColumns = `id,name,description,price,previous_price,stock,category_id,
	image_url,brand,rating,review_count,format,updated_at`

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var previous sql.NullFloat64
	var format sql.NullString
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &previous, &p.Stock, &p.CategoryID,
		&p.ImageURL, &p.Brand, &p.Rating, &p.ReviewCount, &format, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if previous.Valid {
		v := previous.Float64
		p.PreviousPrice = &v
	}
	if format.Valid {
		v := format.String
		p.Format = &v
	}
	return p, nil
}

func (r *postgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*Product, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) ListProducts(ctx context.Context) ([]*Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC`)
}

func (r *postgresRepo) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+`
		FROM products WHERE category_id=$1 ORDER BY name ASC, id ASC`, categoryID)
}

func (r *postgresRepo) SearchProducts(ctx context.Context, query string) ([]*Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+`
		FROM products WHERE name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY name ASC, id ASC`, escapeLike(query))
}

func (r *postgresRepo) ListOffers(ctx context.Context) ([]*Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+`
		FROM products WHERE previous_price IS NOT NULL AND previous_price > price
		ORDER BY name ASC, id ASC`)
}

func (r *postgresRepo) GetProduct(ctx context.Context, id int64) (*Product, bool, error) {
	p, err := scanProduct(r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (r *postgresRepo) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := r.store.Conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// UpsertProducts skips rows whose stored values already match, so an
// unchanged refresh writes nothing.
func (r *postgresRepo) UpsertProducts(ctx context.Context, products []*Product) (int, error) {
	written := 0
	err := r.store.WithTransaction(ctx, func(ctx context.Context) error {
		for _, p := range products {
			res, err := r.store.Conn(ctx).ExecContext(ctx, `
				INSERT INTO products
				  (id, name, description, price, previous_price, stock, category_id,
				   image_url, brand, rating, review_count, format, updated_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW())
				ON CONFLICT (id) DO UPDATE SET
				  name=EXCLUDED.name, description=EXCLUDED.description, price=EXCLUDED.price,
				  previous_price=EXCLUDED.previous_price, stock=EXCLUDED.stock,
				  category_id=EXCLUDED.category_id, image_url=EXCLUDED.image_url,
				  brand=EXCLUDED.brand, rating=EXCLUDED.rating, review_count=EXCLUDED.review_count,
				  format=EXCLUDED.format, updated_at=NOW()
				WHERE (products.name, products.description, products.price, products.previous_price,
				       products.stock, products.category_id, products.image_url, products.brand,
				       products.rating, products.review_count, products.format)
				  IS DISTINCT FROM
				      (EXCLUDED.name, EXCLUDED.description, EXCLUDED.price, EXCLUDED.previous_price,
				       EXCLUDED.stock, EXCLUDED.category_id, EXCLUDED.image_url, EXCLUDED.brand,
				       EXCLUDED.rating, EXCLUDED.review_count, EXCLUDED.format)`,
				p.ID, p.Name, p.Description, p.Price, p.PreviousPrice, p.Stock, p.CategoryID,
				p.ImageURL, p.Brand, p.Rating, p.ReviewCount, p.Format)
			if err != nil {
				return fmt.Errorf("upsert product %d: %w", p.ID, err)
			}
			n, _ := res.RowsAffected()
			written += int(n)
		}
		if written > 0 {
			r.store.Notify(ctx, TopicProducts)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.store.Notify(ctx, TopicProducts)
	}
	return n > 0, nil
}

func (r *postgresRepo) DeleteProductsNotIn(ctx context.Context, keep []int64) (int, error) {
	if keep == nil {
		keep = []int64{}
	}
	res, err := r.store.Conn(ctx).ExecContext(ctx,
		`DELETE FROM products WHERE NOT (id = ANY($1))`, pq.Array(keep))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.store.Notify(ctx, TopicProducts)
	}
	return int(n), nil
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx,
		`SELECT id,name,description,icon FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) GetCategory(ctx context.Context, id int64) (*Category, bool, error) {
	c := &Category{}
	err := r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT id,name,description,icon FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
