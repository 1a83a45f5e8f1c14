package cart

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
)

type postgresRepo struct{ store *database.Store }

func NewPostgresRepository(store *database.Store) Repository { return &postgresRepo{store: store} }

const itemColumns = `id, product_id, name, price, quantity, image_url, price*quantity, added_at`

func scanItem(scan func(...interface{}) error) (*CartItem, error) {
	it := &CartItem{}
	err := scan(&it.ID, &it.ProductID, &it.Name, &it.Price, &it.Quantity, &it.ImageURL, &it.Subtotal, &it.AddedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*CartItem, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx, `SELECT `+itemColumns+` FROM cart_items ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*CartItem{}
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, id int64) (*CartItem, bool, error) {
	it, err := scanItem(r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM cart_items WHERE id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return it, true, nil
}

func (r *postgresRepo) Merge(ctx context.Context, item *CartItem) (*CartItem, error) {
	merged, err := scanItem(r.store.Conn(ctx).QueryRowContext(ctx, `
		INSERT INTO cart_items (product_id, name, price, quantity, image_url)
		VALUES ($1,$2,$3,1,$4)
		ON CONFLICT (product_id) DO UPDATE SET quantity = cart_items.quantity + 1
		RETURNING `+itemColumns,
		item.ProductID, item.Name, item.Price, item.ImageURL).Scan)
	if err != nil {
		return nil, err
	}
	r.store.Notify(ctx, TopicCart)
	return merged, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, id int64, quantity int) (bool, error) {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `UPDATE cart_items SET quantity=$1 WHERE id=$2`, quantity, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.store.Notify(ctx, TopicCart)
	}
	return n > 0, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `DELETE FROM cart_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.store.Notify(ctx, TopicCart)
	}
	return n > 0, nil
}

func (r *postgresRepo) Deduct(ctx context.Context, id int64, quantity int) (bool, error) {
	conn := r.store.Conn(ctx)
	res, err := conn.ExecContext(ctx,
		`UPDATE cart_items SET quantity = quantity - $2 WHERE id=$1 AND quantity > $2`, id, quantity)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		res, err = conn.ExecContext(ctx, `DELETE FROM cart_items WHERE id=$1 AND quantity <= $2`, id, quantity)
		if err != nil {
			return false, err
		}
		n, _ = res.RowsAffected()
	}
	if n > 0 {
		r.store.Notify(ctx, TopicCart)
	}
	return n > 0, nil
}

func (r *postgresRepo) Clear(ctx context.Context) (int, error) {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `DELETE FROM cart_items`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.store.Notify(ctx, TopicCart)
	}
	return int(n), nil
}

func (r *postgresRepo) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price*quantity), 0) FROM cart_items`).Scan(&total)
	return total, err
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.store.Conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM cart_items`).Scan(&n)
	return n, err
}
