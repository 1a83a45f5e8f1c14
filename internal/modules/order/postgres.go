package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
)

type postgresRepo struct{ store *database.Store }

func NewPostgresRepository(store *database.Store) Repository { return &postgresRepo{store: store} }

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	return r.store.WithTransaction(ctx, func(ctx context.Context) error {
		q := r.store.Conn(ctx)
		err := q.QueryRowContext(ctx, `
			INSERT INTO orders (reference, remote_id, user_id, total)
			VALUES ($1,$2,$3,$4)
			RETURNING id, created_at`,
			o.Reference, o.RemoteID, o.UserID, o.Total).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range o.Items {
			item.OrderID = o.ID
			err = q.QueryRowContext(ctx, `
				INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, line_total)
				VALUES ($1,$2,$3,$4,$5,$6)
				RETURNING id`,
				o.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("insert order_item: %w", err)
			}
		}
		return nil
	})
}

func (r *postgresRepo) GetOrder(ctx context.Context, id int64) (*Order, bool, error) {
	o, err := scanOrder(r.store.Conn(ctx).QueryRowContext(ctx, `
		SELECT id, reference, remote_id, user_id, total, created_at
		FROM orders WHERE id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (r *postgresRepo) ListOrdersByUser(ctx context.Context, userID int64) ([]*Order, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx, `
		SELECT id, reference, remote_id, user_id, total, created_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var remoteID sql.NullInt64
	if err := scan(&o.ID, &o.Reference, &remoteID, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
		return nil, err
	}
	if remoteID.Valid {
		o.RemoteID = &remoteID.Int64
	}
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID int64) ([]*OrderItem, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx, `
		SELECT id, order_id, product_id, name, quantity, unit_price, line_total
		FROM order_items WHERE order_id=$1 ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
