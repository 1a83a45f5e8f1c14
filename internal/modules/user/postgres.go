package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	store *database.Store
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(store *database.Store) Repository {
	return &postgresRepository{store: store}
}

const userColumns = `id, name, email, password_hash, birth_date, rut, address, role, remote_id, registered_at`

func scanUser(scan func(...interface{}) error) (*User, error) {
	u := &User{}
	var rut, address sql.NullString
	var remoteID sql.NullInt64
	err := scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.BirthDate, &rut, &address, &u.Role, &remoteID, &u.RegisteredAt)
	if err != nil {
		return nil, err
	}
	if rut.Valid {
		u.RUT = &rut.String
	}
	if address.Valid {
		u.Address = &address.String
	}
	if remoteID.Valid {
		u.RemoteID = &remoteID.Int64
	}
	return u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, email, password_hash, birth_date, rut, address, role, remote_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, registered_at
	`
	err := r.store.Conn(ctx).QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.BirthDate, u.RUT, u.Address, u.Role, u.RemoteID,
	).Scan(&u.ID, &u.RegisteredAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*User, bool, error) {
	u, err := scanUser(r.store.Conn(ctx).QueryRowContext(ctx, query, arg).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, bool, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*User, bool, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, id int64, p *ProfileUpdate) (bool, error) {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `
		UPDATE users SET name = $1, address = $2, rut = $3, birth_date = $4
		WHERE id = $5`,
		p.Name, p.Address, p.RUT, p.BirthDate, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postgresRepository) UpdateRemote(ctx context.Context, id int64, remoteID *int64, role string) error {
	_, err := r.store.Conn(ctx).ExecContext(ctx,
		`UPDATE users SET remote_id = COALESCE($1, remote_id), role = $2 WHERE id = $3`,
		remoteID, role, id)
	return err
}

func (r *postgresRepository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
