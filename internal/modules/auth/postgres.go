package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
	"github.com/google/uuid"
)

type postgresSessions struct {
	store *database.Store
}

// NewPostgresSessionRepository creates a session repository on the cache store.
func NewPostgresSessionRepository(store *database.Store) SessionRepository {
	return &postgresSessions{store: store}
}

func (r *postgresSessions) Create(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (id, user_id, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.store.Conn(ctx).ExecContext(ctx, query, s.ID, s.UserID, s.Role, s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *postgresSessions) Get(ctx context.Context, id uuid.UUID) (*Session, bool, error) {
	s := &Session{}
	var revoked sql.NullTime
	err := r.store.Conn(ctx).QueryRowContext(ctx, `
		SELECT id, user_id, role, created_at, expires_at, revoked_at
		FROM sessions
		WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.Role, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if revoked.Valid {
		s.RevokedAt = &revoked.Time
	}
	return s, true, nil
}

func (r *postgresSessions) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res, err := r.store.Conn(ctx).ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`, at, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
