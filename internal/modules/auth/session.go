package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is one issued login. Tokens carry its id as the jti claim.
type Session struct {
	ID        uuid.UUID  `json:"id"`
	UserID    int64      `json:"user_id"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Active reports whether the session can still authenticate requests at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// SessionRepository stores issued sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, bool, error)
	// Revoke marks an active session revoked. It reports false when the
	// session is unknown or already revoked.
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}
