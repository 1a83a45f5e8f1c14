// Package authctx carries the authenticated principal through a request context.
package authctx

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the caller behind a validated session token.
type Principal struct {
	UserID    int64
	Role      string
	SessionID uuid.UUID
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the principal stored by the auth middleware, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok && p != nil
}
