package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/authctx"
	"github.com/sirupsen/logrus"
)

// Middleware guards routes with session tokens.
type Middleware struct {
	service Service
	log     *logrus.Logger
}

func NewMiddleware(service Service, logger *logrus.Logger) *Middleware {
	return &Middleware{service: service, log: logger}
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the principal in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authctx.PrincipalFrom(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := bearerToken(r)
		if !ok {
			respond(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}
		p, err := m.service.Authenticate(r.Context(), raw)
		if err != nil {
			if !errors.Is(err, ErrInvalidSession) {
				m.log.Errorf("Auth: authenticate: %v", err)
			}
			respond(w, http.StatusUnauthorized, map[string]string{"error": ErrInvalidSession.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(authctx.WithPrincipal(r.Context(), p)))
	})
}

// RequireAdmin authenticates like RequireAuth and then requires the admin role.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := authctx.PrincipalFrom(r.Context())
		if p.Role != user.RoleAdmin {
			respond(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
