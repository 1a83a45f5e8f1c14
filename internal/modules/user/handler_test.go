package user

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/authctx"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// as authenticates every request as the given principal.
func as(p *authctx.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(authctx.WithPrincipal(r.Context(), p)))
		})
	}
}

func deny(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
}

func call(t *testing.T, h http.Handler, method, path, body string, out interface{}) int {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHandlerMe(t *testing.T) {
	r := chi.NewRouter()
	svc := NewService(newMemoryRepo(ana), addressRequired{}, quietLogger())
	NewHandler(svc, quietLogger()).RegisterRoutes(r, as(&authctx.Principal{UserID: 1, Role: RoleUser}), deny)

	var u User
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/users/me", "", &u))
	assert.Equal(t, "Ana", u.Name)

	var body map[string]interface{}
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/users/me", "", &body))
	assert.NotContains(t, body, "password_hash")

	assert.Equal(t, http.StatusOK, call(t, r, http.MethodPut, "/api/v1/users/me",
		`{"name":"Ana","address":"Calle 1","rut":"12345678-5","birth_date":"01/01/1990"}`, &u))
	assert.Equal(t, "Calle 1", *u.Address)

	var failure map[string]string
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, r, http.MethodPut, "/api/v1/users/me", `{"name":"Ana"}`, &failure))
	assert.Equal(t, "La dirección no puede estar vacía", failure["error"])

	assert.Equal(t, http.StatusForbidden, call(t, r, http.MethodGet, "/api/v1/users", "", nil))
}

func TestHandlerListForAdmin(t *testing.T) {
	r := chi.NewRouter()
	admin := &authctx.Principal{UserID: 1, Role: RoleAdmin}
	svc := NewService(newMemoryRepo(ana, User{ID: 2, Email: "b@mail.cl"}), addressRequired{}, quietLogger())
	NewHandler(svc, quietLogger()).RegisterRoutes(r, as(admin), func(next http.Handler) http.Handler { return next })

	var users []User
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/v1/users", "", &users))
	assert.Len(t, users, 2)
}
