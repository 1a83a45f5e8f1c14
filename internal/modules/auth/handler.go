package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/authctx"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler exposes the auth endpoints.
type Handler struct {
	service    Service
	middleware *Middleware
	log        *logrus.Logger
}

func NewHandler(service Service, middleware *Middleware, logger *logrus.Logger) *Handler {
	return &Handler{service: service, middleware: middleware, log: logger}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.With(h.middleware.RequireAuth).Post("/logout", h.logout)
		r.With(h.middleware.RequireAuth).Get("/session", h.session)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	Route     string `json:"route"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	p, _ := authctx.PrincipalFrom(r.Context())
	if err := h.service.Logout(r.Context(), p.SessionID); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	p, _ := authctx.PrincipalFrom(r.Context())
	respond(w, http.StatusOK, sessionResponse{
		UserID:    p.UserID,
		Role:      p.Role,
		SessionID: p.SessionID.String(),
		Route:     HomeRoute(p.Role),
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond(w, http.StatusUnprocessableEntity, verr)
	case errors.Is(err, user.ErrEmailTaken):
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidSession):
		respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	default:
		h.log.Errorf("Auth: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
