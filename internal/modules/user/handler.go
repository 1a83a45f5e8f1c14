package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/authctx"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
	log     *logrus.Logger
}

func NewHandler(service Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, log: logger}
}

func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	router.Route("/api/v1/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", h.me)
		r.Put("/me", h.updateMe)
		r.With(requireAdmin).Get("/", h.list)
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := authctx.PrincipalFrom(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	u, err := h.service.GetUser(r.Context(), p.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := authctx.PrincipalFrom(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	u, err := h.service.UpdateProfile(r.Context(), p.UserID, &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, users)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var invalid *InvalidProfileError
	switch {
	case errors.Is(err, ErrUserNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &invalid):
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": invalid.Error()})
	default:
		h.log.Errorf("Users: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
