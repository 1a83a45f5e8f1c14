package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/authctx"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	log     *logrus.Logger
}

func NewHandler(service Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, log: logger}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/checkout", h.checkout)                    // POST /api/v1/orders/checkout
		r.Get("/", h.listOrders)                           // GET  /api/v1/orders
		r.Get("/{id}", h.getOrder)                         // GET  /api/v1/orders/{id}
		r.Get("/receipts/{remote_id}", h.getRemoteReceipt) // GET  /api/v1/orders/receipts/{remote_id}
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	p, _ := authctx.PrincipalFrom(r.Context())
	o, err := h.service.Checkout(r.Context(), p.UserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", p.UserID).Warn("Checkout: failed")
		respond(w, checkoutStatus(err), CheckoutResponse{Route: RouteCheckoutFailed, Error: err.Error()})
		return
	}
	respond(w, http.StatusCreated, CheckoutResponse{Order: o, Route: RouteCheckoutSuccess})
}

func checkoutStatus(err error) int {
	var statusErr *remote.StatusError
	var decodeErr *remote.DecodeError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case remote.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &statusErr), errors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := authctx.PrincipalFrom(r.Context())
	orders, err := h.service.ListOrders(r.Context(), p.UserID)
	if err != nil {
		h.log.Errorf("Orders: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, _ := authctx.PrincipalFrom(r.Context())
	o, err := h.service.GetOrder(r.Context(), id)
	if errors.Is(err, ErrOrderNotFound) || (err == nil && o.UserID != p.UserID && p.Role != user.RoleAdmin) {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrOrderNotFound.Error()})
		return
	}
	if err != nil {
		h.log.Errorf("Orders: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) getRemoteReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "remote_id")
	if !ok {
		return
	}
	b, err := h.service.GetRemoteReceipt(r.Context(), id)
	if err != nil {
		code := http.StatusBadGateway
		if remote.IsNotFound(err) {
			code = http.StatusNotFound
		} else if remote.IsUnavailable(err) {
			code = http.StatusServiceUnavailable
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, b)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
