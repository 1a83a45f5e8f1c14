package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/live"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler exposes cart HTTP endpoints.
type Handler struct {
	service Service
	log     *logrus.Logger
}

func NewHandler(service Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, log: logger}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", h.summary)                 // GET    /api/v1/cart
		r.Delete("/", h.clear)                // DELETE /api/v1/cart
		r.Get("/stream", h.stream)            // GET    /api/v1/cart/stream (websocket)
		r.Post("/items", h.addItem)           // POST   /api/v1/cart/items
		r.Patch("/items/{id}", h.updateItem)  // PATCH  /api/v1/cart/items/{id}
		r.Delete("/items/{id}", h.removeItem) // DELETE /api/v1/cart/items/{id}
	})
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, s)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.ProductID <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}
	item, err := h.service.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Quantity == nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "quantity is required"})
		return
	}
	item, err := h.service.UpdateQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	if item == nil {
		respond(w, http.StatusOK, map[string]string{"status": "item removed"})
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveItem(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "item removed"})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	live.ServeStream(w, r, h.service.Live(), h.log)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, catalog.ErrProductNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.log.Errorf("Cart: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
