package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/georgemunganga/limpiohogar-backend/internal/platform/live"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service Service
	sync    *Synchronizer
	log     *logrus.Logger
}

func NewHandler(service Service, sync *Synchronizer, logger *logrus.Logger) *Handler {
	return &Handler{service: service, sync: sync, log: logger}
}

// RegisterRoutes mounts the catalog routes. requireAdmin guards the manual refresh.
func (h *Handler) RegisterRoutes(r *chi.Mux, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/stream", h.streamProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/offers", h.listOffers)
		r.Get("/categories", h.listCategories)
		r.Get("/categories/stream", h.streamCategories)
		r.Get("/categories/{id}", h.getCategory)
		r.Get("/sync", h.syncStatus)
		r.With(requireAdmin).Post("/refresh", h.refresh)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := ProductFilter{Query: r.URL.Query().Get("q")}
	if c := r.URL.Query().Get("category"); c != "" {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil || id <= 0 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
			return
		}
		filter.CategoryID = id
	}
	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.log.Errorf("Catalog: list products: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, found, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !found {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrProductNotFound.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListOffers(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, categories)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, found, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !found {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrCategoryNotFound.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) streamProducts(w http.ResponseWriter, r *http.Request) {
	live.ServeStream(w, r, h.service.Products(), h.log)
}

func (h *Handler) streamCategories(w http.ResponseWriter, r *http.Request) {
	live.ServeStream(w, r, h.service.Categories(), h.log)
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	res, ok := h.sync.Last()
	if !ok {
		respond(w, http.StatusOK, map[string]string{"outcome": "never"})
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	res := h.sync.Refresh(r.Context())
	respond(w, refreshStatus(res), res)
}

func refreshStatus(res Result) int {
	switch res.Outcome {
	case OutcomeOK:
		return http.StatusOK
	case OutcomeNetworkError:
		return http.StatusServiceUnavailable
	case OutcomeStoreError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
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
