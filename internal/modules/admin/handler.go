package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

// Handler exposes the back-office endpoints.
type Handler struct {
	service Service
	log     *logrus.Logger
}

func NewHandler(service Service, logger *logrus.Logger) *Handler {
	return &Handler{service: service, log: logger}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/dashboard", h.dashboard)                // GET    /api/v1/admin/dashboard
		r.Post("/products", h.createProduct)            // POST   /api/v1/admin/products
		r.Delete("/products/{id}", h.deleteProduct)     // DELETE /api/v1/admin/products/{id}
		r.Get("/products/{id}/remote", h.remoteProduct) // GET    /api/v1/admin/products/{id}/remote
		r.Post("/uploads", h.uploadImage)               // POST   /api/v1/admin/uploads (multipart "file")
		r.Get("/products/export", h.exportProducts)     // GET    /api/v1/admin/products/export
		r.Post("/products/import", h.importProducts)    // POST   /api/v1/admin/products/import (multipart "file")
		r.Get("/offers", h.remoteOffers)                // GET    /api/v1/admin/offers
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "product deleted"})
}

func (h *Handler) remoteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	p, err := h.service.RemoteProduct(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		path, _ := h.service.UploadImage(r.Context(), "", nil)
		respond(w, http.StatusOK, map[string]string{"path": path})
		return
	}
	defer file.Close()

	path, err := h.service.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"path": path})
}

func (h *Handler) exportProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.service.ExportProducts(r.Context(), w); err != nil {
		h.log.Errorf("Admin: export: %v", err)
		w.Header().Del("Content-Disposition")
		respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to write Excel file"})
	}
}

func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "Excel file is required"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "Excel file is required"})
		return
	}
	defer file.Close()

	report, err := h.service.ImportProducts(r.Context(), file, header.Size)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}

func (h *Handler) remoteOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.RemoteOffers(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, offers)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var statusErr *remote.StatusError
	var decodeErr *remote.DecodeError
	switch {
	case errors.Is(err, ErrInvalidProduct):
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, catalog.ErrProductNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case remote.IsUnavailable(err):
		respond(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.As(err, &statusErr), errors.As(err, &decodeErr):
		respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		h.log.Errorf("Admin: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
