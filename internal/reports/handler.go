package reports

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/apotheca/apotheca/internal/catalog"
	"github.com/apotheca/apotheca/internal/expiry"
	"github.com/apotheca/apotheca/internal/platform/httpx"
	"github.com/apotheca/apotheca/internal/stock"
)

// Handler exposes inventory health reports over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	catalog *catalog.Service
}

// NewHandler builds the reports handler.
func NewHandler(logger *slog.Logger, service *Service, catalogService *catalog.Service) *Handler {
	return &Handler{logger: logger, service: service, catalog: catalogService}
}

// MountRoutes mounts the report endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/dashboard", h.Dashboard)
	r.Get("/reports/low-stock", h.LowStock)
	r.Get("/reports/expiring", h.Expiring)
	r.Get("/products/{id}/status", h.ProductStatus)
	r.Get("/products/{id}/reorder", h.Reorder)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard report failed", slog.Any("error", err))
		httpx.Internal(w)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	var override *stock.Thresholds
	q := r.URL.Query()
	if q.Get("critical") != "" || q.Get("low") != "" {
		critical, err := strconv.Atoi(q.Get("critical"))
		if err != nil {
			httpx.BadRequest(w, "critical must be an integer")
			return
		}
		low, err := strconv.Atoi(q.Get("low"))
		if err != nil {
			httpx.BadRequest(w, "low must be an integer")
			return
		}
		override = &stock.Thresholds{Critical: critical, Low: low}
	}

	items, err := h.service.LowStock(r.Context(), override)
	if err != nil {
		if errors.Is(err, stock.ErrInvalidThresholds) {
			httpx.BadRequest(w, err.Error())
			return
		}
		h.logger.Error("low stock report failed", slog.Any("error", err))
		httpx.Internal(w)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.ListEnvelope{Items: items, Total: len(items)})
}

func (h *Handler) Expiring(w http.ResponseWriter, r *http.Request) {
	within := 0
	if raw := r.URL.Query().Get("within"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpx.BadRequest(w, "within must be a non-negative integer")
			return
		}
		within = parsed
	}
	report, err := h.service.Expiring(r.Context(), within)
	if err != nil {
		h.logger.Error("expiring report failed", slog.Any("error", err))
		httpx.Internal(w)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// ProductStatus annotates one product with its canonical stock and expiry
// view, the shape list-driven UIs consume.
func (h *Handler) ProductStatus(w http.ResponseWriter, r *http.Request) {
	product, ok := h.fetchProduct(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product":       stock.Normalize(product),
		"stock_status":  stock.StatusFor(product),
		"expiry_status": expiry.StatusFor(product),
	})
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	product, ok := h.fetchProduct(w, r)
	if !ok {
		return
	}
	var history *stock.SalesHistory
	if raw := r.URL.Query().Get("monthly_velocity"); raw != "" {
		velocity, err := strconv.ParseFloat(raw, 64)
		if err != nil || velocity < 0 {
			httpx.BadRequest(w, "monthly_velocity must be a non-negative number")
			return
		}
		history = &stock.SalesHistory{MonthlyVelocity: velocity}
	}
	httpx.JSON(w, http.StatusOK, stock.Recommend(product, history))
}

func (h *Handler) fetchProduct(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid product id")
		return catalog.Product{}, false
	}
	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.NotFound(w, err.Error())
			return catalog.Product{}, false
		}
		h.logger.Error("fetch product failed", slog.Any("error", err))
		httpx.Internal(w)
		return catalog.Product{}, false
	}
	return product, true
}
