package lifecycle

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/apotheca/apotheca/internal/catalog"
	"github.com/apotheca/apotheca/internal/platform/httpx"
)

// Handler exposes lifecycle transitions over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the lifecycle handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes mounts the lifecycle endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/products/{id}/archive", h.Archive)
	r.Post("/products/{id}/restore", h.Restore)
	r.Post("/products/bulk/archive", h.BulkArchive)
	r.Post("/products/bulk/restore", h.BulkRestore)
	r.Post("/products/bulk/delete", h.BulkDelete)
}

type archiveRequest struct {
	Reason string `json:"reason" validate:"required"`
	Actor  string `json:"actor"`
}

type restoreRequest struct {
	Actor string `json:"actor"`
}

type bulkArchiveRequest struct {
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1"`
	Reason string      `json:"reason" validate:"required"`
	Actor  string      `json:"actor"`
}

type bulkIDsRequest struct {
	IDs   []uuid.UUID `json:"ids" validate:"required,min=1"`
	Actor string      `json:"actor"`
}

func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid product id")
		return
	}
	var req archiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	product, err := h.service.Archive(r.Context(), id, req.Reason, req.Actor)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid product id")
		return
	}
	// Body is optional on restore; an empty body means anonymous actor.
	var req restoreRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpx.BadRequest(w, "malformed JSON body")
		return
	}
	product, err := h.service.Restore(r.Context(), id, req.Actor)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) BulkArchive(w http.ResponseWriter, r *http.Request) {
	var req bulkArchiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	result, err := h.service.BulkArchive(r.Context(), req.IDs, req.Reason, req.Actor)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) BulkRestore(w http.ResponseWriter, r *http.Request) {
	var req bulkIDsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	result, err := h.service.BulkRestore(r.Context(), req.IDs, req.Actor)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkIDsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}
	report, err := h.service.BulkPermanentlyDelete(r.Context(), req.IDs, req.Actor)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		httpx.NotFound(w, err.Error())
	case errors.Is(err, ErrReasonRequired), errors.Is(err, ErrEmptyBatch):
		httpx.BadRequest(w, err.Error())
	default:
		h.logger.Error("lifecycle request failed", slog.Any("error", err))
		httpx.Internal(w)
	}
}
