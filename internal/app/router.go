package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apotheca/apotheca/internal/audit"
	"github.com/apotheca/apotheca/internal/catalog"
	"github.com/apotheca/apotheca/internal/lifecycle"
	"github.com/apotheca/apotheca/internal/reports"
	"github.com/apotheca/apotheca/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CatalogHandler   *catalog.Handler
	LifecycleHandler *lifecycle.Handler
	ReportsHandler   *reports.Handler
	AuditHandler     *audit.Handler
	JobsHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with Apotheca defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		params.CatalogHandler.MountRoutes(r)
		params.LifecycleHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)
		if params.AuditHandler != nil {
			params.AuditHandler.MountRoutes(r)
		}
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
