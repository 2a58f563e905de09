package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"billscan/internal/config"
	apierrors "billscan/internal/errors"
	"billscan/internal/infrastructure"
	"billscan/internal/middleware"
	"billscan/internal/services"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Analysis *services.AnalysisService
	Compare  *services.CompareService
	Version  string
}

// NewRouter builds the full API router with the middleware chain and
// all route registrations.
func NewRouter(deps RouterDeps) chi.Router {
	metrics := infrastructure.NewMetrics(deps.Registry)
	errorHandler := apierrors.NewErrorHandler(deps.Logger)

	uploadHandler := NewUploadHandler(deps.Analysis, deps.Config.Upload, metrics, deps.Logger, errorHandler)
	compareHandler := NewCompareHandler(deps.Compare, deps.Config.Upload, metrics, deps.Logger, errorHandler)
	healthHandler := NewHealthHandler(deps.Version)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RateLimit(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/upload", uploadHandler.Upload)
		r.Post("/upload/monthly", compareHandler.UploadMonthly)
		r.Post("/compare", compareHandler.Compare)
		r.Get("/health", healthHandler.HealthCheck)
	})

	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	return r
}
