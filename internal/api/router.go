// Package api provides the HTTP API for CragMatch.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/api/handler"
	"github.com/cragmatch/cragmatch/internal/api/middleware"
	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/recommend"
)

// Selector is the recommendation engine the router serves.
type Selector interface {
	handler.Recommender
	handler.Trainer
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	RequireTLS  bool

	Catalog  catalog.Repository
	Selector Selector
	Importer handler.CatalogImporter
	Tokens   middleware.TokenValidator

	// BreakerState reports the catalog store circuit breaker. Optional.
	BreakerState func() string

	// MinStyleCount is the default style bucket threshold for /v1/stats.
	MinStyleCount int
}

// Ensure *recommend.Selector satisfies the router's Selector.
var _ Selector = (*recommend.Selector)(nil)

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "cragmatch-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Selector, cfg.BreakerState)
	catalogHandler := handler.NewCatalogHandler(cfg.Catalog, cfg.Logger)
	recommendHandler := handler.NewRecommendHandler(cfg.Selector, cfg.Logger)
	statsHandler := handler.NewStatsHandler(cfg.Catalog, cfg.MinStyleCount, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.Importer, cfg.Selector, cfg.Logger)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	recommendRateLimit := middleware.RateLimitByIP(middleware.RecommendRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/metadata/enums", catalogHandler.GetEnums)
			r.Get("/routes", catalogHandler.ListRoutes)
			r.Get("/stats", statsHandler.GetStats)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(recommendRateLimit)
			r.Use(middleware.RequireContentType("application/json"))
			r.Get("/", recommendHandler.RecommendQuery)
			r.Post("/", recommendHandler.Recommend)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.Tokens))
			r.Use(middleware.RateLimitBySubject(middleware.AdminRateLimit))

			r.With(middleware.RequireContentType("text/csv", "application/csv")).
				Post("/catalog:import", adminHandler.ImportCatalog)
			r.Post("/model:retrain", adminHandler.RetrainModel)
		})
	})

	return r
}
