// Package api provides the HTTP API for the yield prediction wizard.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/api/handler"
	"github.com/yieldwise/yieldwise/internal/api/middleware"
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/prediction"
	"github.com/yieldwise/yieldwise/internal/provider/resilience"
	"github.com/yieldwise/yieldwise/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	RequireTLS  bool

	Catalog    *crop.Catalog
	Prediction *prediction.Service

	// Status reporting only.
	Registry *resilience.Registry
	Weather  *weather.Service
	Analysis *health.Service
	Sessions handler.SessionCounter
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "yieldwise-api"
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
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Catalog:   cfg.Catalog,
		Registry:  cfg.Registry,
		Weather:   cfg.Weather,
		Analysis:  cfg.Analysis,
		Sessions:  cfg.Sessions,
	})
	metadataHandler := handler.NewMetadataHandler()
	cropHandler := handler.NewCropHandler(cfg.Catalog)
	weatherHandler := handler.NewWeatherHandler(cfg.Prediction, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.Prediction, cfg.Logger)
	predictionHandler := handler.NewPredictionHandler(cfg.Prediction, cfg.Logger)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	sessionRateLimit := middleware.RateLimitBySession(middleware.ExpensiveRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints are not rate limited so probes never see 429.
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)

			r.Get("/metadata/enums", metadataHandler.GetEnums)

			r.Route("/crops", func(r chi.Router) {
				r.Get("/", cropHandler.ListCrops)
				r.Get("/{cropId}", cropHandler.GetCrop)
				r.Get("/{cropId}/photo-tips", cropHandler.GetPhotoTips)
			})

			r.Get("/weather", weatherHandler.GetWeather)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.With(middleware.RequireJSON).Post("/", sessionHandler.CreateSession)

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Delete("/", sessionHandler.DeleteSession)
				r.With(middleware.RequireJSON).Put("/location", sessionHandler.SetLocation)
				r.With(middleware.RequireJSON).Put("/crop", sessionHandler.SelectCrop)

				r.Group(func(r chi.Router) {
					r.Use(expensiveRateLimit, sessionRateLimit)
					r.With(middleware.RequireContentType("multipart/form-data")).Post("/images", sessionHandler.UploadImages)
					r.Post("/prediction", sessionHandler.Predict)
				})
			})
		})

		r.With(expensiveRateLimit, middleware.RequireJSON).Post("/predictions:score", predictionHandler.Score)
	})

	return r
}
