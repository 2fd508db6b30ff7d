// Package main provides the entrypoint for the YieldWise API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/api"
	"github.com/yieldwise/yieldwise/internal/api/middleware"
	"github.com/yieldwise/yieldwise/internal/config"
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/prediction"
	"github.com/yieldwise/yieldwise/internal/provider/resilience"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/telemetry"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/weather/openweathermap"
	"github.com/yieldwise/yieldwise/internal/weather/simulated"
	"github.com/yieldwise/yieldwise/internal/worker"
)

const sessionSweepInterval = time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load configuration")
	}

	serviceName := cfg.Service
	log := cfg.NewLogger(serviceName)

	log.Info().
		Str("build_time", cfg.Build.BuildTime).
		Str("env", cfg.Environment).
		Msg("starting YieldWise API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.FromConfig(cfg, serviceName))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Float64("sample_ratio", cfg.Telemetry.SampleRatio).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	catalog, err := crop.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load crop catalog")
	}
	log.Info().Int("crops", catalog.Len()).Msg("crop catalog loaded")

	registry := resilience.NewRegistry()
	weatherSvc := newWeatherService(cfg.Weather, registry, log)

	warmup := worker.NewWarmupJob(worker.WarmupJobConfig{
		Config: worker.WarmupConfig{
			Regions:     worker.RegionsFromNames(cfg.Worker.Regions),
			Concurrency: cfg.Worker.Concurrency,
			Timeout:     cfg.Worker.JobTimeout,
		},
		Weather: weatherSvc,
		Logger:  log.With().Str("component", "warmup").Logger(),
	})
	if len(cfg.Worker.Regions) > 0 {
		go warmup.RunEvery(ctx, cfg.Weather.CacheTTL)
		log.Info().Strs("regions", cfg.Worker.Regions).Msg("in-process weather warm-up enabled")
	}

	// Jobs consumed here warm the same cache that serves requests.
	if cfg.Worker.ProjectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.Worker.ProjectID,
			SubscriptionName: cfg.Worker.SubscriptionID,
			Processor: worker.NewProcessor(worker.ProcessorConfig{
				Warmup:   warmup,
				Registry: registry,
				Logger:   log,
			}),
			Logger: log.With().Str("component", "jobs").Logger(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if err := handler.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close pubsub client")
			}
		}()

		go func() {
			if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("pubsub receive stopped")
			}
		}()
	}

	analysis := health.NewService(health.ServiceConfig{
		Detector:       health.NewSimulatedDetector(health.SimulatedDetectorConfig{Canonical: catalog.Resolve}),
		Logger:         log,
		Timeout:        cfg.Prediction.AnalysisTimeout,
		MatchThreshold: cfg.Prediction.VerificationMatchThreshold,
	})

	store := session.NewMemoryStore(session.MemoryStoreConfig{
		Logger:      log,
		TTL:         cfg.Session.TTL,
		MaxSessions: cfg.Session.MaxSessions,
	})
	go sweepSessions(ctx, store, log)

	predictionSvc := prediction.NewService(prediction.ServiceConfig{
		Sessions:       store,
		Weather:        weatherSvc,
		Analyzer:       analysis,
		Catalog:        catalog,
		Logger:         log,
		WeatherTimeout: cfg.Prediction.WeatherTimeout,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:     cfg.Build.Version,
		BuildTime:   cfg.Build.BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		RequireTLS:  cfg.Server.RequireTLS,
		Catalog:     catalog,
		Prediction:  predictionSvc,
		Registry:    registry,
		Weather:     weatherSvc,
		Analysis:    analysis,
		Sessions:    store,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

// newWeatherService selects OpenWeatherMap when a key is configured and
// the simulated source otherwise.
func newWeatherService(cfg config.WeatherConfig, registry *resilience.Registry, log zerolog.Logger) *weather.Service {
	var provider weather.Provider
	if cfg.UseSimulated() {
		provider = simulated.NewProvider(simulated.Config{})
		log.Warn().Msg("OPENWEATHERMAP_API_KEY not set - using simulated weather")
	} else {
		clientCfg := resilience.DefaultClientConfig(openweathermap.ProviderName)
		clientCfg.Registry = registry
		provider = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     cfg.OpenWeatherMapAPIKey,
			BaseURL:    cfg.OpenWeatherMapBaseURL,
			HTTPClient: resilience.NewClient(clientCfg),
			Logger:     log,
		})
	}

	metrics, err := weather.NewMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("weather metrics disabled")
	}

	return weather.NewService(weather.ServiceConfig{
		Provider:        provider,
		Logger:          log,
		CacheTTL:        cfg.CacheTTL,
		StaleIfErrorTTL: cfg.StaleIfErrorTTL,
		Metrics:         metrics,
	})
}

func sweepSessions(ctx context.Context, store *session.MemoryStore, log zerolog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Cleanup(); n > 0 {
				log.Debug().Int("expired", n).Msg("expired sessions removed")
			}
		}
	}
}
