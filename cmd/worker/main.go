// Package main provides the entrypoint for the YieldWise background worker.
//
// The worker keeps its own weather cache, so its warm-ups only exercise the
// provider. Warm-ups meant to speed up requests go to a subscription the API
// server consumes (GCP_PROJECT_ID set on the API). Point this binary at a
// separate subscription for provider health checks.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/config"
	"github.com/yieldwise/yieldwise/internal/provider/resilience"
	"github.com/yieldwise/yieldwise/internal/telemetry"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/weather/openweathermap"
	"github.com/yieldwise/yieldwise/internal/weather/simulated"
	"github.com/yieldwise/yieldwise/internal/worker"
)

const serviceName = "yieldwise-worker"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load configuration")
	}
	log := cfg.NewLogger(serviceName)

	if err := cfg.RequireWorker(); err != nil {
		log.Fatal().Err(err).Msg("invalid worker configuration")
	}

	log.Info().
		Str("build_time", cfg.Build.BuildTime).
		Str("subscription", cfg.Worker.SubscriptionID).
		Msg("starting YieldWise worker")

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

	registry := resilience.NewRegistry()
	weatherSvc := newWeatherService(cfg.Weather, registry, log)

	warmupCfg := worker.WarmupConfig{
		Regions:     worker.RegionsFromNames(cfg.Worker.Regions),
		Concurrency: cfg.Worker.Concurrency,
		Timeout:     cfg.Worker.JobTimeout,
	}
	warmup := worker.NewWarmupJob(worker.WarmupJobConfig{
		Config:  warmupCfg,
		Weather: weatherSvc,
		Logger:  log,
	})
	processor := worker.NewProcessor(worker.ProcessorConfig{
		Warmup:   warmup,
		Registry: registry,
		Logger:   log,
	})

	handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        cfg.Worker.ProjectID,
		SubscriptionName: cfg.Worker.SubscriptionID,
		Processor:        processor,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub handler")
	}
	defer func() {
		if err := handler.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close pubsub client")
		}
	}()

	// Cloud Run requires a listening port.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck // best effort
			"status":  "OK",
			"version": cfg.Build.Version,
			"warmup":  warmup.StatsSnapshot(),
		})
	})
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	go func() {
		if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("pubsub receive stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down worker")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func newWeatherService(cfg config.WeatherConfig, registry *resilience.Registry, log zerolog.Logger) *weather.Service {
	var provider weather.Provider = simulated.NewProvider(simulated.Config{})
	if !cfg.UseSimulated() {
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
