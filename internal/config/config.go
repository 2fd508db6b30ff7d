// Package config defines the process configuration for YieldWise services.
//
// Values are resolved from the OS environment, with an optional .env file
// for local development. Every binary loads configuration once at startup
// and fails fast on invalid values.
package config

import "time"

// Config is the top-level configuration shared by the API server and the
// worker. Components receive only the sub-struct they need.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development" validate:"oneof=development test staging production"`
	Service     string `envconfig:"OTEL_SERVICE_NAME" default:"yieldwise-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`

	Server     ServerConfig
	Telemetry  TelemetryConfig
	Weather    WeatherConfig
	Prediction PredictionConfig
	Session    SessionConfig
	Worker     WorkerConfig

	// Build is injected via ldflags, not the environment.
	Build BuildInfo `ignored:"true"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `envconfig:"APP_PORT" default:"8080" validate:"numeric"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	RequireTLS   bool          `envconfig:"REQUIRE_TLS" default:"false"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled        bool          `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint   string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317" validate:"required"`
	SampleRatio    float64       `envconfig:"OTEL_TRACES_SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `envconfig:"OTEL_METRIC_INTERVAL" default:"15s" validate:"gt=0"`
}

// WeatherConfig selects and tunes the weather source. The simulated source
// is used when no OpenWeatherMap key is set.
type WeatherConfig struct {
	OpenWeatherMapAPIKey  string        `envconfig:"OPENWEATHERMAP_API_KEY"`
	OpenWeatherMapBaseURL string        `envconfig:"OPENWEATHERMAP_BASE_URL" default:"https://api.openweathermap.org/data/2.5" validate:"url"`
	CacheTTL              time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"10m" validate:"min=0"`
	StaleIfErrorTTL       time.Duration `envconfig:"WEATHER_STALE_TTL" default:"1h" validate:"min=0"`
}

// UseSimulated reports whether the simulated weather source should be used.
func (w WeatherConfig) UseSimulated() bool {
	return w.OpenWeatherMapAPIKey == ""
}

// PredictionConfig bounds the collaborators of the prediction wizard.
type PredictionConfig struct {
	WeatherTimeout             time.Duration `envconfig:"PREDICTION_WEATHER_TIMEOUT" default:"5s" validate:"gt=0"`
	AnalysisTimeout            time.Duration `envconfig:"PREDICTION_ANALYSIS_TIMEOUT" default:"10s" validate:"gt=0"`
	VerificationMatchThreshold float64       `envconfig:"VERIFICATION_MATCH_THRESHOLD" default:"60" validate:"gt=0,lte=100"`
}

// SessionConfig bounds the in-memory wizard session store.
type SessionConfig struct {
	TTL         time.Duration `envconfig:"SESSION_TTL" default:"1h" validate:"gt=0"`
	MaxSessions int           `envconfig:"SESSION_MAX" default:"10000" validate:"gt=0"`
}

// WorkerConfig holds Pub/Sub settings for the background worker.
type WorkerConfig struct {
	ProjectID      string        `envconfig:"GCP_PROJECT_ID"`
	SubscriptionID string        `envconfig:"PUBSUB_SUBSCRIPTION" default:"yieldwise-worker-sub"`
	Concurrency    int           `envconfig:"WORKER_CONCURRENCY" default:"3" validate:"min=1,max=32"`
	JobTimeout     time.Duration `envconfig:"WORKER_JOB_TIMEOUT" default:"30s" validate:"gt=0"`
	Regions        []string      `envconfig:"WORKER_REGIONS"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrParsing indicates an environment value could not be converted.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrValidation indicates a value was parsed but is out of range.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrMissingEnv indicates a value required by a binary is unset.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
)
