package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldwise/yieldwise/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Weather.StaleIfErrorTTL)
	assert.True(t, cfg.Weather.UseSimulated())
	assert.Equal(t, 5*time.Second, cfg.Prediction.WeatherTimeout)
	assert.Equal(t, 10*time.Second, cfg.Prediction.AnalysisTimeout)
	assert.InDelta(t, 60.0, cfg.Prediction.VerificationMatchThreshold, 1e-9)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
	assert.Equal(t, 15*time.Second, cfg.Telemetry.MetricInterval)
	assert.Equal(t, "dev", cfg.Build.Version)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("OPENWEATHERMAP_API_KEY", "abc123")
	t.Setenv("PREDICTION_ANALYSIS_TIMEOUT", "3s")
	t.Setenv("VERIFICATION_MATCH_THRESHOLD", "75")
	t.Setenv("WORKER_REGIONS", "Punjab,Iowa")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Weather.UseSimulated())
	assert.Equal(t, 3*time.Second, cfg.Prediction.AnalysisTimeout)
	assert.InDelta(t, 75.0, cfg.Prediction.VerificationMatchThreshold, 1e-9)
	assert.Equal(t, []string{"Punjab", "Iowa"}, cfg.Worker.Regions)
}

func TestLoadConfig_ParsingError(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")

	_, err := config.LoadConfig()
	require.Error(t, err)

	var cfgErr *config.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.ErrParsing, cfgErr.Type)
}

func TestLoadConfig_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"threshold above 100", "VERIFICATION_MATCH_THRESHOLD", "120"},
		{"unknown environment", "APP_ENV", "moon"},
		{"non numeric port", "APP_PORT", "http"},
		{"zero concurrency", "WORKER_CONCURRENCY", "0"},
		{"sample ratio above one", "OTEL_TRACES_SAMPLE_RATIO", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := config.LoadConfig()
			require.Error(t, err)

			var cfgErr *config.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, config.ErrValidation, cfgErr.Type)
			assert.Contains(t, err.Error(), "VALIDATION_FAILED")
		})
	}
}

func TestRequireWorker(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.RequireWorker()
	require.Error(t, err)

	var cfgErr *config.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.ErrMissingEnv, cfgErr.Type)

	cfg.Worker.ProjectID = "yieldwise-prod"
	assert.NoError(t, cfg.RequireWorker())
}

func TestConfigError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &config.ConfigError{Type: config.ErrParsing, Message: "bad", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "[PARSING_FAILED] bad: boom", err.Error())
}
