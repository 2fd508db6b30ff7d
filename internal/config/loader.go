package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Set via ldflags.
var (
	version   = "dev"
	buildTime = "unknown"
)

// ConfigError is returned by LoadConfig and the Require helpers.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig reads a .env file if present, processes the environment into
// a Config and validates it. Existing environment variables take priority
// over the .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = BuildInfo{Version: version, BuildTime: buildTime}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}

// RequireWorker checks the settings the worker cannot start without.
func (c *Config) RequireWorker() error {
	if c.Worker.ProjectID == "" {
		return &ConfigError{
			Type:    ErrMissingEnv,
			Message: "GCP_PROJECT_ID is required for the worker",
		}
	}
	return nil
}
