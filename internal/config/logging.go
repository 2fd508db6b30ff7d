package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger for service, writing JSON to
// stdout at the configured level. Development builds log human-readable
// console output instead.
func (c *Config) NewLogger(service string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if c.Environment == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return c.newLogger(w, service)
}

func (c *Config) newLogger(w io.Writer, service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Str("version", c.Build.Version).
		Logger()
}
