package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/provider/resilience"
)

// Job types accepted on the subscription.
const (
	JobWeatherWarmup = "weather_warmup"
	JobHealthCheck   = "health_check"
)

// Errors returned by Processor.Handle.
var (
	// ErrMalformedMessage is returned when a message body is not a job.
	ErrMalformedMessage = errors.New("malformed job message")

	// ErrUnknownJob is returned for an unrecognized job_type.
	ErrUnknownJob = errors.New("unknown job type")
)

const healthCheckTimeout = 10 * time.Second

// JobMessage is the body of a worker Pub/Sub message.
type JobMessage struct {
	JobType string `json:"job_type"`

	// Locations overrides the configured regions for a warm-up.
	Locations []string `json:"locations,omitempty"`
}

// Processor decodes job messages and runs the matching job.
type Processor struct {
	warmup   *WarmupJob
	registry *resilience.Registry
	logger   zerolog.Logger
}

// ProcessorConfig holds configuration for a Processor.
type ProcessorConfig struct {
	Warmup *WarmupJob

	// Registry, when set, fails health checks while any provider's
	// circuit is open.
	Registry *resilience.Registry
	Logger   zerolog.Logger
}

// NewProcessor creates a new job processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		warmup:   cfg.Warmup,
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}
}

// Handle runs the job described by data.
func (p *Processor) Handle(ctx context.Context, data []byte) error {
	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch msg.JobType {
	case JobWeatherWarmup:
		return p.handleWarmup(ctx, msg)
	case JobHealthCheck:
		return p.handleHealthCheck(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, msg.JobType)
	}
}

func (p *Processor) handleWarmup(ctx context.Context, msg JobMessage) error {
	var result *WarmupResult
	if len(msg.Locations) > 0 {
		result = p.warmup.RunLocations(ctx, msg.Locations)
	} else {
		result = p.warmup.Run(ctx)
	}

	// Consider it successful if at least half succeeded.
	if result.Failed > result.Successful {
		return fmt.Errorf("too many warm-up failures: %d/%d", result.Failed, result.TotalLocations)
	}
	return nil
}

func (p *Processor) handleHealthCheck(ctx context.Context) error {
	p.logger.Debug().Msg("running health check")

	if p.registry != nil {
		var open []string
		for _, h := range p.registry.All() {
			if h.IsUnhealthy() {
				open = append(open, h.Name)
			}
		}
		if len(open) > 0 {
			return fmt.Errorf("health check failed: circuit open for %s", strings.Join(open, ", "))
		}
	}

	locations := p.warmup.config.Locations()
	if len(locations) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := p.warmup.warm(ctx, locations[0]); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	p.logger.Debug().Str("location", locations[0]).Msg("health check passed")
	return nil
}
