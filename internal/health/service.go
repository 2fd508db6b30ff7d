package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/yieldwise/yieldwise/internal/provider/resilience"
)

// ServiceConfig holds configuration for the analysis service.
type ServiceConfig struct {
	// Detector is the image analysis source (required).
	Detector Detector

	// Logger is the structured logger.
	Logger zerolog.Logger

	// Timeout bounds one analysis, including retries.
	// Default: 10 seconds
	Timeout time.Duration

	// MatchThreshold is the verification pass percentage.
	// Default: 60
	MatchThreshold float64

	// Retry controls retries of transient detector failures.
	// Default: one retry after 100ms.
	Retry *resilience.RetryPolicy

	// CircuitBreaker overrides the detector breaker settings.
	CircuitBreaker *resilience.CircuitBreakerConfig
}

// Service runs crop verification and health assessment.
type Service struct {
	detector  Detector
	logger    zerolog.Logger
	timeout   time.Duration
	threshold float64
	retry     resilience.RetryPolicy
	breaker   *gobreaker.CircuitBreaker[[]Detection]
}

// NewService creates a new analysis service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = DefaultMatchThreshold
	}

	retry := resilience.RetryPolicy{
		MaxRetries:      1,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	cbConfig := resilience.DefaultCircuitBreakerConfig("detector-" + cfg.Detector.Name())
	cbConfig.Logger = cfg.Logger
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}

	return &Service{
		detector:  cfg.Detector,
		logger:    cfg.Logger,
		timeout:   cfg.Timeout,
		threshold: cfg.MatchThreshold,
		retry:     retry,
		breaker:   resilience.NewCircuitBreaker[[]Detection](cbConfig),
	}
}

// MatchThreshold returns the configured verification threshold.
func (s *Service) MatchThreshold() float64 {
	return s.threshold
}

// DetectorName returns the name of the underlying detector.
func (s *Service) DetectorName() string {
	return s.detector.Name()
}

// BreakerState reports the detector circuit breaker state.
func (s *Service) BreakerState() gobreaker.State {
	return s.breaker.State()
}

// Analyze verifies that images show expectedCrop and assesses crop health.
// A failed verification is not an error: it is reported through the
// assessment band. Detector failures and timeouts return
// ErrAnalysisUnavailable.
func (s *Service) Analyze(ctx context.Context, expectedCrop string, images []Image) (*Result, error) {
	if err := CheckCount(len(images)); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	var detections []Detection
	err := resilience.Retry(ctx, s.retry, func() error {
		d, err := s.breaker.Execute(func() ([]Detection, error) {
			return s.detector.Detect(ctx, expectedCrop, images)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) ||
				errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return resilience.Permanent(err)
			}
			return err
		}
		detections = d
		return nil
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("detector", s.detector.Name()).
			Str("crop_id", expectedCrop).
			Int("images", len(images)).
			Dur("elapsed", time.Since(start)).
			Msg("image analysis failed")
		return nil, fmt.Errorf("%w: %w", ErrAnalysisUnavailable, err)
	}
	if len(detections) != len(images) {
		return nil, fmt.Errorf("%w: detector returned %d results for %d images",
			ErrAnalysisUnavailable, len(detections), len(images))
	}

	verification, assessment := Evaluate(expectedCrop, detections, s.threshold)

	advice := Advice(assessment.Band)
	if !verification.IsCorrectCrop {
		advice = FailureAdvice(verification)
	}

	s.logger.Debug().
		Str("crop_id", expectedCrop).
		Bool("verified", verification.IsCorrectCrop).
		Float64("match_pct", verification.MatchPercentage).
		Str("band", string(assessment.Band)).
		Dur("elapsed", time.Since(start)).
		Msg("image analysis complete")

	return &Result{
		Verification: verification,
		Assessment:   assessment,
		Advice:       advice,
	}, nil
}
