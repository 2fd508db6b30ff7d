package prediction

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/recommend"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// WeatherSource returns current weather for a location.
type WeatherSource interface {
	GetCurrentWeather(ctx context.Context, location string) (*weather.Snapshot, error)
}

// Analyzer verifies crop images and assesses health.
type Analyzer interface {
	Analyze(ctx context.Context, expectedCrop string, images []health.Image) (*health.Result, error)
}

// ServiceConfig holds configuration for the prediction service.
type ServiceConfig struct {
	Sessions session.Store
	Weather  WeatherSource
	Analyzer Analyzer
	Catalog  *crop.Catalog
	Logger   zerolog.Logger

	// WeatherTimeout bounds a weather lookup.
	// Default: 5 seconds
	WeatherTimeout time.Duration

	// Metrics records prediction counters. If nil, instruments are created
	// on the global meter provider.
	Metrics *Metrics

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Service drives the wizard steps for a session.
type Service struct {
	sessions       session.Store
	weather        WeatherSource
	analyzer       Analyzer
	catalog        *crop.Catalog
	logger         zerolog.Logger
	weatherTimeout time.Duration
	metrics        *Metrics
	tracer         trace.Tracer
	now            func() time.Time
}

// NewService creates a new prediction service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.WeatherTimeout == 0 {
		cfg.WeatherTimeout = 5 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Metrics == nil {
		m, err := NewMetrics()
		if err != nil {
			cfg.Logger.Warn().Err(err).Msg("prediction metrics disabled")
		}
		cfg.Metrics = m
	}

	return &Service{
		sessions:       cfg.Sessions,
		weather:        cfg.Weather,
		analyzer:       cfg.Analyzer,
		catalog:        cfg.Catalog,
		logger:         cfg.Logger,
		weatherTimeout: cfg.WeatherTimeout,
		metrics:        cfg.Metrics,
		tracer:         otel.Tracer(instrumentationName),
		now:            cfg.Now,
	}
}

// CreateSession starts a new wizard.
func (s *Service) CreateSession(ctx context.Context) (*session.Session, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("session_id", sess.ID).Msg("session created")
	return sess, nil
}

// GetSession returns the current state of a wizard.
func (s *Service) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return s.sessions.Get(ctx, id)
}

// DeleteSession discards a wizard.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// SetLocation fetches weather for location and stores it on the session.
// Any earlier prediction is dropped because it was scored on other weather.
func (s *Service) SetLocation(ctx context.Context, id, location string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.fetchWeather(ctx, location)
	if err != nil {
		return nil, err
	}

	sess.Location = location
	sess.Weather = snapshot
	sess.Prediction = nil

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", id).
		Str("location", snapshot.Location).
		Float64("temperature", snapshot.Temperature).
		Str("condition", string(snapshot.Condition)).
		Msg("session location set")

	return sess, nil
}

// SelectCrop sets the session crop. Selecting a different crop clears the
// image analysis, so a failed verification can be resolved either by new
// images or by a new crop.
func (s *Service) SelectCrop(ctx context.Context, id, cropID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Weather == nil {
		return nil, &StepError{Required: session.StepLocation}
	}

	ref, err := s.catalog.Get(cropID)
	if err != nil {
		return nil, err
	}

	if sess.CropID != ref.ID {
		sess.ClearAnalysis()
	}
	sess.CropID = ref.ID

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitImages runs verification and health analysis on the images and
// stores the outcome. Replacing images always drops the previous
// analysis and prediction.
func (s *Service) SubmitImages(ctx context.Context, id string, images []health.Image) (*session.Session, error) {
	ctx, span := s.tracer.Start(ctx, "prediction.SubmitImages", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Int("images", len(images)),
	))
	defer span.End()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.CropID == "" {
		return nil, &StepError{Required: sess.NextStep()}
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, sess.CropID, images)
	s.metrics.recordLatency(ctx, "image_analysis", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image analysis failed")
		return nil, err
	}

	s.metrics.recordVerification(ctx, result.Verification.IsCorrectCrop, sess.CropID)
	span.SetAttributes(
		attribute.Bool("verification.passed", result.Verification.IsCorrectCrop),
		attribute.String("health.band", string(result.Assessment.Band)),
	)

	sess.ClearAnalysis()
	sess.Images = images
	sess.Analysis = result

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session_id", id).
		Str("crop_id", sess.CropID).
		Bool("verified", result.Verification.IsCorrectCrop).
		Float64("match_pct", result.Verification.MatchPercentage).
		Str("band", string(result.Assessment.Band)).
		Msg("images analyzed")

	return sess, nil
}

// Predict scores the session and stores the prediction. It returns a
// *VerificationError when the images failed verification and a
// *StepError when earlier steps are missing.
func (s *Service) Predict(ctx context.Context, id string) (*session.Session, error) {
	ctx, span := s.tracer.Start(ctx, "prediction.Predict", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if step := sess.NextStep(); step != session.StepPrediction && step != session.StepComplete {
		return nil, &StepError{Required: step}
	}

	if gateErr := verificationGate(sess.Analysis); gateErr != nil {
		span.SetStatus(codes.Error, "verification failed")
		return nil, gateErr
	}

	outcome := s.score(ctx, sess.CropID, *sess.Weather, sess.Analysis.Assessment.Band, false)
	sess.Prediction = &session.Prediction{
		Yield:           outcome.Yield,
		Recommendations: outcome.Recommendations,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("yield.level", string(outcome.Yield.Level)),
		attribute.Int("yield.percentage", outcome.Yield.Percentage),
	)

	s.logger.Info().
		Str("session_id", id).
		Str("crop_id", sess.CropID).
		Str("level", string(outcome.Yield.Level)).
		Int("percentage", outcome.Yield.Percentage).
		Msg("prediction complete")

	return sess, nil
}

// Score computes a yield estimate from explicit inputs without a session.
// Unknown crops score against the fallback reference.
func (s *Service) Score(ctx context.Context, in ScoreInput) (*Outcome, error) {
	if in.Band == health.BandVerificationFailed {
		return nil, &VerificationError{ExpectedCrop: in.CropID, DetectedCrop: "unknown"}
	}
	outcome := s.score(ctx, in.CropID, in.Weather, in.Band, true)
	return &outcome, nil
}

// Weather fetches a snapshot without touching any session.
func (s *Service) Weather(ctx context.Context, location string) (*weather.Snapshot, error) {
	return s.fetchWeather(ctx, location)
}

func (s *Service) score(ctx context.Context, cropID string, w weather.Snapshot, band health.Band, stateless bool) Outcome {
	ref := s.catalog.Lookup(cropID)
	result := yield.Score(w, band, ref)
	set := recommend.Recommend(w, band, ref, result)

	s.metrics.recordPrediction(ctx, string(result.Level), ref.ID, stateless)

	return Outcome{Crop: ref, Yield: result, Recommendations: set}
}

func (s *Service) fetchWeather(ctx context.Context, location string) (*weather.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.weatherTimeout)
	defer cancel()

	start := time.Now()
	snapshot, err := s.weather.GetCurrentWeather(ctx, location)
	s.metrics.recordLatency(ctx, "weather", start, err)
	return snapshot, err
}

func verificationGate(result *health.Result) error {
	if result == nil || result.Assessment.Band != health.BandVerificationFailed {
		return nil
	}
	return &VerificationError{
		ExpectedCrop: result.Verification.ExpectedCrop,
		DetectedCrop: result.Verification.DetectedCrop,
		Issues:       result.Assessment.DetectedIssues,
		Advice:       result.Advice,
	}
}
