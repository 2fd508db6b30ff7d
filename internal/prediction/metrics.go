package prediction

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/yieldwise/yieldwise/internal/prediction"

// Metrics holds prediction instruments. A nil *Metrics records nothing.
type Metrics struct {
	predictions   metric.Int64Counter
	verifications metric.Int64Counter
	latency       metric.Float64Histogram
}

// NewMetrics creates the prediction instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	predictions, err := meter.Int64Counter(
		"yieldwise.prediction.total",
		metric.WithDescription("Yield predictions produced, by level"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return nil, err
	}

	verifications, err := meter.Int64Counter(
		"yieldwise.verification.total",
		metric.WithDescription("Crop image verifications, by outcome"),
		metric.WithUnit("{verification}"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(
		"yieldwise.collaborator.duration",
		metric.WithDescription("Duration of weather and image analysis calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		predictions:   predictions,
		verifications: verifications,
		latency:       latency,
	}, nil
}

func (m *Metrics) recordPrediction(ctx context.Context, level, cropID string, stateless bool) {
	if m == nil {
		return
	}
	m.predictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("yield.level", level),
		attribute.String("crop.id", cropID),
		attribute.Bool("stateless", stateless),
	))
}

func (m *Metrics) recordVerification(ctx context.Context, passed bool, cropID string) {
	if m == nil {
		return
	}
	outcome := "passed"
	if !passed {
		outcome = "failed"
	}
	m.verifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("verification.outcome", outcome),
		attribute.String("crop.id", cropID),
	))
}

func (m *Metrics) recordLatency(ctx context.Context, collaborator string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.latency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("collaborator", collaborator),
		attribute.Bool("error", err != nil),
	))
}
