package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/yieldwise/yieldwise/internal/config"
	"github.com/yieldwise/yieldwise/internal/telemetry"
)

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "yieldwise-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
	})

	require.NoError(t, err)
	assert.NotNil(t, provider.Tracer)
	assert.NotNil(t, provider.Meter)
	assert.Nil(t, provider.TracerProvider)
	assert.Nil(t, provider.MeterProvider)
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestProvider_Shutdown_NilProviders(t *testing.T) {
	provider := &telemetry.Provider{}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Environment: "staging",
		Telemetry: config.TelemetryConfig{
			Enabled:        true,
			OTLPEndpoint:   "collector:4317",
			SampleRatio:    0.25,
			MetricInterval: 30 * time.Second,
		},
		Build: config.BuildInfo{Version: "1.4.2"},
	}

	got := telemetry.FromConfig(cfg, "yieldwise-worker")

	assert.Equal(t, telemetry.Config{
		ServiceName:    "yieldwise-worker",
		ServiceVersion: "1.4.2",
		Environment:    "staging",
		OTLPEndpoint:   "collector:4317",
		Enabled:        true,
		SampleRatio:    0.25,
		MetricInterval: 30 * time.Second,
	}, got)
}

func TestNewTracerProvider_SampleRatio(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		recorded int
	}{
		{"always", 1, 1},
		{"never", 0, 0},
		{"clamped above one", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			tp := telemetry.NewTracerProvider(telemetry.Config{SampleRatio: tt.ratio}, nil,
				sdktrace.WithSpanProcessor(recorder))
			t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

			_, span := tp.Tracer("test").Start(context.Background(), "yield.score")
			span.End()

			assert.Len(t, recorder.Ended(), tt.recorded)
		})
	}
}

func TestSampler_FollowsParent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := telemetry.NewTracerProvider(telemetry.Config{SampleRatio: 1}, nil, sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	_, child := tp.Tracer("test").Start(ctx, "child")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Contains(t, telemetry.Sampler(0.5).Description(), "ParentBased")
}
