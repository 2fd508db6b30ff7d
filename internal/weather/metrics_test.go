package weather_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/yieldwise/yieldwise/internal/weather"
)

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_RecordsCacheMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	metrics, err := weather.NewMetrics()
	require.NoError(t, err)

	service := weather.NewService(weather.ServiceConfig{
		Provider: newMockProvider(),
		Logger:   zerolog.Nop(),
		CacheTTL: time.Minute,
		Metrics:  metrics,
	})

	for i := 0; i < 3; i++ {
		_, err := service.GetCurrentWeather(context.Background(), "Nagpur")
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), counterTotal(t, reader, "weather.cache.misses"))
	assert.Equal(t, int64(2), counterTotal(t, reader, "weather.cache.hits"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "weather.provider.requests"))
}

func TestService_NilMetrics(t *testing.T) {
	service := weather.NewService(weather.ServiceConfig{
		Provider: newMockProvider(),
		Logger:   zerolog.Nop(),
	})

	_, err := service.GetCurrentWeather(context.Background(), "Nagpur")
	assert.NoError(t, err)
}
