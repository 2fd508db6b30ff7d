package simulated_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/weather/simulated"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func TestProvider_Name(t *testing.T) {
	p := simulated.NewProvider(simulated.Config{})
	assert.Equal(t, "simulated", p.Name())
}

func TestProvider_Deterministic(t *testing.T) {
	p := simulated.NewProvider(simulated.Config{Now: fixedNow})

	a, err := p.GetCurrentWeather(context.Background(), "Phoenix, AZ")
	require.NoError(t, err)
	b, err := p.GetCurrentWeather(context.Background(), "  phoenix,   az")
	require.NoError(t, err)

	assert.Equal(t, a.Temperature, b.Temperature)
	assert.Equal(t, a.Humidity, b.Humidity)
	assert.Equal(t, a.Pressure, b.Pressure)
	assert.Equal(t, a.Condition, b.Condition)
}

func TestProvider_Ranges(t *testing.T) {
	p := simulated.NewProvider(simulated.Config{Now: fixedNow})

	locations := []string{
		"Miami", "Seattle", "Chicago", "Los Angeles", "New York",
		"Nairobi", "Ludhiana", "Des Moines", "Cairo", "Lima",
	}

	for _, loc := range locations {
		t.Run(loc, func(t *testing.T) {
			snap, err := p.GetCurrentWeather(context.Background(), loc)
			require.NoError(t, err)

			base := simulated.BaseTemperature(loc)
			assert.GreaterOrEqual(t, snap.Temperature, base-5)
			assert.LessOrEqual(t, snap.Temperature, base+5)
			assert.InDelta(t, snap.Temperature-5, snap.TempMin, 0.11)
			assert.InDelta(t, snap.Temperature+5, snap.TempMax, 0.11)
			assert.InDelta(t, snap.Temperature-2, snap.FeelsLike, 0.11)

			assert.GreaterOrEqual(t, snap.Humidity, 40)
			assert.Less(t, snap.Humidity, 80)
			assert.GreaterOrEqual(t, snap.Pressure, 1000)
			assert.Less(t, snap.Pressure, 1050)

			assert.Contains(t, []weather.Condition{
				weather.ConditionClear,
				weather.ConditionClouds,
				weather.ConditionRain,
				weather.ConditionDrizzle,
			}, snap.Condition)

			assert.Equal(t, "simulated", snap.Source)
			assert.Equal(t, fixedNow(), snap.ObservedAt)
		})
	}
}

func TestBaseTemperature(t *testing.T) {
	tests := []struct {
		location string
		expected float64
	}{
		{"Miami Beach", 28},
		{"PHOENIX", 28},
		{"Seattle", 15},
		{"Portland, OR", 15},
		{"Chicago", 18},
		{"Detroit", 18},
		{"Los Angeles", 22},
		{"San Diego", 22},
		{"New York", 20},
		{"Boston", 20},
		{"Ludhiana", 22},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.expected, simulated.BaseTemperature(tt.location))
		})
	}
}

func TestProvider_EmptyLocation(t *testing.T) {
	p := simulated.NewProvider(simulated.Config{})
	_, err := p.GetCurrentWeather(context.Background(), " ")
	assert.ErrorIs(t, err, weather.ErrInvalidLocation)
}

func TestProvider_CanceledContext(t *testing.T) {
	p := simulated.NewProvider(simulated.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.GetCurrentWeather(ctx, "Miami")
	assert.ErrorIs(t, err, context.Canceled)
}
