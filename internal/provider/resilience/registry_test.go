package resilience_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldwise/yieldwise/internal/provider/resilience"
)

func TestRegistry_RegisterAndHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	assert.Equal(t, 0, registry.Len())
	assert.Nil(t, registry.Health("missing"))

	client := resilience.NewClient(resilience.DefaultClientConfig("openweathermap"))
	registry.Register("openweathermap", client)

	require.Equal(t, 1, registry.Len())
	health := registry.Health("openweathermap")
	require.NotNil(t, health)
	assert.Equal(t, "openweathermap", health.Name)
	assert.Equal(t, gobreaker.StateClosed, health.CircuitState)
	assert.True(t, health.IsHealthy())
	assert.False(t, health.IsDegraded())
	assert.False(t, health.IsUnhealthy())
}

func TestRegistry_RecordOutcomes(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("weather", resilience.NewClient(resilience.DefaultClientConfig("weather")))

	registry.RecordSuccess("weather")
	registry.RecordFailure("weather", errors.New("upstream timeout"))

	health := registry.Health("weather")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastSuccessAt)
	assert.NotNil(t, health.LastFailureAt)
	assert.Equal(t, "upstream timeout", health.LastError)
}

func TestRegistry_RecordUnknownIsIgnored(t *testing.T) {
	registry := resilience.NewRegistry()

	registry.RecordSuccess("ghost")
	registry.RecordFailure("ghost", errors.New("boom"))

	assert.Equal(t, 0, registry.Len())
	assert.Nil(t, registry.Health("ghost"))
}

func TestRegistry_AllSortedByName(t *testing.T) {
	registry := resilience.NewRegistry()

	for _, name := range []string{"vision", "openweathermap", "crops"} {
		cfg := resilience.DefaultClientConfig(name)
		cfg.Registry = registry
		resilience.NewClient(cfg)
	}

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, "crops", all[0].Name)
	assert.Equal(t, "openweathermap", all[1].Name)
	assert.Equal(t, "vision", all[2].Name)
}

func TestProviderHealth_States(t *testing.T) {
	tests := []struct {
		state     gobreaker.State
		healthy   bool
		degraded  bool
		unhealthy bool
	}{
		{gobreaker.StateClosed, true, false, false},
		{gobreaker.StateHalfOpen, false, true, false},
		{gobreaker.StateOpen, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			h := &resilience.ProviderHealth{CircuitState: tt.state}
			assert.Equal(t, tt.healthy, h.IsHealthy())
			assert.Equal(t, tt.degraded, h.IsDegraded())
			assert.Equal(t, tt.unhealthy, h.IsUnhealthy())
		})
	}
}
