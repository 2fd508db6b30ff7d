// Package simulated provides a deterministic stand-in weather source used
// when no real provider is configured.
package simulated

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/yieldwise/yieldwise/internal/weather"
)

// ProviderName identifies this weather provider.
const ProviderName = "simulated"

// DefaultBaseTemperature applies to locations without a regional match.
const DefaultBaseTemperature = 22.0

// regionalBase maps location substrings to a base temperature in Celsius.
// Order matters: the first matching entry wins.
var regionalBase = []struct {
	names []string
	temp  float64
}{
	{[]string{"miami", "phoenix"}, 28},
	{[]string{"seattle", "portland"}, 15},
	{[]string{"chicago", "detroit"}, 18},
	{[]string{"los angeles", "san diego"}, 22},
	{[]string{"new york", "boston"}, 20},
}

// conditionWeights are cumulative-sampled in order.
var conditionWeights = []struct {
	condition weather.Condition
	weight    float64
}{
	{weather.ConditionClear, 0.4},
	{weather.ConditionClouds, 0.3},
	{weather.ConditionRain, 0.2},
	{weather.ConditionDrizzle, 0.1},
}

// Config holds configuration for the simulated provider.
type Config struct {
	// Now returns the observation time (default: time.Now).
	Now func() time.Time
}

// Provider generates plausible weather seeded by the location name.
// The same location always yields the same snapshot.
type Provider struct {
	now func() time.Time
}

// NewProvider creates a simulated weather provider.
func NewProvider(cfg Config) *Provider {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{now: now}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// GetCurrentWeather returns a snapshot for the location.
func (p *Provider) GetCurrentWeather(ctx context.Context, location string) (*weather.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := weather.NormalizeLocation(location)
	if key == "" {
		return nil, weather.ErrInvalidLocation
	}

	rng := rand.New(rand.NewPCG(seed(key), 0x9e3779b97f4a7c15))

	temp := BaseTemperature(key) + (rng.Float64()*10 - 5)
	humidity := rng.IntN(40) + 40
	pressure := rng.IntN(50) + 1000
	condition := pickCondition(rng.Float64())

	now := p.now()
	return &weather.Snapshot{
		Location:    location,
		Temperature: round1(temp),
		FeelsLike:   round1(temp - 2),
		TempMin:     round1(temp - 5),
		TempMax:     round1(temp + 5),
		Humidity:    humidity,
		Pressure:    pressure,
		Condition:   condition,
		Description: strings.ToLower(string(condition)),
		ObservedAt:  now,
		FetchedAt:   now,
		Source:      ProviderName,
	}, nil
}

// BaseTemperature returns the regional base temperature for a location.
func BaseTemperature(location string) float64 {
	key := weather.NormalizeLocation(location)
	for _, region := range regionalBase {
		for _, name := range region.names {
			if strings.Contains(key, name) {
				return region.temp
			}
		}
	}
	return DefaultBaseTemperature
}

func pickCondition(r float64) weather.Condition {
	sum := 0.0
	for _, cw := range conditionWeights {
		sum += cw.weight
		if r <= sum {
			return cw.condition
		}
	}
	return conditionWeights[0].condition
}

func seed(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
