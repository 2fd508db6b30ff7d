package yield_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

func reference(optTemp float64, optHumidity int, needs crop.WaterNeeds) crop.Reference {
	return crop.Reference{
		ID:              "test",
		Name:            "Test",
		OptimalTemp:     optTemp,
		OptimalHumidity: optHumidity,
		WaterNeeds:      needs,
	}
}

func snapshot(temp float64, humidity int, cond weather.Condition) weather.Snapshot {
	return weather.Snapshot{Temperature: temp, Humidity: humidity, Condition: cond}
}

func TestScore_OptimalConditions(t *testing.T) {
	result := yield.Score(
		snapshot(25, 70, weather.ConditionClear),
		health.BandExcellent,
		reference(25, 70, crop.WaterNeedsMedium),
	)

	assert.Equal(t, yield.LevelHigh, result.Level)
	assert.Equal(t, 100, result.Percentage)
	assert.InDelta(t, 1.0, result.Factor, 1e-9)
	assert.Equal(t, yield.Factors{Temperature: 1, Humidity: 1, Weather: 1, Health: 1}, result.Factors)
}

func TestScore_HotClearFairHealth(t *testing.T) {
	result := yield.Score(
		snapshot(40, 70, weather.ConditionClear),
		health.BandFair,
		reference(25, 70, crop.WaterNeedsMedium),
	)

	assert.InDelta(t, 0.6, result.Factors.Temperature, 1e-9)
	assert.InDelta(t, 1.0, result.Factors.Humidity, 1e-9)
	assert.InDelta(t, 0.7, result.Factors.Weather, 1e-9)
	assert.InDelta(t, 0.6, result.Factors.Health, 1e-9)
	assert.InDelta(t, 0.725, result.Factor, 1e-9)
	assert.Equal(t, yield.LevelMedium, result.Level)
	assert.Equal(t, 76, result.Percentage)
}

func TestTemperatureFactor_Boundaries(t *testing.T) {
	tests := []struct {
		diff     float64
		expected float64
	}{
		{0, 1.0},
		{5, 1.0},
		{5.1, 0.8},
		{10, 0.8},
		{10.1, 0.6},
		{15, 0.6},
		{15.1, 0.3},
		{30, 0.3},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, yield.TemperatureFactor(25+tt.diff, 25), 1e-9, "diff %v above", tt.diff)
		assert.InDelta(t, tt.expected, yield.TemperatureFactor(25-tt.diff, 25), 1e-9, "diff %v below", tt.diff)
	}
}

func TestHumidityFactor_Boundaries(t *testing.T) {
	tests := []struct {
		diff     int
		expected float64
	}{
		{0, 1.0},
		{10, 1.0},
		{11, 0.9},
		{20, 0.9},
		{21, 0.7},
		{30, 0.7},
		{31, 0.4},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, yield.HumidityFactor(50+tt.diff, 50), 1e-9, "diff %d above", tt.diff)
		assert.InDelta(t, tt.expected, yield.HumidityFactor(50-tt.diff, 50), 1e-9, "diff %d below", tt.diff)
	}
}

func TestWeatherFactor(t *testing.T) {
	medium := reference(25, 60, crop.WaterNeedsMedium)
	high := reference(25, 60, crop.WaterNeedsHigh)

	tests := []struct {
		name     string
		cond     weather.Condition
		temp     float64
		ref      crop.Reference
		expected float64
	}{
		{"rain medium water", weather.ConditionRain, 25, medium, 0.8},
		{"drizzle medium water", weather.ConditionDrizzle, 25, medium, 0.8},
		{"rain high water", weather.ConditionRain, 25, high, 0.9},
		{"drizzle high water", weather.ConditionDrizzle, 25, high, 0.9},
		{"thunderstorm", weather.ConditionThunderstorm, 25, high, 0.5},
		{"clear hot", weather.ConditionClear, 30.5, medium, 0.7},
		{"clear at margin", weather.ConditionClear, 30, medium, 1.0},
		{"clear mild", weather.ConditionClear, 25, medium, 1.0},
		{"clouds hot", weather.ConditionClouds, 40, medium, 1.0},
		{"unknown", weather.ConditionUnknown, 25, medium, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, yield.WeatherFactor(tt.cond, tt.temp, tt.ref), 1e-9)
		})
	}
}

func TestHealthFactor(t *testing.T) {
	assert.InDelta(t, 1.0, yield.HealthFactor(health.BandExcellent), 1e-9)
	assert.InDelta(t, 0.8, yield.HealthFactor(health.BandGood), 1e-9)
	assert.InDelta(t, 0.6, yield.HealthFactor(health.BandFair), 1e-9)
	assert.InDelta(t, 0.4, yield.HealthFactor(health.BandPoor), 1e-9)
	assert.InDelta(t, 0.4, yield.HealthFactor(health.BandUnknown), 1e-9)
	assert.InDelta(t, 0.4, yield.HealthFactor(health.BandVerificationFailed), 1e-9)
	assert.InDelta(t, 0.4, yield.HealthFactor(health.Band("SPARKLING")), 1e-9)
}

func TestScore_LevelPartition(t *testing.T) {
	temps := []float64{25, 31, 36, 41}
	humidities := []int{65, 76, 86, 96}
	conds := []weather.Condition{
		weather.ConditionClouds, weather.ConditionRain,
		weather.ConditionThunderstorm, weather.ConditionClear,
	}
	needs := []crop.WaterNeeds{crop.WaterNeedsMedium, crop.WaterNeedsHigh}

	for _, temp := range temps {
		for _, hum := range humidities {
			for _, cond := range conds {
				for _, need := range needs {
					for _, band := range health.Bands() {
						r := yield.Score(snapshot(temp, hum, cond), band, reference(25, 65, need))

						switch {
						case r.Factor >= 0.8:
							assert.Equal(t, yield.LevelHigh, r.Level)
							assert.GreaterOrEqual(t, r.Percentage, 85)
							assert.LessOrEqual(t, r.Percentage, 100)
						case r.Factor >= 0.6:
							assert.Equal(t, yield.LevelMedium, r.Level)
							assert.GreaterOrEqual(t, r.Percentage, 60)
							assert.Less(t, r.Percentage, 85)
						default:
							assert.Equal(t, yield.LevelLow, r.Level)
							assert.Less(t, r.Percentage, 60)
						}
					}
				}
			}
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	w := snapshot(33.4, 48, weather.ConditionDrizzle)
	ref := reference(28, 80, crop.WaterNeedsHigh)

	first := yield.Score(w, health.BandGood, ref)
	second := yield.Score(w, health.BandGood, ref)

	assert.Equal(t, first, second)
}

func TestScore_DefaultReferenceIsTotal(t *testing.T) {
	catalog, err := crop.DefaultCatalog()
	assert.NoError(t, err)

	r := yield.Score(snapshot(22, 60, weather.ConditionHaze), health.BandGood, catalog.Lookup("dragonfruit"))
	assert.Contains(t, yield.Levels(), r.Level)
	assert.Positive(t, r.Percentage)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		factor     float64
		level      yield.Level
		percentage int
	}{
		{1.0, yield.LevelHigh, 100},
		{0.8, yield.LevelHigh, 85},
		{0.775, yield.LevelMedium, 82},
		{0.6, yield.LevelMedium, 60},
		{0.575, yield.LevelLow, 59},
		{0.4, yield.LevelLow, 50},
		{0.0, yield.LevelLow, 30},
	}

	for _, tt := range tests {
		level, pct := yield.Classify(tt.factor)
		assert.Equal(t, tt.level, level, "factor %v", tt.factor)
		assert.Equal(t, tt.percentage, pct, "factor %v", tt.factor)
	}
}
