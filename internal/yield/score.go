// Package yield derives a heuristic yield estimate from weather, crop
// reference data and crop health.
package yield

import (
	"math"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/weather"
)

// Level is a coarse yield classification.
type Level string

// Level values.
const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Levels returns all levels, lowest first.
func Levels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh}
}

// Temperature deviation breakpoints (°C) and their factors. A deviation
// exactly on a breakpoint takes the less penalized bracket.
const (
	TempSevereDiff   = 15.0
	TempHighDiff     = 10.0
	TempModerateDiff = 5.0

	TempSevereFactor   = 0.3
	TempHighFactor     = 0.6
	TempModerateFactor = 0.8
)

// Humidity deviation breakpoints (%RH) and their factors.
const (
	HumiditySevereDiff   = 30
	HumidityHighDiff     = 20
	HumidityModerateDiff = 10

	HumiditySevereFactor   = 0.4
	HumidityHighFactor     = 0.7
	HumidityModerateFactor = 0.9
)

// Weather condition factors.
const (
	WetHighWaterFactor = 0.9
	WetFactor          = 0.8
	ThunderstormFactor = 0.5
	HotClearFactor     = 0.7

	// HotClearMargin is how far above optimal a clear day counts as hot.
	HotClearMargin = 5.0
)

// Health band factors. Any band without an entry scores HealthFallbackFactor.
const (
	HealthExcellentFactor = 1.0
	HealthGoodFactor      = 0.8
	HealthFairFactor      = 0.6
	HealthFallbackFactor  = 0.4
)

// Level thresholds on the composite factor and the percentage curve of
// each level: percentage = base + (factor - floor) * slope.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.6

	HighBase    = 85.0
	HighSlope   = 75.0
	MediumBase  = 60.0
	MediumSlope = 125.0
	LowBase     = 30.0
	LowSlope    = 50.0
)

// factorPrecision removes float noise from the mean before thresholding.
const factorPrecision = 1e9

// Factors are the four sub-scores averaged into the yield factor.
type Factors struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Weather     float64 `json:"weather"`
	Health      float64 `json:"health"`
}

// Result is a yield estimate. Percentage always lies in the range
// associated with Level.
type Result struct {
	Level      Level   `json:"level"`
	Percentage int     `json:"percentage"`
	Factor     float64 `json:"factor"`
	Factors    Factors `json:"factors"`
}

// Score combines a weather snapshot, a health band and a crop reference
// into a yield estimate. It is pure and total. Callers are expected to
// gate on health.BandVerificationFailed before calling; if they do not,
// that band scores as poor health.
func Score(w weather.Snapshot, band health.Band, ref crop.Reference) Result {
	f := Factors{
		Temperature: TemperatureFactor(w.Temperature, ref.OptimalTemp),
		Humidity:    HumidityFactor(w.Humidity, ref.OptimalHumidity),
		Weather:     WeatherFactor(w.Condition, w.Temperature, ref),
		Health:      HealthFactor(band),
	}

	factor := (f.Temperature + f.Humidity + f.Weather + f.Health) / 4
	factor = math.Round(factor*factorPrecision) / factorPrecision

	level, pct := Classify(factor)
	return Result{
		Level:      level,
		Percentage: pct,
		Factor:     factor,
		Factors:    f,
	}
}

// TemperatureFactor scores the deviation from the optimal temperature.
func TemperatureFactor(temperature, optimal float64) float64 {
	diff := math.Abs(temperature - optimal)
	switch {
	case diff > TempSevereDiff:
		return TempSevereFactor
	case diff > TempHighDiff:
		return TempHighFactor
	case diff > TempModerateDiff:
		return TempModerateFactor
	default:
		return 1.0
	}
}

// HumidityFactor scores the deviation from the optimal humidity.
func HumidityFactor(humidity, optimal int) float64 {
	diff := humidity - optimal
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff > HumiditySevereDiff:
		return HumiditySevereFactor
	case diff > HumidityHighDiff:
		return HumidityHighFactor
	case diff > HumidityModerateDiff:
		return HumidityModerateFactor
	default:
		return 1.0
	}
}

// WeatherFactor scores the current condition against the crop.
func WeatherFactor(cond weather.Condition, temperature float64, ref crop.Reference) float64 {
	switch {
	case cond.IsWet():
		if ref.WaterNeeds == crop.WaterNeedsHigh {
			return WetHighWaterFactor
		}
		return WetFactor
	case cond == weather.ConditionThunderstorm:
		return ThunderstormFactor
	case cond == weather.ConditionClear && temperature > ref.OptimalTemp+HotClearMargin:
		return HotClearFactor
	default:
		return 1.0
	}
}

// HealthFactor scores a health band.
func HealthFactor(band health.Band) float64 {
	switch band {
	case health.BandExcellent:
		return HealthExcellentFactor
	case health.BandGood:
		return HealthGoodFactor
	case health.BandFair:
		return HealthFairFactor
	default:
		return HealthFallbackFactor
	}
}

// Classify maps a composite factor to a level and percentage. Rounding is
// half-up; the low curve is not clamped.
func Classify(factor float64) (Level, int) {
	switch {
	case factor >= HighThreshold:
		return LevelHigh, roundHalfUp(HighBase + (factor-HighThreshold)*HighSlope)
	case factor >= MediumThreshold:
		return LevelMedium, roundHalfUp(MediumBase + (factor-MediumThreshold)*MediumSlope)
	default:
		return LevelLow, roundHalfUp(LowBase + factor*LowSlope)
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
