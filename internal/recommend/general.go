package recommend

import (
	"fmt"
	"math"

	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// Deviation limits beyond which general advice calls out temperature or humidity.
const (
	GeneralTempDeviation     = 5.0
	GeneralHumidityDeviation = 15
)

var headlines = map[yield.Level][]string{
	yield.LevelHigh: {
		"🎉 Excellent! Your conditions are optimal for high yield. Maintain current practices.",
		"Focus on consistent monitoring and preventive measures to sustain this performance.",
	},
	yield.LevelMedium: {
		"⚠️ Good potential, but there's room for improvement to achieve higher yields.",
		"Consider implementing the specific recommendations below to boost your yield.",
	},
	yield.LevelLow: {
		"🚨 Current conditions may result in lower yields. Immediate action recommended.",
		"Follow the detailed recommendations below to improve your crop's performance.",
	},
}

// General returns the headline for the yield level followed by deviation
// and health advice.
func General(in Input) []string {
	headline, ok := headlines[in.Yield.Level]
	if !ok {
		headline = headlines[yield.LevelLow]
	}
	out := append([]string(nil), headline...)

	w, ref := in.Weather, in.Reference

	tempDiff := w.Temperature - ref.OptimalTemp
	if math.Abs(tempDiff) > GeneralTempDeviation {
		deg := roundHalfUp(math.Abs(tempDiff))
		if tempDiff > 0 {
			out = append(out, fmt.Sprintf("🌡️ Temperature is %d°C above optimal. Provide shade and increase irrigation frequency.", deg))
		} else {
			out = append(out, fmt.Sprintf("🌡️ Temperature is %d°C below optimal. Consider protective covers and reduce watering.", deg))
		}
	}

	humDiff := w.Humidity - ref.OptimalHumidity
	if humDiff > GeneralHumidityDeviation {
		out = append(out, fmt.Sprintf("💧 Humidity is high (%d%%). Ensure good air circulation and watch for fungal diseases.", w.Humidity))
	} else if humDiff < -GeneralHumidityDeviation {
		out = append(out, fmt.Sprintf("💧 Humidity is low (%d%%). Increase watering and consider mulching to retain moisture.", w.Humidity))
	}

	switch in.Band {
	case health.BandPoor:
		out = append(out,
			"🏥 Immediate intervention needed. Check for diseases, pests, and nutrient deficiencies.",
			"Consider consulting with a local agricultural extension officer.",
		)
	case health.BandFair:
		out = append(out, "📈 Your crop needs attention. Regular monitoring and targeted treatments will help.")
	}

	return out
}
