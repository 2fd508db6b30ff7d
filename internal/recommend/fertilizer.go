package recommend

import (
	"fmt"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// Adjustment thresholds for fertilizer advice.
const (
	FertilizerHeatTemp      = 30.0
	FertilizerHumidHumidity = 80
)

// NPKGuide is a per-crop nutrient schedule.
type NPKGuide struct {
	Nitrogen       string
	Phosphorus     string
	Potassium      string
	Micronutrients string
}

var npkGuides = crop.MustTable(map[string]NPKGuide{
	"rice": {
		Nitrogen:       "120-150 kg/ha in 3-4 splits",
		Phosphorus:     "60-80 kg/ha at transplanting",
		Potassium:      "40-60 kg/ha",
		Micronutrients: "Zinc sulfate 25 kg/ha",
	},
	"wheat": {
		Nitrogen:       "120-140 kg/ha in 2-3 splits",
		Phosphorus:     "60-80 kg/ha at sowing",
		Potassium:      "40-50 kg/ha",
		Micronutrients: "Zinc sulfate 20 kg/ha",
	},
	"corn": {
		Nitrogen:       "150-200 kg/ha in 3-4 splits",
		Phosphorus:     "80-100 kg/ha at sowing",
		Potassium:      "60-80 kg/ha",
		Micronutrients: "Zinc and boron supplements",
	},
	crop.DefaultID: {
		Nitrogen:       "100-120 kg/ha in 2-3 splits",
		Phosphorus:     "60 kg/ha at sowing",
		Potassium:      "40 kg/ha",
		Micronutrients: "As per soil test",
	},
})

var fertilizerGuidelines = []string{
	"\n📋 Application Guidelines:",
	"• Apply fertilizers during cool hours (early morning/evening)",
	"• Ensure adequate soil moisture before application",
	"• Split nitrogen applications to reduce losses",
}

// NPKFor returns the nutrient guide for a crop id, or the generic guide.
func NPKFor(cropID string) NPKGuide {
	return npkGuides.Get(cropID)
}

// Fertilizer returns nutrient advice keyed by yield level and conditions,
// ending with the application guidelines.
func Fertilizer(in Input) []string {
	g := NPKFor(in.Reference.ID)

	var out []string
	switch in.Yield.Level {
	case yield.LevelHigh:
		out = append(out,
			"🟢 Maintenance fertilization:",
			fmt.Sprintf("• Continue current NPK schedule: %s", g.Nitrogen),
			"• Focus on micronutrient balance",
		)
	case yield.LevelMedium:
		out = append(out,
			"🟡 Balanced fertilization for yield improvement:",
			fmt.Sprintf("• Nitrogen: %s", g.Nitrogen),
			fmt.Sprintf("• Phosphorus: %s", g.Phosphorus),
			fmt.Sprintf("• Potassium: %s", g.Potassium),
		)
	default:
		out = append(out,
			"🔴 Immediate fertilizer intervention needed:",
			fmt.Sprintf("• Nitrogen: Increase to %s (split application recommended)", g.Nitrogen),
			fmt.Sprintf("• Phosphorus: %s for root development", g.Phosphorus),
			fmt.Sprintf("• Potassium: %s for stress tolerance", g.Potassium),
			"• Consider foliar application of micronutrients for quick uptake",
		)
	}

	if in.Weather.Temperature > FertilizerHeatTemp {
		out = append(out, "🌡️ High temperature adjustment: Increase potassium for heat stress tolerance")
	}
	if in.Weather.Humidity > FertilizerHumidHumidity {
		out = append(out, "💧 High humidity: Reduce nitrogen to prevent excessive vegetative growth")
	}

	if in.Band == health.BandPoor {
		out = append(out,
			"🏥 Emergency nutrition: Apply liquid fertilizer for quick absorption",
			"• Foliar spray of 19:19:19 NPK @ 5g/liter every 10 days",
		)
	}

	return append(out, fertilizerGuidelines...)
}
