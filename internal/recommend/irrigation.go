package recommend

import (
	"fmt"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// DryHumidity is the humidity under which a clear day counts as dry.
const DryHumidity = 50

var criticalStages = crop.MustTable(map[string][]string{
	"rice":         {"Tillering", "Panicle initiation", "Grain filling"},
	"wheat":        {"Crown root initiation", "Jointing", "Grain filling"},
	"corn":         {"Tasseling", "Silking", "Grain filling"},
	"cotton":       {"Squaring", "Flowering", "Boll development"},
	"tomato":       {"Flowering", "Fruit set", "Fruit development"},
	crop.DefaultID: {"Vegetative growth", "Flowering", "Fruit/grain development"},
})

var irrigationSchedules = map[crop.WaterNeeds][]string{
	crop.WaterNeedsHigh: {
		"💧 High Water Requirement Crop:",
		"• Maintain consistent soil moisture (80-90% field capacity)",
		"• Irrigate every 2-3 days during peak growth",
	},
	crop.WaterNeedsMedium: {
		"💧 Moderate Water Requirement:",
		"• Maintain soil moisture at 70-80% field capacity",
		"• Irrigate every 4-5 days or as needed",
	},
	crop.WaterNeedsLow: {
		"💧 Low Water Requirement:",
		"• Allow soil to dry between irrigations",
		"• Irrigate every 7-10 days or based on soil moisture",
	},
}

var irrigationGuidelines = []string{
	"\n📏 Irrigation Guidelines:",
	"• Check soil moisture at 6-inch depth",
	"• Water deeply but less frequently",
	"• Avoid overhead irrigation during flowering",
}

// CriticalStagesFor returns the growth stages where water stress costs the
// most yield for a crop id.
func CriticalStagesFor(cropID string) []string {
	return criticalStages.Get(cropID)
}

// Irrigation returns the water-needs schedule, weather adjustments, the
// crop's critical stages, and measurement guidelines.
func Irrigation(in Input) []string {
	var out []string

	schedule, ok := irrigationSchedules[in.Reference.WaterNeeds]
	if !ok {
		schedule = irrigationSchedules[crop.WaterNeedsMedium]
	}
	out = append(out, schedule...)

	w := in.Weather
	switch {
	case w.Condition.IsWet():
		out = append(out,
			"🌧️ Recent rainfall detected:",
			"• Reduce or skip next irrigation",
			"• Ensure proper drainage to prevent waterlogging",
			"• Monitor for fungal diseases due to high moisture",
		)
	case w.Condition == weather.ConditionClear && w.Humidity < DryHumidity:
		out = append(out,
			"☀️ Hot and dry conditions:",
			"• Increase irrigation frequency",
			"• Consider mulching to reduce evaporation",
			"• Irrigate during early morning or evening",
		)
	}

	if in.Yield.Level == yield.LevelLow {
		out = append(out,
			"\n🚨 Critical irrigation management:",
			"• Monitor soil moisture daily",
			"• Avoid water stress during critical growth stages",
			"• Consider drip irrigation for water efficiency",
		)
	}

	name := in.Reference.ID
	if name == "" || in.Reference.IsDefault() {
		name = "your crop"
	}
	out = append(out, fmt.Sprintf("\n🎯 Critical irrigation stages for %s:", name))
	for _, stage := range CriticalStagesFor(in.Reference.ID) {
		out = append(out, fmt.Sprintf("• %s: Maintain optimal moisture", stage))
	}

	return append(out, irrigationGuidelines...)
}
