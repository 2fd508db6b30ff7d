package recommend

import (
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/yield"
)

var organicMethods = crop.MustTable(map[string][]string{
	"rice": {
		"• System of Rice Intensification (SRI) for higher yields with less water",
		"• Azolla cultivation as biofertilizer and livestock feed",
		"• Duck integration for weed and pest control",
		"• Rice straw incorporation for soil organic matter",
	},
	"wheat": {
		"• Green manuring with legumes before wheat sowing",
		"• Vermicompost application for slow-release nutrients",
		"• Intercropping with mustard for pest management",
		"• Wheat straw mulching for moisture conservation",
	},
	"corn": {
		"• Three sisters planting (corn, beans, squash)",
		"• Compost tea foliar application",
		"• Beneficial microorganism inoculation",
		"• Companion planting with legumes for nitrogen fixation",
	},
	"cotton": {
		"• Trap cropping with okra or sunflower",
		"• Neem cake application as soil amendment",
		"• Intercropping with marigold for nematode control",
		"• Organic matter enhancement with cotton gin trash",
	},
	"tomato": {
		"• Companion planting with basil and marigold",
		"• Calcium-rich organic amendments (bone meal, eggshells)",
		"• Beneficial bacteria and mycorrhizal inoculation",
		"• Organic mulching with straw or grass clippings",
	},
	crop.DefaultID: {
		"• Organic matter incorporation",
		"• Beneficial microorganism application",
		"• Natural pest deterrent plants",
		"• Organic mulching practices",
	},
})

var soilHealth = []string{
	"🌱 Organic Soil Health:",
	"• Apply compost or well-rotted manure (5-10 tons/hectare)",
	"• Use cover crops during off-season",
	"• Practice crop rotation to maintain soil fertility",
	"• Apply organic mulch to conserve moisture and suppress weeds",
}

var organicSchedule = []string{
	"\n⏱️ Application Schedule:",
	"• Compost: Apply 2-3 weeks before planting",
	"• Liquid fertilizers: Every 2-3 weeks during growing season",
	"• Foliar sprays: Early morning application preferred",
	"• Mulching: Apply after soil warming in spring",
}

// Organic returns soil-health practice, crop-specific organic methods,
// yield and health recovery blocks, and the application schedule.
func Organic(in Input) []string {
	out := append([]string(nil), soilHealth...)

	out = append(out, "\n🌿 Crop-Specific Organic Methods:")
	out = append(out, organicMethods.Get(in.Reference.ID)...)

	switch in.Yield.Level {
	case yield.LevelLow:
		out = append(out,
			"\n🚨 Intensive Organic Recovery:",
			"• Liquid organic fertilizer application weekly",
			"• Foliar spray with seaweed extract",
			"• Beneficial microbe soil drench",
			"• Organic growth stimulants (humic acid, amino acids)",
		)
	case yield.LevelMedium:
		out = append(out,
			"\n📈 Organic Yield Enhancement:",
			"• Bi-weekly compost tea application",
			"• Organic growth promoters",
			"• Beneficial insect habitat creation",
		)
	}

	if in.Band == health.BandPoor || in.Band == health.BandFair {
		out = append(out,
			"\n🏥 Organic Health Recovery:",
			"• Organic silicon supplements for plant strength",
			"• Probiotic soil treatments",
			"• Natural plant growth regulators",
			"• Organic stress relief formulations",
		)
	}

	return append(out, organicSchedule...)
}
