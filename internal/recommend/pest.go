package recommend

import (
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/yield"
)

var pestGuides = crop.MustTable(map[string][]string{
	"rice": {
		"• Neem oil spray (30ml/liter) for stem borer and brown planthopper",
		"• Trichoderma application for blast disease prevention",
		"• Light traps for night-flying pests",
		"• Maintain 2-3 cm water level to control certain pests",
	},
	"wheat": {
		"• Insecticidal soap for aphid control",
		"• Sulfur dusting for powdery mildew",
		"• Crop rotation to break pest cycles",
		"• Yellow sticky traps for flying pests",
	},
	"corn": {
		"• Bt spray for corn borer management",
		"• Neem-based pesticides for armyworm",
		"• Fall armyworm pheromone traps",
		"• Regular inspection of whorl and ears",
	},
	"cotton": {
		"• Bollworm monitoring with pheromone traps",
		"• Neem oil for whitefly and aphid control",
		"• Intercropping with marigold for pest deterrence",
		"• Regular removal of damaged bolls",
	},
	"tomato": {
		"• Copper-based fungicides for early/late blight",
		"• Neem oil for whitefly and aphid management",
		"• Staking and pruning for better air circulation",
		"• Yellow sticky traps in greenhouse/polyhouse",
	},
	crop.DefaultID: {
		"• Regular monitoring for pest and disease symptoms",
		"• Use of organic pesticides like neem oil",
		"• Proper sanitation and field hygiene",
		"• Integrated pest management approach",
	},
})

var preventivePest = []string{
	"🛡️ Preventive Pest Management:",
	"• Regular field monitoring (2-3 times per week)",
	"• Install pheromone traps for early pest detection",
	"• Maintain field hygiene and remove crop residues",
	"• Encourage beneficial insects with flowering plants nearby",
}

var pestTiming = []string{
	"\n⏰ Application Timing:",
	"• Early morning (6-8 AM) or evening (4-6 PM)",
	"• Avoid application during flowering for bee safety",
	"• Follow label instructions for dosage and frequency",
}

// PestManagement returns preventive or active pest advice, the crop's
// treatments, and the timing guidelines.
func PestManagement(in Input) []string {
	var out []string
	if in.Band == health.BandExcellent || in.Band == health.BandGood {
		out = append(out, preventivePest...)
	} else {
		out = append(out, "⚠️ Active Pest Management Required:")
	}

	out = append(out, pestGuides.Get(in.Reference.ID)...)

	if in.Yield.Level == yield.LevelLow {
		out = append(out,
			"\n🚨 Intensive Management:",
			"• Daily monitoring recommended",
			"• Consider professional pest scouting",
			"• Apply treatments at first sign of infestation",
		)
	}

	return append(out, pestTiming...)
}
