package health

import "fmt"

// Advice returns the two-line follow-up for a verified assessment's band.
func Advice(band Band) []string {
	switch band {
	case BandExcellent:
		return []string{
			"🎉 Your crops look fantastic! Continue your current care routine.",
			"📸 Consider taking photos weekly to monitor any changes.",
		}
	case BandGood:
		return []string{
			"👍 Good crop health detected. Minor improvements may boost yield.",
			"🔍 Monitor closely for any developing issues.",
		}
	case BandFair:
		return []string{
			"⚠️ Some concerns detected. Follow specific recommendations below.",
			"📅 Increase monitoring frequency to twice weekly.",
		}
	default:
		return []string{
			"🚨 Immediate attention required! Implement corrective measures urgently.",
			"👨‍🌾 Consider consulting with a local agricultural expert.",
		}
	}
}

// FailureAdvice explains a failed verification and how to fix it.
func FailureAdvice(v Verification) []string {
	out := []string{"❌ Crop verification failed! The uploaded images don't match the selected crop type."}

	if v.WrongMatches > 0 {
		out = append(out, fmt.Sprintf("📸 %d out of %d images appear to be different crops.", v.WrongMatches, v.TotalImages))
	}
	if v.DetectedCrop != "" && v.DetectedCrop != v.ExpectedCrop {
		out = append(out, fmt.Sprintf("🔍 Images appear to show %s instead of %s.", v.DetectedCrop, v.ExpectedCrop))
	}

	return append(out,
		"📋 Please ensure you:",
		"• Upload clear images of your actual crop",
		"• Select the correct crop type from the dropdown",
		"• Take photos showing distinctive crop features",
		"• Avoid images of other plants or crops",
		"💡 Try uploading new images or changing your crop selection to match the uploaded photos.",
	)
}
