package health

import "fmt"

// Health score cut-offs for the band of a verified image set.
const (
	ExcellentScore = 0.8
	GoodScore      = 0.6
	FairScore      = 0.4
)

// FailedConfidence is reported when verification fails.
const FailedConfidence = 0.3

// Passes reports whether a match percentage meets the threshold. The
// threshold is inclusive.
func Passes(matchPercentage, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return matchPercentage >= threshold
}

// BandForScore maps an average health score to a band.
func BandForScore(score float64) Band {
	switch {
	case score >= ExcellentScore:
		return BandExcellent
	case score >= GoodScore:
		return BandGood
	case score >= FairScore:
		return BandFair
	default:
		return BandPoor
	}
}

// Evaluate aggregates per-image detections against the expected crop.
// Detections must already carry IsMatch. A failed verification forces
// BandVerificationFailed with a non-empty issue list.
func Evaluate(expected string, detections []Detection, threshold float64) (Verification, Assessment) {
	total := len(detections)

	var matches []Detection
	for _, d := range detections {
		if d.IsMatch {
			matches = append(matches, d)
		}
	}

	v := Verification{
		ExpectedCrop:   expected,
		TotalImages:    total,
		CorrectMatches: len(matches),
		WrongMatches:   total - len(matches),
		Images:         detections,
	}
	if total > 0 {
		v.MatchPercentage = float64(len(matches)) / float64(total) * 100
	}
	if len(matches) > 0 {
		var sum float64
		for _, m := range matches {
			sum += m.Confidence
		}
		v.AverageConfidence = sum / float64(len(matches))
	}
	v.IsCorrectCrop = total > 0 && Passes(v.MatchPercentage, threshold)

	if !v.IsCorrectCrop {
		v.Confidence = FailedConfidence
		v.DetectedCrop = "unknown"

		issues := []string{fmt.Sprintf("%d out of %d images don't match %s", v.WrongMatches, total, expected)}
		if wrong := mostCommonMismatch(detections); wrong != "" {
			v.DetectedCrop = wrong
			issues = append(issues, fmt.Sprintf("Images appear to show %s instead of %s", wrong, expected))
		}

		return v, Assessment{
			Band:           BandVerificationFailed,
			Confidence:     FailedConfidence,
			DetectedIssues: issues,
			GrowthStage:    StageUnknown,
		}
	}

	v.Confidence = v.AverageConfidence
	v.DetectedCrop = expected

	var scoreSum float64
	for _, m := range matches {
		scoreSum += m.HealthScore
	}
	band := BandForScore(scoreSum / float64(len(matches)))

	a := Assessment{
		Band:           band,
		Confidence:     v.AverageConfidence,
		HealthScore:    detections[0].HealthScore,
		DetectedIssues: bandIssues(band),
		GrowthStage:    detections[0].GrowthStage,
	}
	if a.GrowthStage == "" {
		a.GrowthStage = StageDeveloping
	}

	return v, a
}

func bandIssues(band Band) []string {
	switch band {
	case BandPoor:
		return []string{"Severe crop stress detected", "Possible disease or pest damage visible"}
	case BandFair:
		return []string{"Moderate crop stress observed", "Minor nutrient deficiency signs"}
	}
	return []string{}
}

// mostCommonMismatch returns the crop seen most often among mismatched
// detections. Ties go to the crop seen first.
func mostCommonMismatch(detections []Detection) string {
	counts := make(map[string]int)
	var order []string
	for _, d := range detections {
		if d.IsMatch {
			continue
		}
		if _, seen := counts[d.DetectedCrop]; !seen {
			order = append(order, d.DetectedCrop)
		}
		counts[d.DetectedCrop]++
	}

	best := ""
	for _, c := range order {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
