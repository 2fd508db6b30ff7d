package health

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
)

// Detector classifies the crop and health of each image.
type Detector interface {
	// Detect returns one detection per image, in order, with IsMatch set
	// against expected.
	Detect(ctx context.Context, expected string, images []Image) ([]Detection, error)

	// Name returns the detector name for logging.
	Name() string
}

// cropHints are crop names recognized in image file names.
var cropHints = []string{
	"rice", "wheat", "corn", "maize", "cotton", "tomato", "potato",
	"onion", "sugarcane", "soybean", "groundnut", "mustard", "chickpea",
}

// SimulatedDetectorConfig configures the simulated detector.
type SimulatedDetectorConfig struct {
	// Latency is slept before answering, honoring ctx.
	Latency time.Duration

	// Canonical maps crop names and aliases to catalog ids.
	// If nil, names are only lowercased.
	Canonical func(string) string
}

// SimulatedDetector derives detections deterministically from the image
// name, the expected crop, the image size and its position. File names
// steer the outcome: a different crop name, "wrong" or "different" cause a
// mismatch, and "healthy", "good", "bad", "disease" or "pest" shift the
// health score.
type SimulatedDetector struct {
	latency   time.Duration
	canonical func(string) string
}

// NewSimulatedDetector creates a simulated detector.
func NewSimulatedDetector(cfg SimulatedDetectorConfig) *SimulatedDetector {
	canonical := cfg.Canonical
	if canonical == nil {
		canonical = strings.ToLower
	}
	return &SimulatedDetector{latency: cfg.Latency, canonical: canonical}
}

// Name returns the detector name.
func (d *SimulatedDetector) Name() string {
	return "simulated"
}

// Detect implements Detector.
func (d *SimulatedDetector) Detect(ctx context.Context, expected string, images []Image) ([]Detection, error) {
	if d.latency > 0 {
		timer := time.NewTimer(d.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	expected = d.canonical(expected)
	out := make([]Detection, len(images))
	for i, img := range images {
		out[i] = d.detect(expected, img, i)
	}
	return out, nil
}

func (d *SimulatedDetector) detect(expected string, img Image, index int) Detection {
	name := strings.ToLower(img.Name)
	h := nameHash(name + expected + strconv.Itoa(img.Size) + strconv.Itoa(index))
	between := func(lo, hi float64) float64 { return lo + h*(hi-lo) }

	detected := expected
	confidence := between(0.75, 0.95)

	hint := ""
	for _, c := range cropHints {
		if strings.Contains(name, c) {
			hint = c
			break
		}
	}

	switch {
	case hint != "" && d.canonical(hint) != expected:
		detected = d.canonical(hint)
		confidence = between(0.6, 0.85)
	case strings.Contains(name, "wrong") || strings.Contains(name, "different"):
		others := make([]string, 0, len(cropHints))
		for _, c := range cropHints {
			if d.canonical(c) != expected {
				others = append(others, c)
			}
		}
		idx := int(math.Floor(between(0, float64(len(others)))))
		if idx >= len(others) {
			idx = len(others) - 1
		}
		detected = d.canonical(others[idx])
		confidence = between(0.4, 0.7)
	case strings.Contains(name, "bad") || strings.Contains(name, "disease") || strings.Contains(name, "pest"):
		confidence = between(0.7, 0.9)
	}

	var score float64
	switch {
	case strings.Contains(name, "healthy"):
		score = between(0.8, 0.95)
	case strings.Contains(name, "good"):
		score = between(0.7, 0.85)
	case strings.Contains(name, "bad") || strings.Contains(name, "disease"):
		score = between(0.2, 0.4)
	case strings.Contains(name, "pest"):
		score = between(0.3, 0.5)
	default:
		score = between(0.5, 0.8)
	}

	stage := StageDeveloping
	if h > 0.5 {
		stage = StageMature
	}

	return Detection{
		ImageName:    img.Name,
		DetectedCrop: detected,
		Confidence:   confidence,
		HealthScore:  score,
		GrowthStage:  stage,
		IsMatch:      detected == expected,
	}
}

// nameHash folds s into [0, 1] with a 31-multiplier int32 string hash.
func nameHash(s string) float64 {
	var hash int32
	for _, r := range s {
		hash = (hash << 5) - hash + int32(r)
	}
	return math.Abs(float64(hash)) / math.MaxInt32
}
