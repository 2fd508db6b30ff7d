// Package health verifies that crop photos depict the selected crop and
// assesses plant health from them.
package health

import (
	"errors"
	"strings"
)

// Errors returned by the health package.
var (
	// ErrAnalysisUnavailable is returned when the image analysis source fails or times out.
	ErrAnalysisUnavailable = errors.New("image analysis unavailable")

	// ErrNoImages is returned when an analysis is requested without images.
	ErrNoImages = errors.New("at least one image is required")

	// ErrTooManyImages is returned when more than MaxImages are submitted.
	ErrTooManyImages = errors.New("too many images")

	// ErrImageTooLarge is returned when an image exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("image too large")

	// ErrUnsupportedImage is returned for files that are not decodable images.
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// Upload limits.
const (
	MaxImages     = 5
	MaxImageBytes = 10 << 20
)

// DefaultMatchThreshold is the minimum percentage of images that must
// show the expected crop for verification to pass.
const DefaultMatchThreshold = 60.0

// Band is a qualitative crop-condition classification.
type Band string

// Band values. VerificationFailed is a sentinel set when the photos do not
// depict the selected crop.
const (
	BandExcellent          Band = "EXCELLENT"
	BandGood               Band = "GOOD"
	BandFair               Band = "FAIR"
	BandPoor               Band = "POOR"
	BandVerificationFailed Band = "VERIFICATION_FAILED"
	BandUnknown            Band = "UNKNOWN"
)

// Bands returns all band values.
func Bands() []Band {
	return []Band{BandExcellent, BandGood, BandFair, BandPoor, BandVerificationFailed, BandUnknown}
}

// ParseBand converts s to a Band, case-insensitively. Unrecognized values
// return BandUnknown.
func ParseBand(s string) Band {
	b := Band(strings.ToUpper(strings.TrimSpace(s)))
	switch b {
	case BandExcellent, BandGood, BandFair, BandPoor, BandVerificationFailed:
		return b
	}
	return BandUnknown
}

// GrowthStage is the plant's development stage as seen in the photos.
type GrowthStage string

// GrowthStage values.
const (
	StageSeedling   GrowthStage = "SEEDLING"
	StageVegetative GrowthStage = "VEGETATIVE"
	StageFlowering  GrowthStage = "FLOWERING"
	StageFruiting   GrowthStage = "FRUITING"
	StageMature     GrowthStage = "MATURE"
	StageDeveloping GrowthStage = "DEVELOPING"
	StageUnknown    GrowthStage = "UNKNOWN"
)

// GrowthStages returns all growth stage values.
func GrowthStages() []GrowthStage {
	return []GrowthStage{
		StageSeedling, StageVegetative, StageFlowering, StageFruiting,
		StageMature, StageDeveloping, StageUnknown,
	}
}

// Image is an uploaded crop photo that passed inspection.
type Image struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Data     []byte `json:"-"`
}

// Detection is the analysis of a single image.
type Detection struct {
	ImageName    string      `json:"imageName"`
	DetectedCrop string      `json:"detectedCrop"`
	Confidence   float64     `json:"confidence"`
	HealthScore  float64     `json:"healthScore"`
	GrowthStage  GrowthStage `json:"growthStage"`
	IsMatch      bool        `json:"isMatch"`
}

// Verification summarizes whether the images depict the expected crop.
type Verification struct {
	IsCorrectCrop     bool        `json:"isCorrectCrop"`
	MatchPercentage   float64     `json:"matchPercentage"`
	Confidence        float64     `json:"confidence"`
	ExpectedCrop      string      `json:"expectedCrop"`
	DetectedCrop      string      `json:"detectedCrop"`
	TotalImages       int         `json:"totalImages"`
	CorrectMatches    int         `json:"correctMatches"`
	WrongMatches      int         `json:"wrongMatches"`
	AverageConfidence float64     `json:"averageConfidence"`
	Images            []Detection `json:"images"`
}

// Assessment is the crop health outcome fed to scoring.
type Assessment struct {
	Band           Band        `json:"band"`
	Confidence     float64     `json:"confidence"`
	HealthScore    float64     `json:"healthScore"`
	DetectedIssues []string    `json:"detectedIssues"`
	GrowthStage    GrowthStage `json:"growthStage"`
}

// Verified reports whether the assessment passed crop verification.
func (a Assessment) Verified() bool {
	return a.Band != BandVerificationFailed
}

// Result bundles one analysis run.
type Result struct {
	Verification Verification `json:"verification"`
	Assessment   Assessment   `json:"assessment"`
	Advice       []string     `json:"advice"`
}
