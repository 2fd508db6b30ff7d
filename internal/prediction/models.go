// Package prediction runs the yield prediction wizard: it gathers weather,
// crop and image analysis for a session and gates scoring on crop
// verification.
package prediction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/recommend"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// Errors returned by the prediction service.
var (
	// ErrVerificationFailed is returned when scoring is requested for images
	// that do not depict the selected crop.
	ErrVerificationFailed = errors.New("crop verification failed")

	// ErrStepIncomplete is returned when a wizard step is attempted before
	// the steps it depends on.
	ErrStepIncomplete = errors.New("wizard step incomplete")
)

// StepError reports the step a session must complete first.
type StepError struct {
	Required session.Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s step required", ErrStepIncomplete, strings.ToLower(string(e.Required)))
}

// Is matches ErrStepIncomplete.
func (e *StepError) Is(target error) bool {
	return target == ErrStepIncomplete
}

// VerificationError carries the issues behind a failed verification.
type VerificationError struct {
	ExpectedCrop string
	DetectedCrop string
	Issues       []string
	Advice       []string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: images show %s, expected %s", ErrVerificationFailed, e.DetectedCrop, e.ExpectedCrop)
}

// Is matches ErrVerificationFailed.
func (e *VerificationError) Is(target error) bool {
	return target == ErrVerificationFailed
}

// ScoreInput is an explicit set of inputs for stateless scoring.
type ScoreInput struct {
	CropID  string
	Weather weather.Snapshot
	Band    health.Band
}

// Outcome is a yield estimate with its advice.
type Outcome struct {
	Crop            crop.Reference `json:"crop"`
	Yield           yield.Result   `json:"yield"`
	Recommendations recommend.Set  `json:"recommendations"`
}
