// Package session holds wizard state between prediction steps.
package session

import (
	"errors"
	"time"

	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/recommend"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// Errors returned by session stores.
var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")

	// ErrStoreFull is returned when the store is at capacity.
	ErrStoreFull = errors.New("session store is full")
)

// Step is the next wizard step a session needs.
type Step string

// Step values, in wizard order.
const (
	StepLocation   Step = "LOCATION"
	StepCrop       Step = "CROP"
	StepImages     Step = "IMAGES"
	StepPrediction Step = "PREDICTION"
	StepComplete   Step = "COMPLETE"
)

// Steps returns the wizard steps in order.
func Steps() []Step {
	return []Step{StepLocation, StepCrop, StepImages, StepPrediction, StepComplete}
}

// Session is one farmer's pass through the prediction wizard. Stores hand
// out copies; callers mutate and Save.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	Location string            `json:"location,omitempty"`
	Weather  *weather.Snapshot `json:"weather,omitempty"`

	CropID string `json:"cropId,omitempty"`

	Images   []health.Image `json:"images,omitempty"`
	Analysis *health.Result `json:"analysis,omitempty"`

	Prediction *Prediction `json:"prediction,omitempty"`
}

// Prediction is the scored outcome of a completed wizard.
type Prediction struct {
	Yield           yield.Result  `json:"yield"`
	Recommendations recommend.Set `json:"recommendations"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// NextStep returns the first step the session has not completed.
func (s *Session) NextStep() Step {
	switch {
	case s.Weather == nil:
		return StepLocation
	case s.CropID == "":
		return StepCrop
	case s.Analysis == nil:
		return StepImages
	case s.Prediction == nil:
		return StepPrediction
	default:
		return StepComplete
	}
}

// ClearAnalysis drops image results and any prediction built on them.
func (s *Session) ClearAnalysis() {
	s.Images = nil
	s.Analysis = nil
	s.Prediction = nil
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
