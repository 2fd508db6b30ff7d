package models

import (
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/recommend"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// LocationRequest is the body of PUT /v1/sessions/{sessionId}/location.
type LocationRequest struct {
	Location string `json:"location" validate:"required,max=100"`
}

// CropRequest is the body of PUT /v1/sessions/{sessionId}/crop.
type CropRequest struct {
	CropID string `json:"cropId" validate:"required,max=50"`
}

// Session is the wizard state returned by every session endpoint.
type Session struct {
	ID        string       `json:"id"`
	NextStep  session.Step `json:"nextStep"`
	CreatedAt Timestamp    `json:"createdAt"`
	UpdatedAt Timestamp    `json:"updatedAt"`
	ExpiresAt Timestamp    `json:"expiresAt"`

	Location string            `json:"location,omitempty"`
	Weather  *weather.Snapshot `json:"weather,omitempty"`
	CropID   string            `json:"cropId,omitempty"`

	Images   []health.Image `json:"images,omitempty"`
	Analysis *health.Result `json:"analysis,omitempty"`

	Prediction *Prediction `json:"prediction,omitempty"`
}

// Prediction is a scored yield with its recommendations.
type Prediction struct {
	Yield           yield.Result         `json:"yield"`
	Recommendations []recommend.Category `json:"recommendations"`
	CreatedAt       Timestamp            `json:"createdAt"`
}

// NewSession converts wizard state for the API.
func NewSession(s *session.Session) Session {
	out := Session{
		ID:        s.ID,
		NextStep:  s.NextStep(),
		CreatedAt: Timestamp(s.CreatedAt),
		UpdatedAt: Timestamp(s.UpdatedAt),
		ExpiresAt: Timestamp(s.ExpiresAt),
		Location:  s.Location,
		Weather:   s.Weather,
		CropID:    s.CropID,
		Images:    s.Images,
		Analysis:  s.Analysis,
	}
	if s.Prediction != nil {
		out.Prediction = &Prediction{
			Yield:           s.Prediction.Yield,
			Recommendations: s.Prediction.Recommendations.Categories(),
			CreatedAt:       Timestamp(s.Prediction.CreatedAt),
		}
	}
	return out
}
