package models

import (
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/recommend"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// ScoreRequest is the body of POST /v1/predictions:score.
type ScoreRequest struct {
	CropID      string   `json:"cropId" validate:"required,max=50"`
	Temperature *float64 `json:"temperature" validate:"required,gte=-60,lte=60"`
	Humidity    *int     `json:"humidity" validate:"required,gte=0,lte=100"`
	Condition   string   `json:"condition" validate:"required"`
	HealthBand  string   `json:"healthBand,omitempty"`
}

// ScoreResponse is a stateless yield estimate.
type ScoreResponse struct {
	Crop            crop.Reference       `json:"crop"`
	Yield           yield.Result         `json:"yield"`
	Recommendations []recommend.Category `json:"recommendations"`
}
