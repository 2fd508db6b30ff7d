package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/api/models"
	"github.com/yieldwise/yieldwise/internal/api/response"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/prediction"
	"github.com/yieldwise/yieldwise/internal/weather"
)

// PredictionHandler serves stateless scoring.
type PredictionHandler struct {
	svc    *prediction.Service
	logger zerolog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(svc *prediction.Service, logger zerolog.Logger) *PredictionHandler {
	return &PredictionHandler{svc: svc, logger: logger}
}

// Score handles POST /v1/predictions:score. An omitted health band scores
// as UNKNOWN; an unknown crop scores against the fallback reference.
func (h *PredictionHandler) Score(w http.ResponseWriter, r *http.Request) {
	var input models.ScoreRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	var fieldErrs []models.FieldError
	condition := weather.ParseCondition(input.Condition)
	if condition == weather.ConditionUnknown && !strings.EqualFold(strings.TrimSpace(input.Condition), string(weather.ConditionUnknown)) {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "condition", Message: "unknown weather condition", Code: "INVALID"})
	}
	band := health.BandUnknown
	if input.HealthBand != "" {
		band = health.ParseBand(input.HealthBand)
		if band == health.BandUnknown && !strings.EqualFold(strings.TrimSpace(input.HealthBand), string(health.BandUnknown)) {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "healthBand", Message: "unknown health band", Code: "INVALID"})
		}
	}
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "request validation failed", fieldErrs)
		return
	}

	outcome, err := h.svc.Score(r.Context(), prediction.ScoreInput{
		CropID: input.CropID,
		Weather: weather.Snapshot{
			Temperature: *input.Temperature,
			Humidity:    *input.Humidity,
			Condition:   condition,
		},
		Band: band,
	})
	if err != nil {
		response.FromError(w, r, h.logger, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.ScoreResponse{
		Crop:            outcome.Crop,
		Yield:           outcome.Yield,
		Recommendations: outcome.Recommendations.Categories(),
	})
}
