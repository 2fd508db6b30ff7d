package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/api/models"
	"github.com/yieldwise/yieldwise/internal/api/response"
	"github.com/yieldwise/yieldwise/internal/prediction"
)

// WeatherHandler serves current weather lookups.
type WeatherHandler struct {
	svc    *prediction.Service
	logger zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(svc *prediction.Service, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{svc: svc, logger: logger}
}

// GetWeather handles GET /v1/weather?location=.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		response.BadRequest(w, r, "location query parameter is required", []models.FieldError{
			{Field: "location", Message: "is required", Code: "REQUIRED"},
		})
		return
	}

	snapshot, err := h.svc.Weather(r.Context(), location)
	if err != nil {
		response.FromError(w, r, h.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, snapshot)
}
