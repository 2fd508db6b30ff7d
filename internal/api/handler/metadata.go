package handler

import (
	"net/http"

	"github.com/yieldwise/yieldwise/internal/api/models"
	"github.com/yieldwise/yieldwise/internal/api/response"
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	enums models.Enums
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{
		enums: models.Enums{
			YieldLevels:  yield.Levels(),
			HealthBands:  health.Bands(),
			Conditions:   weather.Conditions(),
			GrowthStages: health.GrowthStages(),
			WaterNeeds:   crop.WaterNeedsValues(),
			WizardSteps:  session.Steps(),
		},
	}
}

// GetEnums handles GET /v1/metadata/enums - get enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.enums)
}
