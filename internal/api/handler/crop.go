package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yieldwise/yieldwise/internal/api/models"
	"github.com/yieldwise/yieldwise/internal/api/response"
	"github.com/yieldwise/yieldwise/internal/crop"
)

// CropHandler serves the crop reference catalog.
type CropHandler struct {
	catalog *crop.Catalog
}

// NewCropHandler creates a new CropHandler.
func NewCropHandler(catalog *crop.Catalog) *CropHandler {
	return &CropHandler{catalog: catalog}
}

// ListCrops handles GET /v1/crops.
func (h *CropHandler) ListCrops(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.List()
	response.JSON(w, r, http.StatusOK, models.CropList{Items: items, Total: len(items)})
}

// GetCrop handles GET /v1/crops/{cropId}.
func (h *CropHandler) GetCrop(w http.ResponseWriter, r *http.Request) {
	ref, err := h.catalog.Get(chi.URLParam(r, "cropId"))
	if err != nil {
		response.NotFound(w, r, "unknown crop "+chi.URLParam(r, "cropId"))
		return
	}
	response.JSON(w, r, http.StatusOK, ref)
}

// GetPhotoTips handles GET /v1/crops/{cropId}/photo-tips.
func (h *CropHandler) GetPhotoTips(w http.ResponseWriter, r *http.Request) {
	cropID := chi.URLParam(r, "cropId")
	tips, err := h.catalog.PhotoTips(cropID)
	if err != nil {
		response.NotFound(w, r, "unknown crop "+cropID)
		return
	}
	response.JSON(w, r, http.StatusOK, models.PhotoTips{
		CropID:  h.catalog.Resolve(cropID),
		General: tips.General,
		Crop:    tips.Crop,
	})
}
