package models

import "github.com/yieldwise/yieldwise/internal/crop"

// CropList is the crop catalog, sorted by name.
type CropList struct {
	Items []crop.Reference `json:"items"`
	Total int              `json:"total"`
}

// PhotoTips are photography hints for the image step.
type PhotoTips struct {
	CropID  string   `json:"cropId"`
	General []string `json:"general"`
	Crop    []string `json:"crop"`
}
