// Package crop provides static agronomic reference data keyed by crop id.
package crop

import (
	"errors"
	"strings"
)

// Errors returned by the crop catalog.
var (
	// ErrUnknownCrop is returned when a crop id has no catalog entry.
	ErrUnknownCrop = errors.New("unknown crop")

	// ErrMissingDefault is returned when a table is built without a default entry.
	ErrMissingDefault = errors.New("table has no default entry")
)

// DefaultID is the id of the fallback entry every table must carry.
const DefaultID = "default"

// WaterNeeds is a crop's irrigation requirement.
type WaterNeeds string

// WaterNeeds values.
const (
	WaterNeedsLow    WaterNeeds = "LOW"
	WaterNeedsMedium WaterNeeds = "MEDIUM"
	WaterNeedsHigh   WaterNeeds = "HIGH"
)

// WaterNeedsValues returns all water need levels.
func WaterNeedsValues() []WaterNeeds {
	return []WaterNeeds{WaterNeedsLow, WaterNeedsMedium, WaterNeedsHigh}
}

// Valid reports whether w is a known level.
func (w WaterNeeds) Valid() bool {
	switch w {
	case WaterNeedsLow, WaterNeedsMedium, WaterNeedsHigh:
		return true
	}
	return false
}

// Reference holds the agronomic parameters of one crop.
type Reference struct {
	ID              string     `json:"id" yaml:"-"`
	Name            string     `json:"name" yaml:"name"`
	OptimalTemp     float64    `json:"optimalTemp" yaml:"optimal_temp"`
	OptimalHumidity int        `json:"optimalHumidity" yaml:"optimal_humidity"`
	WaterNeeds      WaterNeeds `json:"waterNeeds" yaml:"water_needs"`
	MaturityDays    int        `json:"maturityDays" yaml:"maturity_days"`
	SoilType        string     `json:"soilType" yaml:"soil_type"`
	Season          string     `json:"season" yaml:"season"`
	CommonPests     []string   `json:"commonPests" yaml:"common_pests"`
	CommonDiseases  []string   `json:"commonDiseases" yaml:"common_diseases"`
	PhotoTips       []string   `json:"photoTips,omitempty" yaml:"photo_tips"`
}

// IsDefault reports whether r is the fallback entry.
func (r Reference) IsDefault() bool {
	return r.ID == DefaultID
}

// NormalizeID lowercases and trims a crop id.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
