// Package models provides request and response models for the yield
// prediction API.
package models

import (
	"time"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/session"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// HealthStatus represents the health status of a service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Enums lists the closed value sets used by the API.
type Enums struct {
	YieldLevels  []yield.Level        `json:"yieldLevels"`
	HealthBands  []health.Band        `json:"healthBands"`
	Conditions   []weather.Condition  `json:"weatherConditions"`
	GrowthStages []health.GrowthStage `json:"growthStages"`
	WaterNeeds   []crop.WaterNeeds    `json:"waterNeeds"`
	WizardSteps  []session.Step       `json:"wizardSteps"`
}

// Timestamp is a time.Time that marshals as RFC3339 in UTC.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	parsed, err := time.Parse(`"`+time.RFC3339+`"`, string(data))
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// TimestampPtr converts an optional time.
func TimestampPtr(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	ts := Timestamp(*t)
	return &ts
}
