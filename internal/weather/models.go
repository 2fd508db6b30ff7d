package weather

import (
	"errors"
	"strings"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoDataForLocation   = errors.New("no weather data for location")
	ErrInvalidLocation     = errors.New("invalid location")
)

// Snapshot is the current weather at a farm location.
// Scoring only reads Temperature, Humidity and Condition; the rest is for display.
type Snapshot struct {
	// Location is the name the snapshot was requested for.
	Location string `json:"location"`

	// Temperature in Celsius
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`

	// Humidity percentage (0-100)
	Humidity int `json:"humidity"`

	// Atmospheric pressure in hPa
	Pressure int `json:"pressure"`

	Condition   Condition `json:"condition"`
	Description string    `json:"description"`

	ObservedAt time.Time `json:"observedAt"`
	FetchedAt  time.Time `json:"fetchedAt"`

	// Source is the provider that produced the snapshot.
	Source string `json:"source"`
}

// Condition represents the general weather condition.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionRain         Condition = "RAIN"
	ConditionDrizzle      Condition = "DRIZZLE"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionSnow         Condition = "SNOW"
	ConditionMist         Condition = "MIST"
	ConditionFog          Condition = "FOG"
	ConditionHaze         Condition = "HAZE"
	ConditionUnknown      Condition = "UNKNOWN"
)

// Conditions lists every known condition in display order.
func Conditions() []Condition {
	return []Condition{
		ConditionClear,
		ConditionClouds,
		ConditionRain,
		ConditionDrizzle,
		ConditionThunderstorm,
		ConditionSnow,
		ConditionMist,
		ConditionFog,
		ConditionHaze,
		ConditionUnknown,
	}
}

// ParseCondition maps a condition name in any case to a Condition.
// Names outside the closed set become ConditionUnknown.
func ParseCondition(s string) Condition {
	c := Condition(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Conditions() {
		if c == known {
			return c
		}
	}
	return ConditionUnknown
}

// IsWet reports whether the condition is rain or drizzle.
func (c Condition) IsWet() bool {
	return c == ConditionRain || c == ConditionDrizzle
}

// NormalizeLocation trims and lower-cases a location for cache keys and seeding.
func NormalizeLocation(location string) string {
	return strings.Join(strings.Fields(strings.ToLower(location)), " ")
}
