// Package recommend turns a yield estimate and its inputs into categorized
// farming advice.
package recommend

import (
	"math"

	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/weather"
	"github.com/yieldwise/yieldwise/internal/yield"
)

// Set holds the five advice lists. Each list is built independently and
// its order is stable for identical inputs.
type Set struct {
	General        []string `json:"general"`
	Fertilizer     []string `json:"fertilizer"`
	PestManagement []string `json:"pestManagement"`
	Irrigation     []string `json:"irrigation"`
	Organic        []string `json:"organic"`
}

// Input is the shared context every category generator reads.
type Input struct {
	Weather   weather.Snapshot
	Band      health.Band
	Reference crop.Reference
	Yield     yield.Result
}

// Recommend builds the full recommendation set.
func Recommend(w weather.Snapshot, band health.Band, ref crop.Reference, result yield.Result) Set {
	in := Input{Weather: w, Band: band, Reference: ref, Yield: result}
	return Set{
		General:        General(in),
		Fertilizer:     Fertilizer(in),
		PestManagement: PestManagement(in),
		Irrigation:     Irrigation(in),
		Organic:        Organic(in),
	}
}

// Categories returns the lists in display order, keyed by category name.
func (s Set) Categories() []Category {
	return []Category{
		{Name: "general", Items: s.General},
		{Name: "fertilizer", Items: s.Fertilizer},
		{Name: "pestManagement", Items: s.PestManagement},
		{Name: "irrigation", Items: s.Irrigation},
		{Name: "organic", Items: s.Organic},
	}
}

// Category is a named advice list.
type Category struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
