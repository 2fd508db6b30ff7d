// Package worker provides background job processing for YieldWise.
package worker

import (
	"sort"
	"strings"
	"time"
)

// Region is a farming region whose weather is kept warm in the cache.
type Region struct {
	// Name is the human-readable name of the region.
	Name string

	// Locations are the place names looked up for the region, typically
	// the market towns farmers enter in the wizard.
	Locations []string

	// Priority determines warm-up order (lower = higher priority).
	Priority int
}

// WarmupConfig holds configuration for the weather warm-up job.
type WarmupConfig struct {
	// Regions are the farming regions to warm.
	// If empty, uses DefaultRegions.
	Regions []Region

	// Concurrency is the number of concurrent lookups.
	// Default: 3
	Concurrency int

	// Timeout bounds each location lookup.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultWarmupConfig returns the default warm-up configuration.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Regions:     DefaultRegions(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// DefaultRegions returns major growing regions for the crops in the catalog.
func DefaultRegions() []Region {
	return []Region{
		{Name: "Punjab", Priority: 1, Locations: []string{"Ludhiana", "Amritsar", "Bathinda"}},
		{Name: "Maharashtra", Priority: 1, Locations: []string{"Pune", "Nagpur", "Nashik"}},
		{Name: "Iowa", Priority: 1, Locations: []string{"Des Moines", "Ames"}},
		{Name: "Central Valley", Priority: 2, Locations: []string{"Fresno", "Sacramento"}},
		{Name: "Mekong Delta", Priority: 2, Locations: []string{"Can Tho"}},
		{Name: "Pampas", Priority: 3, Locations: []string{"Rosario"}},
	}
}

// RegionsFromNames builds one single-location region per name, in the
// order given. Blank names are skipped.
func RegionsFromNames(names []string) []Region {
	var out []Region
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, Region{Name: name, Locations: []string{name}, Priority: i + 1})
	}
	return out
}

// Locations returns every location ordered by region priority, with
// duplicates (case-insensitive) removed.
func (c WarmupConfig) Locations() []string {
	regions := append([]Region(nil), c.Regions...)
	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Priority < regions[j].Priority })

	seen := make(map[string]struct{})
	var out []string
	for _, r := range regions {
		for _, loc := range r.Locations {
			key := strings.ToLower(strings.TrimSpace(loc))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, loc)
		}
	}
	return out
}
