// Package browser holds the filtering and aggregation behind the university dashboard.
// Every function here is a pure function of its inputs.
package browser

import (
	"sort"

	"university-browser-backend/internal/model"
)

// All is the selection value that disables a filter.
const All = "All"

// Selection is the set of categorical filters chosen by the user.
// Empty fields are treated as All.
type Selection struct {
	Province string `form:"province" json:"province"`
	City     string `form:"city" json:"city"`
	Sector   string `form:"sector" json:"sector" binding:"omitempty,oneof=All Public Private"`
}

// Normalize returns a copy with empty fields set to All.
func (s Selection) Normalize() Selection {
	if s.Province == "" {
		s.Province = All
	}
	if s.City == "" {
		s.City = All
	}
	if s.Sector == "" {
		s.Sector = All
	}
	return s
}

// ApplyFilters narrows records by province, then city, then sector equality.
// The relative order of records is preserved and the input slice is not modified.
func ApplyFilters(records []model.University, sel Selection) []model.University {
	sel = sel.Normalize()

	filtered := make([]model.University, 0, len(records))
	for _, r := range records {
		if sel.Province != All && r.Province != sel.Province {
			continue
		}
		if sel.City != All && r.City != sel.City {
			continue
		}
		if sel.Sector != All && r.Sector != sel.Sector {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// ComputeCityOptions returns the sorted distinct cities, restricted to province unless it is All.
func ComputeCityOptions(records []model.University, province string) []string {
	if province == "" {
		province = All
	}
	set := make(map[string]struct{})
	for _, r := range records {
		if province != All && r.Province != province {
			continue
		}
		if r.City == "" {
			continue
		}
		set[r.City] = struct{}{}
	}
	return sortedKeys(set)
}

// ComputeProvinceOptions returns the sorted distinct provinces.
func ComputeProvinceOptions(records []model.University) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		if r.Province != "" {
			set[r.Province] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
