package browser

import (
	"errors"
	"fmt"

	"university-browser-backend/internal/model"
)

var (
	ErrUnknownProvince = errors.New("unknown province")
	ErrUnknownCity     = errors.New("unknown city")
	ErrUnknownSector   = errors.New("unknown sector")
)

// SectorOptions are the fixed sector choices offered by the filter.
var SectorOptions = []string{All, model.SectorPublic, model.SectorPrivate}

// Dataset is the immutable record set loaded at startup together with the filter
// domains derived from it. It is safe for concurrent use because nothing mutates it.
type Dataset struct {
	records   []model.University
	provinces []string
	cities    map[string][]string // province -> sorted cities; All -> every city
}

// NewDataset copies records and derives the province and city domains.
func NewDataset(records []model.University) *Dataset {
	owned := make([]model.University, len(records))
	copy(owned, records)

	provinces := ComputeProvinceOptions(owned)
	cities := make(map[string][]string, len(provinces)+1)
	cities[All] = ComputeCityOptions(owned, All)
	for _, p := range provinces {
		cities[p] = ComputeCityOptions(owned, p)
	}

	return &Dataset{records: owned, provinces: provinces, cities: cities}
}

// Len returns the number of loaded records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of every loaded record in source order.
func (d *Dataset) Records() []model.University {
	out := make([]model.University, len(d.records))
	copy(out, d.records)
	return out
}

// Provinces returns the sorted distinct provinces.
func (d *Dataset) Provinces() []string {
	return append([]string(nil), d.provinces...)
}

// Cities returns the sorted cities selectable for province. Unknown provinces yield nil.
func (d *Dataset) Cities(province string) []string {
	if province == "" {
		province = All
	}
	return append([]string(nil), d.cities[province]...)
}

// Options are the values offered by each filter, All first.
type Options struct {
	Provinces []string `json:"provinces"`
	Sectors   []string `json:"sectors"`
	Cities    []string `json:"cities"`
}

// Options returns the filter choices, with cities restricted to province.
func (d *Dataset) Options(province string) Options {
	return Options{
		Provinces: append([]string{All}, d.provinces...),
		Sectors:   append([]string(nil), SectorOptions...),
		Cities:    append([]string{All}, d.Cities(province)...),
	}
}

// Validate checks that every selected value belongs to the domain derived from the data.
func (d *Dataset) Validate(sel Selection) error {
	sel = sel.Normalize()

	if sel.Province != All {
		if _, ok := d.cities[sel.Province]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownProvince, sel.Province)
		}
	}
	if sel.City != All && !contains(d.cities[sel.Province], sel.City) {
		return fmt.Errorf("%w: %q in province %q", ErrUnknownCity, sel.City, sel.Province)
	}
	if !contains(SectorOptions, sel.Sector) {
		return fmt.Errorf("%w: %q", ErrUnknownSector, sel.Sector)
	}
	return nil
}

// View bundles the filtered records with every derived aggregate.
type View struct {
	Selection Selection          `json:"selection"`
	Rows      []model.University `json:"rows"`
	Summary   Summary            `json:"summary"`
	Provinces []CategoryCount    `json:"provinces"`
	Sectors   []CategoryCount    `json:"sectors"`
	Timeline  []YearCount        `json:"timeline"`
}

// Query applies sel and computes every aggregate over the result. It does not validate sel.
func (d *Dataset) Query(sel Selection) View {
	rows := ApplyFilters(d.records, sel)
	return View{
		Selection: sel.Normalize(),
		Rows:      rows,
		Summary:   ComputeSummary(rows),
		Provinces: ComputeProvinceCounts(rows),
		Sectors:   ComputeSectorCounts(rows),
		Timeline:  ComputeEstablishedTimeline(rows),
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
