package browser

import (
	"fmt"
	"sort"

	"university-browser-backend/internal/model"
)

// DistanceEducation lists the records that offer distance education.
type DistanceEducation struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

// Label is the single university name when exactly one matches, otherwise "<n> Universities".
func (d DistanceEducation) Label() string {
	if d.Count == 1 {
		return d.Names[0]
	}
	return fmt.Sprintf("%d Universities", d.Count)
}

// Summary holds the headline metrics for a filtered record set.
type Summary struct {
	Total             int               `json:"total"`
	PublicCount       int               `json:"public_count"`
	PrivateCount      int               `json:"private_count"`
	DistanceEducation DistanceEducation `json:"distance_education"`
}

// CategoryCount is the number of records sharing one categorical value.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// YearCount is the number of records established in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// ComputeSummary counts the filtered records by sector and distance education.
func ComputeSummary(records []model.University) Summary {
	s := Summary{
		Total:             len(records),
		DistanceEducation: DistanceEducation{Names: []string{}},
	}
	for _, r := range records {
		switch r.Sector {
		case model.SectorPublic:
			s.PublicCount++
		case model.SectorPrivate:
			s.PrivateCount++
		}
		if r.OffersDistanceEducation() {
			s.DistanceEducation.Names = append(s.DistanceEducation.Names, r.Name)
		}
	}
	s.DistanceEducation.Count = len(s.DistanceEducation.Names)
	return s
}

// ComputeProvinceCounts groups records by province, largest group first.
func ComputeProvinceCounts(records []model.University) []CategoryCount {
	return countBy(records, func(r model.University) string { return r.Province })
}

// ComputeSectorCounts groups records by sector, largest group first.
func ComputeSectorCounts(records []model.University) []CategoryCount {
	return countBy(records, func(r model.University) string { return r.Sector })
}

// ComputeEstablishedTimeline counts records per establishment year in ascending year order.
// Records without a parsed date are dropped.
func ComputeEstablishedTimeline(records []model.University) []YearCount {
	byYear := make(map[int]int)
	for _, r := range records {
		if year, ok := r.EstablishedYear(); ok {
			byYear[year]++
		}
	}

	timeline := make([]YearCount, 0, len(byYear))
	for year, n := range byYear {
		timeline = append(timeline, YearCount{Year: year, Count: n})
	}
	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Year < timeline[j].Year
	})
	return timeline
}

// countBy groups in first-appearance order, then stable-sorts by descending count.
func countBy(records []model.University, key func(model.University) string) []CategoryCount {
	index := make(map[string]int)
	counts := make([]CategoryCount, 0)
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, CategoryCount{Value: k})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
