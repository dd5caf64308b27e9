package model

import "time"

// Sector values the dashboard filters on. Other values may appear in the data.
const (
	SectorPublic  = "Public"
	SectorPrivate = "Private"
)

// University represents one row of the university table.
type University struct {
	Row               int        `gorm:"column:source_row;primaryKey;autoIncrement:false" json:"row"` // 1-based source row
	Name              string     `gorm:"size:256;not null;index" json:"name"`
	City              string     `gorm:"size:128;not null;index" json:"city"`
	Province          string     `gorm:"size:128;not null;index" json:"province"`
	Sector            string     `gorm:"size:32;not null" json:"sector"`
	CharteredBy       string     `gorm:"size:256" json:"chartered_by"`
	Website           string     `gorm:"size:512" json:"website"`
	DistanceEducation string     `gorm:"size:8" json:"distance_education"`
	EstablishedSince  *time.Time `json:"established_since"`
	EstablishedRaw    string     `gorm:"size:64" json:"established_raw"`
}

// TableName pins the mirrored table name.
func (University) TableName() string {
	return "universities"
}

// OffersDistanceEducation reports whether the record is marked "Yes".
func (u University) OffersDistanceEducation() bool {
	return u.DistanceEducation == "Yes"
}

// EstablishedYear returns the establishment year and whether it is known.
func (u University) EstablishedYear() (int, bool) {
	if u.EstablishedSince == nil {
		return 0, false
	}
	return u.EstablishedSince.Year(), true
}
