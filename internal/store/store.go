package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"university-browser-backend/internal/model"
)

// batchSize bounds the rows per INSERT statement.
const batchSize = 200

// Store defines the interface for the mirrored university table.
type Store interface {
	ReplaceUniversities(ctx context.Context, records []model.University) error
	ListUniversities(ctx context.Context) ([]model.University, error)
	CountByProvince(ctx context.Context) ([]ProvinceCount, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// ReplaceUniversities swaps the mirrored snapshot for records in a single transaction.
func (s *gormStore) ReplaceUniversities(ctx context.Context, records []model.University) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.University{}).Error; err != nil {
			return fmt.Errorf("failed to clear universities: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		log.Printf("Batch inserting %d universities...", len(records))
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source_row"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "city", "province", "sector", "chartered_by", "website",
				"distance_education", "established_since", "established_raw",
			}),
		}).CreateInBatches(&records, batchSize).Error; err != nil {
			return fmt.Errorf("batch insert universities failed: %w", err)
		}
		return nil
	})
}

// ListUniversities returns every mirrored record in source order.
func (s *gormStore) ListUniversities(ctx context.Context) ([]model.University, error) {
	var records []model.University
	if err := s.db.WithContext(ctx).Order("source_row").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByProvince aggregates the mirrored table in SQL.
func (s *gormStore) CountByProvince(ctx context.Context) ([]ProvinceCount, error) {
	var counts []ProvinceCount
	if err := s.db.WithContext(ctx).
		Model(&model.University{}).
		Select("province, COUNT(*) as total").
		Group("province").
		Order("province").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate universities: %w", err)
	}
	return counts, nil
}
