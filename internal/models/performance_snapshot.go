package models

import (
	"time"

	"advisoriq/internal/uuid"

	"gorm.io/gorm"
)

// PerformanceSnapshot is a point-in-time copy of an advisor's aggregate
// counts, recorded by the snapshot pipeline for historical charts.
// This is immutable time-series data, so there is no Base embed and no soft delete.
type PerformanceSnapshot struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	AdvisorID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_snapshot_advisor_time" json:"advisor_id"`
	RecordedAt   time.Time `gorm:"not null;uniqueIndex:uq_snapshot_advisor_time" json:"recorded_at"`
	Total        int       `gorm:"not null" json:"total"`
	Successful   int       `gorm:"not null" json:"successful"`
	Unsuccessful int       `gorm:"not null" json:"unsuccessful"`
	Ongoing      int       `gorm:"not null" json:"ongoing"`
	SuccessRate  float64   `gorm:"not null" json:"success_rate"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PerformanceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
