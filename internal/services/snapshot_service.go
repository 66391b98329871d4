package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
)

// snapshotService records point-in-time advisor performance for history charts.
type snapshotService struct {
	db *gorm.DB
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB) SnapshotServicer {
	return &snapshotService{db: db}
}

// ComputeAndRecordSnapshots stores one snapshot per advisor that has
// recommendations. Re-running for the same recordedAt overwrites the earlier
// values.
func (s *snapshotService) ComputeAndRecordSnapshots(recordedAt time.Time) (int, error) {
	var recs []models.Recommendation
	if err := s.db.Where("created_at <= ?", recordedAt).Order("created_at ASC").Find(&recs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order, groups := analytics.GroupByAdvisor(recs)

	count := 0
	for _, advisorID := range order {
		m := analytics.ComputeAdvisorMetrics(advisorID, groups[advisorID])
		values := map[string]interface{}{
			"total":        m.Total,
			"successful":   m.Successful,
			"unsuccessful": m.Unsuccessful,
			"ongoing":      m.Ongoing,
			"success_rate": m.SuccessRate,
		}

		var existing models.PerformanceSnapshot
		err := s.db.Where("advisor_id = ? AND recorded_at = ?", advisorID, recordedAt).First(&existing).Error
		switch {
		case err == nil:
			if err := s.db.Model(&existing).Updates(values).Error; err != nil {
				return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
		default:
			snapshot := &models.PerformanceSnapshot{
				AdvisorID:    advisorID,
				RecordedAt:   recordedAt,
				Total:        m.Total,
				Successful:   m.Successful,
				Unsuccessful: m.Unsuccessful,
				Ongoing:      m.Ongoing,
				SuccessRate:  m.SuccessRate,
			}
			if err := s.db.Create(snapshot).Error; err != nil {
				return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		count++
	}

	return count, nil
}

// GetSnapshots returns paginated snapshots for an advisor within a date range, newest first.
func (s *snapshotService) GetSnapshots(
	advisorID string,
	from, to time.Time,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.PerformanceSnapshot], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.PerformanceSnapshot{}).
		Where("advisor_id = ? AND recorded_at >= ? AND recorded_at <= ?", advisorID, from, to)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.PerformanceSnapshot
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}
