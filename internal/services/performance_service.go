package services

import (
	"time"

	"gorm.io/gorm"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/logger"
	"advisoriq/internal/models"
)

// performanceService loads advisors and recommendations and hands them to
// the analytics engine. It never computes aggregates in SQL.
type performanceService struct {
	db       *gorm.DB
	advisors AdvisorServicer
	now      func() time.Time
}

// NewPerformanceService creates a new PerformanceServicer.
func NewPerformanceService(db *gorm.DB) PerformanceServicer {
	return &performanceService{
		db:       db,
		advisors: NewAdvisorService(db),
		now:      time.Now,
	}
}

func (s *performanceService) loadRecommendations(criteria analytics.RecommendationCriteria) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	if err := applyCriteria(s.db.Model(&models.Recommendation{}), criteria).
		Preload("Advisor").
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return recs, nil
}

// GetAdvisorMetrics aggregates one advisor's recommendations.
func (s *performanceService) GetAdvisorMetrics(actor Actor, advisorID string) (*analytics.PerformanceMetrics, error) {
	advisor, err := s.advisors.GetAdvisorByID(actor, advisorID)
	if err != nil {
		return nil, err
	}

	recs, err := s.loadRecommendations(analytics.RecommendationCriteria{AdvisorID: advisorID})
	if err != nil {
		return nil, err
	}

	metrics := analytics.ComputeAdvisorMetrics(advisorID, recs)
	metrics.Advisor = advisor
	return &metrics, nil
}

// GetTimeSeries buckets recommendations by month. An empty advisorID means
// the whole network, which only staff may request.
func (s *performanceService) GetTimeSeries(actor Actor, advisorID string, opts analytics.TimeSeriesOptions) ([]analytics.TimeBucket, error) {
	if advisorID == "" {
		if !actor.IsStaff() {
			return nil, apperrors.ErrForbidden
		}
	} else if _, err := s.advisors.GetAdvisorByID(actor, advisorID); err != nil {
		return nil, err
	}

	window := opts.WindowMonths
	if window <= 0 {
		window = analytics.DefaultWindowMonths
	}
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month()-time.Month(window-1), 1, 0, 0, 0, 0, time.UTC)

	recs, err := s.loadRecommendations(analytics.RecommendationCriteria{AdvisorID: advisorID, From: &from})
	if err != nil {
		return nil, err
	}

	return analytics.ComputeTimeSeries(recs, now, opts), nil
}

// GetAllAdvisorMetrics returns metrics for every advisor on the roster.
func (s *performanceService) GetAllAdvisorMetrics() ([]analytics.PerformanceMetrics, error) {
	advisors, recs, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	return analytics.ComputeRosterMetrics(advisors, recs), nil
}

// GetLeaderboard ranks active advisors that have at least one recommendation.
func (s *performanceService) GetLeaderboard(topN int) ([]analytics.PerformanceMetrics, error) {
	advisors, recs, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	active := analytics.FilterAdvisors(advisors, analytics.AdvisorCriteria{ActiveOnly: true})
	ranked := analytics.Filter(analytics.ComputeRosterMetrics(active, recs), func(m analytics.PerformanceMetrics) bool {
		return m.Total > 0
	})
	return analytics.RankTopPerformers(ranked, topN), nil
}

// GetDashboardStats composes the network dashboard. Retrieval failures are
// logged and an empty, degraded dashboard is returned instead of an error.
func (s *performanceService) GetDashboardStats() DashboardResult {
	advisors, recs, err := s.loadAll()
	if err != nil {
		logger.Get().Errorw("dashboard data unavailable, serving empty stats", "error", err)
		return DashboardResult{DashboardStats: analytics.EmptyDashboardStats(), Degraded: true}
	}
	return DashboardResult{DashboardStats: analytics.ComposeDashboardStats(recs, advisors)}
}

func (s *performanceService) loadAll() ([]models.Advisor, []models.Recommendation, error) {
	advisors, err := s.advisors.ListAllAdvisors()
	if err != nil {
		return nil, nil, err
	}
	recs, err := s.loadRecommendations(analytics.RecommendationCriteria{})
	if err != nil {
		return nil, nil, err
	}
	return advisors, recs, nil
}
