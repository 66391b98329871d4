package services

import (
	"time"

	"gorm.io/gorm"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
)

// searchService answers the search page. It fetches the collections visible
// to the caller and filters them in memory with the analytics predicates.
type searchService struct {
	advisors        AdvisorServicer
	recommendations RecommendationServicer
	now             func() time.Time
}

// NewSearchService creates a new SearchServicer.
func NewSearchService(db *gorm.DB) SearchServicer {
	return &searchService{
		advisors:        NewAdvisorService(db),
		recommendations: NewRecommendationService(db),
		now:             time.Now,
	}
}

// Search runs query for actor. Advisors only ever see their own profile and
// recommendations. A date preset narrows recommendations by creation time
// unless an explicit From bound was given.
func (s *searchService) Search(actor Actor, query SearchQuery) (*SearchResults, error) {
	if query.Type == "" {
		query.Type = SearchAll
	}
	if !query.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be one of all, advisors, recommendations, performance")
	}
	if query.Specialization != "" && !query.Specialization.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported specialization")
	}

	criteria := query.Criteria
	criteria.Search = query.Term
	if criteria.From == nil {
		from, err := analytics.DateRangeFromPreset(query.DatePreset, s.now())
		if err != nil {
			return nil, err
		}
		criteria.From = from
	}

	advisors, err := s.visibleAdvisors(actor)
	if err != nil {
		return nil, err
	}
	advisorCriteria := analytics.AdvisorCriteria{Search: query.Term, Specialization: query.Specialization}
	matchedAdvisors := analytics.FilterAdvisors(advisors, advisorCriteria)

	results := &SearchResults{}
	wantAll := query.Type == SearchAll

	if wantAll || query.Type == SearchAdvisors {
		results.Advisors = matchedAdvisors
	}

	if wantAll || query.Type == SearchRecommendations || query.Type == SearchPerformance {
		recs, err := s.recommendations.ListAllRecommendations(actor)
		if err != nil {
			return nil, err
		}

		if wantAll || query.Type == SearchRecommendations {
			results.Recommendations = analytics.FilterRecommendations(recs, criteria)
		}
		if wantAll || query.Type == SearchPerformance {
			// Performance rows are per advisor; only the date bound applies
			// to the recommendations feeding them.
			windowed := analytics.FilterRecommendations(recs, analytics.RecommendationCriteria{From: criteria.From, To: criteria.To})
			results.Performance = analytics.ComputeRosterMetrics(matchedAdvisors, windowed)
		}
	}

	return results, nil
}

func (s *searchService) visibleAdvisors(actor Actor) ([]models.Advisor, error) {
	if actor.IsStaff() {
		return s.advisors.ListAllAdvisors()
	}
	if actor.AdvisorID == "" {
		return nil, apperrors.ErrNoAdvisorProfile
	}
	advisor, err := s.advisors.GetAdvisorByID(actor, actor.AdvisorID)
	if err != nil {
		return nil, err
	}
	return []models.Advisor{*advisor}, nil
}
