package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
)

// recommendationService handles recommendation lifecycle operations.
type recommendationService struct {
	db *gorm.DB
}

// NewRecommendationService creates a new RecommendationServicer.
func NewRecommendationService(db *gorm.DB) RecommendationServicer {
	return &recommendationService{db: db}
}

// CreateRecommendation validates and stores a new ongoing recommendation.
// Advisors may only create recommendations for themselves; an empty
// AdvisorID defaults to the calling advisor.
func (s *recommendationService) CreateRecommendation(actor Actor, input RecommendationInput) (*models.Recommendation, error) {
	if !actor.IsStaff() {
		if actor.AdvisorID == "" {
			return nil, apperrors.ErrNoAdvisorProfile
		}
		if input.AdvisorID == "" {
			input.AdvisorID = actor.AdvisorID
		}
		if input.AdvisorID != actor.AdvisorID {
			return nil, apperrors.ErrForbidden
		}
	}

	symbol := strings.ToUpper(strings.TrimSpace(input.StockSymbol))
	reasoning := strings.TrimSpace(input.Reasoning)
	if input.AdvisorID == "" || symbol == "" || reasoning == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Advisor, stock symbol, and reasoning are required")
	}
	if !input.Action.Valid() {
		return nil, apperrors.ErrInvalidAction
	}
	if !input.TargetPrice.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target price must be greater than zero")
	}
	if input.ConfidenceLevel < analytics.MinConfidence || input.ConfidenceLevel > analytics.MaxConfidence {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Confidence level must be between 1 and 100")
	}
	if !models.ValidTimeframe(input.Timeframe) {
		return nil, apperrors.ErrInvalidTimeframe
	}

	var advisor models.Advisor
	if err := s.db.Where("id = ?", input.AdvisorID).First(&advisor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAdvisorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !advisor.IsActive {
		return nil, apperrors.ErrAdvisorInactive
	}

	rec := &models.Recommendation{
		AdvisorID:       input.AdvisorID,
		StockSymbol:     symbol,
		Action:          input.Action,
		TargetPrice:     input.TargetPrice,
		Reasoning:       reasoning,
		ConfidenceLevel: input.ConfidenceLevel,
		Timeframe:       input.Timeframe,
		Status:          models.StatusOngoing,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	rec.Advisor = &advisor
	return rec, nil
}

// scopeCriteria pins an advisor caller to their own recommendations.
func scopeCriteria(actor Actor, criteria analytics.RecommendationCriteria) (analytics.RecommendationCriteria, error) {
	if actor.IsStaff() {
		return criteria, nil
	}
	if actor.AdvisorID == "" {
		return criteria, apperrors.ErrNoAdvisorProfile
	}
	if criteria.AdvisorID != "" && criteria.AdvisorID != actor.AdvisorID {
		return criteria, apperrors.ErrForbidden
	}
	criteria.AdvisorID = actor.AdvisorID
	return criteria, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a lower-cased LIKE pattern for a
// literal substring match, to be used with ESCAPE '\'. Blank terms report false.
func containsPattern(term string) (string, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return "", false
	}
	return "%" + likeEscaper.Replace(term) + "%", true
}

// applyCriteria translates criteria into SQL conditions. It matches
// analytics.FilterRecommendations for the same criteria.
func applyCriteria(query *gorm.DB, c analytics.RecommendationCriteria) *gorm.DB {
	if like, ok := containsPattern(c.Search); ok {
		query = query.Where(`(LOWER(stock_symbol) LIKE ? ESCAPE '\' OR LOWER(reasoning) LIKE ? ESCAPE '\')`, like, like)
	}
	if c.Status != "" {
		query = query.Where("status = ?", c.Status)
	}
	if c.Action != "" {
		query = query.Where("action = ?", c.Action)
	}
	if c.AdvisorID != "" {
		query = query.Where("advisor_id = ?", c.AdvisorID)
	}
	if c.ConfidenceMin > analytics.MinConfidence {
		query = query.Where("confidence_level >= ?", c.ConfidenceMin)
	}
	if c.ConfidenceMax > 0 && c.ConfidenceMax < analytics.MaxConfidence {
		query = query.Where("confidence_level <= ?", c.ConfidenceMax)
	}
	if c.From != nil {
		query = query.Where("created_at >= ?", *c.From)
	}
	if c.To != nil {
		query = query.Where("created_at <= ?", *c.To)
	}
	return query
}

// GetRecommendations returns a page of recommendations, newest first.
func (s *recommendationService) GetRecommendations(
	actor Actor,
	criteria analytics.RecommendationCriteria,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Recommendation], error) {
	page.Defaults()

	criteria, err := scopeCriteria(actor, criteria)
	if err != nil {
		return nil, err
	}
	if criteria.ConfidenceMin > 0 && criteria.ConfidenceMax > 0 && criteria.ConfidenceMin > criteria.ConfidenceMax {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "confidence_min must not exceed confidence_max")
	}

	query := applyCriteria(s.db.Model(&models.Recommendation{}), criteria)

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recs []models.Recommendation
	if err := query.Preload("Advisor").
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&recs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecommendationByID retrieves a recommendation the actor may see.
func (s *recommendationService) GetRecommendationByID(actor Actor, recommendationID string) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := s.db.Preload("Advisor").Where("id = ?", recommendationID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecommendationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !actor.CanAccessAdvisor(rec.AdvisorID) {
		return nil, apperrors.ErrForbidden
	}
	return &rec, nil
}

// UpdateRecommendation changes status and outcome notes. Any status may move
// to any other.
func (s *recommendationService) UpdateRecommendation(actor Actor, recommendationID string, update RecommendationUpdate) (*models.Recommendation, error) {
	rec, err := s.GetRecommendationByID(actor, recommendationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		updates["status"] = *update.Status
	}
	if update.OutcomeNotes != nil {
		updates["outcome_notes"] = strings.TrimSpace(*update.OutcomeNotes)
	}

	if len(updates) > 0 {
		if err := s.db.Model(rec).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetRecommendationByID(actor, recommendationID)
}

// DeleteRecommendation soft-deletes a recommendation the actor may edit.
func (s *recommendationService) DeleteRecommendation(actor Actor, recommendationID string) error {
	rec, err := s.GetRecommendationByID(actor, recommendationID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(rec).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListAllRecommendations returns every recommendation visible to the actor,
// newest first, with advisors preloaded.
func (s *recommendationService) ListAllRecommendations(actor Actor) ([]models.Recommendation, error) {
	criteria, err := scopeCriteria(actor, analytics.RecommendationCriteria{})
	if err != nil {
		return nil, err
	}

	var recs []models.Recommendation
	if err := applyCriteria(s.db.Model(&models.Recommendation{}), criteria).
		Preload("Advisor").
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return recs, nil
}
