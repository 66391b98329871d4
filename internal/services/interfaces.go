package services

import (
	"time"

	"github.com/shopspring/decimal"

	"advisoriq/internal/analytics"
	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
)

// Actor identifies the caller of a service operation. It is passed
// explicitly on every call that depends on who is asking.
type Actor struct {
	UserID    string
	Role      models.UserRole
	AdvisorID string
}

// IsStaff reports whether the actor may see the whole network.
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// CanAccessAdvisor reports whether the actor may read or edit advisorID's data.
func (a Actor) CanAccessAdvisor(advisorID string) bool {
	return a.IsStaff() || (a.AdvisorID != "" && a.AdvisorID == advisorID)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, role models.UserRole) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AdvisorInput carries the fields of a new advisor.
type AdvisorInput struct {
	Name           string
	Email          string
	Phone          *string
	Specialization models.Specialization
	Bio            *string
	ProfileImage   *string
	UserID         *string
}

// AdvisorUpdate carries a partial advisor edit; nil fields are left unchanged.
type AdvisorUpdate struct {
	Name           *string
	Email          *string
	Phone          *string
	Specialization *models.Specialization
	Bio            *string
	ProfileImage   *string
	IsActive       *bool
}

// AdvisorFilter holds optional server-side filters for listing advisors.
type AdvisorFilter struct {
	Search         string
	Specialization models.Specialization
	IsActive       *bool
}

// AdvisorServicer defines the contract for roster management.
type AdvisorServicer interface {
	CreateAdvisor(actor Actor, input AdvisorInput) (*models.Advisor, error)
	GetAdvisors(filter AdvisorFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Advisor], error)
	GetAdvisorByID(actor Actor, advisorID string) (*models.Advisor, error)
	GetAdvisorByUserID(userID string) (*models.Advisor, error)
	EnsureAdvisorForUser(user *models.User) (*models.Advisor, error)
	UpdateAdvisor(actor Actor, advisorID string, update AdvisorUpdate) (*models.Advisor, error)
	DeactivateAdvisor(actor Actor, advisorID string) error
	ListAllAdvisors() ([]models.Advisor, error)
}

// RecommendationInput carries the fields of a new recommendation.
type RecommendationInput struct {
	AdvisorID       string
	StockSymbol     string
	Action          models.RecommendationAction
	TargetPrice     decimal.Decimal
	Reasoning       string
	ConfidenceLevel int
	Timeframe       int
}

// RecommendationUpdate carries the mutable part of a recommendation.
type RecommendationUpdate struct {
	Status       *models.RecommendationStatus
	OutcomeNotes *string
}

// RecommendationServicer defines the contract for recommendation management.
// Listing filters reuse analytics.RecommendationCriteria so the same criteria
// drive both SQL queries and in-memory filtering.
type RecommendationServicer interface {
	CreateRecommendation(actor Actor, input RecommendationInput) (*models.Recommendation, error)
	GetRecommendations(actor Actor, criteria analytics.RecommendationCriteria, page pagination.PageRequest) (*pagination.PageResponse[models.Recommendation], error)
	GetRecommendationByID(actor Actor, recommendationID string) (*models.Recommendation, error)
	UpdateRecommendation(actor Actor, recommendationID string, update RecommendationUpdate) (*models.Recommendation, error)
	DeleteRecommendation(actor Actor, recommendationID string) error
	ListAllRecommendations(actor Actor) ([]models.Recommendation, error)
}

// DashboardResult wraps the dashboard with a flag set when the underlying
// collections could not be loaded and an empty dashboard was substituted.
type DashboardResult struct {
	analytics.DashboardStats
	Degraded bool `json:"degraded"`
}

// PerformanceServicer derives metrics, trends, leaderboards and the
// dashboard from stored advisors and recommendations.
type PerformanceServicer interface {
	GetAdvisorMetrics(actor Actor, advisorID string) (*analytics.PerformanceMetrics, error)
	GetTimeSeries(actor Actor, advisorID string, opts analytics.TimeSeriesOptions) ([]analytics.TimeBucket, error)
	GetLeaderboard(topN int) ([]analytics.PerformanceMetrics, error)
	GetAllAdvisorMetrics() ([]analytics.PerformanceMetrics, error)
	GetDashboardStats() DashboardResult
}

// SearchType narrows a search to one result kind.
type SearchType string

const (
	SearchAll             SearchType = "all"
	SearchAdvisors        SearchType = "advisors"
	SearchRecommendations SearchType = "recommendations"
	SearchPerformance     SearchType = "performance"
)

// Valid reports whether t is a known search type.
func (t SearchType) Valid() bool {
	switch t {
	case SearchAll, SearchAdvisors, SearchRecommendations, SearchPerformance:
		return true
	}
	return false
}

// SearchQuery is the search page request: a free-text term, a result type,
// a date preset, and the advanced filters.
type SearchQuery struct {
	Term           string
	Type           SearchType
	DatePreset     string
	Criteria       analytics.RecommendationCriteria
	Specialization models.Specialization
}

// SearchResults groups search hits by kind. Kinds excluded by the query type are nil.
type SearchResults struct {
	Advisors        []models.Advisor               `json:"advisors,omitempty"`
	Recommendations []models.Recommendation        `json:"recommendations,omitempty"`
	Performance     []analytics.PerformanceMetrics `json:"performance,omitempty"`
}

// SearchServicer defines the contract for the cross-entity search page.
type SearchServicer interface {
	Search(actor Actor, query SearchQuery) (*SearchResults, error)
}

// SnapshotServicer records and serves historical advisor performance.
type SnapshotServicer interface {
	ComputeAndRecordSnapshots(recordedAt time.Time) (int, error)
	GetSnapshots(advisorID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PerformanceSnapshot], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
