package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"advisoriq/internal/models"
)

// RecentActivityLimit bounds the dashboard activity feed.
const RecentActivityLimit = 5

// UnknownAdvisorName stands in when a recommendation's advisor is not loaded.
const UnknownAdvisorName = "Unknown advisor"

// ActivityType classifies a feed entry.
type ActivityType string

const (
	ActivityRecommendationAdded   ActivityType = "recommendation_added"
	ActivityRecommendationUpdated ActivityType = "recommendation_updated"
	ActivityAdvisorJoined         ActivityType = "advisor_joined"
)

// RecentActivity is one human-readable entry of the dashboard feed.
type RecentActivity struct {
	ID          string          `json:"id"`
	Type        ActivityType    `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	Advisor     *models.Advisor `json:"advisor,omitempty"`
}

// DashboardStats is the network-wide summary for operations staff.
type DashboardStats struct {
	TotalAdvisors         int                  `json:"total_advisors"`
	TotalRecommendations  int                  `json:"total_recommendations"`
	ActiveRecommendations int                  `json:"active_recommendations"`
	OverallSuccessRate    float64              `json:"overall_success_rate"`
	RecentActivity        []RecentActivity     `json:"recent_activity"`
	TopPerformers         []PerformanceMetrics `json:"top_performers"`
}

// EmptyDashboardStats is the all-zero summary with empty, non-nil lists.
func EmptyDashboardStats() DashboardStats {
	return DashboardStats{
		RecentActivity: []RecentActivity{},
		TopPerformers:  []PerformanceMetrics{},
	}
}

// ComposeDashboardStats builds the dashboard from the full recommendation and
// advisor collections.
func ComposeDashboardStats(recommendations []models.Recommendation, advisors []models.Advisor) DashboardStats {
	stats := EmptyDashboardStats()

	byID := make(map[string]*models.Advisor, len(advisors))
	for i := range advisors {
		byID[advisors[i].ID] = &advisors[i]
		if advisors[i].IsActive {
			stats.TotalAdvisors++
		}
	}

	successful := 0
	for _, r := range recommendations {
		switch r.Status {
		case models.StatusSuccessful:
			successful++
		case models.StatusOngoing:
			stats.ActiveRecommendations++
		}
	}
	stats.TotalRecommendations = len(recommendations)
	stats.OverallSuccessRate = Rate(successful, len(recommendations))

	stats.RecentActivity = recentActivity(recommendations, byID, RecentActivityLimit)

	order, groups := GroupByAdvisor(recommendations)
	metrics := make([]PerformanceMetrics, 0, len(order))
	for _, id := range order {
		m := ComputeAdvisorMetrics(id, groups[id])
		m.Advisor = lookupAdvisor(id, groups[id][0], byID)
		metrics = append(metrics, m)
	}
	stats.TopPerformers = RankTopPerformers(metrics, DefaultTopN)

	return stats
}

func recentActivity(records []models.Recommendation, byID map[string]*models.Advisor, limit int) []RecentActivity {
	sorted := make([]models.Recommendation, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	feed := make([]RecentActivity, 0, len(sorted))
	for _, r := range sorted {
		advisor := lookupAdvisor(r.AdvisorID, r, byID)
		feed = append(feed, RecentActivity{
			ID:          r.ID,
			Type:        ActivityRecommendationAdded,
			Description: DescribeRecommendation(r, advisor),
			CreatedAt:   r.CreatedAt,
			Advisor:     advisor,
		})
	}
	return feed
}

// DescribeRecommendation renders a feed line such as
// "Jane Doe added BUY recommendation for AAPL".
func DescribeRecommendation(r models.Recommendation, advisor *models.Advisor) string {
	name := UnknownAdvisorName
	if advisor != nil && advisor.Name != "" {
		name = advisor.Name
	}
	return fmt.Sprintf("%s added %s recommendation for %s",
		name, strings.ToUpper(string(r.Action)), r.StockSymbol)
}

// lookupAdvisor returns a copy of the advisor for id, falling back to the
// record's preloaded advisor.
func lookupAdvisor(id string, r models.Recommendation, byID map[string]*models.Advisor) *models.Advisor {
	a, ok := byID[id]
	if !ok {
		a = r.Advisor
	}
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
