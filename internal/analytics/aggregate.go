package analytics

import (
	"math"

	"advisoriq/internal/models"

	"gonum.org/v1/gonum/stat"
)

// NoDataLabel is shown wherever a breakdown value has nothing to summarize.
const NoDataLabel = "N/A"

// Breakdown holds the descriptive part of an advisor's metrics. It only
// exists when the advisor has at least one recommendation.
type Breakdown struct {
	BestPerformingStock   string                      `json:"best_performing_stock"`
	AvgConfidenceLevel    float64                     `json:"avg_confidence_level"`
	MostRecommendedAction models.RecommendationAction `json:"most_recommended_action"`
}

// PerformanceMetrics is the aggregate view of one advisor's recommendations.
type PerformanceMetrics struct {
	AdvisorID    string          `json:"advisor_id"`
	Advisor      *models.Advisor `json:"advisor,omitempty"`
	Total        int             `json:"total_recommendations"`
	Successful   int             `json:"successful_recommendations"`
	Unsuccessful int             `json:"unsuccessful_recommendations"`
	Ongoing      int             `json:"ongoing_recommendations"`
	SuccessRate  float64         `json:"success_rate"`
	Breakdown    *Breakdown      `json:"breakdown,omitempty"`
}

// BestPerformingStock returns the breakdown value or NoDataLabel.
func (m PerformanceMetrics) BestPerformingStock() string {
	if m.Breakdown == nil {
		return NoDataLabel
	}
	return m.Breakdown.BestPerformingStock
}

// MostRecommendedAction returns the breakdown value or NoDataLabel.
func (m PerformanceMetrics) MostRecommendedAction() string {
	if m.Breakdown == nil {
		return NoDataLabel
	}
	return string(m.Breakdown.MostRecommendedAction)
}

// ComputeAdvisorMetrics aggregates the recommendations of one advisor.
// Records with an unrecognized status are counted as ongoing.
func ComputeAdvisorMetrics(advisorID string, records []models.Recommendation) PerformanceMetrics {
	m := PerformanceMetrics{AdvisorID: advisorID, Total: len(records)}
	if len(records) == 0 {
		return m
	}

	confidences := make([]float64, len(records))
	for i, r := range records {
		switch r.Status {
		case models.StatusSuccessful:
			m.Successful++
		case models.StatusUnsuccessful:
			m.Unsuccessful++
		default:
			m.Ongoing++
		}
		confidences[i] = float64(r.ConfidenceLevel)
	}
	m.SuccessRate = Rate(m.Successful, m.Total)

	m.Breakdown = &Breakdown{
		BestPerformingStock:   bestPerformingStock(records),
		AvgConfidenceLevel:    Round1(stat.Mean(confidences, nil)),
		MostRecommendedAction: mostRecommendedAction(records),
	}
	return m
}

type symbolTally struct {
	symbol     string
	total      int
	successful int
}

// bestPerformingStock picks the symbol with the strictly highest success
// rate; the first symbol seen wins a tie.
func bestPerformingStock(records []models.Recommendation) string {
	index := make(map[string]int)
	var tallies []symbolTally
	for _, r := range records {
		i, ok := index[r.StockSymbol]
		if !ok {
			i = len(tallies)
			index[r.StockSymbol] = i
			tallies = append(tallies, symbolTally{symbol: r.StockSymbol})
		}
		tallies[i].total++
		if r.Status == models.StatusSuccessful {
			tallies[i].successful++
		}
	}

	best, bestRate := "", -1.0
	for _, t := range tallies {
		rate := float64(t.successful) / float64(t.total)
		if rate > bestRate {
			best, bestRate = t.symbol, rate
		}
	}
	return best
}

func mostRecommendedAction(records []models.Recommendation) models.RecommendationAction {
	counts := make(map[models.RecommendationAction]int)
	var order []models.RecommendationAction
	for _, r := range records {
		if _, seen := counts[r.Action]; !seen {
			order = append(order, r.Action)
		}
		counts[r.Action]++
	}

	var best models.RecommendationAction
	bestCount := 0
	for _, a := range order {
		if counts[a] > bestCount {
			best, bestCount = a, counts[a]
		}
	}
	return best
}

// Rate returns 100*part/total rounded to one decimal, or 0 when total is 0.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round1(100 * float64(part) / float64(total))
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// GroupByAdvisor splits records per advisor. order lists advisor ids in the
// order they first appear.
func GroupByAdvisor(records []models.Recommendation) (order []string, groups map[string][]models.Recommendation) {
	groups = make(map[string][]models.Recommendation)
	for _, r := range records {
		if _, ok := groups[r.AdvisorID]; !ok {
			order = append(order, r.AdvisorID)
		}
		groups[r.AdvisorID] = append(groups[r.AdvisorID], r)
	}
	return order, groups
}

// ComputeRosterMetrics returns one metrics entry per advisor in roster order,
// including advisors with no recommendations.
func ComputeRosterMetrics(advisors []models.Advisor, records []models.Recommendation) []PerformanceMetrics {
	_, groups := GroupByAdvisor(records)
	out := make([]PerformanceMetrics, 0, len(advisors))
	for i := range advisors {
		a := advisors[i]
		m := ComputeAdvisorMetrics(a.ID, groups[a.ID])
		m.Advisor = &a
		out = append(out, m)
	}
	return out
}
