package analytics

import (
	"fmt"
	"time"

	"advisoriq/internal/models"
)

var refNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type recOpt func(*models.Recommendation)

func withStatus(s models.RecommendationStatus) recOpt {
	return func(r *models.Recommendation) { r.Status = s }
}

func withSymbol(sym string) recOpt {
	return func(r *models.Recommendation) { r.StockSymbol = sym }
}

func withAction(a models.RecommendationAction) recOpt {
	return func(r *models.Recommendation) { r.Action = a }
}

func withConfidence(c int) recOpt {
	return func(r *models.Recommendation) { r.ConfidenceLevel = c }
}

func withAdvisor(id string) recOpt {
	return func(r *models.Recommendation) { r.AdvisorID = id }
}

func withCreated(t time.Time) recOpt {
	return func(r *models.Recommendation) { r.CreatedAt = t }
}

func withReasoning(s string) recOpt {
	return func(r *models.Recommendation) { r.Reasoning = s }
}

var recSeq int

func rec(opts ...recOpt) models.Recommendation {
	recSeq++
	r := models.Recommendation{
		AdvisorID:       "adv-a",
		StockSymbol:     "AAPL",
		Action:          models.ActionBuy,
		Reasoning:       "strong fundamentals",
		ConfidenceLevel: 50,
		Timeframe:       6,
		Status:          models.StatusOngoing,
	}
	r.ID = fmt.Sprintf("rec-%d", recSeq)
	r.CreatedAt = refNow.AddDate(0, 0, -1)
	for _, o := range opts {
		o(&r)
	}
	return r
}

func advisor(id, name string, active bool) models.Advisor {
	a := models.Advisor{Name: name, Email: id + "@example.com", Specialization: models.SpecializationEquities, IsActive: active}
	a.ID = id
	return a
}

func ids(records []models.Recommendation) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
