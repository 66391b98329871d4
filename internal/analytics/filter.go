// Package analytics turns fetched recommendation and advisor collections into
// the derived views served by the API: filtered result sets, per-advisor
// metrics, monthly trend buckets, leaderboards and the network dashboard.
//
// Every function here is pure. Inputs are never modified and results are
// freshly allocated, so callers may share collections across goroutines.
package analytics

import (
	"strings"
	"time"

	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
)

// Confidence bounds applied when a criteria side is left at zero.
const (
	MinConfidence = 1
	MaxConfidence = 100
)

// Predicate reports whether a record should be kept.
type Predicate[T any] func(T) bool

// And combines predicates; a record is kept only when every predicate keeps it.
// And with no predicates keeps everything.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range preds {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// Filter returns the items kept by pred. The result is never nil.
func Filter[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// RecommendationCriteria selects recommendations. Zero values impose no constraint.
type RecommendationCriteria struct {
	Search        string
	Status        models.RecommendationStatus
	Action        models.RecommendationAction
	AdvisorID     string
	ConfidenceMin int
	ConfidenceMax int
	From          *time.Time
	To            *time.Time
}

// AdvisorCriteria selects advisors. Zero values impose no constraint.
type AdvisorCriteria struct {
	Search         string
	Specialization models.Specialization
	ActiveOnly     bool
}

// FilterRecommendations returns the records matching every criterion.
func FilterRecommendations(records []models.Recommendation, c RecommendationCriteria) []models.Recommendation {
	return Filter(records, c.Predicate())
}

// Predicate builds the AND chain for c.
func (c RecommendationCriteria) Predicate() Predicate[models.Recommendation] {
	var preds []Predicate[models.Recommendation]

	if term := normalizeTerm(c.Search); term != "" {
		preds = append(preds, func(r models.Recommendation) bool {
			return strings.Contains(strings.ToLower(r.StockSymbol), term) ||
				strings.Contains(strings.ToLower(r.Reasoning), term)
		})
	}
	if c.Status != "" {
		preds = append(preds, func(r models.Recommendation) bool { return r.Status == c.Status })
	}
	if c.Action != "" {
		preds = append(preds, func(r models.Recommendation) bool { return r.Action == c.Action })
	}
	if c.AdvisorID != "" {
		preds = append(preds, func(r models.Recommendation) bool { return r.AdvisorID == c.AdvisorID })
	}

	lo, hi := c.confidenceBounds()
	if lo > MinConfidence || hi < MaxConfidence {
		preds = append(preds, func(r models.Recommendation) bool {
			return r.ConfidenceLevel >= lo && r.ConfidenceLevel <= hi
		})
	}

	if c.From != nil {
		from := *c.From
		preds = append(preds, func(r models.Recommendation) bool { return !r.CreatedAt.Before(from) })
	}
	if c.To != nil {
		to := *c.To
		preds = append(preds, func(r models.Recommendation) bool { return !r.CreatedAt.After(to) })
	}

	return And(preds...)
}

func (c RecommendationCriteria) confidenceBounds() (int, int) {
	lo, hi := c.ConfidenceMin, c.ConfidenceMax
	if lo == 0 {
		lo = MinConfidence
	}
	if hi == 0 {
		hi = MaxConfidence
	}
	return lo, hi
}

// FilterAdvisors returns the advisors matching every criterion.
func FilterAdvisors(advisors []models.Advisor, c AdvisorCriteria) []models.Advisor {
	return Filter(advisors, c.Predicate())
}

// Predicate builds the AND chain for c.
func (c AdvisorCriteria) Predicate() Predicate[models.Advisor] {
	var preds []Predicate[models.Advisor]

	if term := normalizeTerm(c.Search); term != "" {
		preds = append(preds, func(a models.Advisor) bool {
			return strings.Contains(strings.ToLower(a.Name), term) ||
				strings.Contains(strings.ToLower(a.Email), term)
		})
	}
	if c.Specialization != "" {
		preds = append(preds, func(a models.Advisor) bool { return a.Specialization == c.Specialization })
	}
	if c.ActiveOnly {
		preds = append(preds, func(a models.Advisor) bool { return a.IsActive })
	}

	return And(preds...)
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DateRangeFromPreset converts a search-page preset into a lower bound on
// created_at. The empty preset means all time and yields nil.
func DateRangeFromPreset(preset string, now time.Time) (*time.Time, error) {
	var from time.Time
	switch preset {
	case "":
		return nil, nil
	case "7d":
		from = now.AddDate(0, 0, -7)
	case "30d":
		from = now.AddDate(0, 0, -30)
	case "90d":
		from = now.AddDate(0, 0, -90)
	case "1y":
		from = now.AddDate(-1, 0, 0)
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date range must be one of 7d, 30d, 90d, 1y")
	}
	return &from, nil
}
