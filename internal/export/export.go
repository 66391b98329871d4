// Package export flattens search results into CSV for download.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"advisoriq/internal/analytics"
	"advisoriq/internal/models"
)

// Kind selects which result set is written.
type Kind string

const (
	KindAdvisors        Kind = "advisors"
	KindRecommendations Kind = "recommendations"
	KindPerformance     Kind = "performance"
)

// Valid reports whether k names an exportable result set.
func (k Kind) Valid() bool {
	return k == KindAdvisors || k == KindRecommendations || k == KindPerformance
}

// AdvisorRow is one advisor line of an export.
type AdvisorRow struct {
	ID             string `csv:"id"`
	Name           string `csv:"name"`
	Email          string `csv:"email"`
	Phone          string `csv:"phone"`
	Specialization string `csv:"specialization"`
	Active         bool   `csv:"active"`
	CreatedAt      string `csv:"created_at"`
}

// RecommendationRow is one recommendation line of an export.
type RecommendationRow struct {
	ID              string `csv:"id"`
	Advisor         string `csv:"advisor"`
	StockSymbol     string `csv:"stock_symbol"`
	Action          string `csv:"action"`
	TargetPrice     string `csv:"target_price"`
	ConfidenceLevel int    `csv:"confidence_level"`
	Timeframe       string `csv:"timeframe"`
	Status          string `csv:"status"`
	Reasoning       string `csv:"reasoning"`
	OutcomeNotes    string `csv:"outcome_notes"`
	CreatedAt       string `csv:"created_at"`
}

// PerformanceRow is one advisor metrics line of an export.
type PerformanceRow struct {
	AdvisorID             string  `csv:"advisor_id"`
	Advisor               string  `csv:"advisor"`
	Total                 int     `csv:"total_recommendations"`
	Successful            int     `csv:"successful"`
	Unsuccessful          int     `csv:"unsuccessful"`
	Ongoing               int     `csv:"ongoing"`
	SuccessRate           float64 `csv:"success_rate"`
	BestPerformingStock   string  `csv:"best_performing_stock"`
	MostRecommendedAction string  `csv:"most_recommended_action"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// AdvisorRows converts advisors to export rows.
func AdvisorRows(advisors []models.Advisor) []*AdvisorRow {
	rows := make([]*AdvisorRow, 0, len(advisors))
	for _, a := range advisors {
		rows = append(rows, &AdvisorRow{
			ID:             a.ID,
			Name:           a.Name,
			Email:          a.Email,
			Phone:          deref(a.Phone),
			Specialization: string(a.Specialization),
			Active:         a.IsActive,
			CreatedAt:      formatTime(a.CreatedAt),
		})
	}
	return rows
}

// RecommendationRows converts recommendations to export rows. The advisor
// column uses the preloaded advisor name when present.
func RecommendationRows(recs []models.Recommendation) []*RecommendationRow {
	rows := make([]*RecommendationRow, 0, len(recs))
	for _, r := range recs {
		advisor := analytics.UnknownAdvisorName
		if r.Advisor != nil {
			advisor = r.Advisor.Name
		}
		rows = append(rows, &RecommendationRow{
			ID:              r.ID,
			Advisor:         advisor,
			StockSymbol:     r.StockSymbol,
			Action:          string(r.Action),
			TargetPrice:     r.TargetPrice.StringFixed(2),
			ConfidenceLevel: r.ConfidenceLevel,
			Timeframe:       analytics.TimeframeLabel(r.Timeframe),
			Status:          string(r.Status),
			Reasoning:       r.Reasoning,
			OutcomeNotes:    deref(r.OutcomeNotes),
			CreatedAt:       formatTime(r.CreatedAt),
		})
	}
	return rows
}

// PerformanceRows converts advisor metrics to export rows.
func PerformanceRows(metrics []analytics.PerformanceMetrics) []*PerformanceRow {
	rows := make([]*PerformanceRow, 0, len(metrics))
	for _, m := range metrics {
		name := ""
		if m.Advisor != nil {
			name = m.Advisor.Name
		}
		rows = append(rows, &PerformanceRow{
			AdvisorID:             m.AdvisorID,
			Advisor:               name,
			Total:                 m.Total,
			Successful:            m.Successful,
			Unsuccessful:          m.Unsuccessful,
			Ongoing:               m.Ongoing,
			SuccessRate:           m.SuccessRate,
			BestPerformingStock:   m.BestPerformingStock(),
			MostRecommendedAction: m.MostRecommendedAction(),
		})
	}
	return rows
}

// WriteAdvisors writes advisors as CSV with a header row.
func WriteAdvisors(w io.Writer, advisors []models.Advisor) error {
	return write(w, AdvisorRows(advisors))
}

// WriteRecommendations writes recommendations as CSV with a header row.
func WriteRecommendations(w io.Writer, recs []models.Recommendation) error {
	return write(w, RecommendationRows(recs))
}

// WritePerformance writes advisor metrics as CSV with a header row.
func WritePerformance(w io.Writer, metrics []analytics.PerformanceMetrics) error {
	return write(w, PerformanceRows(metrics))
}

func write(w io.Writer, rows interface{}) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename returns the download name for kind at now, e.g.
// "advisoriq-recommendations-20240615.csv".
func Filename(kind Kind, now time.Time) string {
	return fmt.Sprintf("advisoriq-%s-%s.csv", kind, now.UTC().Format("20060102"))
}
