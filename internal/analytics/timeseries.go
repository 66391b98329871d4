package analytics

import (
	"fmt"
	"sort"
	"time"

	"advisoriq/internal/models"
)

// DefaultWindowMonths is the rolling window used for trend charts.
const DefaultWindowMonths = 12

// TimeBucket is one calendar month of recommendation activity.
type TimeBucket struct {
	Period      string  `json:"period"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Count       int     `json:"count"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"success_rate"`
}

// TimeSeriesOptions controls ComputeTimeSeries.
type TimeSeriesOptions struct {
	// WindowMonths is the number of calendar months ending with now's month.
	// Zero or negative means DefaultWindowMonths.
	WindowMonths int
	// ZeroFill emits empty months with zero counts instead of omitting them.
	ZeroFill bool
}

// ComputeTimeSeries buckets the records created inside the rolling window by
// UTC calendar month, oldest month first.
func ComputeTimeSeries(records []models.Recommendation, now time.Time, opts TimeSeriesOptions) []TimeBucket {
	window := opts.WindowMonths
	if window <= 0 {
		window = DefaultWindowMonths
	}
	now = now.UTC()
	start := time.Date(now.Year(), now.Month()-time.Month(window-1), 1, 0, 0, 0, 0, time.UTC)

	buckets := make(map[int]*TimeBucket)
	for _, r := range records {
		created := r.CreatedAt.UTC()
		if created.Before(start) || created.After(now) {
			continue
		}
		k := monthKey(created.Year(), created.Month())
		b, ok := buckets[k]
		if !ok {
			b = newBucket(created.Year(), created.Month())
			buckets[k] = b
		}
		b.Count++
		if r.Status == models.StatusSuccessful {
			b.Successful++
		}
	}

	if opts.ZeroFill {
		for i := 0; i < window; i++ {
			m := start.AddDate(0, i, 0)
			k := monthKey(m.Year(), m.Month())
			if _, ok := buckets[k]; !ok {
				buckets[k] = newBucket(m.Year(), m.Month())
			}
		}
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]TimeBucket, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		b.SuccessRate = Rate(b.Successful, b.Count)
		out = append(out, *b)
	}
	return out
}

func monthKey(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

func newBucket(year int, month time.Month) *TimeBucket {
	return &TimeBucket{
		Period: fmt.Sprintf("%04d-%02d", year, int(month)),
		Year:   year,
		Month:  int(month),
	}
}
