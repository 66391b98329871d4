package analytics

import "sort"

// DefaultTopN is the leaderboard size used by the dashboard.
const DefaultTopN = 5

// RankTopPerformers orders metrics by success rate, highest first, and keeps
// at most topN entries. Equal rates keep their input order. The input slice
// is not reordered.
func RankTopPerformers(metrics []PerformanceMetrics, topN int) []PerformanceMetrics {
	if topN <= 0 {
		return []PerformanceMetrics{}
	}

	ranked := make([]PerformanceMetrics, len(metrics))
	copy(ranked, metrics)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SuccessRate > ranked[j].SuccessRate
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
