package analytics

import (
	"testing"
	"time"

	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRecommendations(t *testing.T) {
	t.Run("confidence_range_inclusive", func(t *testing.T) {
		records := []models.Recommendation{
			rec(withConfidence(10)),
			rec(withConfidence(60)),
			rec(withConfidence(90)),
			rec(withConfidence(75)),
		}

		got := FilterRecommendations(records, RecommendationCriteria{ConfidenceMin: 50, ConfidenceMax: 80})

		require.Len(t, got, 2)
		assert.Equal(t, 60, got[0].ConfidenceLevel)
		assert.Equal(t, 75, got[1].ConfidenceLevel)
	})

	t.Run("bounds_are_inclusive_at_edges", func(t *testing.T) {
		records := []models.Recommendation{rec(withConfidence(50)), rec(withConfidence(80))}
		got := FilterRecommendations(records, RecommendationCriteria{ConfidenceMin: 50, ConfidenceMax: 80})
		assert.Len(t, got, 2)
	})

	t.Run("search_matches_symbol_or_reasoning_case_insensitive", func(t *testing.T) {
		bySymbol := rec(withSymbol("MSFT"), withReasoning("cloud growth"))
		byReasoning := rec(withSymbol("GOOG"), withReasoning("Microsoft partnership"))
		neither := rec(withSymbol("TSLA"), withReasoning("ev demand"))

		got := FilterRecommendations([]models.Recommendation{bySymbol, byReasoning, neither},
			RecommendationCriteria{Search: "  msft  "})
		assert.Equal(t, []string{bySymbol.ID}, ids(got))

		got = FilterRecommendations([]models.Recommendation{bySymbol, byReasoning, neither},
			RecommendationCriteria{Search: "MICRO"})
		assert.Equal(t, []string{byReasoning.ID}, ids(got))
	})

	t.Run("blank_search_is_no_filter", func(t *testing.T) {
		records := []models.Recommendation{rec(), rec()}
		got := FilterRecommendations(records, RecommendationCriteria{Search: "   \t"})
		assert.Len(t, got, 2)
	})

	t.Run("status_and_action_are_anded", func(t *testing.T) {
		match := rec(withStatus(models.StatusSuccessful), withAction(models.ActionSell))
		wrongAction := rec(withStatus(models.StatusSuccessful), withAction(models.ActionBuy))
		wrongStatus := rec(withStatus(models.StatusOngoing), withAction(models.ActionSell))

		got := FilterRecommendations([]models.Recommendation{match, wrongAction, wrongStatus},
			RecommendationCriteria{Status: models.StatusSuccessful, Action: models.ActionSell})
		assert.Equal(t, []string{match.ID}, ids(got))
	})

	t.Run("advisor_scope", func(t *testing.T) {
		mine := rec(withAdvisor("adv-a"))
		theirs := rec(withAdvisor("adv-b"))
		got := FilterRecommendations([]models.Recommendation{mine, theirs}, RecommendationCriteria{AdvisorID: "adv-b"})
		assert.Equal(t, []string{theirs.ID}, ids(got))
	})

	t.Run("date_range_inclusive_and_open_sided", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		before := rec(withCreated(from.Add(-time.Second)))
		atFrom := rec(withCreated(from))
		atTo := rec(withCreated(to))
		after := rec(withCreated(to.Add(time.Second)))
		all := []models.Recommendation{before, atFrom, atTo, after}

		got := FilterRecommendations(all, RecommendationCriteria{From: &from, To: &to})
		assert.Equal(t, []string{atFrom.ID, atTo.ID}, ids(got))

		got = FilterRecommendations(all, RecommendationCriteria{From: &from})
		assert.Equal(t, []string{atFrom.ID, atTo.ID, after.ID}, ids(got))
	})

	t.Run("no_match_returns_empty_not_nil", func(t *testing.T) {
		got := FilterRecommendations([]models.Recommendation{rec()}, RecommendationCriteria{Search: "zzz"})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		records := []models.Recommendation{
			rec(withConfidence(20), withStatus(models.StatusSuccessful)),
			rec(withConfidence(70), withStatus(models.StatusSuccessful), withSymbol("NVDA")),
			rec(withConfidence(70), withStatus(models.StatusOngoing)),
			rec(withConfidence(95), withStatus(models.StatusSuccessful), withReasoning("nvda chips")),
		}
		criteria := RecommendationCriteria{Search: "nvda", Status: models.StatusSuccessful, ConfidenceMin: 30}

		once := FilterRecommendations(records, criteria)
		twice := FilterRecommendations(once, criteria)
		assert.Equal(t, ids(once), ids(twice))
		assert.Len(t, once, 2)
	})

	t.Run("input_not_modified", func(t *testing.T) {
		records := []models.Recommendation{rec(withConfidence(10)), rec(withConfidence(90))}
		before := ids(records)
		FilterRecommendations(records, RecommendationCriteria{ConfidenceMin: 50})
		assert.Equal(t, before, ids(records))
	})
}

func TestFilterAdvisors(t *testing.T) {
	jane := advisor("a1", "Jane Doe", true)
	john := advisor("a2", "John Roe", false)
	john.Specialization = models.SpecializationDerivatives
	all := []models.Advisor{jane, john}

	t.Run("search_name_or_email", func(t *testing.T) {
		got := FilterAdvisors(all, AdvisorCriteria{Search: "JANE"})
		require.Len(t, got, 1)
		assert.Equal(t, "a1", got[0].ID)

		got = FilterAdvisors(all, AdvisorCriteria{Search: "a2@example"})
		require.Len(t, got, 1)
		assert.Equal(t, "a2", got[0].ID)
	})

	t.Run("specialization_exact", func(t *testing.T) {
		got := FilterAdvisors(all, AdvisorCriteria{Specialization: models.SpecializationDerivatives})
		require.Len(t, got, 1)
		assert.Equal(t, "a2", got[0].ID)
	})

	t.Run("active_only", func(t *testing.T) {
		got := FilterAdvisors(all, AdvisorCriteria{ActiveOnly: true})
		require.Len(t, got, 1)
		assert.Equal(t, "a1", got[0].ID)
	})

	t.Run("empty_criteria_keeps_all", func(t *testing.T) {
		assert.Len(t, FilterAdvisors(all, AdvisorCriteria{}), 2)
	})
}

func TestAnd(t *testing.T) {
	even := Predicate[int](func(n int) bool { return n%2 == 0 })
	big := Predicate[int](func(n int) bool { return n > 2 })

	assert.Equal(t, []int{4, 6}, Filter([]int{1, 2, 3, 4, 5, 6}, And(even, big)))
	assert.Equal(t, []int{1, 2}, Filter([]int{1, 2}, And[int]()))
}

func TestDateRangeFromPreset(t *testing.T) {
	cases := []struct {
		preset string
		want   time.Time
	}{
		{"7d", refNow.AddDate(0, 0, -7)},
		{"30d", refNow.AddDate(0, 0, -30)},
		{"90d", refNow.AddDate(0, 0, -90)},
		{"1y", refNow.AddDate(-1, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.preset, func(t *testing.T) {
			from, err := DateRangeFromPreset(tc.preset, refNow)
			require.NoError(t, err)
			require.NotNil(t, from)
			assert.True(t, tc.want.Equal(*from))
		})
	}

	t.Run("all_time", func(t *testing.T) {
		from, err := DateRangeFromPreset("", refNow)
		require.NoError(t, err)
		assert.Nil(t, from)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := DateRangeFromPreset("2w", refNow)
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrInvalidInput.Code, appErr.Code)
	})
}
