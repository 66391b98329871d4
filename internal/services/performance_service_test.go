package services

import (
	"errors"
	"testing"
	"time"

	"advisoriq/internal/analytics"
	"advisoriq/internal/models"
	"advisoriq/internal/testutil"
)

func newTestPerformanceService(t *testing.T, now time.Time) (PerformanceServicer, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewPerformanceService(db).(*performanceService)
	svc.now = func() time.Time { return now }
	return svc, func() { testutil.TeardownTestDB(t, db) }
}

func TestGetAdvisorMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPerformanceService(db)

	advisor := testutil.CreateTestAdvisor(t, db)
	other := testutil.CreateTestAdvisor(t, db)
	testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusSuccessful)
	testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusSuccessful)
	testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusOngoing)
	testutil.CreateTestRecommendation(t, db, other.ID, models.StatusUnsuccessful)

	t.Run("own_metrics", func(t *testing.T) {
		m, err := svc.GetAdvisorMetrics(advisorActor(advisor), advisor.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertMetrics(t, *m, testutil.StatusCounts{Total: 3, Successful: 2, Ongoing: 1, SuccessRate: 66.7})
		if m.Advisor == nil || m.Advisor.ID != advisor.ID {
			t.Error("expected advisor attached")
		}
		if m.Breakdown == nil || m.Breakdown.BestPerformingStock != "AAPL" {
			t.Errorf("unexpected breakdown: %+v", m.Breakdown)
		}
	})

	t.Run("other_advisor_forbidden", func(t *testing.T) {
		_, err := svc.GetAdvisorMetrics(advisorActor(advisor), other.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("no_recommendations", func(t *testing.T) {
		fresh := testutil.CreateTestAdvisor(t, db)
		m, err := svc.GetAdvisorMetrics(opsActor, fresh.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertMetrics(t, *m, testutil.StatusCounts{})
		if m.Breakdown != nil {
			t.Errorf("expected no breakdown, got %+v", m.Breakdown)
		}
	})
}

func TestGetTimeSeries(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, teardown := newTestPerformanceService(t, now)
	defer teardown()
	db := svc.(*performanceService).db

	advisor := testutil.CreateTestAdvisor(t, db)
	testutil.CreateTestRecommendationAt(t, db, advisor.ID, models.StatusSuccessful, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestRecommendationAt(t, db, advisor.ID, models.StatusOngoing, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestRecommendationAt(t, db, advisor.ID, models.StatusSuccessful, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestRecommendationAt(t, db, advisor.ID, models.StatusSuccessful, time.Date(2022, 1, 9, 0, 0, 0, 0, time.UTC))

	t.Run("advisor_series", func(t *testing.T) {
		buckets, err := svc.GetTimeSeries(advisorActor(advisor), advisor.ID, analytics.TimeSeriesOptions{})
		testutil.AssertNoError(t, err)

		if len(buckets) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(buckets))
		}
		if buckets[1].Period != "2024-05" || buckets[1].Count != 2 || buckets[1].SuccessRate != 50 {
			t.Errorf("unexpected bucket: %+v", buckets[1])
		}
	})

	t.Run("zero_filled", func(t *testing.T) {
		buckets, err := svc.GetTimeSeries(opsActor, "", analytics.TimeSeriesOptions{ZeroFill: true})
		testutil.AssertNoError(t, err)
		if len(buckets) != 12 {
			t.Errorf("expected 12 buckets, got %d", len(buckets))
		}
	})

	t.Run("network_requires_staff", func(t *testing.T) {
		_, err := svc.GetTimeSeries(advisorActor(advisor), "", analytics.TimeSeriesOptions{})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestGetLeaderboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPerformanceService(db)

	star := testutil.CreateTestAdvisor(t, db)
	average := testutil.CreateTestAdvisor(t, db)
	retired := testutil.CreateTestAdvisor(t, db)
	testutil.CreateTestAdvisor(t, db) // no recommendations

	testutil.CreateTestRecommendation(t, db, star.ID, models.StatusSuccessful)
	testutil.CreateTestRecommendation(t, db, average.ID, models.StatusSuccessful)
	testutil.CreateTestRecommendation(t, db, average.ID, models.StatusUnsuccessful)
	testutil.CreateTestRecommendation(t, db, retired.ID, models.StatusSuccessful)
	db.Model(retired).Update("is_active", false)

	board, err := svc.GetLeaderboard(analytics.DefaultTopN)
	testutil.AssertNoError(t, err)

	if len(board) != 2 {
		t.Fatalf("expected 2 ranked advisors, got %d", len(board))
	}
	if board[0].AdvisorID != star.ID || board[1].AdvisorID != average.ID {
		t.Errorf("unexpected ranking: %s, %s", board[0].AdvisorID, board[1].AdvisorID)
	}

	top1, err := svc.GetLeaderboard(1)
	testutil.AssertNoError(t, err)
	if len(top1) != 1 {
		t.Errorf("expected 1 entry, got %d", len(top1))
	}
}

func TestGetAllAdvisorMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPerformanceService(db)

	a := testutil.CreateTestAdvisor(t, db)
	testutil.CreateTestAdvisor(t, db)
	testutil.CreateTestRecommendation(t, db, a.ID, models.StatusUnsuccessful)

	metrics, err := svc.GetAllAdvisorMetrics()
	testutil.AssertNoError(t, err)
	if len(metrics) != 2 {
		t.Errorf("expected one entry per advisor, got %d", len(metrics))
	}
}

func TestGetDashboardStats(t *testing.T) {
	t.Run("composed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPerformanceService(db)

		advisor := testutil.CreateTestAdvisor(t, db)
		testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusSuccessful)
		testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusOngoing)

		result := svc.GetDashboardStats()

		if result.Degraded {
			t.Fatal("expected healthy dashboard")
		}
		if result.TotalAdvisors != 1 || result.TotalRecommendations != 2 || result.ActiveRecommendations != 1 {
			t.Errorf("unexpected totals: %+v", result.DashboardStats)
		}
		if result.OverallSuccessRate != 50 {
			t.Errorf("expected 50%%, got %v", result.OverallSuccessRate)
		}
		if len(result.RecentActivity) != 2 || len(result.TopPerformers) != 1 {
			t.Errorf("unexpected feed/leaderboard sizes: %d/%d", len(result.RecentActivity), len(result.TopPerformers))
		}
	})

	t.Run("empty_database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		result := NewPerformanceService(db).GetDashboardStats()
		if result.Degraded || result.TotalRecommendations != 0 || result.RecentActivity == nil || result.TopPerformers == nil {
			t.Errorf("expected zeroed, non-degraded dashboard: %+v", result)
		}
	})

	t.Run("retrieval_failure_degrades", func(t *testing.T) {
		db, mock := testutil.SetupMockDB(t)
		mock.ExpectQuery(`SELECT (.+) FROM "advisors"`).WillReturnError(errors.New("connection refused"))

		result := NewPerformanceService(db).GetDashboardStats()

		if !result.Degraded {
			t.Error("expected degraded flag")
		}
		if result.TotalAdvisors != 0 || result.TotalRecommendations != 0 {
			t.Errorf("expected zero counts, got %+v", result.DashboardStats)
		}
		if result.RecentActivity == nil || len(result.RecentActivity) != 0 || result.TopPerformers == nil {
			t.Error("expected empty, non-nil lists")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("recommendation_failure_degrades", func(t *testing.T) {
		db, mock := testutil.SetupMockDB(t)
		mock.ExpectQuery(`SELECT (.+) FROM "advisors"`).WillReturnRows(mock.NewRows([]string{"id", "name"}))
		mock.ExpectQuery(`SELECT (.+) FROM "recommendations"`).WillReturnError(errors.New("timeout"))

		result := NewPerformanceService(db).GetDashboardStats()
		if !result.Degraded {
			t.Error("expected degraded flag")
		}
	})
}
