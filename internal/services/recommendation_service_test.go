package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"advisoriq/internal/analytics"
	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
	"advisoriq/internal/testutil"
)

func validInput(advisorID string) RecommendationInput {
	return RecommendationInput{
		AdvisorID:       advisorID,
		StockSymbol:     " msft ",
		Action:          models.ActionBuy,
		TargetPrice:     decimal.RequireFromString("420.00"),
		Reasoning:       "Cloud margins expanding",
		ConfidenceLevel: 80,
		Timeframe:       12,
	}
}

func TestCreateRecommendation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		advisor := testutil.CreateTestAdvisor(t, db)

		rec, err := svc.CreateRecommendation(opsActor, validInput(advisor.ID))
		testutil.AssertNoError(t, err)

		if rec.StockSymbol != "MSFT" {
			t.Errorf("expected upper-cased symbol, got %q", rec.StockSymbol)
		}
		if rec.Status != models.StatusOngoing {
			t.Errorf("expected ongoing status, got %s", rec.Status)
		}
		if rec.Advisor == nil || rec.Advisor.ID != advisor.ID {
			t.Error("expected advisor attached")
		}
	})

	t.Run("advisor_defaults_to_self", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		advisor := testutil.CreateTestAdvisor(t, db)

		rec, err := svc.CreateRecommendation(advisorActor(advisor), validInput(""))
		testutil.AssertNoError(t, err)
		if rec.AdvisorID != advisor.ID {
			t.Errorf("expected advisor %s, got %s", advisor.ID, rec.AdvisorID)
		}
	})

	t.Run("advisor_cannot_create_for_others", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		a := testutil.CreateTestAdvisor(t, db)
		b := testutil.CreateTestAdvisor(t, db)

		_, err := svc.CreateRecommendation(advisorActor(a), validInput(b.ID))
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		advisor := testutil.CreateTestAdvisor(t, db)

		cases := []struct {
			name   string
			mutate func(*RecommendationInput)
			code   string
		}{
			{"missing_advisor", func(in *RecommendationInput) { in.AdvisorID = "" }, "INVALID_INPUT"},
			{"blank_symbol", func(in *RecommendationInput) { in.StockSymbol = "  " }, "INVALID_INPUT"},
			{"blank_reasoning", func(in *RecommendationInput) { in.Reasoning = "\n" }, "INVALID_INPUT"},
			{"bad_action", func(in *RecommendationInput) { in.Action = "short" }, "INVALID_ACTION"},
			{"zero_price", func(in *RecommendationInput) { in.TargetPrice = decimal.Zero }, "INVALID_INPUT"},
			{"negative_price", func(in *RecommendationInput) { in.TargetPrice = decimal.NewFromInt(-5) }, "INVALID_INPUT"},
			{"confidence_zero", func(in *RecommendationInput) { in.ConfidenceLevel = 0 }, "INVALID_INPUT"},
			{"confidence_over", func(in *RecommendationInput) { in.ConfidenceLevel = 101 }, "INVALID_INPUT"},
			{"timeframe", func(in *RecommendationInput) { in.Timeframe = 9 }, "INVALID_TIMEFRAME"},
			{"unknown_advisor", func(in *RecommendationInput) { in.AdvisorID = "0190c6b2-0000-7000-8000-000000000000" }, "ADVISOR_NOT_FOUND"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := validInput(advisor.ID)
				tc.mutate(&in)
				_, err := svc.CreateRecommendation(opsActor, in)
				testutil.AssertAppError(t, err, tc.code)
			})
		}
	})

	t.Run("required_fields_message", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)

		in := validInput("")
		_, err := svc.CreateRecommendation(opsActor, in)
		if err == nil || err.Error() != "Advisor, stock symbol, and reasoning are required" {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("inactive_advisor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		advisor := testutil.CreateTestAdvisor(t, db)
		db.Model(advisor).Update("is_active", false)

		_, err := svc.CreateRecommendation(opsActor, validInput(advisor.ID))
		testutil.AssertAppError(t, err, "ADVISOR_INACTIVE")
	})
}

func TestGetRecommendations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewRecommendationService(db)

	a := testutil.CreateTestAdvisor(t, db)
	b := testutil.CreateTestAdvisor(t, db)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := testutil.CreateTestRecommendationAt(t, db, a.ID, models.StatusSuccessful, base)
	testutil.CreateTestRecommendationAt(t, db, a.ID, models.StatusOngoing, base.AddDate(0, 1, 0))
	newest := testutil.CreateTestRecommendationAt(t, db, b.ID, models.StatusUnsuccessful, base.AddDate(0, 2, 0))
	db.Model(newest).Updates(map[string]interface{}{"stock_symbol": "NVDA", "confidence_level": 95})

	t.Run("newest_first_for_staff", func(t *testing.T) {
		resp, err := svc.GetRecommendations(opsActor, analytics.RecommendationCriteria{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 3 || resp.Data[0].ID != newest.ID || resp.Data[2].ID != oldest.ID {
			t.Errorf("unexpected order or total: %d", resp.TotalItems)
		}
		if resp.Data[0].Advisor == nil {
			t.Error("expected advisor preloaded")
		}
	})

	t.Run("advisor_scoped_to_self", func(t *testing.T) {
		resp, err := svc.GetRecommendations(advisorActor(a), analytics.RecommendationCriteria{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if resp.TotalItems != 2 {
			t.Errorf("expected 2 own recommendations, got %d", resp.TotalItems)
		}

		_, err = svc.GetRecommendations(advisorActor(a), analytics.RecommendationCriteria{AdvisorID: b.ID}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("advisor_without_profile", func(t *testing.T) {
		_, err := svc.GetRecommendations(Actor{Role: models.RoleAdvisor}, analytics.RecommendationCriteria{}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "NO_ADVISOR_PROFILE")
	})

	t.Run("filters_match_in_memory_engine", func(t *testing.T) {
		from := base.AddDate(0, 0, 15)
		criteriaList := []analytics.RecommendationCriteria{
			{Status: models.StatusOngoing},
			{Search: "nvda"},
			{ConfidenceMin: 90},
			{ConfidenceMax: 80},
			{From: &from},
			{AdvisorID: a.ID, Status: models.StatusSuccessful},
		}

		all, err := svc.ListAllRecommendations(opsActor)
		testutil.AssertNoError(t, err)

		for _, c := range criteriaList {
			resp, err := svc.GetRecommendations(opsActor, c, pagination.PageRequest{})
			testutil.AssertNoError(t, err)

			want := analytics.FilterRecommendations(all, c)
			if int(resp.TotalItems) != len(want) {
				t.Errorf("criteria %+v: SQL returned %d, engine %d", c, resp.TotalItems, len(want))
			}
		}
	})

	t.Run("inverted_confidence_bounds", func(t *testing.T) {
		_, err := svc.GetRecommendations(opsActor, analytics.RecommendationCriteria{ConfidenceMin: 80, ConfidenceMax: 20}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

}

func TestUpdateRecommendation(t *testing.T) {
	t.Run("any_status_transition", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		advisor := testutil.CreateTestAdvisor(t, db)
		rec := testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusOngoing)

		for _, status := range []models.RecommendationStatus{
			models.StatusSuccessful, models.StatusUnsuccessful, models.StatusOngoing, models.StatusSuccessful,
		} {
			s := status
			updated, err := svc.UpdateRecommendation(advisorActor(advisor), rec.ID, RecommendationUpdate{Status: &s})
			testutil.AssertNoError(t, err)
			if updated.Status != status {
				t.Errorf("expected %s, got %s", status, updated.Status)
			}
		}
	})

	t.Run("outcome_notes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		advisor := testutil.CreateTestAdvisor(t, db)
		rec := testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusOngoing)

		updated, err := svc.UpdateRecommendation(opsActor, rec.ID, RecommendationUpdate{OutcomeNotes: strPtr(" hit target in Q2 ")})
		testutil.AssertNoError(t, err)
		if updated.OutcomeNotes == nil || *updated.OutcomeNotes != "hit target in Q2" {
			t.Errorf("unexpected notes: %v", updated.OutcomeNotes)
		}
	})

	t.Run("invalid_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		advisor := testutil.CreateTestAdvisor(t, db)
		rec := testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusOngoing)

		bad := models.RecommendationStatus("pending")
		_, err := svc.UpdateRecommendation(opsActor, rec.ID, RecommendationUpdate{Status: &bad})
		testutil.AssertAppError(t, err, "INVALID_STATUS")
	})

	t.Run("other_advisor_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db)
		owner := testutil.CreateTestAdvisor(t, db)
		other := testutil.CreateTestAdvisor(t, db)
		rec := testutil.CreateTestRecommendation(t, db, owner.ID, models.StatusOngoing)

		s := models.StatusSuccessful
		_, err := svc.UpdateRecommendation(advisorActor(other), rec.ID, RecommendationUpdate{Status: &s})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestDeleteRecommendation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewRecommendationService(db)
	advisor := testutil.CreateTestAdvisor(t, db)
	rec := testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusOngoing)

	testutil.AssertNoError(t, svc.DeleteRecommendation(advisorActor(advisor), rec.ID))

	_, err := svc.GetRecommendationByID(opsActor, rec.ID)
	testutil.AssertAppError(t, err, "RECOMMENDATION_NOT_FOUND")

	err = svc.DeleteRecommendation(opsActor, rec.ID)
	testutil.AssertAppError(t, err, "RECOMMENDATION_NOT_FOUND")
}

func TestGetRecommendationsSearchIsLiteral(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewRecommendationService(db)
	advisor := testutil.CreateTestAdvisor(t, db)

	marked := testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusOngoing)
	if err := db.Model(marked).Update("reasoning", `50% upside, net_margin at 3\4`).Error; err != nil {
		t.Fatalf("failed to update reasoning: %v", err)
	}
	testutil.CreateTestRecommendation(t, db, advisor.ID, models.StatusSuccessful)

	all, err := svc.ListAllRecommendations(opsActor)
	testutil.AssertNoError(t, err)

	tests := []struct {
		term string
		want int
	}{
		{"_", 1},
		{"%", 1},
		{`\`, 1},
		{"t_m", 1},
		{"50%", 1},
		{"x_y", 0},
		{"%%", 0},
		{"REASONING", 1},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			criteria := analytics.RecommendationCriteria{Search: tt.term}
			resp, err := svc.GetRecommendations(opsActor, criteria, pagination.PageRequest{})
			testutil.AssertNoError(t, err)

			inMemory := analytics.FilterRecommendations(all, criteria)
			if int(resp.TotalItems) != len(inMemory) {
				t.Errorf("query matched %d, in-memory filter matched %d", resp.TotalItems, len(inMemory))
			}
			if int(resp.TotalItems) != tt.want {
				t.Errorf("expected %d matches, got %d", tt.want, resp.TotalItems)
			}
		})
	}
}
