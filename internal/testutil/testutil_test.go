package testutil_test

import (
	"testing"
	"time"

	"advisoriq/internal/errors"
	"advisoriq/internal/models"
	"advisoriq/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "advisors", "recommendations", "performance_snapshots", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestAdvisor(t, first)

	var count int64
	second.Model(&models.Advisor{}).Count(&count)
	if count != 0 {
		t.Errorf("expected isolated databases, second has %d advisors", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.Role != models.RoleAdvisor {
		t.Errorf("expected advisor role, got %s", user.Role)
	}

	advisor := testutil.CreateTestAdvisorForUser(t, db, user)
	if advisor.UserID == nil || *advisor.UserID != user.ID {
		t.Error("advisor should be linked to the user")
	}

	created := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	rec := testutil.CreateTestRecommendationAt(t, db, advisor.ID, models.StatusSuccessful, created)

	var loaded models.Recommendation
	if err := db.First(&loaded, "id = ?", rec.ID).Error; err != nil {
		t.Fatalf("failed to reload recommendation: %v", err)
	}
	if !loaded.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, loaded.CreatedAt)
	}
	if loaded.TargetPrice.String() != "190.5" {
		t.Errorf("expected target price 190.5, got %s", loaded.TargetPrice)
	}
}

func TestSetupMockDB(t *testing.T) {
	db, mock := testutil.SetupMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM \"advisors\"").WillReturnError(errors.ErrInternalServer)

	var advisors []models.Advisor
	if err := db.Find(&advisors).Error; err == nil {
		t.Fatal("expected mocked query failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAdvisorNotFound, "custom message")
	testutil.AssertAppError(t, err, "ADVISOR_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
