package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"advisoriq/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an advisor-role user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleAdvisor)
}

// CreateTestUserWithRole creates a user with the given role and a unique email.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email, role)
}

// CreateTestUserWithEmail creates a user with the given email and role.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", nextID()),
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdvisor creates an active roster advisor with no linked user.
func CreateTestAdvisor(t *testing.T, db *gorm.DB) *models.Advisor {
	t.Helper()
	return CreateTestAdvisorForUser(t, db, nil)
}

// CreateTestAdvisorForUser creates an active advisor linked to user, when given.
func CreateTestAdvisorForUser(t *testing.T, db *gorm.DB, user *models.User) *models.Advisor {
	t.Helper()

	n := nextID()
	advisor := &models.Advisor{
		Name:           fmt.Sprintf("Advisor %d", n),
		Email:          fmt.Sprintf("advisor%d@test.com", n),
		Specialization: models.SpecializationEquities,
		IsActive:       true,
	}
	if user != nil {
		advisor.UserID = &user.ID
	}
	if err := db.Create(advisor).Error; err != nil {
		t.Fatalf("failed to create test advisor: %v", err)
	}
	return advisor
}

// CreateTestRecommendation creates a buy recommendation for the advisor with the given status.
func CreateTestRecommendation(t *testing.T, db *gorm.DB, advisorID string, status models.RecommendationStatus) *models.Recommendation {
	t.Helper()
	return CreateTestRecommendationAt(t, db, advisorID, status, time.Now())
}

// CreateTestRecommendationAt is CreateTestRecommendation with an explicit creation time.
func CreateTestRecommendationAt(t *testing.T, db *gorm.DB, advisorID string, status models.RecommendationStatus, createdAt time.Time) *models.Recommendation {
	t.Helper()

	rec := &models.Recommendation{
		AdvisorID:       advisorID,
		StockSymbol:     "AAPL",
		Action:          models.ActionBuy,
		TargetPrice:     decimal.RequireFromString("190.50"),
		Reasoning:       fmt.Sprintf("Test reasoning %d", nextID()),
		ConfidenceLevel: 70,
		Timeframe:       6,
		Status:          status,
	}
	rec.CreatedAt = createdAt
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test recommendation: %v", err)
	}
	return rec
}
