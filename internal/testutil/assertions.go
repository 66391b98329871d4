package testutil

import (
	"errors"
	"testing"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// StatusCounts is the expected status tally of a PerformanceMetrics value.
type StatusCounts struct {
	Total, Successful, Unsuccessful, Ongoing int
	SuccessRate                              float64
}

// AssertMetrics compares m's tallies and success rate against want and
// checks that the status counts add up to the total.
func AssertMetrics(t *testing.T, m analytics.PerformanceMetrics, want StatusCounts) {
	t.Helper()

	got := StatusCounts{
		Total:        m.Total,
		Successful:   m.Successful,
		Unsuccessful: m.Unsuccessful,
		Ongoing:      m.Ongoing,
		SuccessRate:  m.SuccessRate,
	}
	if got != want {
		t.Errorf("metrics for %s = %+v, want %+v", m.AdvisorID, got, want)
	}
	if m.Successful+m.Unsuccessful+m.Ongoing != m.Total {
		t.Errorf("status counts for %s do not sum to total %d", m.AdvisorID, m.Total)
	}
}
