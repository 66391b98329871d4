// Package errors provides custom error types for the AdvisorIQ API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrInvalidRole    = &AppError{Code: "INVALID_ROLE", Message: "Unsupported user role", StatusCode: http.StatusBadRequest}
)

// Advisor errors.
var (
	ErrAdvisorNotFound       = &AppError{Code: "ADVISOR_NOT_FOUND", Message: "Advisor not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAdvisorEmail = &AppError{Code: "DUPLICATE_ADVISOR_EMAIL", Message: "An advisor with this email already exists", StatusCode: http.StatusConflict}
	ErrAdvisorInactive       = &AppError{Code: "ADVISOR_INACTIVE", Message: "Advisor is inactive", StatusCode: http.StatusConflict}
	ErrNoAdvisorProfile      = &AppError{Code: "NO_ADVISOR_PROFILE", Message: "No advisor profile is linked to this user", StatusCode: http.StatusForbidden}
)

// Recommendation errors.
var (
	ErrRecommendationNotFound = &AppError{Code: "RECOMMENDATION_NOT_FOUND", Message: "Recommendation not found", StatusCode: http.StatusNotFound}
	ErrInvalidAction          = &AppError{Code: "INVALID_ACTION", Message: "Action must be buy, sell, or hold", StatusCode: http.StatusBadRequest}
	ErrInvalidStatus          = &AppError{Code: "INVALID_STATUS", Message: "Status must be ongoing, successful, or unsuccessful", StatusCode: http.StatusBadRequest}
	ErrInvalidTimeframe       = &AppError{Code: "INVALID_TIMEFRAME", Message: "Timeframe must be 3, 6, or 12 months", StatusCode: http.StatusBadRequest}
)

// Pipeline errors.
var (
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
)
