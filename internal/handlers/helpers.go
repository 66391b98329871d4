package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/logger"
	"advisoriq/internal/middleware"
	"advisoriq/internal/models"
	"advisoriq/internal/services"
)

const dateLayout = "2006-01-02"

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// getActor builds the caller identity for service calls. Advisor users are
// resolved to their roster entry; an advisor without one gets an empty
// AdvisorID and the services reject whatever needs it.
func getActor(c *gin.Context, advisors services.AdvisorServicer) (services.Actor, error) {
	userID, err := getUserID(c)
	if err != nil {
		return services.Actor{}, err
	}

	actor := services.Actor{
		UserID: userID,
		Role:   models.UserRole(c.GetString(middleware.RoleKey)),
	}
	if actor.IsStaff() {
		return actor, nil
	}

	advisor, err := advisors.GetAdvisorByUserID(userID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNoAdvisorProfile.Code {
			return actor, nil
		}
		return services.Actor{}, err
	}
	actor.AdvisorID = advisor.ID
	return actor, nil
}

// parseFlexibleTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates (UTC midnight).
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// parseDateBound parses a range bound. A plain date used as an upper bound
// covers the whole day.
func parseDateBound(s string, upper bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(s)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	if upper && len(s) == len(dateLayout) {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// parseOptionalBool reads a "true"/"false" query parameter.
func parseOptionalBool(c *gin.Context, key string) (*bool, error) {
	switch c.Query(key) {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, key+" must be 'true' or 'false'")
	}
}

func parseOptionalInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, key+" must be an integer")
	}
	return n, nil
}

// parseRecommendationCriteria reads the recommendation filter query
// parameters shared by the listing, search and export endpoints.
func parseRecommendationCriteria(c *gin.Context) (analytics.RecommendationCriteria, error) {
	criteria := analytics.RecommendationCriteria{
		Search:    c.Query("search"),
		AdvisorID: c.Query("advisor_id"),
	}

	if v := c.Query("status"); v != "" {
		status := models.RecommendationStatus(v)
		if !status.Valid() {
			return criteria, apperrors.ErrInvalidStatus
		}
		criteria.Status = status
	}
	if v := c.Query("action"); v != "" {
		action := models.RecommendationAction(v)
		if !action.Valid() {
			return criteria, apperrors.ErrInvalidAction
		}
		criteria.Action = action
	}

	var err error
	if criteria.ConfidenceMin, err = parseOptionalInt(c, "confidence_min"); err != nil {
		return criteria, err
	}
	if criteria.ConfidenceMax, err = parseOptionalInt(c, "confidence_max"); err != nil {
		return criteria, err
	}
	if criteria.From, err = parseDateBound(c.Query("from_date"), false); err != nil {
		return criteria, err
	}
	if criteria.To, err = parseDateBound(c.Query("to_date"), true); err != nil {
		return criteria, err
	}
	return criteria, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
