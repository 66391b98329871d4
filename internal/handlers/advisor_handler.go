package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
	"advisoriq/internal/services"
)

const maxTrendMonths = 120

// AdvisorHandler handles roster and per-advisor performance requests.
type AdvisorHandler struct {
	advisorService     services.AdvisorServicer
	performanceService services.PerformanceServicer
	auditService       services.AuditServicer
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(
	advisorService services.AdvisorServicer,
	performanceService services.PerformanceServicer,
	auditService services.AuditServicer,
) *AdvisorHandler {
	return &AdvisorHandler{
		advisorService:     advisorService,
		performanceService: performanceService,
		auditService:       auditService,
	}
}

// CreateAdvisorRequest represents the request payload for adding an advisor.
type CreateAdvisorRequest struct {
	Name           string                `json:"name" binding:"required,min=1,max=200"`
	Email          string                `json:"email" binding:"required,email,max=255"`
	Phone          *string               `json:"phone" binding:"omitempty,max=50"`
	Specialization models.Specialization `json:"specialization" binding:"omitempty,specialization"`
	Bio            *string               `json:"bio" binding:"omitempty,max=2000"`
	ProfileImage   *string               `json:"profile_image" binding:"omitempty,url"`
}

// UpdateAdvisorRequest represents the request payload for editing an advisor.
type UpdateAdvisorRequest struct {
	Name           *string                `json:"name" binding:"omitempty,min=1,max=200"`
	Email          *string                `json:"email" binding:"omitempty,email,max=255"`
	Phone          *string                `json:"phone" binding:"omitempty,max=50"`
	Specialization *models.Specialization `json:"specialization" binding:"omitempty,specialization"`
	Bio            *string                `json:"bio" binding:"omitempty,max=2000"`
	ProfileImage   *string                `json:"profile_image" binding:"omitempty,url"`
	IsActive       *bool                  `json:"is_active"`
}

// CreateAdvisor handles adding an advisor to the roster.
// @Summary     Create an advisor
// @Description Add an advisor to the roster (operations and admin only)
// @Tags        advisors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAdvisorRequest true "Advisor details"
// @Success     201 {object} models.Advisor "Advisor created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Duplicate email"
// @Router      /advisors [post]
func (h *AdvisorHandler) CreateAdvisor(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	advisor, err := h.advisorService.CreateAdvisor(actor, services.AdvisorInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		ProfileImage:   req.ProfileImage,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, "CREATE_ADVISOR", "advisor", advisor.ID, c.ClientIP(),
		map[string]interface{}{"name": advisor.Name, "email": advisor.Email})

	c.JSON(http.StatusCreated, gin.H{"advisor": advisor})
}

// GetAdvisors handles listing the roster.
// @Summary     List advisors
// @Description Get a paginated, filtered list of advisors ordered by name
// @Tags        advisors
// @Produce     json
// @Security    BearerAuth
// @Param       search         query string false "Name, email or specialization contains"
// @Param       specialization query string false "Exact specialization"
// @Param       is_active      query bool   false "Filter by active status"
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Advisor] "Paginated advisors"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /advisors [get]
func (h *AdvisorHandler) GetAdvisors(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive, err := parseOptionalBool(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.AdvisorFilter{
		Search:         c.Query("search"),
		Specialization: models.Specialization(c.Query("specialization")),
		IsActive:       isActive,
	}
	if filter.Specialization != "" && !filter.Specialization.Valid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported specialization"))
		return
	}

	result, err := h.advisorService.GetAdvisors(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAdvisor handles fetching one advisor.
// @Summary     Get an advisor
// @Description Get an advisor profile; advisors may only fetch their own
// @Tags        advisors
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Advisor ID"
// @Success     200 {object} models.Advisor "Advisor"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Advisor not found"
// @Router      /advisors/{id} [get]
func (h *AdvisorHandler) GetAdvisor(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	advisor, err := h.advisorService.GetAdvisorByID(actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"advisor": advisor})
}

// UpdateAdvisor handles editing an advisor profile.
// @Summary     Update an advisor
// @Description Partially update an advisor; advisors may edit only themselves and not their active flag
// @Tags        advisors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Advisor ID"
// @Param       request body UpdateAdvisorRequest true "Fields to update"
// @Success     200 {object} models.Advisor "Updated advisor"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Advisor not found"
// @Router      /advisors/{id} [put]
func (h *AdvisorHandler) UpdateAdvisor(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	advisorID := c.Param("id")
	advisor, err := h.advisorService.UpdateAdvisor(actor, advisorID, services.AdvisorUpdate{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		ProfileImage:   req.ProfileImage,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, "UPDATE_ADVISOR", "advisor", advisorID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"advisor": advisor})
}

// DeactivateAdvisor handles removing an advisor from the active roster.
// @Summary     Deactivate an advisor
// @Description Mark an advisor inactive; their recommendations are kept
// @Tags        advisors
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Advisor ID"
// @Success     200 {object} map[string]string "Advisor deactivated"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Advisor not found"
// @Router      /advisors/{id} [delete]
func (h *AdvisorHandler) DeactivateAdvisor(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	advisorID := c.Param("id")
	if err := h.advisorService.DeactivateAdvisor(actor, advisorID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, "DEACTIVATE_ADVISOR", "advisor", advisorID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Advisor deactivated successfully"})
}

// GetAdvisorPerformance handles per-advisor metrics.
// @Summary     Get advisor performance
// @Description Aggregate metrics for one advisor's recommendations
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Advisor ID"
// @Success     200 {object} analytics.PerformanceMetrics "Metrics"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Advisor not found"
// @Router      /advisors/{id}/performance [get]
func (h *AdvisorHandler) GetAdvisorPerformance(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.writePerformance(c, actor, c.Param("id"))
}

// GetAdvisorTrend handles the monthly trend for one advisor.
// @Summary     Get advisor trend
// @Description Monthly recommendation counts and success rate over a trailing window
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Advisor ID"
// @Param       months    query int    false "Window length in months (default 12)"
// @Param       zero_fill query bool   false "Include months without recommendations"
// @Success     200 {array}  analytics.TimeBucket "Trend buckets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /advisors/{id}/performance/trend [get]
func (h *AdvisorHandler) GetAdvisorTrend(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.writeTrend(c, actor, c.Param("id"))
}

// GetMyPerformance handles the signed-in advisor's own metrics.
// @Summary     Get my performance
// @Description Aggregate metrics for the authenticated advisor
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.PerformanceMetrics "Metrics"
// @Failure     403 {object} ErrorResponse "No advisor profile"
// @Router      /me/performance [get]
func (h *AdvisorHandler) GetMyPerformance(c *gin.Context) {
	actor, err := h.selfActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.writePerformance(c, actor, actor.AdvisorID)
}

// GetMyTrend handles the signed-in advisor's own monthly trend.
// @Summary     Get my trend
// @Description Monthly recommendation counts and success rate for the authenticated advisor
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Param       months    query int  false "Window length in months (default 12)"
// @Param       zero_fill query bool false "Include months without recommendations"
// @Success     200 {array}  analytics.TimeBucket "Trend buckets"
// @Failure     403 {object} ErrorResponse "No advisor profile"
// @Router      /me/performance/trend [get]
func (h *AdvisorHandler) GetMyTrend(c *gin.Context) {
	actor, err := h.selfActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.writeTrend(c, actor, actor.AdvisorID)
}

func (h *AdvisorHandler) selfActor(c *gin.Context) (services.Actor, error) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		return actor, err
	}
	if actor.AdvisorID == "" {
		return actor, apperrors.ErrNoAdvisorProfile
	}
	return actor, nil
}

func (h *AdvisorHandler) writePerformance(c *gin.Context, actor services.Actor, advisorID string) {
	metrics, err := h.performanceService.GetAdvisorMetrics(actor, advisorID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"performance": metrics})
}

func (h *AdvisorHandler) writeTrend(c *gin.Context, actor services.Actor, advisorID string) {
	opts, err := parseTrendOptions(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	buckets, err := h.performanceService.GetTimeSeries(actor, advisorID, opts)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": buckets})
}

// parseTrendOptions reads the months and zero_fill query parameters.
func parseTrendOptions(c *gin.Context) (analytics.TimeSeriesOptions, error) {
	months, err := parseOptionalInt(c, "months")
	if err != nil {
		return analytics.TimeSeriesOptions{}, err
	}
	if months < 0 || months > maxTrendMonths {
		return analytics.TimeSeriesOptions{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 120")
	}
	zeroFill, err := parseOptionalBool(c, "zero_fill")
	if err != nil {
		return analytics.TimeSeriesOptions{}, err
	}
	return analytics.TimeSeriesOptions{WindowMonths: months, ZeroFill: zeroFill != nil && *zeroFill}, nil
}
