package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"advisoriq/internal/analytics"
	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/logger"
	"advisoriq/internal/pagination"
	"advisoriq/internal/services"
)

// PerformanceHandler serves the network-wide views: dashboard, leaderboard,
// roster metrics and trend.
type PerformanceHandler struct {
	performanceService services.PerformanceServicer
	advisorService     services.AdvisorServicer
}

// NewPerformanceHandler creates a new PerformanceHandler.
func NewPerformanceHandler(performanceService services.PerformanceServicer, advisorService services.AdvisorServicer) *PerformanceHandler {
	return &PerformanceHandler{performanceService: performanceService, advisorService: advisorService}
}

// GetDashboard handles the operations dashboard.
// @Summary     Get dashboard
// @Description Network totals, recent activity and top performers. Degrades to an empty dashboard with degraded=true when data cannot be loaded.
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardResult "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /dashboard [get]
func (h *PerformanceHandler) GetDashboard(c *gin.Context) {
	result := h.performanceService.GetDashboardStats()
	if result.Degraded {
		logger.Get().Warnw("serving degraded dashboard", "path", c.Request.URL.Path)
	}
	c.JSON(http.StatusOK, result)
}

// GetLeaderboard handles the top performers ranking.
// @Summary     Get leaderboard
// @Description Active advisors ranked by success rate; ties keep roster order
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Param       top query int false "Number of advisors (default 5)"
// @Success     200 {array}  analytics.PerformanceMetrics "Ranked advisors"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /leaderboard [get]
func (h *PerformanceHandler) GetLeaderboard(c *gin.Context) {
	top := analytics.DefaultTopN
	if c.Query("top") != "" {
		n, err := parseOptionalInt(c, "top")
		if err != nil {
			respondWithError(c, err)
			return
		}
		if n < 0 || n > 100 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "top must be between 0 and 100"))
			return
		}
		top = n
	}

	ranked, err := h.performanceService.GetLeaderboard(top)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": ranked})
}

// GetAdvisorMetrics handles metrics for the whole roster.
// @Summary     Get roster performance
// @Description Metrics for every advisor, in roster order
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[analytics.PerformanceMetrics] "Per-advisor metrics"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /performance [get]
func (h *PerformanceHandler) GetAdvisorMetrics(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	metrics, err := h.performanceService.GetAllAdvisorMetrics()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Slice(metrics, page))
}

// GetNetworkTrend handles the monthly trend across all advisors.
// @Summary     Get network trend
// @Description Monthly recommendation counts and success rate across the network
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Param       months    query int  false "Window length in months (default 12)"
// @Param       zero_fill query bool false "Include months without recommendations"
// @Success     200 {array}  analytics.TimeBucket "Trend buckets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /performance/trend [get]
func (h *PerformanceHandler) GetNetworkTrend(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	opts, err := parseTrendOptions(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	buckets, err := h.performanceService.GetTimeSeries(actor, "", opts)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": buckets})
}

// GetTimeframes lists the accepted recommendation horizons.
// @Summary     List timeframes
// @Tags        recommendations
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} analytics.TimeframeOption "Timeframes"
// @Router      /timeframes [get]
func (h *PerformanceHandler) GetTimeframes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"timeframes": analytics.TimeframeOptions()})
}
