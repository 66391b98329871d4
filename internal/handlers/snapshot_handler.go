package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/pagination"
	"advisoriq/internal/services"
)

// SnapshotHandler handles performance snapshot requests.
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService services.SnapshotServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// ComputeSnapshotsRequest represents the request payload for computing snapshots.
type ComputeSnapshotsRequest struct {
	RecordedAt time.Time `json:"recorded_at" binding:"required"`
}

// ComputeSnapshots handles computing and recording advisor snapshots.
// @Summary     Compute performance snapshots
// @Description Compute and record a performance snapshot for every advisor with recommendations (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key  header   string                   true "Pipeline API key"
// @Param       request    body     ComputeSnapshotsRequest  true "Snapshot parameters"
// @Success     200        {object} map[string]int           "Snapshots recorded count"
// @Failure     400        {object} ErrorResponse            "Invalid input"
// @Failure     401        {object} ErrorResponse            "Invalid API key"
// @Failure     503        {object} ErrorResponse            "Pipeline not configured"
// @Router      /pipeline/snapshots [post]
func (h *SnapshotHandler) ComputeSnapshots(c *gin.Context) {
	var req ComputeSnapshotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	count, err := h.snapshotService.ComputeAndRecordSnapshots(req.RecordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots_recorded": count})
}

// GetSnapshots handles retrieving an advisor's snapshot history.
// @Summary     Get performance snapshots
// @Description Get paginated performance snapshots for an advisor and date range, newest first
// @Tags        performance
// @Produce     json
// @Security    BearerAuth
// @Param       advisor_id query string true  "Advisor ID"
// @Param       from_date  query string true  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date    query string true  "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PerformanceSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /performance/snapshots [get]
func (h *SnapshotHandler) GetSnapshots(c *gin.Context) {
	advisorID := c.Query("advisor_id")
	if advisorID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "advisor_id is required"))
		return
	}

	if c.Query("from_date") == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date is required"))
		return
	}
	from, err := parseDateBound(c.Query("from_date"), false)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.Query("to_date") == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date is required"))
		return
	}
	to, err := parseDateBound(c.Query("to_date"), true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.snapshotService.GetSnapshots(advisorID, *from, *to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
