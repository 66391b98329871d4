package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/models"
	"advisoriq/internal/pagination"
	"advisoriq/internal/services"
)

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	recommendationService services.RecommendationServicer
	advisorService        services.AdvisorServicer
	auditService          services.AuditServicer
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(
	recommendationService services.RecommendationServicer,
	advisorService services.AdvisorServicer,
	auditService services.AuditServicer,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		advisorService:        advisorService,
		auditService:          auditService,
	}
}

// CreateRecommendationRequest represents the request payload for a new recommendation.
type CreateRecommendationRequest struct {
	AdvisorID       string                      `json:"advisor_id"`
	StockSymbol     string                      `json:"stock_symbol" binding:"required,stock_symbol"`
	Action          models.RecommendationAction `json:"action" binding:"required,rec_action"`
	TargetPrice     decimal.Decimal             `json:"target_price" swaggertype:"string"`
	Reasoning       string                      `json:"reasoning" binding:"required,max=5000"`
	ConfidenceLevel int                         `json:"confidence_level" binding:"required,min=1,max=100"`
	Timeframe       int                         `json:"timeframe" binding:"required,timeframe"`
}

// UpdateRecommendationRequest represents the request payload for an outcome update.
type UpdateRecommendationRequest struct {
	Status       *models.RecommendationStatus `json:"status" binding:"omitempty,rec_status"`
	OutcomeNotes *string                      `json:"outcome_notes" binding:"omitempty,max=5000"`
}

// CreateRecommendation handles adding a recommendation.
// @Summary     Create a recommendation
// @Description Record a new stock recommendation; it starts as ongoing
// @Tags        recommendations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecommendationRequest true "Recommendation details"
// @Success     201 {object} models.Recommendation "Recommendation created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Advisor not found"
// @Router      /recommendations [post]
func (h *RecommendationHandler) CreateRecommendation(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rec, err := h.recommendationService.CreateRecommendation(actor, services.RecommendationInput{
		AdvisorID:       req.AdvisorID,
		StockSymbol:     req.StockSymbol,
		Action:          req.Action,
		TargetPrice:     req.TargetPrice,
		Reasoning:       req.Reasoning,
		ConfidenceLevel: req.ConfidenceLevel,
		Timeframe:       req.Timeframe,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, "CREATE_RECOMMENDATION", "recommendation", rec.ID, c.ClientIP(),
		map[string]interface{}{"stock_symbol": rec.StockSymbol, "action": rec.Action, "advisor_id": rec.AdvisorID})

	c.JSON(http.StatusCreated, gin.H{"recommendation": rec})
}

// GetRecommendations handles listing recommendations.
// @Summary     List recommendations
// @Description Paginated recommendations, newest first. Advisors only see their own.
// @Tags        recommendations
// @Produce     json
// @Security    BearerAuth
// @Param       search         query string false "Symbol or reasoning contains"
// @Param       status         query string false "ongoing, successful or unsuccessful"
// @Param       action         query string false "buy, sell or hold"
// @Param       advisor_id     query string false "Advisor ID"
// @Param       confidence_min query int    false "Minimum confidence (1-100)"
// @Param       confidence_max query int    false "Maximum confidence (1-100)"
// @Param       from_date      query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date        query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Recommendation] "Paginated recommendations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	criteria, err := parseRecommendationCriteria(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.recommendationService.GetRecommendations(actor, criteria, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecommendation handles fetching one recommendation.
// @Summary     Get a recommendation
// @Tags        recommendations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recommendation ID"
// @Success     200 {object} models.Recommendation "Recommendation"
// @Failure     404 {object} ErrorResponse "Recommendation not found"
// @Router      /recommendations/{id} [get]
func (h *RecommendationHandler) GetRecommendation(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rec, err := h.recommendationService.GetRecommendationByID(actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendation": rec})
}

// UpdateRecommendation handles recording an outcome.
// @Summary     Update a recommendation
// @Description Change status and outcome notes
// @Tags        recommendations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                      true "Recommendation ID"
// @Param       request body UpdateRecommendationRequest true "Outcome"
// @Success     200 {object} models.Recommendation "Updated recommendation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Recommendation not found"
// @Router      /recommendations/{id} [put]
func (h *RecommendationHandler) UpdateRecommendation(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recID := c.Param("id")
	rec, err := h.recommendationService.UpdateRecommendation(actor, recID, services.RecommendationUpdate{
		Status:       req.Status,
		OutcomeNotes: req.OutcomeNotes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.Status != nil {
		changes["status"] = *req.Status
	}
	h.auditService.Log(actor.UserID, "UPDATE_RECOMMENDATION", "recommendation", recID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"recommendation": rec})
}

// DeleteRecommendation handles removing a recommendation.
// @Summary     Delete a recommendation
// @Tags        recommendations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recommendation ID"
// @Success     200 {object} map[string]string "Recommendation deleted"
// @Failure     404 {object} ErrorResponse "Recommendation not found"
// @Router      /recommendations/{id} [delete]
func (h *RecommendationHandler) DeleteRecommendation(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recID := c.Param("id")
	if err := h.recommendationService.DeleteRecommendation(actor, recID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.UserID, "DELETE_RECOMMENDATION", "recommendation", recID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recommendation deleted successfully"})
}
