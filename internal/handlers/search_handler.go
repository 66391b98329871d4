package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "advisoriq/internal/errors"
	"advisoriq/internal/export"
	"advisoriq/internal/models"
	"advisoriq/internal/services"
)

// SearchHandler handles the search page and its CSV export.
type SearchHandler struct {
	searchService  services.SearchServicer
	advisorService services.AdvisorServicer
	now            func() time.Time
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService services.SearchServicer, advisorService services.AdvisorServicer) *SearchHandler {
	return &SearchHandler{searchService: searchService, advisorService: advisorService, now: time.Now}
}

func (h *SearchHandler) parseQuery(c *gin.Context) (services.SearchQuery, error) {
	criteria, err := parseRecommendationCriteria(c)
	if err != nil {
		return services.SearchQuery{}, err
	}
	// The free-text term lives on the query, not the criteria.
	criteria.Search = ""

	query := services.SearchQuery{
		Term:           c.Query("q"),
		Type:           services.SearchType(c.Query("type")),
		DatePreset:     c.Query("date_range"),
		Criteria:       criteria,
		Specialization: models.Specialization(c.Query("specialization")),
	}
	return query, nil
}

// Search handles the cross-entity search.
// @Summary     Search
// @Description Search advisors, recommendations and performance. Advisors only see their own data.
// @Tags        search
// @Produce     json
// @Security    BearerAuth
// @Param       q              query string false "Free-text term"
// @Param       type           query string false "all, advisors, recommendations or performance"
// @Param       date_range     query string false "7d, 30d, 90d or 1y"
// @Param       specialization query string false "Advisor specialization"
// @Param       status         query string false "Recommendation status"
// @Param       action         query string false "Recommendation action"
// @Param       advisor_id     query string false "Advisor ID"
// @Param       confidence_min query int    false "Minimum confidence (1-100)"
// @Param       confidence_max query int    false "Maximum confidence (1-100)"
// @Param       from_date      query string false "Created on or after"
// @Param       to_date        query string false "Created on or before"
// @Success     200 {object} services.SearchResults "Results"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	query, err := h.parseQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	results, err := h.searchService.Search(actor, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// Export handles downloading one search result set as CSV.
// @Summary     Export search results
// @Description Same filters as search; type selects the result set and is required
// @Tags        search
// @Produce     text/csv
// @Security    BearerAuth
// @Param       type query string true "advisors, recommendations or performance"
// @Param       q    query string false "Free-text term"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /search/export [get]
func (h *SearchHandler) Export(c *gin.Context) {
	actor, err := getActor(c, h.advisorService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	query, err := h.parseQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind := export.Kind(query.Type)
	if !kind.Valid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be one of advisors, recommendations, performance"))
		return
	}

	results, err := h.searchService.Search(actor, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	switch kind {
	case export.KindAdvisors:
		err = export.WriteAdvisors(&buf, results.Advisors)
	case export.KindRecommendations:
		err = export.WriteRecommendations(&buf, results.Recommendations)
	case export.KindPerformance:
		err = export.WritePerformance(&buf, results.Performance)
	}
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(kind, h.now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
