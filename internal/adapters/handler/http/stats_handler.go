package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/summary", h.GetSummary)
		stats.GET("/habits/:id", h.GetHabitGrid)
	}
}

// statsInput reads the today and tz query parameters shared by the stats
// endpoints.
func statsInput(c *gin.Context, userID string) (domain.StatsInput, bool) {
	loc, ok := location(c)
	if !ok {
		return domain.StatsInput{}, false
	}

	input := domain.StatsInput{
		UserID:      userID,
		Granularity: c.Query("granularity"),
		Location:    loc,
	}

	if todayStr := c.Query("today"); todayStr != "" {
		today, err := time.ParseInLocation(domain.DateLayout, todayStr, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid today format, expected YYYY-MM-DD"})
			return domain.StatsInput{}, false
		}
		input.Today = today
	}

	return input, true
}

// GetSummary godoc
// @Summary  Current and longest streak, per-habit ranking and the chart
// @Tags     stats
// @Produce  json
// @Param    today       query string false "YYYY-MM-DD, defaults to now"
// @Param    granularity query string false "day, week or month"
// @Param    tz          query string false "IANA zone, UTC by default"
// @Success  200 {object} domain.StatsSummary
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /stats/summary [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	input, ok := statsInput(c, userID)
	if !ok {
		return
	}

	summary, err := h.svc.GetSummary(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetHabitGrid godoc
// @Summary  One entry type's history over the periods of its routine
// @Tags     stats
// @Produce  json
// @Param    id    path  string true  "Entry type id"
// @Param    today query string false "YYYY-MM-DD, defaults to now"
// @Param    tz    query string false "IANA zone, UTC by default"
// @Success  200 {object} domain.HabitGrid
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /stats/habits/{id} [get]
func (h *StatsHandler) GetHabitGrid(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	input, ok := statsInput(c, userID)
	if !ok {
		return
	}

	grid, err := h.svc.GetHabitGrid(c.Request.Context(), input, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, grid)
}
