package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
)

type EntryHandler struct {
	svc *services.EntryService
}

func NewEntryHandler(svc *services.EntryService) *EntryHandler {
	return &EntryHandler{
		svc: svc,
	}
}

type createEntryRequest struct {
	EntryTypeID string         `json:"entryTypeId" binding:"required"`
	CreatedAt   time.Time      `json:"createdAt"`
	Points      *domain.Points `json:"points"`
	Notes       string         `json:"notes"`
}

type updateEntryRequest struct {
	Points  *domain.Points `json:"points"`
	Notes   *string        `json:"notes"`
	Version int            `json:"version" binding:"required"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.POST("", h.Create)
		entries.GET("", h.Map)
		entries.GET("/sync", h.Sync)
		entries.GET("/:id", h.Get)
		entries.PUT("/:id", h.Update)
		entries.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Log an entry; points default to the entry type's default
// @Tags     entries
// @Accept   json
// @Produce  json
// @Param    body body createEntryRequest true "Entry"
// @Success  201 {object} domain.EntryInstance
// @Failure  400,404 {object} map[string]string
// @Security BearerAuth
// @Router   /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), services.CreateEntryInput{
		EntryTypeID: req.EntryTypeID,
		UserID:      userID,
		CreatedAt:   req.CreatedAt,
		Points:      req.Points,
		Notes:       req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Map godoc
// @Summary  Every active entry keyed by its day in the requested zone
// @Tags     entries
// @Produce  json
// @Param    tz query string false "IANA zone, UTC by default"
// @Success  200 {object} domain.EntryInstancesMap
// @Security BearerAuth
// @Router   /entries [get]
func (h *EntryHandler) Map(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	loc, ok := location(c)
	if !ok {
		return
	}

	m, err := h.svc.Map(c.Request.Context(), userID, loc)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *EntryHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Update godoc
// @Summary  Change points or notes of an entry, guarded by its version
// @Tags     entries
// @Accept   json
// @Produce  json
// @Param    id   path string true "Entry id"
// @Param    body body updateEntryRequest true "Fields to change"
// @Success  200 {object} domain.EntryInstance
// @Failure  400,403,404,409 {object} map[string]string
// @Security BearerAuth
// @Router   /entries/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), services.UpdateEntryInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Points:  req.Points,
		Notes:   req.Notes,
		Version: req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Sync godoc
// @Summary  Entries created, changed or deleted after a point in time
// @Tags     entries
// @Produce  json
// @Param    since query string false "RFC3339 timestamp"
// @Success  200 {object} map[string]interface{}
// @Security BearerAuth
// @Router   /entries/sync [get]
func (h *EntryHandler) Sync(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var since time.Time
	if sinceStr := c.Query("since"); sinceStr != "" {
		var err error
		since, err = time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use RFC3339)"})
			return
		}
	}

	changes, err := h.svc.GetDelta(c.Request.Context(), userID, since)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   changes,
		"timestamp": time.Now().UTC(),
	})
}
