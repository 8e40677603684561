package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
)

type EntryTypeHandler struct {
	svc *services.EntryTypeService
}

func NewEntryTypeHandler(svc *services.EntryTypeService) *EntryTypeHandler {
	return &EntryTypeHandler{
		svc: svc,
	}
}

type createEntryTypeRequest struct {
	Title         string        `json:"title" binding:"required"`
	Routine       string        `json:"routine"`
	DefaultPoints domain.Points `json:"defaultPoints"`
	PointStep     domain.Points `json:"pointStep"`
	ThemeColors   [2]string     `json:"themeColors"`
}

type updateEntryTypeRequest struct {
	Title         string         `json:"title"`
	Routine       string         `json:"routine"`
	DefaultPoints *domain.Points `json:"defaultPoints"`
	PointStep     *domain.Points `json:"pointStep"`
	ThemeColors   [2]string      `json:"themeColors"`
}

func (h *EntryTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	types := router.Group("/entry-types")
	{
		types.POST("", h.Create)
		types.GET("", h.List)
		types.GET("/:id", h.Get)
		types.PUT("/:id", h.Update)
		types.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Add an entry type to the catalog
// @Tags     entry-types
// @Accept   json
// @Produce  json
// @Param    body body createEntryTypeRequest true "Entry type"
// @Success  201 {object} domain.EntryType
// @Failure  400,409 {object} map[string]string
// @Security BearerAuth
// @Router   /entry-types [post]
func (h *EntryTypeHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createEntryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryType, err := h.svc.Create(c.Request.Context(), services.CreateEntryTypeInput{
		UserID:        userID,
		Title:         req.Title,
		Routine:       req.Routine,
		DefaultPoints: req.DefaultPoints,
		PointStep:     req.PointStep,
		ThemeColors:   req.ThemeColors,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entryType)
}

// List godoc
// @Summary  List the catalog, in creation order or ranked by total entries
// @Tags     entry-types
// @Produce  json
// @Param    sort query string false "rank to order by total entries"
// @Success  200 {array} domain.EntryType
// @Security BearerAuth
// @Router   /entry-types [get]
func (h *EntryTypeHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID, c.Query("sort") == "rank")
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *EntryTypeHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entryType, err := h.svc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entryType)
}

// Update godoc
// @Summary  Change an entry type; a new title moves its id and its entries
// @Tags     entry-types
// @Accept   json
// @Produce  json
// @Param    id   path string true "Entry type id"
// @Param    body body updateEntryTypeRequest true "Fields to change"
// @Success  200 {object} domain.EntryType
// @Failure  400,404,409 {object} map[string]string
// @Security BearerAuth
// @Router   /entry-types/{id} [put]
func (h *EntryTypeHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateEntryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryType, err := h.svc.Update(c.Request.Context(), services.UpdateEntryTypeInput{
		ID:            c.Param("id"),
		UserID:        userID,
		Title:         req.Title,
		Routine:       req.Routine,
		DefaultPoints: req.DefaultPoints,
		PointStep:     req.PointStep,
		ThemeColors:   req.ThemeColors,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entryType)
}

// Delete godoc
// @Summary  Remove an entry type and every entry logged for it
// @Tags     entry-types
// @Param    id path string true "Entry type id"
// @Success  204
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /entry-types/{id} [delete]
func (h *EntryTypeHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
