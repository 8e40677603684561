package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
)

type BackupHandler struct {
	svc *services.BackupService
}

func NewBackupHandler(svc *services.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

type saveBackupRequest struct {
	Filename string `json:"filename"`
}

type uploadBackupRequest struct {
	Filename string          `json:"filename"`
	Content  json.RawMessage `json:"content" binding:"required"`
}

func (h *BackupHandler) RegisterRoutes(router *gin.RouterGroup) {
	backups := router.Group("/backups")
	{
		backups.GET("", h.List)
		backups.POST("", h.Save)
		backups.POST("/upload", h.Upload)
		backups.POST("/push", h.Push)
		backups.GET("/export", h.Export)
		backups.GET("/:id", h.Get)
		backups.POST("/:id/restore", h.Restore)
	}
}

// Save godoc
// @Summary  Store a snapshot of the current catalog and entries
// @Tags     backups
// @Accept   json
// @Produce  json
// @Param    body body saveBackupRequest false "Optional filename"
// @Success  201 {object} domain.Backup
// @Security BearerAuth
// @Router   /backups [post]
func (h *BackupHandler) Save(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req saveBackupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	backup, err := h.svc.Save(c.Request.Context(), userID, req.Filename)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, backup)
}

// Upload godoc
// @Summary  Store a snapshot produced by a client
// @Tags     backups
// @Accept   json
// @Produce  json
// @Param    body body uploadBackupRequest true "Filename and snapshot"
// @Success  201 {object} domain.Backup
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /backups/upload [post]
func (h *BackupHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req uploadBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	backup, err := h.svc.Upload(c.Request.Context(), userID, req.Filename, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, backup)
}

// List godoc
// @Summary  The user's backups, newest first, without content
// @Tags     backups
// @Produce  json
// @Success  200 {array} domain.Backup
// @Security BearerAuth
// @Router   /backups [get]
func (h *BackupHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *BackupHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	backup, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, backup)
}

// Export godoc
// @Summary  The current catalog and entries as a snapshot file
// @Tags     backups
// @Produce  json
// @Success  200 {object} domain.Snapshot
// @Security BearerAuth
// @Router   /backups/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	snapshot, err := h.svc.Export(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Restore godoc
// @Summary  Replace the catalog and entries with a stored backup
// @Tags     backups
// @Produce  json
// @Param    id path string true "Backup id"
// @Success  200 {object} services.ImportResult
// @Failure  400,404 {object} map[string]string
// @Security BearerAuth
// @Router   /backups/{id}/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.svc.Restore(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Push godoc
// @Summary  Commit the current snapshot to the configured GitHub repository
// @Tags     backups
// @Success  202
// @Failure  503 {object} map[string]string
// @Security BearerAuth
// @Router   /backups/push [post]
func (h *BackupHandler) Push(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Push(userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}
