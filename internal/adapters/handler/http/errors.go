package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/streaks"
	"github.com/comitanigiacomo/kanso-diary/internal/logger"
)

var badRequestErrors = []error{
	domain.ErrInvalidEntry,
	domain.ErrInvalidRoutine,
	domain.ErrEntryTypeTitleEmpty,
	domain.ErrEntryTypeTitleTooLong,
	domain.ErrEntryTypeInvalidSlug,
	domain.ErrInvalidColor,
	domain.ErrInvalidPointStep,
	domain.ErrInvalidDefaultPoints,
	domain.ErrBackupInvalid,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	streaks.ErrInvalidGranularity,
}

func handleError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrEntryTypeNotFound),
		errors.Is(err, domain.ErrBackupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrEntryConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please sync",
		})

	case errors.Is(err, domain.ErrEntryTypeExists), errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrBackupRemoteOff):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		logger.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// currentUser reads the id set by the auth middleware and answers 401 when
// it is missing.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

// location reads the IANA zone from the tz query parameter, UTC by default.
func location(c *gin.Context) (*time.Location, bool) {
	tz := c.Query("tz")
	if tz == "" {
		return time.UTC, true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tz, expected an IANA zone name"})
		return nil, false
	}
	return loc, true
}
