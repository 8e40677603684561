package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diary/internal/logger"
)

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		keyvals := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}

		switch {
		case status >= 500:
			logger.Error("Request served", keyvals...)
		case status >= 400:
			logger.Warn("Request served", keyvals...)
		default:
			logger.Debug("Request served", keyvals...)
		}
	}
}
