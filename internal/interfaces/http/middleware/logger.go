package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artmarket.backoffice/pkg/logger"
)

// LoggerMiddleware writes one structured line per request.
// 5xx responses and handler errors are logged at error level.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		ctx := c.Request.Context()
		if status >= http.StatusInternalServerError || len(c.Errors) > 0 {
			logger.Error(ctx, "HTTP Request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("errors", c.Errors.String()),
			)
			return
		}
		logger.LogRequest(ctx, c.Request.Method, path, status, time.Since(start), c.ClientIP())
	}
}
