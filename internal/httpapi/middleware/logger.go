package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"go.uber.org/zap"
)

// AccessLog writes one line per request once the handler chain returns.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid, ok := c.Get(UserIDKey); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		log := logging.FromContext(c.Request.Context())
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
