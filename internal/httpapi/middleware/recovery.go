package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/common"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"go.uber.org/zap"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.FromContext(c.Request.Context()).Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					common.Fail(c, http.StatusInternalServerError, 50000, "internal server error")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
