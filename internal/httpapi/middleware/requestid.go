package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/common"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID reuses an inbound X-Request-ID or mints a ULID, and attaches a
// logger carrying it to the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > 128 {
			id, err := common.NewULID()
			if err == nil {
				rid = id
			}
		}

		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		l := logging.Default().With(zap.String("request_id", rid))
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), l))
		c.Next()
	}
}
