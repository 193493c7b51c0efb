package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/auth"
	"github.com/suPer8Hu/brand-assistant/internal/common"
)

const UserIDKey = "user_id"

// AuthRequired accepts a JWT from the Authorization header or, failing that,
// from the auth cookie. The token subject is stored under UserIDKey.
func AuthRequired(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cookieName != "" {
			if v, err := c.Cookie(cookieName); err == nil {
				token = v
			}
		}
		if token == "" {
			common.Fail(c, http.StatusUnauthorized, 40100, "missing token")
			c.Abort()
			return
		}

		claims, err := auth.ParseJWT(token, secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40101, "invalid token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(h string) string {
	parts := strings.SplitN(strings.TrimSpace(h), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated subject set by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
