package middleware

import (
	"net/http"

	"onetracker/config"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards the booking endpoints with a static API key: 401 when the
// header is absent, 403 when it does not match.
func APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key missing"})
			return
		}
		if key != config.AppConfig.APIKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid API key"})
			return
		}
		c.Next()
	}
}
