package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCronSecret gates the scheduled-trigger endpoint behind the shared
// secret. With no secret configured the check is disabled.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader != "Bearer "+secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
