package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"classfeedback/internal/utils" // Admin token utilities

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminAuthMiddleware validates the bearer token guarding the maintenance
// endpoints. They are only reachable with a token minted from the
// application secret (see cmd/migrate -admin-token).
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		if _, err := utils.ParseAdminToken(tokenStr, secret); err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
