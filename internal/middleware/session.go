package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-contrib/sessions" // Cookie-backed sessions
	"github.com/gin-gonic/gin"        // Gin web framework
)

// SessionUserKey is the session key holding the authenticated user id.
const SessionUserKey = "user_id"

// RequireLogin guards the protected pages. A request without a bound user
// id is redirected to the login page, never answered with an error; a
// bound id is exposed to handlers as "userID" in the gin context.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		uid, ok := session.Get(SessionUserKey).(uint) // Get user id from session
		if !ok || uid == 0 {
			// Not logged in: back to the login screen.
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("userID", uid) // Store userID in context
		c.Next()             // Proceed to the next handler
	}
}
