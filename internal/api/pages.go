package api

import (
	"net/http" // HTTP status codes

	"classfeedback/internal/store"

	"github.com/gin-gonic/gin" // Gin web framework
)

// SplashHandler renders the public landing page.
func SplashHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "splash.html", gin.H{"flashes": takeFlashes(c)})
	}
}

// DashboardHandler renders the logged-in home page.
func DashboardHandler(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c, users)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		c.HTML(http.StatusOK, "dashboard.html", gin.H{"user": user, "flashes": takeFlashes(c)})
	}
}
