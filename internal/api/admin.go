package api

import (
	"net/http" // HTTP status codes

	"classfeedback/internal/domain" // Importing domain models
	"classfeedback/internal/store"
	"classfeedback/internal/utils" // Cache helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// AddUserRequest is the admin payload for adding someone to the roster.
type AddUserRequest struct {
	Name  string `json:"name" binding:"required"`        // Display name
	Email string `json:"email" binding:"required,email"` // Login email
}

// AddUserHandler adds a user to the roster. Adding an email that already
// exists reports the existing user instead of failing, so the call is
// safe to repeat.
func AddUserHandler(users *store.UserStore, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if existing, err := users.ByEmail(req.Email); err == nil {
			c.JSON(http.StatusOK, gin.H{"message": "User already exists", "user": existing})
			return
		}
		user := domain.User{Name: req.Name, Email: req.Email}
		if err := users.Create(&user); err != nil {
			logrus.WithFields(logrus.Fields{"email": req.Email, "error": err.Error()}).Error("Failed to add user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user"})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User added")
		_ = cache.Delete(c.Request.Context(), rosterCacheKey) // The roster changed
		c.JSON(http.StatusCreated, gin.H{"message": "User added", "user": user})
	}
}

// ListAllUsersHandler returns the full roster, alphabetical, through the
// cache.
func ListAllUsersHandler(users *store.UserStore, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		roster, err := cachedRoster(c.Request.Context(), users, cache)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": roster})
	}
}
