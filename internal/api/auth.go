package api

import (
	"errors"
	"net/http" // HTTP status codes

	"classfeedback/internal/auth"
	"classfeedback/internal/domain" // Importing domain models
	"classfeedback/internal/middleware"
	"classfeedback/internal/store"

	"github.com/gin-contrib/sessions" // Cookie-backed sessions
	"github.com/gin-gonic/gin"        // Gin web framework
	"github.com/sirupsen/logrus"      // Logging library
)

// LoginPageHandler renders the email/password form.
func LoginPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{"flashes": takeFlashes(c)})
	}
}

// LoginHandler resolves the submitted email and branches: unknown emails
// bounce back to login, credential-less users continue to set-password,
// everyone else gets their password verified.
func LoginHandler(flow *auth.Flow) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("email")
		user, needsPassword, err := flow.ResolveEmail(email)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownEmail) {
				// Surface to the caller, not fatal.
				addFlash(c, "danger", "Email not recognized. Please use an email from the class list.")
				c.Redirect(http.StatusFound, "/login")
				return
			}
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("Email resolution failed")
			addFlash(c, "danger", "Something went wrong. Please try again.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if needsPassword {
			// First login: park the user id in pre-auth state and send
			// them to password setup. No session access is granted yet.
			session := sessions.Default(c)
			session.Set(sessionPreAuthKey, user.ID)
			_ = session.Save()
			c.Redirect(http.StatusFound, "/set-password")
			return
		}
		if _, err := flow.VerifyPassword(user.ID, c.PostForm("password")); err != nil {
			addFlash(c, "danger", "Incorrect password.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		establishSession(c, user.ID)
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User logged in")
		addFlash(c, "success", "Welcome, "+user.Name+"!")
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

// SetPasswordPageHandler renders the first-login password form for the
// user parked in pre-auth state.
func SetPasswordPageHandler(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		preID, ok := session.Get(sessionPreAuthKey).(uint)
		if !ok || preID == 0 {
			addFlash(c, "warning", "No email selected. Start from login.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		user, err := users.ByID(preID)
		if err != nil {
			addFlash(c, "danger", "User not found.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		c.HTML(http.StatusOK, "set_password.html", gin.H{"user": user, "flashes": takeFlashes(c)})
	}
}

// SetPasswordHandler stores the first-login credential and logs the user
// in. A mismatch leaves no credential set and returns to the form.
func SetPasswordHandler(flow *auth.Flow) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		preID, ok := session.Get(sessionPreAuthKey).(uint)
		if !ok || preID == 0 {
			addFlash(c, "warning", "No email selected. Start from login.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		p1 := c.PostForm("password")
		p2 := c.PostForm("confirm_password")
		user, err := flow.SetPassword(preID, p1, p2)
		if err != nil {
			if errors.Is(err, domain.ErrPasswordMismatch) {
				addFlash(c, "danger", "Passwords empty or don't match.")
				c.Redirect(http.StatusFound, "/set-password")
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": preID, "error": err.Error()}).Error("Password setup failed")
			addFlash(c, "danger", "User not found.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		establishSession(c, user.ID)
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Password set on first login")
		addFlash(c, "success", "Password set! Logged in.")
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

// LogoutHandler clears the session and returns to login.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		session.Delete(middleware.SessionUserKey)
		session.Delete(sessionPreAuthKey)
		_ = session.Save()
		addFlash(c, "info", "Logged out.")
		c.Redirect(http.StatusFound, "/login")
	}
}
