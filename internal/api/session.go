package api

import (
	"strings"

	"classfeedback/internal/domain" // Importing domain models
	"classfeedback/internal/middleware"
	"classfeedback/internal/store"

	"github.com/gin-contrib/sessions" // Cookie-backed sessions
	"github.com/gin-gonic/gin"        // Gin web framework
)

// sessionPreAuthKey holds the user id between email resolution and
// first-login password setup. It never grants access to protected pages.
const sessionPreAuthKey = "pre_user_id"

// FlashMessage is a one-shot status string with a display category
// (success, danger, warning, info), shown on the next rendered page.
type FlashMessage struct {
	Category string
	Message  string
}

// addFlash queues a flash message for the next rendered page.
func addFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(category + "|" + message)
	_ = session.Save() // Persist the flash before the redirect
}

// takeFlashes drains queued flash messages for rendering.
func takeFlashes(c *gin.Context) []FlashMessage {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save() // Flashes are one-shot; persist their removal
	}
	out := make([]FlashMessage, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(s, "|")
		if !found {
			out = append(out, FlashMessage{Category: "info", Message: s})
			continue
		}
		out = append(out, FlashMessage{Category: category, Message: message})
	}
	return out
}

// currentUser resolves the session's bound user id to a full User record.
// A missing or stale id yields nil; callers redirect to login, never error.
func currentUser(c *gin.Context, users *store.UserStore) *domain.User {
	uid, exists := c.Get("userID") // Set by the RequireLogin middleware
	if !exists {
		return nil
	}
	id, ok := uid.(uint)
	if !ok {
		return nil
	}
	user, err := users.ByID(id)
	if err != nil {
		return nil // Stale session pointing at a removed user
	}
	return user
}

// establishSession binds an authenticated session to the user and clears
// any pre-auth state left over from the set-password branch.
func establishSession(c *gin.Context, userID uint) {
	session := sessions.Default(c)
	session.Delete(sessionPreAuthKey)
	session.Set(middleware.SessionUserKey, userID)
	_ = session.Save()
}
