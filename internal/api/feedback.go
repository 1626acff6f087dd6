package api

import (
	"context" // Context for Redis operations
	"errors"
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"classfeedback/internal/domain" // Importing domain models
	"classfeedback/internal/store"
	"classfeedback/internal/utils" // Cache helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const (
	rosterCacheKey = "roster:users"   // Alphabetical user roster
	cacheTTL       = 60 * time.Second // Listing cache lifetime
)

// givenCacheKey is the cache key for a user's authored feedback listing.
func givenCacheKey(userID uint) string {
	return "feedback:given:" + strconv.Itoa(int(userID))
}

// receivedCacheKey is the cache key for a user's visible received listing.
func receivedCacheKey(userID uint) string {
	return "feedback:received:" + strconv.Itoa(int(userID))
}

// cachedRoster reads the alphabetical roster through the cache.
func cachedRoster(ctx context.Context, users *store.UserStore, cache *utils.Cache) ([]domain.User, error) {
	var roster []domain.User
	if found, err := cache.Get(ctx, rosterCacheKey, &roster); err == nil && found {
		return roster, nil
	}
	roster, err := users.ListByName()
	if err != nil {
		return nil, err
	}
	_ = cache.Set(ctx, rosterCacheKey, roster, cacheTTL)
	return roster, nil
}

// recipientEntry pairs a potential recipient with the sender's existing
// feedback for them, so the form can pre-fill what was written before.
type recipientEntry struct {
	User     domain.User
	Existing *domain.Feedback
}

// GiveFeedbackPageHandler renders the feedback form: every classmate
// except the sender, alphabetical, with existing feedback pre-filled.
func GiveFeedbackPageHandler(users *store.UserStore, feedback *store.FeedbackStore, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c, users)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		roster, err := cachedRoster(c.Request.Context(), users, cache)
		if err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("Failed to load roster")
			addFlash(c, "danger", "Could not load the class list.")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		given, err := feedback.GivenBy(user.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to load given feedback")
			addFlash(c, "danger", "Could not load your feedback.")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		// Map recipient id -> existing feedback for pre-filling the form.
		existingByRecipient := make(map[uint]*domain.Feedback, len(given))
		for i := range given {
			existingByRecipient[given[i].RecipientID] = &given[i]
		}
		recipients := make([]recipientEntry, 0, len(roster))
		for _, u := range roster {
			if u.ID == user.ID {
				continue // The UI never offers self as a recipient
			}
			recipients = append(recipients, recipientEntry{User: u, Existing: existingByRecipient[u.ID]})
		}
		c.HTML(http.StatusOK, "give_feedback.html", gin.H{
			"user":       user,
			"recipients": recipients,
			"flashes":    takeFlashes(c),
		})
	}
}

// SubmitFeedbackHandler upserts the sender's feedback for one recipient:
// at most one record per (sender, recipient) pair, last write wins.
func SubmitFeedbackHandler(feedback *store.FeedbackStore, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		senderID, exists := c.Get("userID") // Set by the RequireLogin middleware
		if !exists {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		recipientID, err := strconv.ParseUint(c.PostForm("recipient_id"), 10, 32)
		if err != nil {
			addFlash(c, "danger", "Invalid recipient.")
			c.Redirect(http.StatusFound, "/give-feedback")
			return
		}
		content := c.PostForm("content")
		visible := c.PostForm("visible") != "" // Checkbox: present means visible
		fb, result, err := feedback.Upsert(senderID.(uint), uint(recipientID), content, visible)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEmptyContent):
				addFlash(c, "danger", "Feedback cannot be empty.")
			case errors.Is(err, domain.ErrSelfFeedback):
				addFlash(c, "danger", "You cannot give feedback to yourself.")
			case errors.Is(err, domain.ErrUserNotFound):
				addFlash(c, "danger", "Recipient not found.")
			default:
				logrus.WithFields(logrus.Fields{
					"sender_id":    senderID,
					"recipient_id": recipientID,
					"error":        err.Error(),
				}).Error("Feedback upsert failed")
				addFlash(c, "danger", "Could not save feedback.")
			}
			c.Redirect(http.StatusFound, "/give-feedback")
			return
		}
		logrus.WithFields(logrus.Fields{
			"sender_id":    fb.SenderID,
			"recipient_id": fb.RecipientID,
			"feedback_id":  fb.ID,
			"created":      result == store.Created,
		}).Info("Feedback submitted")
		if result == store.Created {
			addFlash(c, "success", "Feedback sent!")
		} else {
			addFlash(c, "success", "Feedback updated!")
		}
		// Invalidate both listing caches touched by this write.
		_ = cache.Delete(c.Request.Context(), givenCacheKey(fb.SenderID), receivedCacheKey(fb.RecipientID))
		c.Redirect(http.StatusFound, "/give-feedback")
	}
}

// ViewFeedbackHandler lists the user's given and visible received
// feedback, newest first, through the cache.
func ViewFeedbackHandler(users *store.UserStore, feedback *store.FeedbackStore, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c, users)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		ctx := c.Request.Context()
		var given []domain.Feedback
		if found, err := cache.Get(ctx, givenCacheKey(user.ID), &given); err != nil || !found {
			given, err = feedback.GivenBy(user.ID)
			if err != nil {
				logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to load given feedback")
				addFlash(c, "danger", "Could not load your feedback.")
				c.Redirect(http.StatusFound, "/dashboard")
				return
			}
			_ = cache.Set(ctx, givenCacheKey(user.ID), given, cacheTTL)
		}
		var received []domain.Feedback
		if found, err := cache.Get(ctx, receivedCacheKey(user.ID), &received); err != nil || !found {
			received, err = feedback.ReceivedBy(user.ID)
			if err != nil {
				logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to load received feedback")
				addFlash(c, "danger", "Could not load your feedback.")
				c.Redirect(http.StatusFound, "/dashboard")
				return
			}
			_ = cache.Set(ctx, receivedCacheKey(user.ID), received, cacheTTL)
		}
		c.HTML(http.StatusOK, "view_feedback.html", gin.H{
			"user":     user,
			"given":    given,
			"received": received,
			"flashes":  takeFlashes(c),
		})
	}
}
