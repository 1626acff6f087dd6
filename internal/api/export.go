package api

import (
	"net/http" // HTTP status codes

	"classfeedback/internal/pdf" // PDF report renderer
	"classfeedback/internal/store"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// DownloadGivenPDFHandler streams the user's authored feedback as a PDF
// attachment.
func DownloadGivenPDFHandler(users *store.UserStore, feedback *store.FeedbackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c, users)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		given, err := feedback.GivenBy(user.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to load given feedback for export")
			addFlash(c, "danger", "Could not generate the PDF.")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		data, err := pdf.GivenReport(user, given)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("PDF rendering failed")
			addFlash(c, "danger", "Could not generate the PDF.")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="given_feedbacks.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
	}
}

// DownloadReceivedPDFHandler streams the user's visible received feedback
// as a PDF attachment.
func DownloadReceivedPDFHandler(users *store.UserStore, feedback *store.FeedbackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c, users)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		received, err := feedback.ReceivedBy(user.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to load received feedback for export")
			addFlash(c, "danger", "Could not generate the PDF.")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		data, err := pdf.ReceivedReport(user, received)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("PDF rendering failed")
			addFlash(c, "danger", "Could not generate the PDF.")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="received_feedbacks.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
	}
}
