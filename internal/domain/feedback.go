package domain

import "time"

// Feedback Model
type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                       // Primary key
	SenderID    uint      `gorm:"not null;uniqueIndex:idx_feedback_pair" json:"sender_id"`    // Author of the feedback
	RecipientID uint      `gorm:"not null;uniqueIndex:idx_feedback_pair" json:"recipient_id"` // Classmate it is about
	Content     string    `gorm:"type:text;not null" json:"content"`                          // Free-text body
	Visible     bool      `gorm:"default:true" json:"visible"`                                // Whether the recipient may see it
	CreatedAt   time.Time `json:"created_at"`                                                 // Refreshed on every resubmission

	Sender    User `gorm:"foreignKey:SenderID" json:"sender"`       // Relation to the author
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient"` // Relation to the classmate
}
