package store

import (
	"errors"
	"strings"
	"time"

	"classfeedback/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Association handling
)

// UpsertResult tags whether an upsert inserted a new row or rewrote an
// existing one, so callers can phrase their status message accordingly.
type UpsertResult int

const (
	Created UpsertResult = iota // A new feedback row was inserted
	Updated                     // The existing row for the pair was rewritten
)

// FeedbackStore wraps all feedback table access.
type FeedbackStore struct {
	db *gorm.DB
}

// NewFeedbackStore returns a store bound to db.
func NewFeedbackStore(db *gorm.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Upsert creates or rewrites the single feedback record for the
// (sender, recipient) pair. Content must be non-empty after trimming,
// sender and recipient must differ, and the recipient must exist.
// Updates are last-write-wins: content, visibility and timestamp are all
// overwritten in place. The unique index on the pair closes the race
// between two concurrent first-time submissions.
func (s *FeedbackStore) Upsert(senderID, recipientID uint, content string, visible bool) (*domain.Feedback, UpsertResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, 0, domain.ErrEmptyContent
	}
	if senderID == recipientID {
		return nil, 0, domain.ErrSelfFeedback
	}
	// The recipient reference must resolve before anything is written.
	var recipient domain.User
	if err := s.db.First(&recipient, recipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrUserNotFound
		}
		return nil, 0, err
	}
	var existing domain.Feedback
	err := s.db.Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).First(&existing).Error
	if err == nil {
		// Same identity, new content: update semantics.
		existing.Content = content
		existing.Visible = visible
		existing.CreatedAt = time.Now()
		if err := s.db.Omit(clause.Associations).Save(&existing).Error; err != nil {
			return nil, 0, err
		}
		return &existing, Updated, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, err
	}
	created := domain.Feedback{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Visible:     visible,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Omit(clause.Associations).Create(&created).Error; err != nil {
		return nil, 0, err
	}
	return &created, Created, nil
}

// ForPair returns the single record for (sender, recipient);
// gorm.ErrRecordNotFound when the sender has not written one yet.
func (s *FeedbackStore) ForPair(senderID, recipientID uint) (*domain.Feedback, error) {
	var fb domain.Feedback
	if err := s.db.Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).First(&fb).Error; err != nil {
		return nil, err
	}
	return &fb, nil
}

// GivenBy returns every feedback the user authored, newest first, with the
// recipient relation loaded for display.
func (s *FeedbackStore) GivenBy(senderID uint) ([]domain.Feedback, error) {
	var items []domain.Feedback
	err := s.db.Preload("Recipient").
		Where("sender_id = ?", senderID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ReceivedBy returns the feedback addressed to the user that the sender
// marked visible, newest first, with the sender relation loaded. Hidden
// entries never leave the store on this path.
func (s *FeedbackStore) ReceivedBy(recipientID uint) ([]domain.Feedback, error) {
	var items []domain.Feedback
	err := s.db.Preload("Sender").
		Where("recipient_id = ? AND visible = ?", recipientID, true).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
