package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Name         string    `gorm:"size:200;not null" json:"name"`              // Display name
	Email        string    `gorm:"size:200;uniqueIndex;not null" json:"email"` // Login key, stored lowercase
	PasswordHash string    `gorm:"size:200" json:"-"`                          // Empty until the first login sets it
	CreatedAt    time.Time `json:"created_at"`                                 // Timestamp of creation
}

// HasPassword reports whether the user has completed first-login password setup.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
