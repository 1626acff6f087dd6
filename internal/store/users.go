package store

import (
	"errors"
	"strings"

	"classfeedback/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// UserStore wraps all user table access behind an explicitly passed handle.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a store bound to db.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// NormalizeEmail trims and lowercases an email so lookups and storage agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ByEmail looks a user up by normalized email.
func (s *UserStore) ByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ByID looks a user up by primary key.
func (s *UserStore) ByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListByName returns the full roster ordered alphabetically by display name.
func (s *UserStore) ListByName() ([]domain.User, error) {
	var users []domain.User
	if err := s.db.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user. Name and email are normalized before the
// insert; the unique index on email rejects duplicates.
func (s *UserStore) Create(u *domain.User) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	return s.db.Create(u).Error
}

// SetPasswordHash stores the credential for a user. The auth flow only
// calls this once per user, on first login.
func (s *UserStore) SetPasswordHash(id uint, hash string) error {
	res := s.db.Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
