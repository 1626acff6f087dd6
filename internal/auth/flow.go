package auth

import (
	"errors"

	"classfeedback/internal/domain" // Importing domain models
	"classfeedback/internal/store"

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// UserSource is the slice of the user store the auth flow needs.
type UserSource interface {
	ByEmail(email string) (*domain.User, error)
	ByID(id uint) (*domain.User, error)
	SetPasswordHash(id uint, hash string) error
}

// Flow implements the login state machine: an email resolves either to the
// first-login password-setup branch or to the password-verification branch,
// and both end by binding a session to the user id.
type Flow struct {
	users UserSource
}

// NewFlow returns a Flow backed by the given user source.
func NewFlow(users UserSource) *Flow {
	return &Flow{users: users}
}

// ResolveEmail normalizes the email and looks the user up.
// needsPassword is true when the user exists but has no credential yet,
// meaning the caller must continue with SetPassword rather than
// VerifyPassword. Absent emails yield domain.ErrUnknownEmail.
func (f *Flow) ResolveEmail(email string) (user *domain.User, needsPassword bool, err error) {
	user, err = f.users.ByEmail(store.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, false, domain.ErrUnknownEmail
		}
		return nil, false, err
	}
	return user, !user.HasPassword(), nil
}

// SetPassword establishes the credential for a user in the pre-auth state.
// Both entries must be non-empty and equal; on mismatch nothing is stored
// and the user stays credential-less. The hash is one-way and salted.
func (f *Flow) SetPassword(pendingUserID uint, p1, p2 string) (*domain.User, error) {
	if p1 == "" || p1 != p2 {
		return nil, domain.ErrPasswordMismatch
	}
	user, err := f.users.ByID(pendingUserID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := f.users.SetPasswordHash(user.ID, string(hash)); err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	return user, nil
}

// VerifyPassword checks a candidate against the stored credential.
// A user without a credential can never verify.
func (f *Flow) VerifyPassword(userID uint, candidate string) (*domain.User, error) {
	user, err := f.users.ByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() {
		return nil, domain.ErrInvalidCredential
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) != nil {
		return nil, domain.ErrInvalidCredential
	}
	return user, nil
}
