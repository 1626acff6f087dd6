package domain

import "errors"

// Errors surfaced by the auth flow and feedback upsert. All of them are
// recovered at the request boundary as a flash message plus a redirect.
var (
	ErrUnknownEmail      = errors.New("email not recognized")
	ErrPasswordMismatch  = errors.New("passwords empty or do not match")
	ErrInvalidCredential = errors.New("incorrect password")
	ErrEmptyContent      = errors.New("feedback content is empty")
	ErrSelfFeedback      = errors.New("cannot give feedback to yourself")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotAuthenticated  = errors.New("not authenticated")
)
