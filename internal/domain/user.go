package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

// User is the persisted account record. Emails are matched exactly
// (no case folding) and unique at the storage layer.
type User struct {
	ID             string
	Email          string
	Username       string
	PasswordHash   string
	IsVerified     bool
	ProfilePicture *string

	// ResetPasswordToken and ResetPasswordExpires are set and cleared
	// together. A reset token is live only while it equals the stored
	// value and the expiry is in the future.
	ResetPasswordToken   *string
	ResetPasswordExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
