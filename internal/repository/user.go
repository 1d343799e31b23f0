package repository

import (
	"context"
	"time"

	"github.com/almasbek/pinpoint/internal/domain"
)

// ProfilePatch is a partial update of the mutable profile fields.
// Nil fields are left untouched.
type ProfilePatch struct {
	Email    *string
	Username *string
}

type UserRepository interface {
	// Create inserts the user and returns the stored record.
	// Returns domain.ErrDuplicateEmail on a unique-constraint violation.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// MarkVerified flips is_verified to true for the matching email.
	// Unknown emails are a no-op.
	MarkVerified(ctx context.Context, email string) error

	// SetResetToken stores the reset token and its expiry on the matching
	// user, superseding any previous token. Returns false when no user
	// matched.
	SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) (bool, error)

	// ConsumeResetToken swaps in the new password hash and clears both
	// reset fields in a single conditional update. It succeeds only while
	// the stored token equals the presented one and has not expired;
	// returns false otherwise.
	ConsumeResetToken(ctx context.Context, email, token, newPasswordHash string) (bool, error)

	// PurgeExpiredResetTokens clears reset-token pairs whose expiry has
	// passed and reports how many rows were touched.
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)

	// UpdateProfile applies the patch and returns the updated record.
	// Returns domain.ErrUserNotFound or domain.ErrDuplicateEmail.
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.User, error)

	// SetProfilePicture stores the relative path of the uploaded image and
	// returns the previous path, if any.
	SetProfilePicture(ctx context.Context, id, path string) (*string, error)
}
