package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the Postgres error code for unique-constraint hits.
// Duplicate signups are caught here rather than by a check-then-insert, so
// concurrent signups with the same email cannot both succeed.
const pgUniqueViolation = "23505"

const userColumns = `id, email, username, password_hash, is_verified,
	profile_picture, reset_password_token, reset_password_expires,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, username, password_hash, is_verified)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.IsVerified,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) MarkVerified(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE email = $1`,
		email,
	)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		SET    reset_password_token   = $2,
		       reset_password_expires = $3,
		       updated_at             = NOW()
		WHERE  email = $1`,
		email, token, expiresAt,
	)
	if err != nil {
		return false, fmt.Errorf("set reset token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, email, token, newPasswordHash string) (bool, error) {
	// Single conditional update: two concurrent resets with the same
	// token cannot both match, so a token is consumed at most once.
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		SET    password_hash          = $3,
		       reset_password_token   = NULL,
		       reset_password_expires = NULL,
		       updated_at             = NOW()
		WHERE  email                  = $1
		  AND  reset_password_token   = $2
		  AND  reset_password_expires > NOW()`,
		email, token, newPasswordHash,
	)
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		SET    reset_password_token   = NULL,
		       reset_password_expires = NULL,
		       updated_at             = NOW()
		WHERE  reset_password_token IS NOT NULL
		  AND  reset_password_expires <= NOW()`,
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch repository.ProfilePatch) (*domain.User, error) {
	query := `
		UPDATE users
		SET    email      = COALESCE($2, email),
		       username   = COALESCE($3, username),
		       updated_at = NOW()
		WHERE  id = $1
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, id, patch.Email, patch.Username)
	updated, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) SetProfilePicture(ctx context.Context, id, path string) (*string, error) {
	// RETURNING the pre-update value lets the caller delete the replaced
	// file without a second round trip.
	query := `
		UPDATE users u
		SET    profile_picture = $2,
		       updated_at      = NOW()
		FROM   (SELECT id, profile_picture FROM users WHERE id = $1 FOR UPDATE) old
		WHERE  u.id = old.id
		RETURNING old.profile_picture`

	var oldPath *string
	if err := r.pool.QueryRow(ctx, query, id, path).Scan(&oldPath); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("set profile picture: %w", err)
	}
	return oldPath, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.IsVerified,
		&u.ProfilePicture,
		&u.ResetPasswordToken,
		&u.ResetPasswordExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
