package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/email"
	"github.com/almasbek/pinpoint/internal/hash"
	"github.com/almasbek/pinpoint/internal/metrics"
	"github.com/almasbek/pinpoint/internal/repository"
	"github.com/almasbek/pinpoint/internal/token"
)

const (
	verificationTokenTTL = 24 * time.Hour
	sessionTokenTTL      = 1 * time.Hour
	resetTokenTTL        = 1 * time.Hour
)

type AuthUsecase struct {
	users    repository.UserRepository
	hasher   hash.Hasher
	tokens   *token.Service
	email    email.Sender
	linkBase string
	logger   *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher hash.Hasher,
	tokens *token.Service,
	emailSender email.Sender,
	linkBase string,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		email:    emailSender,
		linkBase: linkBase,
		logger:   logger.With("component", "auth_usecase"),
	}
}

type SignupInput struct {
	Email    string
	Password string
	Username string
}

// Signup creates an unverified account and emails a verification link.
// The user record is persisted before the email is sent; a send failure is
// logged but does not fail the signup.
func (u *AuthUsecase) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	passwordHash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: passwordHash,
		IsVerified:   false,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.SignupsTotal.Inc()

	verificationToken, err := u.tokens.Issue(created.Email, token.PurposeEmailVerification, verificationTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}

	link := u.linkBase + "/v-success?token=" + verificationToken
	body := fmt.Sprintf(
		`Click the following link to verify your email: <a href="%s">Verify Your Email</a>`,
		link,
	)
	u.sendEmail(ctx, created.Email, "Email Verification", body, "verification")

	return created, nil
}

// VerifyEmail marks the account matching the token's email claim as
// verified. Re-verifying an already-verified account is a no-op, as is a
// token whose email no longer resolves to a user.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	emailAddr, err := u.tokens.Verify(rawToken, token.PurposeEmailVerification)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	if err := u.users.MarkVerified(ctx, emailAddr); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// Login checks the credentials and returns the user with a fresh session
// token. Unverified accounts may log in.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.User, string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	sessionToken, err := u.tokens.Issue(user.ID, token.PurposeSession, sessionTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, sessionToken, nil
}

// ForgotPassword issues a reset token, persists it with its expiry on the
// user record and emails a reset link. Unknown emails report success
// without sending anything, so the endpoint does not reveal which
// addresses are registered.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, emailAddr string) error {
	if _, err := u.users.FindByEmail(ctx, emailAddr); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			u.logger.DebugContext(ctx, "password reset for unknown email", "email", emailAddr)
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	resetToken, err := u.tokens.Issue(emailAddr, token.PurposePasswordReset, resetTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	if _, err := u.users.SetResetToken(ctx, emailAddr, resetToken, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()

	link := u.linkBase + "/reset-password/" + resetToken
	body := fmt.Sprintf(
		`Click the following link to reset your password: <a href="%s">Reset Password</a>`,
		link,
	)
	u.sendEmail(ctx, emailAddr, "Password Reset", body, "password_reset")

	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
// The token must verify cryptographically AND still be the one stored on
// the user record with an unexpired window; the check and the clear happen
// in a single conditional update, so a token can be consumed at most once.
func (u *AuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	emailAddr, err := u.tokens.Verify(rawToken, token.PurposePasswordReset)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("rejected").Inc()
		return domain.ErrTokenInvalid
	}

	if _, err := u.users.FindByEmail(ctx, emailAddr); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	passwordHash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	consumed, err := u.users.ConsumeResetToken(ctx, emailAddr, rawToken, passwordHash)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !consumed {
		metrics.PasswordResetsTotal.WithLabelValues("rejected").Inc()
		return domain.ErrTokenInvalid
	}

	metrics.PasswordResetsTotal.WithLabelValues("completed").Inc()
	return nil
}

func (u *AuthUsecase) sendEmail(ctx context.Context, to, subject, body, kind string) {
	if err := u.email.Send(ctx, to, subject, body); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(kind, "failed").Inc()
		u.logger.ErrorContext(ctx, "send email", "kind", kind, "error", err)
		return
	}
	metrics.EmailsSentTotal.WithLabelValues(kind, "sent").Inc()
}
