// Package token issues and verifies the signed, purpose-scoped tokens used
// by the auth flows. Tokens are stateless: validity is a function of the
// HMAC signature and the embedded expiry. Reset tokens are additionally
// cross-checked against the user record by the auth usecase.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Purpose string

const (
	PurposeEmailVerification Purpose = "email-verification"
	PurposePasswordReset     Purpose = "password-reset"
	PurposeSession           Purpose = "session"
)

var (
	// ErrInvalid covers signature mismatches, malformed tokens and
	// purpose mismatches.
	ErrInvalid = errors.New("token invalid")
	// ErrExpired is returned for tokens that verified cryptographically
	// but are past their expiry.
	ErrExpired = errors.New("token expired")
)

type claims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens with a process-wide key.
type Service struct {
	key []byte
}

func NewService(key []byte) *Service {
	return &Service{key: key}
}

// Issue signs a token carrying the subject and purpose, expiring at now+ttl.
// The subject is an email for verification/reset tokens and a user ID for
// session tokens.
func (s *Service) Issue(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString(s.key)
}

// Verify checks signature, expiry and purpose, in that order, and returns
// the subject claim.
func (s *Service) Verify(raw string, purpose Purpose) (string, error) {
	var c claims
	t, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !t.Valid || c.Purpose != purpose || c.Subject == "" {
		return "", ErrInvalid
	}
	return c.Subject, nil
}
