package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Signup(ctx context.Context, input usecase.SignupInput) (*domain.User, error)
	VerifyEmail(ctx context.Context, rawToken string) error
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type signupRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=3,max=30"`
}

// POST /api/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation)
		return
	}

	user, err := h.authUsecase.Signup(c.Request.Context(), usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			respondError(c, http.StatusConflict, errDuplicateEmail)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "signup", "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	respond(c, http.StatusCreated,
		"User registered successfully. Check your email for verification.",
		toUserResponse(user))
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// GET /api/verify/:token and POST /api/verify-email
// The token travels in the path for the emailed link and in the body for
// API clients.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	rawToken := c.Param("token")
	if rawToken == "" {
		rawToken = c.Query("token")
	}
	if rawToken == "" && c.Request.Method == http.MethodPost {
		var req verifyEmailRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			rawToken = req.Token
		}
	}
	if rawToken == "" {
		respondError(c, http.StatusBadRequest, errTokenMissing)
		return
	}

	if err := h.authUsecase.VerifyEmail(c.Request.Context(), rawToken); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			respondError(c, http.StatusUnauthorized, errTokenInvalid)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "verify email", "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	respond(c, http.StatusOK, "Email verified successfully", nil)
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation)
		return
	}

	user, sessionToken, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(c, http.StatusNotFound, errUserNotFound)
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, errWrongPassword)
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			respondError(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	respondWithToken(c, http.StatusOK, "Login successful", toUserResponse(user), sessionToken)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/forgot-password
// Succeeds for unknown emails too, so the endpoint cannot be used to probe
// which addresses are registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation)
		return
	}

	if err := h.authUsecase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "forgot password", "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	respond(c, http.StatusOK, "Password reset email sent. Check your inbox.", nil)
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// POST /api/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	rawToken := c.Param("token")

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation)
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), rawToken, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			respondError(c, http.StatusBadRequest, errTokenInvalid)
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(c, http.StatusNotFound, errUserNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "reset password", "error", err)
			respondError(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	respond(c, http.StatusOK, "Password reset successfully.", nil)
}

// POST /api/logout
// Session tokens are stateless and self-expiring, so there is nothing to
// invalidate server-side; a token stays technically valid until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	respond(c, http.StatusOK, "Logout successful", nil)
}
