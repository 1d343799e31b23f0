package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/upload"
	"github.com/almasbek/pinpoint/internal/usecase"
	"github.com/gin-gonic/gin"
)

type profileUsecaser interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input usecase.UpdateUserInput) (*domain.User, error)
	UpdateProfileImage(ctx context.Context, userID, fileName string, src io.Reader) (string, error)
}

type ProfileHandler struct {
	profileUsecase profileUsecaser
	logger         *slog.Logger
}

func NewProfileHandler(profileUsecase profileUsecaser, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		logger:         logger.With("component", "profile_handler"),
	}
}

// GET /api/profile/:userId
func (h *ProfileHandler) GetUser(c *gin.Context) {
	userID := c.Param("userId")

	user, err := h.profileUsecase.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, errUserNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get user", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	respond(c, http.StatusOK, "User found", toUserResponse(user))
}

type updateUserRequest struct {
	Email    *string `json:"email"    binding:"omitempty,email"`
	Username *string `json:"username" binding:"omitempty,min=3,max=30"`
}

// PUT /api/update-profile/:userId
func (h *ProfileHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("userId")

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation)
		return
	}

	user, err := h.profileUsecase.UpdateUser(c.Request.Context(), userID, usecase.UpdateUserInput{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(c, http.StatusNotFound, errUserNotFound)
		case errors.Is(err, domain.ErrDuplicateEmail):
			respondError(c, http.StatusConflict, errDuplicateEmail)
		default:
			h.logger.ErrorContext(c.Request.Context(), "update user", "user_id", userID, "error", err)
			respondError(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	respond(c, http.StatusOK, "User updated successfully", toUserResponse(user))
}

// PUT /api/update-profile-image/:userId
// Multipart upload, field name profile_picture.
func (h *ProfileHandler) UpdateProfileImage(c *gin.Context) {
	userID := c.Param("userId")

	fileHeader, err := c.FormFile("profile_picture")
	if err != nil {
		respondError(c, http.StatusBadRequest, errNoFileUploaded)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "open upload", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
		return
	}
	defer file.Close()

	imageURL, err := h.profileUsecase.UpdateProfileImage(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrUnsupportedType):
			respondError(c, http.StatusBadRequest, errUnsupportedImage)
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(c, http.StatusNotFound, errUserNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "update profile image", "user_id", userID, "error", err)
			respondError(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	respond(c, http.StatusOK, "Profile picture updated successfully.", imageURL)
}
