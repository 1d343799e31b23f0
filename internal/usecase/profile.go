package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/repository"
	"github.com/almasbek/pinpoint/internal/upload"
)

type ProfileUsecase struct {
	users   repository.UserRepository
	uploads *upload.Store
	baseURL string
	logger  *slog.Logger
}

func NewProfileUsecase(users repository.UserRepository, uploads *upload.Store, baseURL string, logger *slog.Logger) *ProfileUsecase {
	return &ProfileUsecase{
		users:   users,
		uploads: uploads,
		baseURL: baseURL,
		logger:  logger.With("component", "profile_usecase"),
	}
}

func (u *ProfileUsecase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

type UpdateUserInput struct {
	Email    *string
	Username *string
}

func (u *ProfileUsecase) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := u.users.UpdateProfile(ctx, id, repository.ProfilePatch{
		Email:    input.Email,
		Username: input.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UpdateProfileImage runs the upload pipeline: store the new image, point
// the user record at it, then drop the replaced file. Returns the public
// URL of the stored image.
func (u *ProfileUsecase) UpdateProfileImage(ctx context.Context, userID, fileName string, src io.Reader) (string, error) {
	relPath, err := u.uploads.SaveProfileImage(userID, fileName, src)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	oldPath, err := u.users.SetProfilePicture(ctx, userID, relPath)
	if err != nil {
		// The record was not updated; don't leave the new file behind.
		if rmErr := u.uploads.Remove(relPath); rmErr != nil {
			u.logger.ErrorContext(ctx, "remove orphaned upload", "path", relPath, "error", rmErr)
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("set profile picture: %w", err)
	}

	if oldPath != nil {
		if err := u.uploads.Remove(*oldPath); err != nil {
			u.logger.WarnContext(ctx, "remove previous profile picture", "path", *oldPath, "error", err)
		}
	}

	return u.baseURL + "/uploads/" + relPath, nil
}
