package usecase

import (
	"context"
	"fmt"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/repository"
)

type BookmarkUsecase struct {
	repo repository.BookmarkRepository
}

func NewBookmarkUsecase(repo repository.BookmarkRepository) *BookmarkUsecase {
	return &BookmarkUsecase{repo: repo}
}

type CreateBookmarkInput struct {
	UserID      string
	Name        string
	Latitude    float64
	Longitude   float64
	Description *string
}

func (u *BookmarkUsecase) CreateBookmark(ctx context.Context, input CreateBookmarkInput) (*domain.Bookmark, error) {
	created, err := u.repo.Create(ctx, &domain.Bookmark{
		UserID:      input.UserID,
		Name:        input.Name,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return created, nil
}

func (u *BookmarkUsecase) ListBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	bookmarks, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (u *BookmarkUsecase) DeleteBookmark(ctx context.Context, id, userID string) error {
	if err := u.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}
