package repository

import (
	"context"

	"github.com/almasbek/pinpoint/internal/domain"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error)
	// Delete removes the bookmark only when it belongs to userID.
	// Returns domain.ErrBookmarkNotFound when nothing matched.
	Delete(ctx context.Context, id, userID string) error
}
