package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookmarkColumns = `id, user_id, name, latitude, longitude, description,
	created_at, updated_at`

type BookmarkRepository struct {
	pool *pgxpool.Pool
}

func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

func (r *BookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) (*domain.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (user_id, name, latitude, longitude, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bookmarkColumns

	row := r.pool.QueryRow(ctx, query,
		b.UserID,
		b.Name,
		b.Latitude,
		b.Longitude,
		b.Description,
	)
	return scanBookmark(row)
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + `
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]*domain.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (r *BookmarkRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookmarkNotFound
	}
	return nil
}

func scanBookmark(row pgx.Row) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Latitude,
		&b.Longitude,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookmarkNotFound
		}
		return nil, fmt.Errorf("scan bookmark: %w", err)
	}
	return &b, nil
}
