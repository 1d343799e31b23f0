package domain

import (
	"errors"
	"time"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

// Bookmark is a user-owned geolocation bookmark.
type Bookmark struct {
	ID          string
	UserID      string
	Name        string
	Latitude    float64
	Longitude   float64
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
