package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/usecase"
	"github.com/gin-gonic/gin"
)

type bookmarkUsecaser interface {
	CreateBookmark(ctx context.Context, input usecase.CreateBookmarkInput) (*domain.Bookmark, error)
	ListBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id, userID string) error
}

type BookmarkHandler struct {
	bookmarkUsecase bookmarkUsecaser
	logger          *slog.Logger
}

func NewBookmarkHandler(bookmarkUsecase bookmarkUsecaser, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkUsecase: bookmarkUsecase,
		logger:          logger.With("component", "bookmark_handler"),
	}
}

type coordinates struct {
	// Pointers so that 0 (the equator / prime meridian) passes required.
	Latitude  *float64 `json:"latitude"  binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

type addBookmarkRequest struct {
	Name        string      `json:"name" binding:"required"`
	Coordinates coordinates `json:"coordinates" binding:"required"`
	Description *string     `json:"description"`
}

type bookmarkResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	Coordinates coordinates `json:"coordinates"`
	Description *string     `json:"description"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func toBookmarkResponse(b *domain.Bookmark) bookmarkResponse {
	lat, lng := b.Latitude, b.Longitude
	return bookmarkResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Name:        b.Name,
		Coordinates: coordinates{Latitude: &lat, Longitude: &lng},
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// POST /api/bookmarks/:userId/add
func (h *BookmarkHandler) Add(c *gin.Context) {
	userID := c.Param("userId")

	var req addBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errValidation)
		return
	}

	bookmark, err := h.bookmarkUsecase.CreateBookmark(c.Request.Context(), usecase.CreateBookmarkInput{
		UserID:      userID,
		Name:        req.Name,
		Latitude:    *req.Coordinates.Latitude,
		Longitude:   *req.Coordinates.Longitude,
		Description: req.Description,
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "add bookmark", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Unable to add bookmark")
		return
	}

	respond(c, http.StatusCreated, "Bookmark added successfully", toBookmarkResponse(bookmark))
}

// GET /api/bookmarks/:userId
func (h *BookmarkHandler) List(c *gin.Context) {
	userID := c.Param("userId")

	bookmarks, err := h.bookmarkUsecase.ListBookmarks(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list bookmarks", "user_id", userID, "error", err)
		respondError(c, http.StatusInternalServerError, "Unable to retrieve bookmarks")
		return
	}

	out := make([]bookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, toBookmarkResponse(b))
	}
	respond(c, http.StatusOK, "User bookmarks retrieved successfully", out)
}

// DELETE /api/bookmarks/:userId/:bookmarkId/delete
func (h *BookmarkHandler) Delete(c *gin.Context) {
	userID := c.Param("userId")
	bookmarkID := c.Param("bookmarkId")

	if err := h.bookmarkUsecase.DeleteBookmark(c.Request.Context(), bookmarkID, userID); err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			respondError(c, http.StatusNotFound, errBookmarkNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete bookmark", "user_id", userID, "bookmark_id", bookmarkID, "error", err)
		respondError(c, http.StatusInternalServerError, "Unable to delete bookmark")
		return
	}

	respond(c, http.StatusOK, "Bookmark deleted successfully", nil)
}
