package handlers

import (
	"net/http"

	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	storyRepository    repositories.StoryRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, storyRepo repositories.StoryRepository) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		storyRepository:    storyRepo,
	}
}

// RegisterBookmarkRoutes registers bookmark-related routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/stories/:id/bookmark", h.ToggleBookmark)
	g.GET("/bookmarks", h.GetBookmarks)
}

// ToggleBookmark saves the story for the caller, or removes the bookmark if
// it already exists. Bookmarking never notifies anyone.
func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID := c.Param("id")

	if _, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	bookmark := &models.Bookmark{
		UserID:  currentUserID,
		StoryID: storyID,
	}

	created, err := h.bookmarkRepository.CreateBookmark(bookmark)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !created {
		if _, err := h.bookmarkRepository.DeleteBookmark(currentUserID, storyID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": false}})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": true}})
}

// GetBookmarks lists the caller's bookmarks, newest first
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmarks, err := h.bookmarkRepository.GetBookmarksByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarks": bookmarks}})
}
