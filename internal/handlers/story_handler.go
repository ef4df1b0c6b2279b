package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles HTTP requests related to stories
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		userRepository:  userRepo,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStories)
	g.GET("/stories/:id", h.GetStory)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// CreateStory publishes a new story
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	story := &models.Story{
		AuthorID: strconv.FormatUint(uint64(currentUserID), 10),
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
	}
	if story.Tags == nil {
		story.Tags = []string{}
	}

	if err := h.storyRepository.CreateStory(c.Request().Context(), story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, story)
}

// GetStories retrieves stories with pagination, newest first
func (h *StoryHandler) GetStories(c echo.Context) error {
	page, limit := parsePagination(c)
	skip := int64((page - 1) * limit)

	var (
		stories []models.Story
		err     error
	)
	if authorID := c.QueryParam("author_id"); authorID != "" {
		stories, err = h.storyRepository.GetStoriesByAuthorID(c.Request().Context(), authorID, skip, int64(limit))
	} else {
		stories, err = h.storyRepository.GetAllStories(c.Request().Context(), skip, int64(limit))
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": stories}})
}

// GetStory retrieves a single story by ID
func (h *StoryHandler) GetStory(c echo.Context) error {
	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	return c.JSON(http.StatusOK, story)
}

// DeleteStory deletes the caller's own story
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	if story.AuthorID != strconv.FormatUint(uint64(currentUserID), 10) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's story")
	}

	if err := h.storyRepository.DeleteStory(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
