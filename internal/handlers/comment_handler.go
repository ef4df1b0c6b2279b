package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/realtime"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	storyRepository        repositories.StoryRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	emitter                realtime.Emitter
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, storyRepo repositories.StoryRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, emitter realtime.Emitter) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		storyRepository:        storyRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		emitter:                emitter,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/stories/:id/comments", h.CreateComment)
	g.GET("/stories/:id/comments", h.GetCommentsByStoryID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a story. Commenting on someone
// else's story notifies the author after the comment and the denormalized
// count are persisted; a failed notification never fails the comment.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	comment := &models.Comment{
		StoryID: storyID,
		UserID:  currentUserID,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.storyRepository.IncrementCommentsCount(c.Request().Context(), storyID); err != nil {
		c.Logger().Errorf("increment comments count for story %s: %v", storyID, err)
	}

	h.notifyAuthor(c, story, comment)

	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) notifyAuthor(c echo.Context, story *models.Story, comment *models.Comment) {
	authorID, err := strconv.ParseUint(story.AuthorID, 10, 32)
	if err != nil || uint(authorID) == comment.UserID {
		return // never notify a self-comment
	}

	actor, err := h.userRepository.GetUserByID(comment.UserID)
	if err != nil {
		c.Logger().Errorf("load actor %d for comment notification: %v", comment.UserID, err)
		return
	}

	notif := &models.Notification{
		Type:        models.NotificationTypeComment,
		SenderID:    comment.UserID,
		RecipientID: uint(authorID),
		StoryID:     story.ID.Hex(),
		CommentID:   comment.ID,
		Message:     actor.Name + " commented on your story \"" + story.Title + "\"",
	}
	if err := h.notificationRepository.CreateNotification(notif); err != nil {
		c.Logger().Errorf("create comment notification: %v", err)
		return
	}

	h.emitter.Emit(uint(authorID), realtime.EventNewNotification, EnrichedNotification{
		Notification: *notif,
		Sender:       actor.ToCompact(),
	})
}

// GetCommentsByStoryID retrieves all comments for a specific story
func (h *CommentHandler) GetCommentsByStoryID(c echo.Context) error {
	storyID := c.Param("id")

	if _, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	comments, err := h.commentRepository.GetCommentsByStoryID(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

// DeleteComment deletes the caller's own comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's comment")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
