package handlers

import (
	"net/http"
	"strconv"

	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/realtime"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	storyRepository        repositories.StoryRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	emitter                realtime.Emitter
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, storyRepo repositories.StoryRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, emitter realtime.Emitter) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		storyRepository:        storyRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		emitter:                emitter,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/stories/:id/like", h.ToggleLike)
	g.GET("/stories/:id/like", h.GetLikeStatus)
}

// ToggleLike likes the story if the caller hasn't liked it, unlikes it
// otherwise. The unique (story, user) row decides which side of the toggle
// runs, so concurrent duplicate requests cannot double count. Liking someone
// else's story notifies the author; unliking never does.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID := c.Param("id")

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	like := &models.Like{
		StoryID: storyID,
		UserID:  currentUserID,
	}

	created, err := h.likeRepository.CreateLike(like)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !created {
		// Already liked: this request is the unlike side of the toggle.
		removed, err := h.likeRepository.DeleteLike(storyID, currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if removed {
			if err := h.storyRepository.DecrementLikesCount(c.Request().Context(), storyID); err != nil {
				c.Logger().Errorf("decrement likes count for story %s: %v", storyID, err)
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
	}

	if err := h.storyRepository.IncrementLikesCount(c.Request().Context(), storyID); err != nil {
		c.Logger().Errorf("increment likes count for story %s: %v", storyID, err)
	}

	h.notifyAuthor(c, story, currentUserID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// notifyAuthor persists the like notification and pushes it. Failures here
// never affect the like itself.
func (h *LikeHandler) notifyAuthor(c echo.Context, story *models.Story, actorID uint) {
	authorID, err := strconv.ParseUint(story.AuthorID, 10, 32)
	if err != nil || uint(authorID) == actorID {
		return // never notify a self-like
	}

	actor, err := h.userRepository.GetUserByID(actorID)
	if err != nil {
		c.Logger().Errorf("load actor %d for like notification: %v", actorID, err)
		return
	}

	notif := &models.Notification{
		Type:        models.NotificationTypeLike,
		SenderID:    actorID,
		RecipientID: uint(authorID),
		StoryID:     story.ID.Hex(),
		Message:     actor.Name + " liked your story \"" + story.Title + "\"",
	}
	if err := h.notificationRepository.CreateNotification(notif); err != nil {
		c.Logger().Errorf("create like notification: %v", err)
		return
	}

	h.emitter.Emit(uint(authorID), realtime.EventNewNotification, EnrichedNotification{
		Notification: *notif,
		Sender:       actor.ToCompact(),
	})
}

// GetLikeStatus reports whether the caller has liked the story and its count
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID := c.Param("id")

	if _, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	liked, err := h.likeRepository.HasUserLikedStory(storyID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	count, err := h.likeRepository.GetLikesCountByStoryID(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": liked, "likes_count": count}})
}
