package handlers

import (
	"net/http"
	"strconv"

	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/realtime"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	emitter                realtime.Emitter
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, emitter realtime.Emitter) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
		emitter:                emitter,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// ToggleFollow follows the target user if not already following, unfollows
// otherwise. Only the follow transition creates a notification; unfollow is
// silent. The unique (follower, following) edge makes the toggle idempotent
// under concurrent duplicate requests.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	follow := &models.Follow{
		FollowerID:  currentUserID,
		FollowingID: uint(targetID),
	}

	created, err := h.followRepository.CreateFollow(follow)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !created {
		// Already following: this request is the unfollow side of the toggle.
		removed, err := h.followRepository.DeleteFollow(currentUserID, uint(targetID))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if removed {
			if err := h.userRepository.DecrementFollowingCount(currentUserID); err != nil {
				c.Logger().Errorf("decrement following count for user %d: %v", currentUserID, err)
			}
			if err := h.userRepository.DecrementFollowersCount(uint(targetID)); err != nil {
				c.Logger().Errorf("decrement followers count for user %d: %v", targetID, err)
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
	}

	if err := h.userRepository.IncrementFollowingCount(currentUserID); err != nil {
		c.Logger().Errorf("increment following count for user %d: %v", currentUserID, err)
	}
	if err := h.userRepository.IncrementFollowersCount(uint(targetID)); err != nil {
		c.Logger().Errorf("increment followers count for user %d: %v", targetID, err)
	}

	h.notifyFollowed(c, currentUserID, uint(targetID))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

func (h *FollowHandler) notifyFollowed(c echo.Context, actorID, targetID uint) {
	actor, err := h.userRepository.GetUserByID(actorID)
	if err != nil {
		c.Logger().Errorf("load actor %d for follow notification: %v", actorID, err)
		return
	}

	notif := &models.Notification{
		Type:        models.NotificationTypeFollow,
		SenderID:    actorID,
		RecipientID: targetID,
		Message:     actor.Name + " started following you",
	}
	if err := h.notificationRepository.CreateNotification(notif); err != nil {
		c.Logger().Errorf("create follow notification: %v", err)
		return
	}

	h.emitter.Emit(targetID, realtime.EventNewNotification, EnrichedNotification{
		Notification: *notif,
		Sender:       actor.ToCompact(),
	})
}

// GetFollowers lists the users following the target user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	users, err := h.followRepository.GetFollowers(uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"followers": users}})
}

// GetFollowing lists the users the target user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	users, err := h.followRepository.GetFollowing(uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": users}})
}
