package handlers

import (
	"net/http"

	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes on the protected group
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.PUT("/notifications/read", h.MarkRead)
}

// RegisterCounterRoutes registers the unread-count route on the lenient-auth
// group; it must answer {count: 0} instead of erroring so background polling
// never shows a failure state.
func (h *NotificationHandler) RegisterCounterRoutes(g *echo.Group) {
	g.GET("/notifications/unread-count", h.GetUnreadCount)
}

// EnrichedNotification includes the sender's compact profile
type EnrichedNotification struct {
	models.Notification
	Sender models.UserCompact `json:"sender"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if sender, ok := userCache[n.SenderID]; ok {
			enriched[i].Sender = sender
		} else {
			user, err := h.userRepository.GetUserByID(n.SenderID)
			if err == nil {
				compact := user.ToCompact()
				userCache[n.SenderID] = compact
				enriched[i].Sender = compact
			}
		}
	}
	return enriched
}

// GetNotifications returns paginated notifications plus the unread count
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := parsePagination(c)

	notifications, total, err := h.notificationRepository.GetByRecipientID(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	unreadCount, _ := h.notificationRepository.GetUnreadCount(currentUserID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": h.enrichNotifications(notifications),
			"unreadCount":   unreadCount,
		},
		"meta": paginationMeta(page, limit, total),
	})
}

// GetUnreadCount returns the unread notification count. Unauthenticated or
// failing requests degrade to zero rather than an error.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return c.JSON(http.StatusOK, echo.Map{"count": 0})
	}

	count, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"count": 0})
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkRead marks either a specific list of the caller's notifications or all
// of their unread notifications as read. Calling it again is a no-op.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.MarkNotificationsReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	var err error
	if req.MarkAllRead {
		err = h.notificationRepository.MarkAllAsRead(currentUserID)
	} else {
		err = h.notificationRepository.MarkManyAsRead(currentUserID, req.NotificationIDs)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}
