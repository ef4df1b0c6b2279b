package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/realtime"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// MessageHandler handles conversation and message HTTP requests
type MessageHandler struct {
	conversationRepository repositories.ConversationRepository
	userRepository         repositories.UserRepository
	emitter                realtime.Emitter
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(convRepo repositories.ConversationRepository, userRepo repositories.UserRepository, emitter realtime.Emitter) *MessageHandler {
	return &MessageHandler{
		conversationRepository: convRepo,
		userRepository:         userRepo,
		emitter:                emitter,
	}
}

// RegisterMessageRoutes registers messaging routes on the protected group
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/messages", h.SendMessage)
}

// RegisterCounterRoutes registers the unread-count route on the lenient-auth
// group; it answers {count: 0} instead of erroring so polling never fails.
func (h *MessageHandler) RegisterCounterRoutes(g *echo.Group) {
	g.GET("/messages/unread-count", h.GetUnreadCount)
}

// NewMessageEvent is the payload pushed for a freshly sent message
type NewMessageEvent struct {
	ConversationID string                  `json:"conversationId"`
	Message        models.PopulatedMessage `json:"message"`
}

// SendMessage creates a message, lazily creating the conversation on first
// contact, and pushes it to the other participant. The push is best-effort;
// the message is committed before the emitter runs and its failure is silent.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Content == "" && len(req.Attachments) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Message requires content or attachments")
	}
	if req.RecipientID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.RecipientID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	senderID := strconv.FormatUint(uint64(currentUserID), 10)
	recipientID := strconv.FormatUint(uint64(req.RecipientID), 10)

	conv, err := h.conversationRepository.GetOrCreateConversation(c.Request().Context(), senderID, recipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        req.Content,
		Attachments:    req.Attachments,
	}
	if err := h.conversationRepository.CreateMessage(c.Request().Context(), message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	populated := h.populateMessage(c, *message)

	h.emitter.Emit(req.RecipientID, realtime.EventNewMessage, NewMessageEvent{
		ConversationID: conv.ID.Hex(),
		Message:        populated,
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{
		"conversationId": conv.ID.Hex(),
		"message":        populated,
	}})
}

// GetConversations returns the caller's conversations, most recently active
// first, with the other participant's compact profile inlined.
func (h *MessageHandler) GetConversations(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	userID := strconv.FormatUint(uint64(currentUserID), 10)

	conversations, err := h.conversationRepository.GetConversationsForUser(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	type conversationView struct {
		models.Conversation
		OtherUser models.UserCompact `json:"other_user"`
	}

	views := make([]conversationView, len(conversations))
	for i, conv := range conversations {
		views[i] = conversationView{Conversation: conv}
		otherID, err := strconv.ParseUint(conv.OtherParticipant(userID), 10, 32)
		if err != nil {
			continue
		}
		if other, err := h.userRepository.GetUserByID(uint(otherID)); err == nil {
			views[i].OtherUser = other.ToCompact()
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversations": views}})
}

// GetMessages returns a page of a conversation's messages in chronological
// order. Internally the page is fetched newest-first for pagination and
// reversed before responding. Viewing the list marks every message in the
// conversation not authored by the caller as read.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	userID := strconv.FormatUint(uint64(currentUserID), 10)
	conversationID := c.Param("id")

	conv, err := h.conversationRepository.GetConversationByID(c.Request().Context(), conversationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
	}
	if !conv.HasParticipant(userID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
	}

	page, limit := parsePagination(c)
	skip := int64((page - 1) * limit)

	messages, total, err := h.conversationRepository.GetMessages(c.Request().Context(), conversationID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Reverse the newest-first page so clients receive chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	// Read receipt on view: viewing the conversation marks its foreign
	// messages read. A failure here only delays the unread-count drop.
	if err := h.conversationRepository.MarkMessagesRead(c.Request().Context(), conversationID, userID); err != nil {
		c.Logger().Errorf("mark messages read in conversation %s: %v", conversationID, err)
	}

	populated := make([]models.PopulatedMessage, len(messages))
	for i, m := range messages {
		populated[i] = h.populateMessage(c, m)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"messages": populated},
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetUnreadCount returns the unread message count. Unauthenticated or failing
// requests degrade to zero rather than an error.
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return c.JSON(http.StatusOK, echo.Map{"count": 0})
	}
	userID := strconv.FormatUint(uint64(currentUserID), 10)

	count, err := h.conversationRepository.UnreadMessageCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"count": 0})
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

func (h *MessageHandler) populateMessage(c echo.Context, m models.Message) models.PopulatedMessage {
	populated := models.PopulatedMessage{Message: m}
	senderID, err := strconv.ParseUint(m.SenderID, 10, 32)
	if err != nil {
		return populated
	}
	if sender, err := h.userRepository.GetUserByID(uint(senderID)); err == nil {
		populated.Sender = sender.ToCompact()
	}
	return populated
}
