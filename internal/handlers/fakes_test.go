package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/inkwell-social/backend/internal/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Fake repositories with per-test function fields. Unset functions fall back
// to harmless defaults so each test only wires what it asserts on.

type fakeUserRepository struct {
	CreateUserFn     func(user *models.User) error
	GetUserByIDFn    func(id uint) (*models.User, error)
	GetUserByEmailFn func(email string) (*models.User, error)
	UpdateUserFn     func(user *models.User) error
	DeleteUserFn     func(id uint) error

	counterErr          error // returned by every counter call when set
	followerIncrements  []uint
	followerDecrements  []uint
	followingIncrements []uint
	followingDecrements []uint
}

func (f *fakeUserRepository) CreateUser(user *models.User) error {
	if f.CreateUserFn != nil {
		return f.CreateUserFn(user)
	}
	return nil
}

func (f *fakeUserRepository) GetUserByID(id uint) (*models.User, error) {
	if f.GetUserByIDFn != nil {
		return f.GetUserByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByEmail(email string) (*models.User, error) {
	if f.GetUserByEmailFn != nil {
		return f.GetUserByEmailFn(email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(user *models.User) error {
	if f.UpdateUserFn != nil {
		return f.UpdateUserFn(user)
	}
	return nil
}

func (f *fakeUserRepository) DeleteUser(id uint) error {
	if f.DeleteUserFn != nil {
		return f.DeleteUserFn(id)
	}
	return nil
}

func (f *fakeUserRepository) IncrementFollowersCount(id uint) error {
	f.followerIncrements = append(f.followerIncrements, id)
	return f.counterErr
}

func (f *fakeUserRepository) DecrementFollowersCount(id uint) error {
	f.followerDecrements = append(f.followerDecrements, id)
	return f.counterErr
}

func (f *fakeUserRepository) IncrementFollowingCount(id uint) error {
	f.followingIncrements = append(f.followingIncrements, id)
	return f.counterErr
}

func (f *fakeUserRepository) DecrementFollowingCount(id uint) error {
	f.followingDecrements = append(f.followingDecrements, id)
	return f.counterErr
}

type fakeNotificationRepository struct {
	CreateNotificationFn func(notification *models.Notification) error
	GetByRecipientIDFn   func(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCountFn     func(recipientID uint) (int64, error)
	MarkManyAsReadFn     func(recipientID uint, notificationIDs []uint) error
	MarkAllAsReadFn      func(recipientID uint) error

	created []models.Notification
}

func (f *fakeNotificationRepository) CreateNotification(notification *models.Notification) error {
	if f.CreateNotificationFn != nil {
		return f.CreateNotificationFn(notification)
	}
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	if f.GetByRecipientIDFn != nil {
		return f.GetByRecipientIDFn(recipientID, page, limit)
	}
	return nil, 0, nil
}

func (f *fakeNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	if f.GetUnreadCountFn != nil {
		return f.GetUnreadCountFn(recipientID)
	}
	return 0, nil
}

func (f *fakeNotificationRepository) MarkManyAsRead(recipientID uint, notificationIDs []uint) error {
	if f.MarkManyAsReadFn != nil {
		return f.MarkManyAsReadFn(recipientID, notificationIDs)
	}
	return nil
}

func (f *fakeNotificationRepository) MarkAllAsRead(recipientID uint) error {
	if f.MarkAllAsReadFn != nil {
		return f.MarkAllAsReadFn(recipientID)
	}
	return nil
}

type fakeLikeRepository struct {
	CreateLikeFn             func(like *models.Like) (bool, error)
	DeleteLikeFn             func(storyID string, userID uint) (bool, error)
	HasUserLikedStoryFn      func(storyID string, userID uint) (bool, error)
	GetLikesCountByStoryIDFn func(storyID string) (int64, error)
}

func (f *fakeLikeRepository) CreateLike(like *models.Like) (bool, error) {
	if f.CreateLikeFn != nil {
		return f.CreateLikeFn(like)
	}
	return true, nil
}

func (f *fakeLikeRepository) DeleteLike(storyID string, userID uint) (bool, error) {
	if f.DeleteLikeFn != nil {
		return f.DeleteLikeFn(storyID, userID)
	}
	return true, nil
}

func (f *fakeLikeRepository) HasUserLikedStory(storyID string, userID uint) (bool, error) {
	if f.HasUserLikedStoryFn != nil {
		return f.HasUserLikedStoryFn(storyID, userID)
	}
	return false, nil
}

func (f *fakeLikeRepository) GetLikesCountByStoryID(storyID string) (int64, error) {
	if f.GetLikesCountByStoryIDFn != nil {
		return f.GetLikesCountByStoryIDFn(storyID)
	}
	return 0, nil
}

type fakeFollowRepository struct {
	CreateFollowFn func(follow *models.Follow) (bool, error)
	DeleteFollowFn func(followerID, followingID uint) (bool, error)
	IsFollowingFn  func(followerID, followingID uint) (bool, error)
	GetFollowersFn func(userID uint) ([]models.User, error)
	GetFollowingFn func(userID uint) ([]models.User, error)
}

func (f *fakeFollowRepository) CreateFollow(follow *models.Follow) (bool, error) {
	if f.CreateFollowFn != nil {
		return f.CreateFollowFn(follow)
	}
	return true, nil
}

func (f *fakeFollowRepository) DeleteFollow(followerID, followingID uint) (bool, error) {
	if f.DeleteFollowFn != nil {
		return f.DeleteFollowFn(followerID, followingID)
	}
	return true, nil
}

func (f *fakeFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	if f.IsFollowingFn != nil {
		return f.IsFollowingFn(followerID, followingID)
	}
	return false, nil
}

func (f *fakeFollowRepository) GetFollowers(userID uint) ([]models.User, error) {
	if f.GetFollowersFn != nil {
		return f.GetFollowersFn(userID)
	}
	return nil, nil
}

func (f *fakeFollowRepository) GetFollowing(userID uint) ([]models.User, error) {
	if f.GetFollowingFn != nil {
		return f.GetFollowingFn(userID)
	}
	return nil, nil
}

func (f *fakeFollowRepository) GetFollowersCount(userID uint) (int64, error) { return 0, nil }

func (f *fakeFollowRepository) GetFollowingCount(userID uint) (int64, error) { return 0, nil }

type fakeStoryRepository struct {
	GetStoryByIDFn func(ctx context.Context, id string) (*models.Story, error)

	likeIncrements    []string
	likeDecrements    []string
	commentIncrements []string
}

func (f *fakeStoryRepository) CreateStory(ctx context.Context, story *models.Story) error { return nil }

func (f *fakeStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	if f.GetStoryByIDFn != nil {
		return f.GetStoryByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (f *fakeStoryRepository) GetStoriesByAuthorID(ctx context.Context, authorID string, skip, limit int64) ([]models.Story, error) {
	return nil, nil
}

func (f *fakeStoryRepository) GetAllStories(ctx context.Context, skip, limit int64) ([]models.Story, error) {
	return nil, nil
}

func (f *fakeStoryRepository) DeleteStory(ctx context.Context, id string) error { return nil }

func (f *fakeStoryRepository) IncrementLikesCount(ctx context.Context, storyID string) error {
	f.likeIncrements = append(f.likeIncrements, storyID)
	return nil
}

func (f *fakeStoryRepository) DecrementLikesCount(ctx context.Context, storyID string) error {
	f.likeDecrements = append(f.likeDecrements, storyID)
	return nil
}

func (f *fakeStoryRepository) IncrementCommentsCount(ctx context.Context, storyID string) error {
	f.commentIncrements = append(f.commentIncrements, storyID)
	return nil
}

type fakeConversationRepository struct {
	GetOrCreateConversationFn func(ctx context.Context, userA, userB string) (*models.Conversation, error)
	GetConversationByIDFn     func(ctx context.Context, id string) (*models.Conversation, error)
	GetConversationsForUserFn func(ctx context.Context, userID string) ([]models.Conversation, error)
	CreateMessageFn           func(ctx context.Context, message *models.Message) error
	GetMessagesFn             func(ctx context.Context, conversationID string, skip, limit int64) ([]models.Message, int64, error)
	MarkMessagesReadFn        func(ctx context.Context, conversationID, userID string) error
	UnreadMessageCountFn      func(ctx context.Context, userID string) (int64, error)

	markedRead [][2]string // (conversationID, userID) pairs
}

func (f *fakeConversationRepository) GetOrCreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if f.GetOrCreateConversationFn != nil {
		return f.GetOrCreateConversationFn(ctx, userA, userB)
	}
	return &models.Conversation{Participants: []string{userA, userB}}, nil
}

func (f *fakeConversationRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	if f.GetConversationByIDFn != nil {
		return f.GetConversationByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (f *fakeConversationRepository) GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	if f.GetConversationsForUserFn != nil {
		return f.GetConversationsForUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeConversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if f.CreateMessageFn != nil {
		return f.CreateMessageFn(ctx, message)
	}
	message.ReadBy = []string{message.SenderID}
	return nil
}

func (f *fakeConversationRepository) GetMessages(ctx context.Context, conversationID string, skip, limit int64) ([]models.Message, int64, error) {
	if f.GetMessagesFn != nil {
		return f.GetMessagesFn(ctx, conversationID, skip, limit)
	}
	return nil, 0, nil
}

func (f *fakeConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, userID string) error {
	if f.MarkMessagesReadFn != nil {
		return f.MarkMessagesReadFn(ctx, conversationID, userID)
	}
	f.markedRead = append(f.markedRead, [2]string{conversationID, userID})
	return nil
}

func (f *fakeConversationRepository) UnreadMessageCount(ctx context.Context, userID string) (int64, error) {
	if f.UnreadMessageCountFn != nil {
		return f.UnreadMessageCountFn(ctx, userID)
	}
	return 0, nil
}

// recordingEmitter captures emitted events for assertions.
type emittedEvent struct {
	UserID  uint
	Event   string
	Payload interface{}
}

type recordingEmitter struct {
	events []emittedEvent
}

func (r *recordingEmitter) Emit(userID uint, event string, payload interface{}) {
	r.events = append(r.events, emittedEvent{UserID: userID, Event: event, Payload: payload})
}

// newTestContext builds an echo context carrying JWT claims for userID.
// A zero userID leaves the request unauthenticated.
func newTestContext(method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}
