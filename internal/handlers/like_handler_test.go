package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/realtime"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func storyOwnedBy(authorID string) *models.Story {
	return &models.Story{
		ID:       primitive.NewObjectID(),
		AuthorID: authorID,
		Title:    "Dawn",
	}
}

func likeToggleContext(userID uint, storyID string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(http.MethodPost, "/api/v1/stories/"+storyID+"/like", "", userID)
	c.SetParamNames("id")
	c.SetParamValues(storyID)
	return c, rec
}

func TestToggleLikeNotifiesAuthor(t *testing.T) {
	story := storyOwnedBy("2")
	storyRepo := &fakeStoryRepository{
		GetStoryByIDFn: func(ctx context.Context, id string) (*models.Story, error) { return story, nil },
	}
	notifRepo := &fakeNotificationRepository{}
	userRepo := &fakeUserRepository{
		GetUserByIDFn: func(id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Ada"}, nil
		},
	}
	emitter := &recordingEmitter{}
	h := NewLikeHandler(&fakeLikeRepository{}, storyRepo, userRepo, notifRepo, emitter)

	c, rec := likeToggleContext(1, story.ID.Hex())
	require.NoError(t, h.ToggleLike(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Liked bool `json:"liked"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Liked)

	assert.Equal(t, []string{story.ID.Hex()}, storyRepo.likeIncrements)

	require.Len(t, notifRepo.created, 1)
	notif := notifRepo.created[0]
	assert.Equal(t, models.NotificationTypeLike, notif.Type)
	assert.Equal(t, uint(1), notif.SenderID)
	assert.Equal(t, uint(2), notif.RecipientID)
	assert.Equal(t, story.ID.Hex(), notif.StoryID)
	assert.Equal(t, `Ada liked your story "Dawn"`, notif.Message)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, uint(2), emitter.events[0].UserID)
	assert.Equal(t, realtime.EventNewNotification, emitter.events[0].Event)
}

func TestToggleLikeUnlikesSilently(t *testing.T) {
	story := storyOwnedBy("2")
	storyRepo := &fakeStoryRepository{
		GetStoryByIDFn: func(ctx context.Context, id string) (*models.Story, error) { return story, nil },
	}
	likeRepo := &fakeLikeRepository{
		CreateLikeFn: func(like *models.Like) (bool, error) { return false, nil },
		DeleteLikeFn: func(storyID string, userID uint) (bool, error) { return true, nil },
	}
	notifRepo := &fakeNotificationRepository{}
	emitter := &recordingEmitter{}
	h := NewLikeHandler(likeRepo, storyRepo, &fakeUserRepository{}, notifRepo, emitter)

	c, rec := likeToggleContext(1, story.ID.Hex())
	require.NoError(t, h.ToggleLike(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Liked bool `json:"liked"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data.Liked)

	assert.Equal(t, []string{story.ID.Hex()}, storyRepo.likeDecrements)
	assert.Empty(t, storyRepo.likeIncrements)
	assert.Empty(t, notifRepo.created)
	assert.Empty(t, emitter.events)
}

func TestToggleLikeSelfLikeNeverNotifies(t *testing.T) {
	story := storyOwnedBy("1")
	storyRepo := &fakeStoryRepository{
		GetStoryByIDFn: func(ctx context.Context, id string) (*models.Story, error) { return story, nil },
	}
	notifRepo := &fakeNotificationRepository{}
	emitter := &recordingEmitter{}
	h := NewLikeHandler(&fakeLikeRepository{}, storyRepo, &fakeUserRepository{}, notifRepo, emitter)

	c, rec := likeToggleContext(1, story.ID.Hex())
	require.NoError(t, h.ToggleLike(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, notifRepo.created)
	assert.Empty(t, emitter.events)
}

func TestToggleLikeStoryNotFound(t *testing.T) {
	h := NewLikeHandler(&fakeLikeRepository{}, &fakeStoryRepository{}, &fakeUserRepository{}, &fakeNotificationRepository{}, &recordingEmitter{})

	c, _ := likeToggleContext(1, primitive.NewObjectID().Hex())
	err := h.ToggleLike(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
