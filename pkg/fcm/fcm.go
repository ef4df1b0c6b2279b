package fcm

import (
	"context"
	"encoding/json"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// TokenLookup resolves a user's registered device token. An empty token means
// the user never registered a device and the push is skipped.
type TokenLookup func(userID uint) (string, error)

// Service sends device pushes via Firebase Cloud Messaging for users with no
// live websocket connection.
type Service struct {
	client *messaging.Client
	lookup TokenLookup
}

// NewService creates an FCM service. Returns nil if Firebase is not configured.
func NewService(credentialsPath string, lookup TokenLookup) *Service {
	if credentialsPath == "" {
		return nil
	}
	ctx := context.Background()
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Printf("[FCM] Failed to init Firebase app: %v", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("[FCM] Failed to get Messaging client: %v", err)
		return nil
	}
	return &Service{client: client, lookup: lookup}
}

var eventTitles = map[string]string{
	"new_message":      "New message",
	"new_notification": "New activity",
}

// PushToUser sends a data push carrying the event payload to the user's
// registered device. Nil-safe; errors are returned for the caller to log.
func (s *Service) PushToUser(ctx context.Context, userID uint, event string, payload interface{}) error {
	if s == nil {
		return nil
	}
	token, err := s.lookup(userID)
	if err != nil || token == "" {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	title := eventTitles[event]
	if title == "" {
		title = "Inkwell"
	}

	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
		},
		Data: map[string]string{
			"event":   event,
			"payload": string(body),
		},
		Token: token,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
	_, err = s.client.Send(ctx, msg)
	return err
}
