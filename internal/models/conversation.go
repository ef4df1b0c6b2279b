package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation represents a two-party message thread stored in MongoDB.
// Participants always holds exactly two user IDs sorted ascending, so the
// unordered pair (A,B) maps to a single document regardless of who wrote first.
type Conversation struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Participants  []string           `json:"participants" bson:"participants"` // PostgreSQL user IDs as strings
	LastMessageID primitive.ObjectID `json:"last_message_id,omitempty" bson:"last_message_id,omitempty"`
	LastMessageAt time.Time          `json:"last_message_at" bson:"last_message_at"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether userID is part of the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
