package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment describes a media item attached to a message
type Attachment struct {
	Kind string `json:"kind" bson:"kind" validate:"required,oneof=image video audio file"`
	URL  string `json:"url" bson:"url" validate:"required,url"`
}

// Message represents a chat message stored in MongoDB. ReadBy always includes
// the sender, so a message is unread for X iff X is not the sender and X is
// not in ReadBy.
type Message struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversation_id" bson:"conversation_id"`
	SenderID       string             `json:"sender_id" bson:"sender_id"` // PostgreSQL user ID as string
	Content        string             `json:"content" bson:"content"`
	Attachments    []Attachment       `json:"attachments" bson:"attachments"`
	ReadBy         []string           `json:"read_by" bson:"read_by"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a message.
// Content may be empty only when attachments are present.
type SendMessageRequest struct {
	RecipientID uint         `json:"recipient_id" validate:"required"`
	Content     string       `json:"content" validate:"max=5000"`
	Attachments []Attachment `json:"attachments" validate:"omitempty,max=10,dive"`
}

// PopulatedMessage is a message with the sender's compact profile inlined,
// the shape pushed over the websocket and returned from the send endpoint.
type PopulatedMessage struct {
	Message
	Sender UserCompact `json:"sender"`
}
