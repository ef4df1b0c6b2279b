package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story represents a published short story stored in MongoDB
type Story struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      string             `json:"author_id" bson:"author_id"` // PostgreSQL user ID as string
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	Tags          []string           `json:"tags" bson:"tags"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateStoryRequest defines the request body for publishing a story
type CreateStoryRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=120"`
	Content string   `json:"content" validate:"required,min=1,max=20000"`
	Tags    []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}
