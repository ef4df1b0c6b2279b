package models

import "gorm.io/gorm"

// Bookmark represents a story saved by a user for later reading
type Bookmark struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"index;uniqueIndex:idx_user_story_bookmark"`
	StoryID string `json:"story_id" gorm:"index;uniqueIndex:idx_user_story_bookmark"` // MongoDB ObjectID as string
}
