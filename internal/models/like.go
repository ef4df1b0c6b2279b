package models

import "gorm.io/gorm"

// Like represents a like on a story. The composite unique index makes the
// (story, user) pair the source of truth, so concurrent duplicate likes
// collapse into a single row instead of double counting.
type Like struct {
	gorm.Model
	StoryID string `json:"story_id" gorm:"index;uniqueIndex:idx_story_user_like"` // MongoDB ObjectID as string
	UserID  uint   `json:"user_id" gorm:"index;uniqueIndex:idx_story_user_like"`
}
