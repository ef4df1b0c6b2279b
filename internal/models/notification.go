package models

import "time"

// Notification types. A notification is only ever created as a side effect
// of another user's action, never directly by a client request.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeMessage = "message"
	NotificationTypeMention = "mention"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"` // like, comment, follow, message, mention
	SenderID    uint      `json:"sender_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	StoryID     string    `json:"story_id,omitempty"` // MongoDB ObjectID as string, empty for follow/message
	CommentID   uint      `json:"comment_id,omitempty"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// MarkNotificationsReadRequest defines the request body for marking
// notifications read, either a specific list or everything unread.
type MarkNotificationsReadRequest struct {
	MarkAllRead     bool   `json:"markAllRead"`
	NotificationIDs []uint `json:"notificationIds"`
}
