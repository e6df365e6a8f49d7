package models

import "time"

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification is an append-only record of an interaction addressed to RecipientID.
// PostID is nil for follow notifications.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	SenderID    uint      `gorm:"not null" json:"sender_id"`
	PostID      *uint     `json:"post_id,omitempty"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	CreatedAt   time.Time `gorm:"index:idx_notifications_recipient_created,priority:2" json:"created_at"`
}

// IsValidNotificationType reports whether t is one of the known types.
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}
