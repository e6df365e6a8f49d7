package models

import "time"

// Post is an uploaded image with a caption. ImagePath holds the stored file name only.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ImagePath string    `gorm:"size:255;not null" json:"image_path"`
	Caption   string    `gorm:"type:text;not null" json:"caption"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Comment is an append-only remark on a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Feedback is an anonymous note on a post; only the post owner sees the sender.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the singular table name.
func (Feedback) TableName() string {
	return "feedback"
}
