package models

import "time"

// FeedPost is a post projected for a viewer, with counts and viewer-relative flags.
type FeedPost struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	ImagePath    string    `json:"image_path"`
	Caption      string    `json:"caption"`
	CreatedAt    time.Time `json:"created_at"`
	LikeCount    int64     `json:"like_count"`
	UserLiked    bool      `json:"user_liked"`
	IsFollowing  bool      `json:"is_following"`
	IsSaved      bool      `json:"is_saved"`
	CommentCount int64     `json:"comment_count"`
	ImageMissing bool      `gorm:"-" json:"image_missing"`
	// Comments is filled from a second query, oldest first.
	Comments []CommentView `gorm:"-" json:"comments"`
	// Feedback is only filled for posts owned by the viewer.
	Feedback []FeedbackView `gorm:"-" json:"feedback,omitempty"`
}

// PostSummary is a post with its owner's username, used by explore, saved and profile views.
type PostSummary struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	ImagePath    string    `json:"image_path"`
	Caption      string    `json:"caption"`
	CreatedAt    time.Time `json:"created_at"`
	ImageMissing bool      `gorm:"-" json:"image_missing"`
}

// CommentView is a comment joined with its author's username.
type CommentView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	PostID    uint      `json:"post_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackView is feedback joined with the sender's username, shown to the post owner.
type FeedbackView struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	SenderID  uint      `json:"sender_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationView is a notification joined with the sender name and post caption.
// SenderName and Caption are empty when the referenced rows no longer exist.
type NotificationView struct {
	ID          uint      `json:"id"`
	RecipientID uint      `json:"recipient_id"`
	SenderID    uint      `json:"sender_id"`
	PostID      *uint     `json:"post_id,omitempty"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	SenderName  string    `json:"sender_name"`
	Caption     string    `json:"caption"`
}

// Profile is the public view of a user with follow counts and username lists.
type Profile struct {
	ID             uint     `json:"id"`
	Username       string   `json:"username"`
	FollowerCount  int64    `json:"followers"`
	FollowingCount int64    `json:"following"`
	Followers      []string `json:"follower_list"`
	Following      []string `json:"following_list"`
}

// SelfProfile is the authenticated user's own view.
type SelfProfile struct {
	ID             uint          `json:"user_id"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	FollowerCount  int64         `json:"followers"`
	FollowingCount int64         `json:"following"`
	Posts          []PostSummary `json:"posts"`
}
