package repository

import (
	"context"

	"campusgram/internal/models"
	"campusgram/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository reads comments and feedback for the feed view.
type CommentRepository interface {
	ListAll(ctx context.Context) ([]models.CommentView, error)
	FeedbackForOwner(ctx context.Context, ownerID uint) ([]models.FeedbackView, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListAll returns every comment with its author, oldest first.
func (r *commentRepository) ListAll(ctx context.Context) ([]models.CommentView, error) {
	defer observability.TrackQuery("select", "comments")()

	comments := []models.CommentView{}
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.user_id, comments.post_id, users.username, comments.content, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// FeedbackForOwner returns feedback left on posts owned by ownerID, oldest first,
// including the sender's username.
func (r *commentRepository) FeedbackForOwner(ctx context.Context, ownerID uint) ([]models.FeedbackView, error) {
	defer observability.TrackQuery("select", "feedback")()

	feedback := []models.FeedbackView{}
	err := r.db.WithContext(ctx).
		Table("feedback").
		Select("feedback.id, feedback.post_id, feedback.sender_id, users.username, feedback.content, feedback.created_at").
		Joins("JOIN posts ON posts.id = feedback.post_id").
		Joins("JOIN users ON users.id = feedback.sender_id").
		Where("posts.user_id = ?", ownerID).
		Order("feedback.created_at ASC, feedback.id ASC").
		Scan(&feedback).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return feedback, nil
}
