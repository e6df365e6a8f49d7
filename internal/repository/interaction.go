package repository

import (
	"context"
	"errors"

	"campusgram/internal/models"
	"campusgram/internal/observability"

	"gorm.io/gorm"
)

// InteractionRepository performs the toggle and append interactions. Each call is one
// transaction; a returned notification has already been committed alongside the change.
type InteractionRepository interface {
	ToggleLike(ctx context.Context, userID, postID uint) (bool, *models.Notification, error)
	ToggleSave(ctx context.Context, userID, postID uint) (bool, error)
	ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, *models.Notification, error)
	AddComment(ctx context.Context, comment *models.Comment) (*models.Notification, error)
	AddFeedback(ctx context.Context, feedback *models.Feedback) error
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// ToggleLike notifies the post owner only when this call created the like and the
// actor is not the owner.
func (r *interactionRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, *models.Notification, error) {
	defer observability.TrackQuery("toggle", "likes")()

	var (
		liked bool
		note  *models.Notification
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := findPost(tx, postID)
		if err != nil {
			return err
		}

		active, created, err := toggleRow(tx, &models.Like{},
			&models.Like{UserID: userID, PostID: postID},
			map[string]interface{}{"user_id": userID, "post_id": postID},
		)
		if err != nil {
			return err
		}
		liked = active

		if created && post.UserID != userID {
			note, err = insertNotification(tx, post.UserID, userID, &postID, models.NotificationLike)
			return err
		}
		return nil
	})
	if err != nil {
		return false, nil, wrapTxError(err)
	}
	return liked, note, nil
}

func (r *interactionRepository) ToggleSave(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("toggle", "saved_posts")()

	var saved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findPost(tx, postID); err != nil {
			return err
		}

		active, _, err := toggleRow(tx, &models.SavedPost{},
			&models.SavedPost{UserID: userID, PostID: postID},
			map[string]interface{}{"user_id": userID, "post_id": postID},
		)
		saved = active
		return err
	})
	if err != nil {
		return false, wrapTxError(err)
	}
	return saved, nil
}

// ToggleFollow writes a follow notification on both the follow and the unfollow
// path, and does not reject self-follows.
func (r *interactionRepository) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, *models.Notification, error) {
	defer observability.TrackQuery("toggle", "followers")()

	var (
		following bool
		note      *models.Notification
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Select("id").First(&target, followingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", followingID)
			}
			return err
		}

		active, _, err := toggleRow(tx, &models.Follow{},
			&models.Follow{FollowerID: followerID, FollowingID: followingID},
			map[string]interface{}{"follower_id": followerID, "following_id": followingID},
		)
		if err != nil {
			return err
		}
		following = active

		note, err = insertNotification(tx, followingID, followerID, nil, models.NotificationFollow)
		return err
	})
	if err != nil {
		return false, nil, wrapTxError(err)
	}
	return following, note, nil
}

// AddComment stores the comment and, unless the author owns the post, a comment notification.
func (r *interactionRepository) AddComment(ctx context.Context, comment *models.Comment) (*models.Notification, error) {
	defer observability.TrackQuery("insert", "comments")()

	var note *models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := findPost(tx, comment.PostID)
		if err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if post.UserID != comment.UserID {
			postID := comment.PostID
			note, err = insertNotification(tx, post.UserID, comment.UserID, &postID, models.NotificationComment)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}
	return note, nil
}

func (r *interactionRepository) AddFeedback(ctx context.Context, feedback *models.Feedback) error {
	defer observability.TrackQuery("insert", "feedback")()

	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func findPost(tx *gorm.DB, postID uint) (*models.Post, error) {
	var post models.Post
	if err := tx.Select("id", "user_id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return &post, nil
}

func insertNotification(tx *gorm.DB, recipientID, senderID uint, postID *uint, kind string) (*models.Notification, error) {
	note := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		PostID:      postID,
		Type:        kind,
	}
	if err := tx.Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

// wrapTxError keeps AppErrors raised inside a transaction and wraps everything else.
func wrapTxError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
