package repository

import (
	"context"

	"campusgram/internal/models"
	"campusgram/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository answers follower graph questions for profile views.
type FollowRepository interface {
	Counts(ctx context.Context, userID uint) (followers, following int64, err error)
	FollowerUsernames(ctx context.Context, userID uint) ([]string, error)
	FollowingUsernames(ctx context.Context, userID uint) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	defer observability.TrackQuery("count", "followers")()

	var followers, following int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&followers).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&following).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	return followers, following, nil
}

func (r *followRepository) FollowerUsernames(ctx context.Context, userID uint) ([]string, error) {
	return r.usernames(ctx, "followers.follower_id", "followers.following_id = ?", userID)
}

func (r *followRepository) FollowingUsernames(ctx context.Context, userID uint) ([]string, error) {
	return r.usernames(ctx, "followers.following_id", "followers.follower_id = ?", userID)
}

// usernames joins the other side of the follow edge onto users.
func (r *followRepository) usernames(ctx context.Context, joinColumn, where string, userID uint) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).
		Table("followers").
		Joins("JOIN users ON users.id = "+joinColumn).
		Where(where, userID).
		Order("users.username ASC").
		Pluck("users.username", &names).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return names, nil
}
