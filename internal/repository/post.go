package repository

import (
	"context"
	"errors"

	"campusgram/internal/models"
	"campusgram/internal/observability"

	"gorm.io/gorm"
)

// MsgPostNotOwned is the message used when a delete targets a missing or foreign post.
const MsgPostNotOwned = "Post not found or you're not authorized to delete it."

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	DeleteOwned(ctx context.Context, postID, ownerID uint) (*models.Post, error)
	Feed(ctx context.Context, viewerID uint) ([]models.FeedPost, error)
	Explore(ctx context.Context) ([]models.PostSummary, error)
	Saved(ctx context.Context, viewerID uint) ([]models.PostSummary, error)
	ListByUser(ctx context.Context, userID uint) ([]models.PostSummary, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const summaryColumns = "posts.id, posts.user_id, users.username, posts.image_path, posts.caption, posts.created_at"

// feedColumns computes counts and viewer flags as correlated subqueries in one pass.
// The three placeholders all bind the viewer ID.
const feedColumns = summaryColumns + ", " +
	"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count, " +
	"EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS user_liked, " +
	"EXISTS(SELECT 1 FROM followers WHERE followers.follower_id = ? AND followers.following_id = posts.user_id) AS is_following, " +
	"EXISTS(SELECT 1 FROM saved_posts WHERE saved_posts.post_id = posts.id AND saved_posts.user_id = ?) AS is_saved, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// DeleteOwned removes the post and its likes, comments and saves in one transaction.
// Feedback and notifications referencing the post are kept. The deleted row is
// returned so the caller can remove the stored image after commit.
func (r *postRepository) DeleteOwned(ctx context.Context, postID, ownerID uint) (*models.Post, error) {
	defer observability.TrackQuery("delete", "posts")()

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", postID, ownerID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundMessage(MsgPostNotOwned)
			}
			return err
		}

		for _, dependent := range []interface{}{&models.Like{}, &models.Comment{}, &models.SavedPost{}} {
			if err := tx.Where("post_id = ?", postID).Delete(dependent).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}
	return &post, nil
}

// Feed lists every post newest first with counts and flags relative to viewerID.
func (r *postRepository) Feed(ctx context.Context, viewerID uint) ([]models.FeedPost, error) {
	defer observability.TrackQuery("select", "posts")()

	posts := []models.FeedPost{}
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(feedColumns, viewerID, viewerID, viewerID).
		Joins("JOIN users ON users.id = posts.user_id").
		Order("posts.created_at DESC, posts.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Explore lists every post in random order.
func (r *postRepository) Explore(ctx context.Context) ([]models.PostSummary, error) {
	defer observability.TrackQuery("select", "posts")()

	posts := []models.PostSummary{}
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(summaryColumns).
		Joins("JOIN users ON users.id = posts.user_id").
		Order("RANDOM()").
		Scan(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Saved lists the viewer's saved posts, most recently saved first.
func (r *postRepository) Saved(ctx context.Context, viewerID uint) ([]models.PostSummary, error) {
	defer observability.TrackQuery("select", "saved_posts")()

	posts := []models.PostSummary{}
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(summaryColumns).
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id AND saved_posts.user_id = ?", viewerID).
		Joins("JOIN users ON users.id = posts.user_id").
		Order("saved_posts.created_at DESC, posts.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.PostSummary, error) {
	posts := []models.PostSummary{}
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(summaryColumns).
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
