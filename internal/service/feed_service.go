package service

import (
	"context"
	"log/slog"

	"campusgram/internal/middleware"
	"campusgram/internal/models"
	"campusgram/internal/repository"
	"campusgram/internal/storage"
)

type FeedService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	store    storage.Store
}

func NewFeedService(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	follows repository.FollowRepository,
	store storage.Store,
) *FeedService {
	return &FeedService{
		users:    users,
		posts:    posts,
		comments: comments,
		follows:  follows,
		store:    store,
	}
}

// GetFeed returns every post newest first, with comments and, on the viewer's own
// posts, the feedback left for them.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint) ([]models.FeedPost, error) {
	posts, err := s.posts.Feed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	feedback, err := s.comments.FeedbackForOwner(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	commentsByPost := make(map[uint][]models.CommentView)
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
	}
	feedbackByPost := make(map[uint][]models.FeedbackView)
	for _, f := range feedback {
		feedbackByPost[f.PostID] = append(feedbackByPost[f.PostID], f)
	}

	for i := range posts {
		p := &posts[i]
		p.Comments = commentsByPost[p.ID]
		if p.Comments == nil {
			p.Comments = []models.CommentView{}
		}
		if p.UserID == viewerID {
			p.Feedback = feedbackByPost[p.ID]
		}
		p.ImageMissing = s.imageMissing(ctx, p.ImagePath)
	}
	return posts, nil
}

// GetExploreFeed returns all posts in random order.
func (s *FeedService) GetExploreFeed(ctx context.Context) ([]models.PostSummary, error) {
	posts, err := s.posts.Explore(ctx)
	if err != nil {
		return nil, err
	}
	s.markMissing(ctx, posts)
	return posts, nil
}

func (s *FeedService) GetSaved(ctx context.Context, viewerID uint) ([]models.PostSummary, error) {
	posts, err := s.posts.Saved(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	s.markMissing(ctx, posts)
	return posts, nil
}

// GetProfile returns follow counts and lists for username.
func (s *FeedService) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundMessage("User not found.")
	}

	followers, following, err := s.follows.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followerNames, err := s.follows.FollowerUsernames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followingNames, err := s.follows.FollowingUsernames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:             user.ID,
		Username:       user.Username,
		FollowerCount:  followers,
		FollowingCount: following,
		Followers:      followerNames,
		Following:      followingNames,
	}, nil
}

// GetSelfProfile returns the viewer's account details and own posts.
func (s *FeedService) GetSelfProfile(ctx context.Context, viewerID uint) (*models.SelfProfile, error) {
	user, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.follows.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.markMissing(ctx, posts)

	return &models.SelfProfile{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FollowerCount:  followers,
		FollowingCount: following,
		Posts:          posts,
	}, nil
}

func (s *FeedService) markMissing(ctx context.Context, posts []models.PostSummary) {
	for i := range posts {
		posts[i].ImageMissing = s.imageMissing(ctx, posts[i].ImagePath)
	}
}

// imageMissing reports a missing file as a flag; store errors count as present.
func (s *FeedService) imageMissing(ctx context.Context, name string) bool {
	if s.store == nil {
		return false
	}
	ok, err := s.store.Exists(ctx, name)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Image existence check failed",
			slog.String("image", name),
			slog.String("error", err.Error()),
		)
		return false
	}
	return !ok
}
