package service

import (
	"context"
	"log/slog"

	"campusgram/internal/middleware"
	"campusgram/internal/models"
	"campusgram/internal/observability"
	"campusgram/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Publisher delivers committed notifications to live subscribers.
type Publisher interface {
	PublishNotification(ctx context.Context, note *models.Notification) error
}

type InteractionService struct {
	repo      repository.InteractionRepository
	publisher Publisher
}

func NewInteractionService(repo repository.InteractionRepository, publisher Publisher) *InteractionService {
	return &InteractionService{repo: repo, publisher: publisher}
}

func (s *InteractionService) ToggleLike(ctx context.Context, userID, postID uint) (liked bool, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "InteractionService", "ToggleLike",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	liked, note, err := s.repo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	observability.InteractionsTotal.WithLabelValues("like", observability.ToggleState(liked)).Inc()
	s.publish(ctx, note)
	return liked, nil
}

func (s *InteractionService) ToggleSave(ctx context.Context, userID, postID uint) (saved bool, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "InteractionService", "ToggleSave",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	saved, err = s.repo.ToggleSave(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	observability.InteractionsTotal.WithLabelValues("save", observability.ToggleState(saved)).Inc()
	return saved, nil
}

// ToggleFollow follows or unfollows targetID. Both directions notify the target.
func (s *InteractionService) ToggleFollow(ctx context.Context, userID, targetID uint) (following bool, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "InteractionService", "ToggleFollow",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("target.id", int64(targetID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	following, note, err := s.repo.ToggleFollow(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	observability.InteractionsTotal.WithLabelValues("follow", observability.ToggleState(following)).Inc()
	s.publish(ctx, note)
	return following, nil
}

// AddComment ignores empty content.
func (s *InteractionService) AddComment(ctx context.Context, userID, postID uint, content string) (err error) {
	if content == "" {
		return nil
	}
	ctx, span := observability.StartServiceSpan(ctx, "InteractionService", "AddComment",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	note, err := s.repo.AddComment(ctx, &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	})
	if err != nil {
		return err
	}
	observability.InteractionsTotal.WithLabelValues("comment", "on").Inc()
	s.publish(ctx, note)
	return nil
}

// AddFeedback stores anonymous feedback; empty content is ignored and nobody is notified.
func (s *InteractionService) AddFeedback(ctx context.Context, userID, postID uint, content string) error {
	if content == "" {
		return nil
	}
	if err := s.repo.AddFeedback(ctx, &models.Feedback{
		PostID:   postID,
		SenderID: userID,
		Content:  content,
	}); err != nil {
		return err
	}
	observability.InteractionsTotal.WithLabelValues("feedback", "on").Inc()
	return nil
}

// publish fans out a committed notification. Failures never reach the caller.
func (s *InteractionService) publish(ctx context.Context, note *models.Notification) {
	if note == nil {
		return
	}
	observability.NotificationsTotal.WithLabelValues(note.Type).Inc()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishNotification(ctx, note); err != nil {
		observability.NotificationPublishFailures.Inc()
		middleware.Logger.WarnContext(ctx, "Notification publish failed",
			slog.Uint64("notification_id", uint64(note.ID)),
			slog.String("error", err.Error()),
		)
	}
}
