package repository

import (
	"context"

	"campusgram/internal/models"
	"campusgram/internal/observability"

	"gorm.io/gorm"
)

// NotificationRepository reads a recipient's notification history.
type NotificationRepository interface {
	ListForRecipient(ctx context.Context, recipientID uint) ([]models.NotificationView, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Removed senders and posts are left joined, yielding empty strings.
const notificationColumns = "n.id, n.recipient_id, n.sender_id, n.post_id, n.type, n.created_at, " +
	"COALESCE(u.username, '') AS sender_name, COALESCE(p.caption, '') AS caption"

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipientID uint) ([]models.NotificationView, error) {
	defer observability.TrackQuery("select", "notifications")()

	views := []models.NotificationView{}
	err := r.db.WithContext(ctx).
		Table("notifications AS n").
		Select(notificationColumns).
		Joins("LEFT JOIN users u ON u.id = n.sender_id").
		Joins("LEFT JOIN posts p ON p.id = n.post_id").
		Where("n.recipient_id = ?", recipientID).
		Order("n.created_at DESC, n.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return views, nil
}
