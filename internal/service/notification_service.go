package service

import (
	"context"

	"campusgram/internal/models"
	"campusgram/internal/repository"
)

type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, recipientID uint) ([]models.NotificationView, error) {
	return s.repo.ListForRecipient(ctx, recipientID)
}
