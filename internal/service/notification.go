package service

import (
	"context"

	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/repository"
)

type NotificationService struct {
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
}

func NewNotificationService(notifications *repository.NotificationRepository, users *repository.UserRepository) *NotificationService {
	return &NotificationService{notifications: notifications, users: users}
}

// ListUnread returns the newest unread notifications for a user.
func (s *NotificationService) ListUnread(ctx context.Context, userID int64) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapStoreError(err)
	}
	items, err := s.notifications.ListUnread(ctx, userID, model.NotificationPageSize)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}
