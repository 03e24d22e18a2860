package services

import (
	"context"
	"errors"

	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/utils"
)

type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	Size          int                   `json:"size"`
}

type NotificationService interface {
	ListByUser(ctx context.Context, userID string, page, size int) (*NotificationPage, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) (*models.Notification, error)
}

type notificationService struct {
	notifications pgrepo.NotificationRepository
}

func NewNotificationService(notifications pgrepo.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) ListByUser(ctx context.Context, userID string, page, size int) (*NotificationPage, error) {
	const op = "NotificationService.ListByUser"

	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	items, total, err := s.notifications.ListByUser(ctx, userID, (page-1)*size, size)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	return &NotificationPage{Notifications: items, Total: total, Page: page, Size: size}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	const op = "NotificationService.UnreadCount"

	n, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to count notifications", err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	const op = "NotificationService.MarkRead"

	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "notification not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get notification", err)
	}
	if n.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "notification belongs to another user", nil)
	}

	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to mark notification read", err)
	}
	n.Read = true
	return n, nil
}
