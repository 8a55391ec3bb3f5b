package service

import (
	"context"

	"github.com/vitrinehq/vitrine/internal/domain/notification"
	"github.com/vitrinehq/vitrine/internal/port/database"
)

// NotificationService exposes the tenant dashboard notification feed.
type NotificationService struct {
	store database.Store
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store database.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the tenant's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, tenantID string, unreadOnly bool) ([]notification.Notification, error) {
	return s.store.ListNotifications(ctx, tenantID, unreadOnly)
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, tenantID, id string) error {
	return s.store.MarkNotificationRead(ctx, tenantID, id)
}
