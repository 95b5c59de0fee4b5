package repositories

import (
	"context"

	"caseflow/internal/domain/models"
)

// NotificationRepository defines data access for persisted notifications.
type NotificationRepository interface {
	// Create inserts a notification
	Create(ctx context.Context, n *models.Notification) error

	// ListByUser returns a user's notifications, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)

	// MarkRead marks a notification as read
	MarkRead(ctx context.Context, id, userID string) error
}
