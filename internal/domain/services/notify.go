package services

import (
	"context"

	"caseflow/internal/domain/models"
)

// NotificationService persists user notifications and fans them out to
// connected clients. Callers treat failures as best-effort.
type NotificationService interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// Notifier is the short-lived notice surface (the toast equivalent).
// Push is fire-and-forget: it never blocks on slow clients and never
// returns an error.
type Notifier interface {
	Push(notice *models.Notice)
}

// DocumentMover performs the single move mutation the recommendation
// subsystem owns: updating a document's parent folder reference.
type DocumentMover interface {
	SetParentFolder(ctx context.Context, documentID string, folderID *string) error
}

// ChangeListener is notified after collection mutations so dependents can
// rescan. Trigger must be non-blocking.
type ChangeListener interface {
	Trigger()
}
