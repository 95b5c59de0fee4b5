package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"caseflow/internal/config"
	"caseflow/internal/domain"
	"caseflow/internal/domain/models"
	"caseflow/internal/domain/repositories"
	"caseflow/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type notificationService struct {
	repo     repositories.NotificationRepository
	notifier services.Notifier
	logger   *slog.Logger
}

// NewNotificationService creates a notification service that persists
// notifications and mirrors them onto the notice stream.
func NewNotificationService(
	repo repositories.NotificationRepository,
	notifier services.Notifier,
	logger *slog.Logger,
) services.NotificationService {
	return &notificationService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Create validates and stores a notification, then pushes a matching
// notice. The push is best-effort and does not affect the result.
func (s *notificationService) Create(ctx context.Context, n *models.Notification) error {
	if err := s.validateCreate(n); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if n.Priority == "" {
		n.Priority = models.PriorityNormal
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Info("notification created",
		"id", n.ID,
		"user_id", n.UserID,
		"category", n.Category,
		"action_type", n.ActionType,
	)

	s.notifier.Push(&models.Notice{
		ID:          uuid.NewString(),
		UserID:      n.UserID,
		Title:       n.Title,
		Description: n.Message,
		Variant:     models.NoticeInfo,
		ActionType:  n.ActionType,
		CreatedAt:   time.Now(),
	})

	return nil
}

// ListByUser returns a user's notifications, newest first
func (s *notificationService) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// MarkRead marks a notification as read
func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *notificationService) validateCreate(n *models.Notification) error {
	return validation.ValidateStruct(n,
		validation.Field(&n.UserID, validation.Required),
		validation.Field(&n.Title, validation.Required, validation.Length(1, config.MaxDocumentTitleLength)),
		validation.Field(&n.Message, validation.Length(0, config.MaxNotificationMessageLength)),
	)
}
