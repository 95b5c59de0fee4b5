package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"caseflow/internal/domain"
	"caseflow/internal/domain/models"
)

// fakeNotificationRepo records stored notifications.
type fakeNotificationRepo struct {
	created   []models.Notification
	createErr error
	lastLimit int
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	return nil
}

// recordingNotifier records pushed notices.
type recordingNotifier struct {
	notices []models.Notice
}

func (r *recordingNotifier) Push(notice *models.Notice) {
	r.notices = append(r.notices, *notice)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateNotification(t *testing.T) {
	repo := &fakeNotificationRepo{}
	notifier := &recordingNotifier{}
	svc := NewNotificationService(repo, notifier, testLogger())

	err := svc.Create(context.Background(), &models.Notification{
		UserID:     "user-1",
		Title:      "Folder Recommendation",
		Message:    "\"Form 47.pdf\" looks like it belongs in Jane Doe > Forms.",
		Category:   models.CategoryOrganization,
		ActionType: models.ActionFolderRecommendation,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("got %d stored notifications, want 1", len(repo.created))
	}
	stored := repo.created[0]
	if stored.Priority != models.PriorityNormal {
		t.Errorf("priority defaulted to %q, want %q", stored.Priority, models.PriorityNormal)
	}
	if stored.CreatedAt.IsZero() {
		t.Error("CreatedAt was not defaulted")
	}

	if len(notifier.notices) != 1 {
		t.Fatalf("got %d notices, want 1", len(notifier.notices))
	}
	notice := notifier.notices[0]
	if notice.Title != stored.Title || notice.Description != stored.Message {
		t.Errorf("notice mirror = %+v, want title/message from the notification", notice)
	}
	if notice.ActionType != models.ActionFolderRecommendation {
		t.Errorf("notice ActionType = %q, want %q", notice.ActionType, models.ActionFolderRecommendation)
	}
}

func TestCreateNotification_Validation(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{}, &recordingNotifier{}, testLogger())

	tests := []struct {
		name string
		n    models.Notification
	}{
		{name: "missing user", n: models.Notification{Title: "hi"}},
		{name: "missing title", n: models.Notification{UserID: "user-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Create(context.Background(), &tt.n); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want a validation error", err)
			}
		})
	}
}

func TestCreateNotification_RepoFailureSkipsNotice(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("db down")}
	notifier := &recordingNotifier{}
	svc := NewNotificationService(repo, notifier, testLogger())

	err := svc.Create(context.Background(), &models.Notification{UserID: "user-1", Title: "hi"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(notifier.notices) != 0 {
		t.Error("notice pushed even though the notification insert failed")
	}
}

func TestListByUser_LimitClamp(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, &recordingNotifier{}, testLogger())

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 50},
		{limit: -3, want: 50},
		{limit: 25, want: 25},
		{limit: 100, want: 100},
		{limit: 500, want: 50},
	}

	for _, tt := range tests {
		if _, err := svc.ListByUser(context.Background(), "user-1", tt.limit); err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if repo.lastLimit != tt.want {
			t.Errorf("limit %d passed through as %d, want %d", tt.limit, repo.lastLimit, tt.want)
		}
	}
}
