// Package recommend implements the folder recommendation subsystem: the
// side-effecting suggestion boundary and the scan engine that decides
// which client folder an uncategorized document belongs to.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"caseflow/internal/domain/models"
	"caseflow/internal/domain/services"

	"github.com/google/uuid"
)

// Service is the side-effecting boundary of the recommendation
// subsystem. Every method is fire-and-forget with respect to the caller:
// failures are logged and surfaced as notices, never returned as errors
// (MoveDocumentToFolder reports success with a bool).
type Service struct {
	notifications services.NotificationService
	notifier      services.Notifier
	mover         services.DocumentMover
	logger        *slog.Logger
}

// NewService creates the recommendation side-effect service. All
// collaborators are injected so the logic is testable without a live
// backend.
func NewService(
	notifications services.NotificationService,
	notifier services.Notifier,
	mover services.DocumentMover,
	logger *slog.Logger,
) *Service {
	return &Service{
		notifications: notifications,
		notifier:      notifier,
		mover:         mover,
		logger:        logger,
	}
}

// SuggestNewClientFolder records a notification proposing a new client
// folder for the document's client and raises a notice with a
// "Create Folder" action. The two are independent best-effort calls: a
// failed notification does not suppress the notice.
func (s *Service) SuggestNewClientFolder(ctx context.Context, userID, documentID, clientName string) {
	err := s.notifications.Create(ctx, &models.Notification{
		UserID:     userID,
		Title:      "New Client Folder Suggested",
		Message:    fmt.Sprintf("Create a folder for client %q to organize this document.", clientName),
		Category:   models.CategoryOrganization,
		Priority:   models.PriorityNormal,
		ActionType: models.ActionCreateClientFolder,
		Metadata: map[string]any{
			"document_id": documentID,
			"client_name": clientName,
		},
	})
	if err != nil {
		s.logger.Error("failed to create client folder notification",
			"document_id", documentID,
			"client_name", clientName,
			"error", err,
		)
	}

	s.notifier.Push(&models.Notice{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "New client detected",
		Description: fmt.Sprintf("No folder exists for %q.", clientName),
		Variant:     models.NoticeInfo,
		ActionLabel: "Create Folder",
		ActionType:  models.ActionCreateClientFolder,
		CreatedAt:   time.Now(),
	})
}

// SuggestNewSubfolder raises a notice proposing a typed subfolder inside
// an existing client folder. Notice only, no persisted notification.
func (s *Service) SuggestNewSubfolder(ctx context.Context, userID, subfolderName, clientFolderName string) {
	s.notifier.Push(&models.Notice{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "Subfolder suggested",
		Description: fmt.Sprintf("Create a %q subfolder in %q for this document type.", subfolderName, clientFolderName),
		Variant:     models.NoticeInfo,
		ActionLabel: "Create Subfolder",
		CreatedAt:   time.Now(),
	})
}

// NotifyFolderRecommendation records a folderRecommendation notification
// and raises a notice describing the suggested path. The notice carries
// no move action: the actual move goes through the engine's accept
// operation, not the notice surface.
func (s *Service) NotifyFolderRecommendation(ctx context.Context, userID, documentID, documentTitle, targetFolderID, folderPath string) {
	err := s.notifications.Create(ctx, &models.Notification{
		UserID:     userID,
		Title:      "Folder Recommendation",
		Message:    fmt.Sprintf("%q looks like it belongs in %s.", documentTitle, folderPath),
		Category:   models.CategoryOrganization,
		Priority:   models.PriorityNormal,
		ActionType: models.ActionFolderRecommendation,
		Metadata: map[string]any{
			"document_id":      documentID,
			"target_folder_id": targetFolderID,
			"folder_path":      folderPath,
		},
	})
	if err != nil {
		s.logger.Error("failed to create folder recommendation notification",
			"document_id", documentID,
			"error", err,
		)
	}

	s.notifier.Push(&models.Notice{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "Folder recommendation",
		Description: fmt.Sprintf("Move %q to %s?", documentTitle, folderPath),
		Variant:     models.NoticeInfo,
		CreatedAt:   time.Now(),
	})
}

// NotifyDocumentTypeNoClient raises a notice that a document was
// classified but no client could be associated. Notice only.
func (s *Service) NotifyDocumentTypeNoClient(ctx context.Context, userID, category string) {
	s.notifier.Push(&models.Notice{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "Document classified",
		Description: fmt.Sprintf("Classified as %s but no client could be associated.", category),
		Variant:     models.NoticeInfo,
		CreatedAt:   time.Now(),
	})
}

// MoveDocumentToFolder performs the single real mutation of the
// subsystem: updating the document's parent folder reference. Returns
// true on success. On failure the error is logged and surfaced as an
// error notice, never propagated - the document stays where it was and
// the user may retry.
func (s *Service) MoveDocumentToFolder(ctx context.Context, userID, documentID, folderID, folderPath string) bool {
	if err := s.mover.SetParentFolder(ctx, documentID, &folderID); err != nil {
		s.logger.Error("failed to move document",
			"document_id", documentID,
			"folder_id", folderID,
			"error", err,
		)
		s.notifier.Push(&models.Notice{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       "Move failed",
			Description: fmt.Sprintf("Could not move document to %s.", folderPath),
			Variant:     models.NoticeError,
			CreatedAt:   time.Now(),
		})
		return false
	}

	s.logger.Info("document moved",
		"document_id", documentID,
		"folder_id", folderID,
		"folder_path", folderPath,
	)

	s.notifier.Push(&models.Notice{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "Document moved",
		Description: fmt.Sprintf("Moved to %s.", folderPath),
		Variant:     models.NoticeInfo,
		CreatedAt:   time.Now(),
	})
	return true
}
