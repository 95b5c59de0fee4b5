package casefile

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"caseflow/internal/config"
	"caseflow/internal/domain"
	models "caseflow/internal/domain/models/casefile"
	"caseflow/internal/domain/repositories"
	cfRepo "caseflow/internal/domain/repositories/casefile"
	"caseflow/internal/domain/services"
	cfSvc "caseflow/internal/domain/services/casefile"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var folderTypes = []any{
	models.FolderTypeClient,
	models.FolderTypeForm,
	models.FolderTypeFinancial,
	models.FolderTypeGeneral,
	models.FolderTypeUncategorized,
}

type folderService struct {
	repo     cfRepo.DocumentRepository
	txm      repositories.TransactionManager
	listener services.ChangeListener
	logger   *slog.Logger
}

// NewFolderService creates the folder management service (the folder
// tools surface: create, recursive delete, merge, form search).
func NewFolderService(
	repo cfRepo.DocumentRepository,
	txm repositories.TransactionManager,
	listener services.ChangeListener,
	logger *slog.Logger,
) cfSvc.FolderService {
	return &folderService{
		repo:     repo,
		txm:      txm,
		listener: listener,
		logger:   logger,
	}
}

// CreateFolder creates a folder row in the shared collection. Duplicate
// names among siblings are rejected with the existing folder's ID.
func (s *folderService) CreateFolder(ctx context.Context, req *cfSvc.CreateFolderRequest) (*models.Document, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}
	if req.ParentFolderID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentFolderID)
		if err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
		if !parent.IsFolder {
			return nil, fmt.Errorf("%w: parent %s is not a folder", domain.ErrValidation, parent.ID)
		}
	}

	// Check for duplicate name among siblings
	siblings, err := s.repo.ListChildren(ctx, req.ParentFolderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	for i := range siblings {
		if siblings[i].IsFolder && strings.EqualFold(siblings[i].Title, req.Name) {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", req.Name),
				ResourceType: "folder",
				ResourceID:   siblings[i].ID,
			}
		}
	}

	now := time.Now()
	folder := &models.Document{
		UserID:         req.UserID,
		Title:          strings.TrimSpace(req.Name),
		IsFolder:       true,
		FolderType:     req.FolderType,
		ParentFolderID: req.ParentFolderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Title,
		"folder_type", folder.FolderType,
		"parent_folder_id", folder.ParentFolderID,
	)

	s.listener.Trigger()
	return folder, nil
}

// DeleteFolder deletes a folder and all its contents recursively.
func (s *folderService) DeleteFolder(ctx context.Context, id string) error {
	folder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !folder.IsFolder {
		return fmt.Errorf("%w: %s is not a folder", domain.ErrValidation, id)
	}

	// All-or-nothing: a partial recursive delete would leave orphans.
	err = s.txm.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.deleteDescendants(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "name", folder.Title)
	s.listener.Trigger()
	return nil
}

// deleteDescendants removes all children of a folder, depth first.
func (s *folderService) deleteDescendants(ctx context.Context, folderID string) error {
	children, err := s.repo.ListChildren(ctx, &folderID)
	if err != nil {
		return fmt.Errorf("failed to list children: %w", err)
	}

	for i := range children {
		child := &children[i]
		if child.IsFolder {
			if err := s.deleteDescendants(ctx, child.ID); err != nil {
				return err
			}
		}
		if err := s.repo.Delete(ctx, child.ID); err != nil {
			return fmt.Errorf("failed to delete %q: %w", child.Title, err)
		}
		s.logger.Debug("deleted child", "id", child.ID, "title", child.Title, "is_folder", child.IsFolder)
	}

	return nil
}

// MergeFolders merges the source folder into the target: every child of
// the source is re-parented to the target, then the source is deleted.
// Returns the target folder.
func (s *folderService) MergeFolders(ctx context.Context, req *cfSvc.MergeFoldersRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SourceID, validation.Required),
		validation.Field(&req.TargetID, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.SourceID == req.TargetID {
		return nil, fmt.Errorf("%w: cannot merge a folder into itself", domain.ErrValidation)
	}

	source, err := s.repo.GetByID(ctx, req.SourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetByID(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !source.IsFolder || !target.IsFolder {
		return nil, fmt.Errorf("%w: both merge endpoints must be folders", domain.ErrValidation)
	}

	// The target must not live inside the source, or re-parenting would
	// orphan it under a deleted folder.
	if err := s.ensureNotDescendant(ctx, req.TargetID, req.SourceID); err != nil {
		return nil, err
	}

	err = s.txm.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.repo.ReparentChildren(ctx, req.SourceID, req.TargetID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, req.SourceID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folders merged",
		"source_id", req.SourceID,
		"source_name", source.Title,
		"target_id", req.TargetID,
		"target_name", target.Title,
	)

	s.listener.Trigger()
	return target, nil
}

// ensureNotDescendant walks parents from candidateID to the root and
// fails if ancestorID appears on the way.
func (s *folderService) ensureNotDescendant(ctx context.Context, candidateID, ancestorID string) error {
	currentID := candidateID
	for {
		current, err := s.repo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}
		if current.ParentFolderID == nil {
			return nil
		}
		if *current.ParentFolderID == ancestorID {
			return fmt.Errorf("%w: target folder is inside the source folder", domain.ErrValidation)
		}
		currentID = *current.ParentFolderID
	}
}

// SearchForms returns non-folder documents whose title matches the query.
func (s *folderService) SearchForms(ctx context.Context, query string) ([]models.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrValidation)
	}
	return s.repo.SearchByTitle(ctx, query)
}

func (s *folderService) validateCreate(req *cfSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
			validation.Match(regexp.MustCompile(`^[^/]+$`)).Error("folder name cannot contain slashes"),
		),
		validation.Field(&req.FolderType, validation.Required, validation.In(folderTypes...)),
	)
}
