// Package casefile implements the document/folder collection services:
// document registration and CRUD, folder management tools, and the tree
// projection the recommendation engine consumes.
package casefile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"caseflow/internal/config"
	"caseflow/internal/domain"
	models "caseflow/internal/domain/models/casefile"
	cfRepo "caseflow/internal/domain/repositories/casefile"
	"caseflow/internal/domain/services"
	cfSvc "caseflow/internal/domain/services/casefile"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type documentService struct {
	repo     cfRepo.DocumentRepository
	listener services.ChangeListener
	logger   *slog.Logger
}

// NewDocumentService creates a document service. The listener is
// triggered after every mutation so the recommendation engine rescans.
func NewDocumentService(
	repo cfRepo.DocumentRepository,
	listener services.ChangeListener,
	logger *slog.Logger,
) cfSvc.DocumentService {
	return &documentService{
		repo:     repo,
		listener: listener,
		logger:   logger,
	}
}

// CreateDocument registers an uploaded document. New documents start
// uncategorized with processing status "pending" until analysis runs.
func (s *documentService) CreateDocument(ctx context.Context, req *cfSvc.CreateDocumentRequest) (*models.Document, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}
	if req.ParentFolderID != nil {
		if err := s.validateParent(ctx, *req.ParentFolderID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	doc := &models.Document{
		UserID:             req.UserID,
		Title:              req.Title,
		IsFolder:           false,
		ParentFolderID:     req.ParentFolderID,
		Metadata:           req.Metadata,
		AIProcessingStatus: models.ProcessingPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document registered",
		"id", doc.ID,
		"title", doc.Title,
		"user_id", doc.UserID,
	)

	s.listener.Trigger()
	return doc, nil
}

// GetDocument retrieves a document by ID
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.repo.GetByID(ctx, id)
}

// ListDocuments lists documents and folders directly under folderID
// (nil = root level / uncategorized)
func (s *documentService) ListDocuments(ctx context.Context, folderID *string) ([]models.Document, error) {
	return s.repo.ListChildren(ctx, folderID)
}

// UpdateDocument patches a document: rename, move (tri-state parent), or
// metadata replacement.
func (s *documentService) UpdateDocument(ctx context.Context, id string, req *cfSvc.UpdateDocumentRequest) (*models.Document, error) {
	if err := s.validateUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsFolder {
		return nil, fmt.Errorf("%w: %s is a folder", domain.ErrValidation, id)
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Metadata != nil {
		doc.Metadata = req.Metadata
	}

	// Tri-state: only move if the field was present in the request.
	if req.ParentFolderID.Present {
		if req.ParentFolderID.Value != nil {
			if err := s.validateParent(ctx, *req.ParentFolderID.Value); err != nil {
				return nil, err
			}
			doc.ParentFolderID = req.ParentFolderID.Value
		} else {
			// null = move back to uncategorized
			doc.ParentFolderID = nil
		}
	}

	doc.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"id", doc.ID,
		"title", doc.Title,
		"parent_folder_id", doc.ParentFolderID,
	)

	s.listener.Trigger()
	return doc, nil
}

// DeleteDocument removes a document
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.IsFolder {
		return fmt.Errorf("%w: %s is a folder, use the folder service", domain.ErrValidation, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "title", doc.Title)
	s.listener.Trigger()
	return nil
}

// validateParent ensures the target parent exists and is a folder
func (s *documentService) validateParent(ctx context.Context, parentID string) error {
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("parent folder: %w", err)
	}
	if !parent.IsFolder {
		return fmt.Errorf("%w: %s is not a folder", domain.ErrValidation, parentID)
	}
	return nil
}

func (s *documentService) validateCreate(req *cfSvc.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
		),
	)
}

func (s *documentService) validateUpdate(req *cfSvc.UpdateDocumentRequest) error {
	if req.Title == nil && !req.ParentFolderID.Present && req.Metadata == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Title != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Title,
				validation.Required,
				validation.Length(1, config.MaxDocumentTitleLength),
			),
		)
	}
	return nil
}
