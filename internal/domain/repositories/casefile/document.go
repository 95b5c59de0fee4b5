package casefile

import (
	"context"

	"caseflow/internal/domain/models/casefile"
)

// DocumentRepository defines data access over the shared document/folder
// collection.
type DocumentRepository interface {
	// Create inserts a new row (document or folder)
	Create(ctx context.Context, doc *casefile.Document) error

	// GetByID retrieves a row by ID
	GetByID(ctx context.Context, id string) (*casefile.Document, error)

	// Update rewrites mutable fields (title, folder type, parent, metadata,
	// processing status)
	Update(ctx context.Context, doc *casefile.Document) error

	// Delete removes a row
	Delete(ctx context.Context, id string) error

	// List returns the whole collection in creation order
	List(ctx context.Context) ([]casefile.Document, error)

	// ListChildren lists rows whose parent is folderID (nil = root level)
	ListChildren(ctx context.Context, folderID *string) ([]casefile.Document, error)

	// SetParentFolder updates only parent_folder_id. This is the move
	// mutation; no optimistic concurrency check, last writer wins.
	SetParentFolder(ctx context.Context, documentID string, folderID *string) error

	// ReparentChildren moves every child of fromID under toID
	ReparentChildren(ctx context.Context, fromID, toID string) error

	// SetProcessingStatus updates only ai_processing_status
	SetProcessingStatus(ctx context.Context, documentID, status string) error

	// SearchByTitle returns non-folder rows whose title matches the query
	// (case-insensitive substring)
	SearchByTitle(ctx context.Context, query string) ([]casefile.Document, error)
}
