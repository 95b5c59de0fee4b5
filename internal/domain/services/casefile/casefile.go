package casefile

import (
	"context"

	"caseflow/internal/domain/models/casefile"
	"caseflow/internal/httputil"
)

// CreateDocumentRequest registers an uploaded document in the collection.
// New documents start uncategorized (no parent) with processing status
// "pending" until analysis runs.
type CreateDocumentRequest struct {
	UserID         string         `json:"-"`
	Title          string         `json:"title"`
	ParentFolderID *string        `json:"parent_folder_id"`
	Metadata       map[string]any `json:"metadata"`
}

// UpdateDocumentRequest patches a document. ParentFolderID uses tri-state
// semantics: absent = don't move, null = move to root, value = move into
// that folder.
type UpdateDocumentRequest struct {
	Title          *string                `json:"title"`
	ParentFolderID httputil.OptionalString `json:"parent_folder_id"`
	Metadata       map[string]any         `json:"metadata"`
}

// CreateFolderRequest creates a folder row in the shared collection.
type CreateFolderRequest struct {
	UserID         string  `json:"-"`
	Name           string  `json:"name"`
	FolderType     string  `json:"folder_type"`
	ParentFolderID *string `json:"parent_folder_id"`
}

// MergeFoldersRequest merges the source folder into the target: all
// children are re-parented to the target, then the source is deleted.
type MergeFoldersRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// DocumentService manages non-folder rows of the collection.
type DocumentService interface {
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*casefile.Document, error)
	GetDocument(ctx context.Context, id string) (*casefile.Document, error)
	ListDocuments(ctx context.Context, folderID *string) ([]casefile.Document, error)
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*casefile.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// FolderService manages folder rows: creation, recursive deletion, merge,
// and form search (the folder management tools surface).
type FolderService interface {
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*casefile.Document, error)
	DeleteFolder(ctx context.Context, id string) error
	MergeFolders(ctx context.Context, req *MergeFoldersRequest) (*casefile.Document, error)
	SearchForms(ctx context.Context, query string) ([]casefile.Document, error)
}

// TreeService projects the flat collection into FolderStructure trees.
type TreeService interface {
	// BuildTree returns all root-level folders with their nested children
	BuildTree(ctx context.Context) ([]casefile.FolderStructure, error)

	// ClientFolders returns only root-level folders typed "client"
	ClientFolders(ctx context.Context) ([]casefile.FolderStructure, error)
}
