package casefile

import (
	"time"
)

// Folder type values for Document.FolderType. The enum is open: rows
// synced from older schema versions may carry other values, so code
// matching on folder type must treat unknown values as "general".
const (
	FolderTypeClient        = "client"
	FolderTypeForm          = "form"
	FolderTypeFinancial     = "financial"
	FolderTypeGeneral       = "general"
	FolderTypeUncategorized = "uncategorized"
)

// AI processing status values for Document.AIProcessingStatus.
const (
	ProcessingPending    = "pending"
	ProcessingInProgress = "processing"
	ProcessingComplete   = "complete"
	ProcessingFailed     = "failed"
)

// Document is one row of the shared case-file collection. Folders and
// documents live in the same table: a folder is a row with IsFolder=true
// and a FolderType; ParentFolderID defines the tree.
type Document struct {
	ID                 string         `json:"id" db:"id"`
	UserID             string         `json:"user_id" db:"user_id"`
	Title              string         `json:"title" db:"title"`
	IsFolder           bool           `json:"is_folder" db:"is_folder"`
	FolderType         string         `json:"folder_type,omitempty" db:"folder_type"` // empty for non-folders
	ParentFolderID     *string        `json:"parent_folder_id" db:"parent_folder_id"` // NULL = uncategorized / root
	Metadata           map[string]any `json:"metadata,omitempty" db:"metadata"`       // open key-value bag (client_name, formType, extracted_text, ...)
	AIProcessingStatus string         `json:"ai_processing_status,omitempty" db:"ai_processing_status"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

// MetadataString returns a string metadata value, or "" when absent or
// not a string.
func (d *Document) MetadataString(key string) string {
	if d == nil || d.Metadata == nil {
		return ""
	}
	s, _ := d.Metadata[key].(string)
	return s
}
