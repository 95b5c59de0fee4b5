package models

// FolderRecommendation is an ephemeral suggestion to move one document
// into one folder. At most one is active at a time; it lives in engine
// memory only and is lost on restart.
type FolderRecommendation struct {
	DocumentID        string   `json:"document_id"`
	SuggestedFolderID string   `json:"suggested_folder_id"`
	DocumentTitle     string   `json:"document_title"`
	FolderPath        []string `json:"folder_path"` // client folder down to the specific subfolder
}
