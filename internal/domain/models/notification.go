package models

import "time"

// Notification categories and priorities.
const (
	CategoryOrganization = "organization"
	PriorityNormal       = "normal"
)

// Notification action types consumed by the frontend.
const (
	ActionCreateClientFolder   = "create_client_folder"
	ActionFolderRecommendation = "folderRecommendation"
)

// Notification is a persisted user notification.
type Notification struct {
	ID         string         `json:"id" db:"id"`
	UserID     string         `json:"user_id" db:"user_id"`
	Title      string         `json:"title" db:"title"`
	Message    string         `json:"message" db:"message"`
	Category   string         `json:"category" db:"category"`
	Priority   string         `json:"priority" db:"priority"`
	ActionType string         `json:"action_type,omitempty" db:"action_type"`
	Metadata   map[string]any `json:"metadata,omitempty" db:"metadata"` // links back to the document / suggested action
	Read       bool           `json:"read" db:"read"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// Notice variants.
const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

// Notice is a short-lived user-facing prompt (the toast surface). Notices
// are pushed to connected clients and never persisted or awaited.
type Notice struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     string    `json:"variant"`
	ActionLabel string    `json:"action_label,omitempty"`
	ActionType  string    `json:"action_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
