package config

const (
	// MaxDocumentTitleLength is the maximum length for document and folder
	// titles. Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxDocumentTitleLength = 255

	// MaxClientNameLength bounds client names extracted from analysis
	// payloads before they are used to look up or suggest client folders.
	MaxClientNameLength = 255

	// MaxNotificationMessageLength bounds persisted notification messages.
	MaxNotificationMessageLength = 1000
)
