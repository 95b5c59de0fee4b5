package casefile

import "time"

// Form type sentinels written by the AI extractor and recognized by the
// classification rules.
const (
	FormTypeForm47 = "form-47"
	FormTypeForm76 = "form-76"
)

// ExtractedInfo is the structured extraction produced by AI analysis of a
// bankruptcy document. ConsumerDebtorName is a Form-47-specific alternate
// field for the client name.
type ExtractedInfo struct {
	ClientName         string `json:"clientName,omitempty"`
	ConsumerDebtorName string `json:"consumerDebtorName,omitempty"`
	FormType           string `json:"formType,omitempty"`
	EstateNumber       string `json:"estateNumber,omitempty"`
	TotalAssets        string `json:"totalAssets,omitempty"`
	TotalLiabilities   string `json:"totalLiabilities,omitempty"`
}

// AnalysisContent is the JSONB payload stored per analysis row.
type AnalysisContent struct {
	ExtractedInfo ExtractedInfo `json:"extracted_info"`
}

// DocumentAnalysis is one stored AI analysis, keyed by document. At most
// one analysis per document; re-analysis overwrites.
type DocumentAnalysis struct {
	ID         string          `json:"id" db:"id"`
	DocumentID string          `json:"document_id" db:"document_id"`
	Content    AnalysisContent `json:"content" db:"content"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
