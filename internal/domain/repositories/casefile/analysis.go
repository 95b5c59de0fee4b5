package casefile

import (
	"context"

	"caseflow/internal/domain/models/casefile"
)

// AnalysisRepository defines data access for stored AI analyses.
type AnalysisRepository interface {
	// GetByDocument returns the analysis for a document, or nil when no
	// analysis exists (absence is not an error)
	GetByDocument(ctx context.Context, documentID string) (*casefile.DocumentAnalysis, error)

	// Upsert stores an analysis, replacing any previous one for the
	// same document
	Upsert(ctx context.Context, analysis *casefile.DocumentAnalysis) error
}
