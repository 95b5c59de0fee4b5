package services

import (
	"context"

	"caseflow/internal/domain/models/casefile"
)

// AnalysisService runs AI extraction over a registered document and
// stores the result, driving the document's ai_processing_status.
type AnalysisService interface {
	AnalyzeDocument(ctx context.Context, documentID string) (*casefile.DocumentAnalysis, error)
	GetAnalysis(ctx context.Context, documentID string) (*casefile.DocumentAnalysis, error)
}
