package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"caseflow/internal/domain"
	models "caseflow/internal/domain/models/casefile"
	cfRepo "caseflow/internal/domain/repositories/casefile"
	"caseflow/internal/domain/services"
)

type analysisService struct {
	docs      cfRepo.DocumentRepository
	analyses  cfRepo.AnalysisRepository
	extractor Extractor
	listener  services.ChangeListener
	logger    *slog.Logger
}

// NewAnalysisService creates the analysis pipeline service
func NewAnalysisService(
	docs cfRepo.DocumentRepository,
	analyses cfRepo.AnalysisRepository,
	extractor Extractor,
	listener services.ChangeListener,
	logger *slog.Logger,
) services.AnalysisService {
	return &analysisService{
		docs:      docs,
		analyses:  analyses,
		extractor: extractor,
		listener:  listener,
		logger:    logger,
	}
}

// AnalyzeDocument runs extraction over a document's title and registered
// text excerpt, stores the analysis, and moves ai_processing_status from
// pending/failed through processing to complete (or failed). A completed
// analysis makes the document a recommendation candidate, so the engine
// is triggered on success.
func (s *analysisService) AnalyzeDocument(ctx context.Context, documentID string) (*models.DocumentAnalysis, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.IsFolder {
		return nil, fmt.Errorf("%w: cannot analyze a folder", domain.ErrValidation)
	}

	if err := s.docs.SetProcessingStatus(ctx, documentID, models.ProcessingInProgress); err != nil {
		return nil, err
	}

	info, err := s.extractor.Extract(ctx, doc.Title, doc.MetadataString("extracted_text"))
	if err != nil {
		s.logger.Error("document analysis failed",
			"document_id", documentID,
			"title", doc.Title,
			"error", err,
		)
		if statusErr := s.docs.SetProcessingStatus(ctx, documentID, models.ProcessingFailed); statusErr != nil {
			s.logger.Error("failed to record failed status", "document_id", documentID, "error", statusErr)
		}
		return nil, fmt.Errorf("analyze document %s: %w", documentID, err)
	}

	analysis := &models.DocumentAnalysis{
		DocumentID: documentID,
		Content:    models.AnalysisContent{ExtractedInfo: *info},
		CreatedAt:  time.Now(),
	}

	if err := s.analyses.Upsert(ctx, analysis); err != nil {
		if statusErr := s.docs.SetProcessingStatus(ctx, documentID, models.ProcessingFailed); statusErr != nil {
			s.logger.Error("failed to record failed status", "document_id", documentID, "error", statusErr)
		}
		return nil, err
	}

	if err := s.docs.SetProcessingStatus(ctx, documentID, models.ProcessingComplete); err != nil {
		return nil, err
	}

	s.logger.Info("document analyzed",
		"document_id", documentID,
		"form_type", info.FormType,
		"client_name", info.ClientName,
	)

	s.listener.Trigger()
	return analysis, nil
}

// GetAnalysis returns the stored analysis for a document, or ErrNotFound
// when none exists.
func (s *analysisService) GetAnalysis(ctx context.Context, documentID string) (*models.DocumentAnalysis, error) {
	analysis, err := s.analyses.GetByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, fmt.Errorf("analysis for document %s: %w", documentID, domain.ErrNotFound)
	}
	return analysis, nil
}
