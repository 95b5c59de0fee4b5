package analyze

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"caseflow/internal/domain"
	models "caseflow/internal/domain/models/casefile"
)

// fakeExtractor returns a canned extraction or error.
type fakeExtractor struct {
	info *models.ExtractedInfo
	err  error

	gotTitle string
	gotText  string
}

func (f *fakeExtractor) Extract(ctx context.Context, title, text string) (*models.ExtractedInfo, error) {
	f.gotTitle = title
	f.gotText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

// docStore tracks a single document's processing status.
type docStore struct {
	doc      models.Document
	statuses []string
}

func (s *docStore) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if id != s.doc.ID {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	doc := s.doc
	return &doc, nil
}

func (s *docStore) SetProcessingStatus(ctx context.Context, documentID, status string) error {
	s.statuses = append(s.statuses, status)
	s.doc.AIProcessingStatus = status
	return nil
}

func (s *docStore) Create(ctx context.Context, doc *models.Document) error { return nil }
func (s *docStore) Update(ctx context.Context, doc *models.Document) error { return nil }
func (s *docStore) Delete(ctx context.Context, id string) error            { return nil }
func (s *docStore) List(ctx context.Context) ([]models.Document, error)    { return nil, nil }
func (s *docStore) ListChildren(ctx context.Context, folderID *string) ([]models.Document, error) {
	return nil, nil
}
func (s *docStore) SetParentFolder(ctx context.Context, documentID string, folderID *string) error {
	return nil
}
func (s *docStore) ReparentChildren(ctx context.Context, fromID, toID string) error { return nil }
func (s *docStore) SearchByTitle(ctx context.Context, query string) ([]models.Document, error) {
	return nil, nil
}

// analysisStore is an in-memory AnalysisRepository.
type analysisStore struct {
	byDocument map[string]*models.DocumentAnalysis
	upsertErr  error
}

func (s *analysisStore) GetByDocument(ctx context.Context, documentID string) (*models.DocumentAnalysis, error) {
	return s.byDocument[documentID], nil
}

func (s *analysisStore) Upsert(ctx context.Context, analysis *models.DocumentAnalysis) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if s.byDocument == nil {
		s.byDocument = make(map[string]*models.DocumentAnalysis)
	}
	s.byDocument[analysis.DocumentID] = analysis
	return nil
}

type countingListener struct{ count int }

func (l *countingListener) Trigger() { l.count++ }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyzeDocument(t *testing.T) {
	docs := &docStore{doc: models.Document{
		ID:                 "d1",
		Title:              "Form 47 - Jane Doe.pdf",
		Metadata:           map[string]any{"extracted_text": "Consumer proposal of Jane Doe"},
		AIProcessingStatus: models.ProcessingPending,
	}}
	extractor := &fakeExtractor{info: &models.ExtractedInfo{
		ClientName: "Jane Doe",
		FormType:   models.FormTypeForm47,
	}}
	analyses := &analysisStore{}
	listener := &countingListener{}

	svc := NewAnalysisService(docs, analyses, extractor, listener, testLogger())

	analysis, err := svc.AnalyzeDocument(context.Background(), "d1")
	if err != nil {
		t.Fatalf("AnalyzeDocument failed: %v", err)
	}

	if extractor.gotTitle != "Form 47 - Jane Doe.pdf" {
		t.Errorf("extractor title = %q", extractor.gotTitle)
	}
	if extractor.gotText != "Consumer proposal of Jane Doe" {
		t.Errorf("extractor text = %q", extractor.gotText)
	}
	if analysis.Content.ExtractedInfo.ClientName != "Jane Doe" {
		t.Errorf("stored client name = %q", analysis.Content.ExtractedInfo.ClientName)
	}

	wantStatuses := []string{models.ProcessingInProgress, models.ProcessingComplete}
	if len(docs.statuses) != 2 || docs.statuses[0] != wantStatuses[0] || docs.statuses[1] != wantStatuses[1] {
		t.Errorf("status transitions = %v, want %v", docs.statuses, wantStatuses)
	}
	if listener.count != 1 {
		t.Errorf("listener triggered %d times, want 1", listener.count)
	}
	if analyses.byDocument["d1"] == nil {
		t.Error("analysis was not stored")
	}
}

func TestAnalyzeDocument_ExtractionFailure(t *testing.T) {
	docs := &docStore{doc: models.Document{ID: "d1", Title: "garbled.pdf"}}
	extractor := &fakeExtractor{err: errors.New("model unavailable")}
	listener := &countingListener{}

	svc := NewAnalysisService(docs, &analysisStore{}, extractor, listener, testLogger())

	if _, err := svc.AnalyzeDocument(context.Background(), "d1"); err == nil {
		t.Fatal("expected error, got nil")
	}

	if docs.doc.AIProcessingStatus != models.ProcessingFailed {
		t.Errorf("status = %q, want %q", docs.doc.AIProcessingStatus, models.ProcessingFailed)
	}
	if listener.count != 0 {
		t.Error("listener must not be triggered on failure")
	}
}

func TestAnalyzeDocument_RejectsFolders(t *testing.T) {
	docs := &docStore{doc: models.Document{ID: "f1", Title: "Jane Doe", IsFolder: true}}
	svc := NewAnalysisService(docs, &analysisStore{}, &fakeExtractor{}, &countingListener{}, testLogger())

	if _, err := svc.AnalyzeDocument(context.Background(), "f1"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want a validation error", err)
	}
	if len(docs.statuses) != 0 {
		t.Error("folder analysis must not touch processing status")
	}
}

func TestGetAnalysis(t *testing.T) {
	stored := &models.DocumentAnalysis{ID: "a1", DocumentID: "d1"}
	analyses := &analysisStore{byDocument: map[string]*models.DocumentAnalysis{"d1": stored}}
	svc := NewAnalysisService(&docStore{}, analyses, &fakeExtractor{}, &countingListener{}, testLogger())

	got, err := svc.GetAnalysis(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if got.ID != "a1" {
		t.Errorf("analysis ID = %q, want a1", got.ID)
	}

	if _, err := svc.GetAnalysis(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
