package casefile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"caseflow/internal/domain"
	models "caseflow/internal/domain/models/casefile"
	"caseflow/internal/domain/repositories"
)

// memRepo is an in-memory DocumentRepository for service tests.
type memRepo struct {
	mu     sync.Mutex
	nextID int
	docs   []models.Document
}

func (r *memRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == "" {
		r.nextID++
		doc.ID = fmt.Sprintf("id-%d", r.nextID)
	}
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ID == id {
			doc := r.docs[i]
			return &doc, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "document not found"}
}

func (r *memRepo) Update(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ID == doc.ID {
			r.docs[i] = *doc
			return nil
		}
	}
	return &domain.NotFoundError{Message: "document not found"}
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{Message: "document not found"}
}

func (r *memRepo) List(ctx context.Context) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Document(nil), r.docs...), nil
}

func (r *memRepo) ListChildren(ctx context.Context, folderID *string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for i := range r.docs {
		if sameParent(r.docs[i].ParentFolderID, folderID) {
			out = append(out, r.docs[i])
		}
	}
	return out, nil
}

func (r *memRepo) SetParentFolder(ctx context.Context, documentID string, folderID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ID == documentID {
			r.docs[i].ParentFolderID = folderID
			return nil
		}
	}
	return &domain.NotFoundError{Message: "document not found"}
}

func (r *memRepo) ReparentChildren(ctx context.Context, fromID, toID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ParentFolderID != nil && *r.docs[i].ParentFolderID == fromID {
			to := toID
			r.docs[i].ParentFolderID = &to
		}
	}
	return nil
}

func (r *memRepo) SetProcessingStatus(ctx context.Context, documentID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ID == documentID {
			r.docs[i].AIProcessingStatus = status
			return nil
		}
	}
	return &domain.NotFoundError{Message: "document not found"}
}

func (r *memRepo) SearchByTitle(ctx context.Context, query string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for i := range r.docs {
		if r.docs[i].IsFolder {
			continue
		}
		if strings.Contains(strings.ToLower(r.docs[i].Title), strings.ToLower(query)) {
			out = append(out, r.docs[i])
		}
	}
	return out, nil
}

// seed inserts a row directly, bypassing service validation.
func (r *memRepo) seed(doc models.Document) models.Document {
	_ = r.Create(context.Background(), &doc)
	return doc
}

// passTxManager runs the function directly; memRepo has no real
// transactions to coordinate.
type passTxManager struct{}

func (passTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeListener counts Trigger calls.
type fakeListener struct {
	mu    sync.Mutex
	count int
}

func (l *fakeListener) Trigger() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
}

func (l *fakeListener) triggered() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
