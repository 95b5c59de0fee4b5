package casefile

import (
	"context"
	"errors"
	"testing"

	"caseflow/internal/domain"
	models "caseflow/internal/domain/models/casefile"
	cfSvc "caseflow/internal/domain/services/casefile"
	"caseflow/internal/httputil"
)

func TestCreateDocument(t *testing.T) {
	repo := &memRepo{}
	listener := &fakeListener{}
	svc := NewDocumentService(repo, listener, discardLogger())

	doc, err := svc.CreateDocument(context.Background(), &cfSvc.CreateDocumentRequest{
		UserID: "user-1",
		Title:  "Form 47 - Jane Doe.pdf",
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	if doc.IsFolder {
		t.Error("created row is a folder")
	}
	if doc.ParentFolderID != nil {
		t.Error("new documents must start uncategorized")
	}
	if doc.AIProcessingStatus != models.ProcessingPending {
		t.Errorf("processing status = %q, want %q", doc.AIProcessingStatus, models.ProcessingPending)
	}
	if listener.triggered() != 1 {
		t.Errorf("listener triggered %d times, want 1", listener.triggered())
	}
}

func TestCreateDocument_ParentMustBeFolder(t *testing.T) {
	repo := &memRepo{}
	doc := repo.seed(models.Document{Title: "loose.pdf"})
	svc := NewDocumentService(repo, &fakeListener{}, discardLogger())

	_, err := svc.CreateDocument(context.Background(), &cfSvc.CreateDocumentRequest{
		UserID:         "user-1",
		Title:          "new.pdf",
		ParentFolderID: &doc.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want a validation error", err)
	}
}

func TestUpdateDocument_TriStateParent(t *testing.T) {
	repo := &memRepo{}
	folder := repo.seed(models.Document{Title: "Jane Doe", IsFolder: true, FolderType: models.FolderTypeClient})
	doc := repo.seed(models.Document{Title: "loose.pdf", ParentFolderID: &folder.ID})
	svc := NewDocumentService(repo, &fakeListener{}, discardLogger())

	t.Run("absent field leaves parent alone", func(t *testing.T) {
		got, err := svc.UpdateDocument(context.Background(), doc.ID, &cfSvc.UpdateDocumentRequest{
			Title: strPtr("renamed.pdf"),
		})
		if err != nil {
			t.Fatalf("UpdateDocument failed: %v", err)
		}
		if got.Title != "renamed.pdf" {
			t.Errorf("title = %q, want renamed.pdf", got.Title)
		}
		if got.ParentFolderID == nil || *got.ParentFolderID != folder.ID {
			t.Errorf("parent = %v, want unchanged %q", got.ParentFolderID, folder.ID)
		}
	})

	t.Run("null moves back to uncategorized", func(t *testing.T) {
		got, err := svc.UpdateDocument(context.Background(), doc.ID, &cfSvc.UpdateDocumentRequest{
			ParentFolderID: httputil.OptionalString{Present: true, Value: nil},
		})
		if err != nil {
			t.Fatalf("UpdateDocument failed: %v", err)
		}
		if got.ParentFolderID != nil {
			t.Errorf("parent = %v, want nil", got.ParentFolderID)
		}
	})

	t.Run("value moves into that folder", func(t *testing.T) {
		got, err := svc.UpdateDocument(context.Background(), doc.ID, &cfSvc.UpdateDocumentRequest{
			ParentFolderID: httputil.OptionalString{Present: true, Value: &folder.ID},
		})
		if err != nil {
			t.Fatalf("UpdateDocument failed: %v", err)
		}
		if got.ParentFolderID == nil || *got.ParentFolderID != folder.ID {
			t.Errorf("parent = %v, want %q", got.ParentFolderID, folder.ID)
		}
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		_, err := svc.UpdateDocument(context.Background(), doc.ID, &cfSvc.UpdateDocumentRequest{})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("got %v, want a validation error", err)
		}
	})
}

func TestUpdateDocument_RejectsFolders(t *testing.T) {
	repo := &memRepo{}
	folder := repo.seed(models.Document{Title: "Jane Doe", IsFolder: true, FolderType: models.FolderTypeClient})
	svc := NewDocumentService(repo, &fakeListener{}, discardLogger())

	_, err := svc.UpdateDocument(context.Background(), folder.ID, &cfSvc.UpdateDocumentRequest{
		Title: strPtr("renamed"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want a validation error", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	repo := &memRepo{}
	doc := repo.seed(models.Document{Title: "loose.pdf"})
	folder := repo.seed(models.Document{Title: "Jane Doe", IsFolder: true, FolderType: models.FolderTypeClient})
	listener := &fakeListener{}
	svc := NewDocumentService(repo, listener, discardLogger())

	if err := svc.DeleteDocument(context.Background(), doc.ID); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if listener.triggered() != 1 {
		t.Errorf("listener triggered %d times, want 1", listener.triggered())
	}

	// Folders go through the folder service.
	if err := svc.DeleteDocument(context.Background(), folder.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want a validation error", err)
	}
}
