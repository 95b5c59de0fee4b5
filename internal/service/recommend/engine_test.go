package recommend

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"caseflow/internal/domain/models"
	"caseflow/internal/domain/models/casefile"
	"caseflow/internal/service/classify"
)

// fakeDocRepo is an in-memory DocumentRepository.
type fakeDocRepo struct {
	mu   sync.Mutex
	docs []casefile.Document
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *casefile.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *fakeDocRepo) GetByID(ctx context.Context, id string) (*casefile.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.docs {
		if f.docs[i].ID == id {
			doc := f.docs[i]
			return &doc, nil
		}
	}
	return nil, nil
}

func (f *fakeDocRepo) Update(ctx context.Context, doc *casefile.Document) error { return nil }
func (f *fakeDocRepo) Delete(ctx context.Context, id string) error              { return nil }

func (f *fakeDocRepo) List(ctx context.Context) ([]casefile.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]casefile.Document(nil), f.docs...), nil
}

func (f *fakeDocRepo) ListChildren(ctx context.Context, folderID *string) ([]casefile.Document, error) {
	return nil, nil
}

func (f *fakeDocRepo) SetParentFolder(ctx context.Context, documentID string, folderID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.docs {
		if f.docs[i].ID == documentID {
			f.docs[i].ParentFolderID = folderID
		}
	}
	return nil
}

func (f *fakeDocRepo) ReparentChildren(ctx context.Context, fromID, toID string) error { return nil }

func (f *fakeDocRepo) SetProcessingStatus(ctx context.Context, documentID, status string) error {
	return nil
}

func (f *fakeDocRepo) SearchByTitle(ctx context.Context, query string) ([]casefile.Document, error) {
	return nil, nil
}

// fakeAnalysisRepo serves stored analyses from a map.
type fakeAnalysisRepo struct {
	analyses map[string]*casefile.DocumentAnalysis
}

func (f *fakeAnalysisRepo) GetByDocument(ctx context.Context, documentID string) (*casefile.DocumentAnalysis, error) {
	return f.analyses[documentID], nil
}

func (f *fakeAnalysisRepo) Upsert(ctx context.Context, analysis *casefile.DocumentAnalysis) error {
	return nil
}

type engineFixture struct {
	engine        *Engine
	docs          *fakeDocRepo
	notifications *fakeNotifications
	notifier      *fakeNotifier
	mover         *fakeMover
}

func newEngineFixture(t *testing.T, docs []casefile.Document, analyses map[string]*casefile.DocumentAnalysis, clients []casefile.FolderStructure) *engineFixture {
	t.Helper()

	rules, err := classify.LoadRules()
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}

	notifications := &fakeNotifications{}
	notifier := &fakeNotifier{}
	mover := &fakeMover{}
	docRepo := &fakeDocRepo{docs: docs}

	svc := NewService(notifications, notifier, mover, testLogger())
	engine := NewEngine(
		docRepo,
		&fakeAnalysisRepo{analyses: analyses},
		&fakeTree{clients: clients},
		classify.NewClassifier(rules),
		svc,
		time.Minute,
		testLogger(),
	)

	return &engineFixture{
		engine:        engine,
		docs:          docRepo,
		notifications: notifications,
		notifier:      notifier,
		mover:         mover,
	}
}

func janeDoeFixture(t *testing.T) *engineFixture {
	t.Helper()

	formsID := "f2"
	docs := []casefile.Document{
		{ID: "f1", UserID: "user-1", Title: "Jane Doe", IsFolder: true, FolderType: casefile.FolderTypeClient},
		{ID: "f2", UserID: "user-1", Title: "Forms", IsFolder: true, FolderType: casefile.FolderTypeForm, ParentFolderID: strPtr("f1")},
		{ID: "d1", UserID: "user-1", Title: "Form 47 - Jane Doe.pdf", AIProcessingStatus: casefile.ProcessingComplete},
	}
	analyses := map[string]*casefile.DocumentAnalysis{
		"d1": {
			ID:         "a1",
			DocumentID: "d1",
			Content: casefile.AnalysisContent{
				ExtractedInfo: casefile.ExtractedInfo{
					ClientName: "Jane Doe",
					FormType:   casefile.FormTypeForm47,
				},
			},
		},
	}
	clients := []casefile.FolderStructure{
		{
			ID:   "f1",
			Name: "Jane Doe",
			Type: casefile.FolderTypeClient,
			Children: []casefile.FolderStructure{
				{ID: formsID, Name: "Forms", Type: casefile.FolderTypeForm},
			},
		},
	}

	return newEngineFixture(t, docs, analyses, clients)
}

func strPtr(s string) *string { return &s }

func TestEngineScan_RecommendsSubfolder(t *testing.T) {
	fx := janeDoeFixture(t)

	fx.engine.Scan(context.Background())

	rec := fx.engine.Current()
	if rec == nil {
		t.Fatal("no active recommendation after scan")
	}
	want := &models.FolderRecommendation{
		DocumentID:        "d1",
		SuggestedFolderID: "f2",
		DocumentTitle:     "Form 47 - Jane Doe.pdf",
		FolderPath:        []string{"Jane Doe", "Forms"},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("recommendation = %+v, want %+v", rec, want)
	}

	// A persisted notification and a notice announce the recommendation.
	created := fx.notifications.all()
	if len(created) != 1 || created[0].ActionType != models.ActionFolderRecommendation {
		t.Errorf("notifications = %+v, want one folderRecommendation", created)
	}
	if len(fx.notifier.all()) != 1 {
		t.Errorf("got %d notices, want 1", len(fx.notifier.all()))
	}
}

func TestEngineScan_Idempotent(t *testing.T) {
	fx := janeDoeFixture(t)

	fx.engine.Scan(context.Background())
	first := fx.engine.Current()
	fx.engine.Scan(context.Background())
	second := fx.engine.Current()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second scan changed the recommendation: %+v vs %+v", first, second)
	}
	// A rescan over an unchanged collection must not repeat the
	// announcement: one notification and one notice total.
	if got := len(fx.notifications.all()); got != 1 {
		t.Errorf("got %d notifications after rescans, want 1", got)
	}
	if got := len(fx.notifier.all()); got != 1 {
		t.Errorf("got %d notices after rescans, want 1", got)
	}
}

func TestEngineAccept(t *testing.T) {
	fx := janeDoeFixture(t)
	fx.engine.Scan(context.Background())

	if !fx.engine.Accept(context.Background()) {
		t.Fatal("Accept returned false, want true")
	}

	moves := fx.mover.all()
	if len(moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(moves))
	}
	if moves[0].documentID != "d1" || moves[0].folderID == nil || *moves[0].folderID != "f2" {
		t.Errorf("move = %+v, want d1 -> f2", moves[0])
	}

	if fx.engine.Current() != nil {
		t.Error("recommendation should be cleared after a successful accept")
	}
	// Accept queues a rescan for the next candidate.
	if len(fx.engine.trigger) != 1 {
		t.Error("Accept should trigger a rescan")
	}
}

func TestEngineAccept_MoveFailureKeepsRecommendation(t *testing.T) {
	fx := janeDoeFixture(t)
	fx.engine.Scan(context.Background())
	fx.mover.moveErr = context.DeadlineExceeded

	if fx.engine.Accept(context.Background()) {
		t.Fatal("Accept returned true, want false")
	}
	if fx.engine.Current() == nil {
		t.Error("recommendation should survive a failed move so the user can retry")
	}
}

func TestEngineAccept_NoActiveRecommendation(t *testing.T) {
	fx := janeDoeFixture(t)

	if fx.engine.Accept(context.Background()) {
		t.Fatal("Accept with no active recommendation returned true")
	}
	if len(fx.mover.all()) != 0 {
		t.Error("Accept with no recommendation must not call the mover")
	}
}

func TestEngineDismiss(t *testing.T) {
	fx := janeDoeFixture(t)
	fx.engine.Scan(context.Background())

	fx.engine.Dismiss()

	if fx.engine.Current() != nil {
		t.Error("recommendation should be cleared after dismiss")
	}
	if len(fx.mover.all()) != 0 {
		t.Error("dismiss must not call the backend")
	}

	// No suppression memory: the next scan recommends the same document
	// and announces it again.
	fx.engine.Scan(context.Background())
	if fx.engine.Current() == nil {
		t.Error("dismissed document should be re-recommended by a later scan")
	}
	if got := len(fx.notifications.all()); got != 2 {
		t.Errorf("got %d notifications, want 2 (re-announced after dismiss)", got)
	}
}

func TestEngineScan_NoClientResolved(t *testing.T) {
	docs := []casefile.Document{
		{ID: "f1", UserID: "user-1", Title: "Misc", IsFolder: true, FolderType: casefile.FolderTypeGeneral},
		{ID: "d1", UserID: "user-1", Title: "misc.pdf", AIProcessingStatus: casefile.ProcessingComplete},
	}
	fx := newEngineFixture(t, docs, nil, nil)

	fx.engine.Scan(context.Background())

	if fx.engine.Current() != nil {
		t.Error("no recommendation should be published without a client")
	}
	notices := fx.notifier.all()
	if len(notices) != 1 {
		t.Fatalf("got %d notices, want 1", len(notices))
	}
	if notices[0].Title != "Document classified" {
		t.Errorf("notice title = %q, want Document classified", notices[0].Title)
	}

	// Unchanged document, unchanged category: the notice is not repeated.
	fx.engine.Scan(context.Background())
	if got := len(fx.notifier.all()); got != 1 {
		t.Errorf("got %d notices after rescan, want 1", got)
	}
}

func TestEngineScan_SuggestsNewClientFolder(t *testing.T) {
	docs := []casefile.Document{
		{ID: "f1", UserID: "user-1", Title: "Jane Doe", IsFolder: true, FolderType: casefile.FolderTypeClient},
		{
			ID: "d1", UserID: "user-1", Title: "Form 47 - John Smith.pdf",
			AIProcessingStatus: casefile.ProcessingComplete,
			Metadata:           map[string]any{"client_name": "John Smith"},
		},
	}
	clients := []casefile.FolderStructure{
		{ID: "f1", Name: "Jane Doe", Type: casefile.FolderTypeClient},
	}
	fx := newEngineFixture(t, docs, nil, clients)

	fx.engine.Scan(context.Background())

	if fx.engine.Current() != nil {
		t.Error("no recommendation should be published when the client folder is missing")
	}
	created := fx.notifications.all()
	if len(created) != 1 || created[0].ActionType != models.ActionCreateClientFolder {
		t.Errorf("notifications = %+v, want one create_client_folder", created)
	}

	// The same suggestion is not re-inserted on a backstop rescan.
	fx.engine.Scan(context.Background())
	if got := len(fx.notifications.all()); got != 1 {
		t.Errorf("got %d notifications after rescan, want 1", got)
	}
}

func TestEngineScan_SubfolderMissingTargetsClientRoot(t *testing.T) {
	docs := []casefile.Document{
		{ID: "f1", UserID: "user-1", Title: "Jane Doe", IsFolder: true, FolderType: casefile.FolderTypeClient},
		{
			ID: "d1", UserID: "user-1", Title: "budget_2024.xlsx",
			AIProcessingStatus: casefile.ProcessingComplete,
			Metadata:           map[string]any{"client_name": "Jane Doe"},
		},
	}
	clients := []casefile.FolderStructure{
		{ID: "f1", Name: "Jane Doe", Type: casefile.FolderTypeClient},
	}
	fx := newEngineFixture(t, docs, nil, clients)

	fx.engine.Scan(context.Background())

	rec := fx.engine.Current()
	if rec == nil {
		t.Fatal("no active recommendation after scan")
	}
	if rec.SuggestedFolderID != "f1" {
		t.Errorf("SuggestedFolderID = %q, want the client folder f1", rec.SuggestedFolderID)
	}

	var sawSubfolderNotice bool
	for _, n := range fx.notifier.all() {
		if n.Title == "Subfolder suggested" {
			sawSubfolderNotice = true
		}
	}
	if !sawSubfolderNotice {
		t.Error("missing subfolder should raise a subfolder suggestion notice")
	}
}

func TestEngineScan_RequiresDocumentsAndFolders(t *testing.T) {
	tests := []struct {
		name string
		docs []casefile.Document
	}{
		{name: "empty collection", docs: nil},
		{
			name: "documents only",
			docs: []casefile.Document{
				{ID: "d1", UserID: "user-1", Title: "Form 47.pdf", AIProcessingStatus: casefile.ProcessingComplete},
			},
		},
		{
			name: "folders only",
			docs: []casefile.Document{
				{ID: "f1", UserID: "user-1", Title: "Jane Doe", IsFolder: true, FolderType: casefile.FolderTypeClient},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newEngineFixture(t, tt.docs, nil, nil)
			fx.engine.Scan(context.Background())

			if fx.engine.Current() != nil {
				t.Error("scan published a recommendation")
			}
			if len(fx.notifier.all()) != 0 {
				t.Error("scan raised notices")
			}
		})
	}
}

func TestEngineScan_SkipsIneligibleDocuments(t *testing.T) {
	docs := []casefile.Document{
		{ID: "f1", UserID: "user-1", Title: "Jane Doe", IsFolder: true, FolderType: casefile.FolderTypeClient},
		{ID: "d0", UserID: "user-1", Title: "filed.pdf", ParentFolderID: strPtr("f1"), AIProcessingStatus: casefile.ProcessingComplete},
		{ID: "d1", UserID: "user-1", Title: "pending.pdf", AIProcessingStatus: casefile.ProcessingPending},
		{
			ID: "d2", UserID: "user-1", Title: "budget.xlsx",
			AIProcessingStatus: casefile.ProcessingComplete,
			Metadata:           map[string]any{"client_name": "Jane Doe"},
		},
	}
	clients := []casefile.FolderStructure{
		{ID: "f1", Name: "Jane Doe", Type: casefile.FolderTypeClient},
	}
	fx := newEngineFixture(t, docs, nil, clients)

	fx.engine.Scan(context.Background())

	rec := fx.engine.Current()
	if rec == nil {
		t.Fatal("no active recommendation after scan")
	}
	if rec.DocumentID != "d2" {
		t.Errorf("candidate = %q, want d2 (first unfiled, fully-processed document)", rec.DocumentID)
	}
}

func TestEngineScan_NoOwnerAbortsSilently(t *testing.T) {
	docs := []casefile.Document{
		{ID: "f1", Title: "Jane Doe", IsFolder: true, FolderType: casefile.FolderTypeClient},
		{ID: "d1", Title: "Form 47 - Jane Doe.pdf", AIProcessingStatus: casefile.ProcessingComplete},
	}
	fx := newEngineFixture(t, docs, nil, nil)

	fx.engine.Scan(context.Background())

	if fx.engine.Current() != nil {
		t.Error("scan published a recommendation for an ownerless document")
	}
	if len(fx.notifier.all()) != 0 || len(fx.notifications.all()) != 0 {
		t.Error("ownerless candidate must not produce notices or notifications")
	}
}

func TestEngineCurrent_ReturnsCopy(t *testing.T) {
	fx := janeDoeFixture(t)
	fx.engine.Scan(context.Background())

	rec := fx.engine.Current()
	rec.FolderPath[0] = "mutated"

	if fx.engine.Current().FolderPath[0] != "Jane Doe" {
		t.Error("mutating the returned recommendation leaked into engine state")
	}
}

func TestEnginePublish_DiscardsStaleGeneration(t *testing.T) {
	fx := janeDoeFixture(t)
	e := fx.engine

	e.mu.Lock()
	e.gen = 5
	e.mu.Unlock()

	rec := &models.FolderRecommendation{DocumentID: "d1"}
	if installed, _ := e.publish(4, "user-1", rec); installed {
		t.Error("stale generation was published")
	}
	if e.Current() != nil {
		t.Error("stale publish left state behind")
	}
	installed, changed := e.publish(5, "user-1", rec)
	if !installed {
		t.Error("current generation was rejected")
	}
	if !changed {
		t.Error("first publish should report a changed recommendation")
	}
	if _, changed := e.publish(5, "user-1", rec); changed {
		t.Error("re-publishing the same recommendation should report unchanged")
	}
}

func TestEngineTrigger_Coalesces(t *testing.T) {
	fx := janeDoeFixture(t)

	fx.engine.Trigger()
	fx.engine.Trigger()
	fx.engine.Trigger()

	if len(fx.engine.trigger) != 1 {
		t.Errorf("trigger channel depth = %d, want 1", len(fx.engine.trigger))
	}
}

func TestEngineRun_ScansOnTrigger(t *testing.T) {
	fx := janeDoeFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		fx.engine.Run(ctx)
		close(done)
	}()

	// Run performs an initial scan before waiting on triggers.
	deadline := time.After(2 * time.Second)
	for fx.engine.Current() == nil {
		select {
		case <-deadline:
			t.Fatal("Run never published a recommendation")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestFindClientFolder(t *testing.T) {
	folders := []casefile.FolderStructure{
		{ID: "f1", Name: "Jane Doe"},
		{ID: "f2", Name: "John Smith"},
	}

	tests := []struct {
		name   string
		query  string
		wantID string
	}{
		{name: "exact match", query: "Jane Doe", wantID: "f1"},
		{name: "case-insensitive", query: "jane doe", wantID: "f1"},
		{name: "whitespace is significant", query: "Jane  Doe", wantID: ""},
		{name: "no partial match", query: "Jane", wantID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findClientFolder(folders, tt.query)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("findClientFolder(%q) = %+v, want nil", tt.query, got)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("findClientFolder(%q) = %+v, want ID %q", tt.query, got, tt.wantID)
			}
		})
	}
}
