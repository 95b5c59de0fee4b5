package recommend

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"caseflow/internal/domain/models"
	"caseflow/internal/domain/models/casefile"
	cfRepo "caseflow/internal/domain/repositories/casefile"
	cfSvc "caseflow/internal/domain/services/casefile"
	"caseflow/internal/service/classify"
)

// Engine watches the document collection and holds at most one active
// FolderRecommendation. Collection mutations call Trigger; a periodic
// rescan acts as a backstop. Each scan carries a generation token:
// a scan whose generation is no longer current at publish time is
// discarded, so a stale scan can never overwrite a newer result.
type Engine struct {
	docs       cfRepo.DocumentRepository
	analyses   cfRepo.AnalysisRepository
	tree       cfSvc.TreeService
	classifier *classify.Classifier
	svc        *Service
	interval   time.Duration
	logger     *slog.Logger

	trigger chan struct{}

	mu      sync.Mutex
	gen     uint64
	current *models.FolderRecommendation
	owner   string // user the active recommendation belongs to

	// Last announcement made for a candidate without a target folder, so
	// backstop rescans over an unchanged collection do not repeat the
	// notification and notice. Only the latest candidate is remembered.
	lastDoc string
	lastSig string
}

// NewEngine creates a recommendation engine. Call Run to start scanning.
func NewEngine(
	docs cfRepo.DocumentRepository,
	analyses cfRepo.AnalysisRepository,
	tree cfSvc.TreeService,
	classifier *classify.Classifier,
	svc *Service,
	interval time.Duration,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		docs:       docs,
		analyses:   analyses,
		tree:       tree,
		classifier: classifier,
		svc:        svc,
		interval:   interval,
		logger:     logger,
		trigger:    make(chan struct{}, 1),
	}
}

// Trigger requests a rescan. Non-blocking; concurrent triggers coalesce
// into a single pending scan.
func (e *Engine) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// Run scans until the context is cancelled. Intended to be started once
// as a goroutine from main.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	// Initial scan picks up anything left over from before a restart.
	e.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.trigger:
			e.Scan(ctx)
		case <-ticker.C:
			e.Scan(ctx)
		}
	}
}

// Current returns the active recommendation, or nil when none is active.
func (e *Engine) Current() *models.FolderRecommendation {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	rec := *e.current
	rec.FolderPath = append([]string(nil), e.current.FolderPath...)
	return &rec
}

// Accept performs the move for the active recommendation. On success the
// recommendation is cleared and a rescan is triggered; on failure state
// is left untouched so the user may retry. Returns false when there is no
// active recommendation or the move failed.
func (e *Engine) Accept(ctx context.Context) bool {
	e.mu.Lock()
	rec := e.current
	owner := e.owner
	e.mu.Unlock()

	if rec == nil {
		return false
	}

	path := strings.Join(rec.FolderPath, " > ")
	if !e.svc.MoveDocumentToFolder(ctx, owner, rec.DocumentID, rec.SuggestedFolderID, path) {
		return false
	}

	e.mu.Lock()
	// Only clear if the accepted recommendation is still the active one.
	if e.current == rec {
		e.current = nil
		e.owner = ""
	}
	e.mu.Unlock()

	e.Trigger()
	return true
}

// Dismiss clears the active recommendation unconditionally. No backend
// call and no suppression memory: the same document may be re-recommended
// by a later scan unless its underlying state changes.
func (e *Engine) Dismiss() {
	e.mu.Lock()
	e.current = nil
	e.owner = ""
	e.mu.Unlock()
}

// Scan runs one recommendation pass over the collection. Exported for
// tests; production code goes through Run/Trigger.
func (e *Engine) Scan(ctx context.Context) {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	rows, err := e.docs.List(ctx)
	if err != nil {
		e.logger.Error("recommendation scan: list documents", "error", err)
		return
	}

	// Both collections must be non-empty before any recommendation work.
	var hasDocs, hasFolders bool
	for i := range rows {
		if rows[i].IsFolder {
			hasFolders = true
		} else {
			hasDocs = true
		}
	}
	if !hasDocs || !hasFolders {
		return
	}

	candidate := e.pickCandidate(rows)
	if candidate == nil {
		return
	}

	// No owner means nobody to notify: abort silently, mirroring the
	// unauthenticated case.
	if candidate.UserID == "" {
		e.logger.Debug("recommendation scan: candidate has no owner", "document_id", candidate.ID)
		return
	}
	owner := candidate.UserID

	// Stored analysis is optional; classification degrades to document
	// metadata when the fetch fails or nothing is stored.
	var content *casefile.AnalysisContent
	analysis, err := e.analyses.GetByDocument(ctx, candidate.ID)
	if err != nil {
		e.logger.Warn("recommendation scan: analysis fetch failed", "document_id", candidate.ID, "error", err)
	} else if analysis != nil {
		content = &analysis.Content
	}

	isForm47 := e.classifier.IsForm47(candidate, content)
	isForm76 := e.classifier.IsForm76(candidate, content)
	isFinancial := e.classifier.IsFinancialDocument(candidate)
	clientName := e.classifier.ExtractClientName(candidate, content)

	if clientName == "" {
		category := e.classifier.GenericCategory(candidate, content)
		e.logger.Debug("recommendation scan: no client resolved",
			"document_id", candidate.ID,
			"category", category,
		)
		if e.alreadyAnnounced(candidate.ID, "unclassified:"+category) {
			return
		}
		e.svc.NotifyDocumentTypeNoClient(ctx, owner, category)
		return
	}

	clientFolders, err := e.tree.ClientFolders(ctx)
	if err != nil {
		e.logger.Error("recommendation scan: client folders", "error", err)
		return
	}

	clientFolder := findClientFolder(clientFolders, clientName)
	if clientFolder == nil {
		if e.alreadyAnnounced(candidate.ID, "new-client:"+clientName) {
			return
		}
		e.svc.SuggestNewClientFolder(ctx, owner, candidate.ID, clientName)
		return
	}

	match := e.classifier.FindAppropriateSubfolder(clientFolder, isForm47, isForm76, isFinancial)

	rec := &models.FolderRecommendation{
		DocumentID:        candidate.ID,
		SuggestedFolderID: match.TargetFolderID,
		DocumentTitle:     candidate.Title,
		FolderPath:        match.FolderPath,
	}

	installed, changed := e.publish(gen, owner, rec)
	if !installed {
		e.logger.Debug("recommendation scan: stale generation discarded",
			"document_id", candidate.ID,
			"generation", gen,
		)
		return
	}
	if !changed {
		// Backstop rescan re-derived the active recommendation; it was
		// already announced, so stay silent.
		return
	}

	if match.SuggestedSubfolderName != "" {
		e.svc.SuggestNewSubfolder(ctx, owner, match.SuggestedSubfolderName, clientFolder.Name)
	}
	e.svc.NotifyFolderRecommendation(ctx, owner, candidate.ID, candidate.Title,
		match.TargetFolderID, strings.Join(match.FolderPath, " > "))
}

// alreadyAnnounced reports whether the same suggestion was already made
// for the document, and records it otherwise. A dismissal does not clear
// this memory; recommendations with a target folder are deduplicated
// against the active recommendation instead, so dismissing one still
// allows it to be re-announced by a later scan.
func (e *Engine) alreadyAnnounced(docID, sig string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastDoc == docID && e.lastSig == sig {
		return true
	}
	e.lastDoc = docID
	e.lastSig = sig
	return false
}

// pickCandidate selects the first document, in collection order, that is
// not a folder, has no parent, and has completed AI processing. Later
// qualifying documents wait for the next scan.
func (e *Engine) pickCandidate(rows []casefile.Document) *casefile.Document {
	for i := range rows {
		doc := &rows[i]
		if doc.IsFolder || doc.ParentFolderID != nil {
			continue
		}
		if doc.AIProcessingStatus != casefile.ProcessingComplete {
			continue
		}
		return doc
	}
	return nil
}

// publish installs the recommendation if gen is still the newest scan.
// A new recommendation overwrites any existing one - never queued. The
// second result reports whether the recommendation differs from the one
// that was active, so an unchanged rescan can skip re-announcing it.
func (e *Engine) publish(gen uint64, owner string, rec *models.FolderRecommendation) (installed, changed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return false, false
	}
	changed = e.current == nil ||
		e.current.DocumentID != rec.DocumentID ||
		e.current.SuggestedFolderID != rec.SuggestedFolderID
	e.current = rec
	e.owner = owner
	return true, changed
}

// findClientFolder matches by exact case-insensitive name equality only.
// No fuzzy matching: "Jane  Doe" does not match "Jane Doe".
func findClientFolder(folders []casefile.FolderStructure, clientName string) *casefile.FolderStructure {
	for i := range folders {
		if strings.EqualFold(folders[i].Name, clientName) {
			return &folders[i]
		}
	}
	return nil
}
