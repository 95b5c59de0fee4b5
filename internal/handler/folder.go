package handler

import (
	"log/slog"
	"net/http"

	cfSvc "caseflow/internal/domain/services/casefile"
	"caseflow/internal/httputil"
)

// FolderHandler handles folder management HTTP requests
type FolderHandler struct {
	folderService cfSvc.FolderService
	treeService   cfSvc.TreeService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService cfSvc.FolderService, treeService cfSvc.TreeService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		treeService:   treeService,
		logger:        logger,
	}
}

// CreateFolder creates a new folder
// POST /api/folders
// Returns 201 if created, 409 if a sibling with the same name exists
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req cfSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// DeleteFolder deletes a folder and all its contents
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder ID is required")
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MergeFolders merges one folder into another
// POST /api/folders/merge
func (h *FolderHandler) MergeFolders(w http.ResponseWriter, r *http.Request) {
	var req cfSvc.MergeFoldersRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := h.folderService.MergeFolders(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, target)
}

// SearchForms searches non-folder documents by title
// GET /api/forms/search?q=...
func (h *FolderHandler) SearchForms(w http.ResponseWriter, r *http.Request) {
	docs, err := h.folderService.SearchForms(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetTree returns the nested folder tree projection
// GET /api/tree
func (h *FolderHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.treeService.BuildTree(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
