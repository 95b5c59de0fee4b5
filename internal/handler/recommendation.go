package handler

import (
	"log/slog"
	"net/http"

	"caseflow/internal/httputil"
	"caseflow/internal/service/recommend"
)

// RecommendationHandler exposes the recommendation engine's state and
// accept/dismiss actions.
type RecommendationHandler struct {
	engine *recommend.Engine
	logger *slog.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(engine *recommend.Engine, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		engine: engine,
		logger: logger,
	}
}

type recommendationResponse struct {
	Active         bool `json:"active"`
	Recommendation any  `json:"recommendation"`
}

// GetRecommendation returns the active recommendation, if any
// GET /api/recommendation
func (h *RecommendationHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	rec := h.engine.Current()
	httputil.RespondJSON(w, http.StatusOK, recommendationResponse{
		Active:         rec != nil,
		Recommendation: rec,
	})
}

// AcceptRecommendation performs the suggested move. A failed move leaves
// the recommendation active so the user may retry.
// POST /api/recommendation/accept
func (h *RecommendationHandler) AcceptRecommendation(w http.ResponseWriter, r *http.Request) {
	rec := h.engine.Current()
	if rec == nil {
		httputil.RespondError(w, http.StatusNotFound, "no active recommendation")
		return
	}

	if !h.engine.Accept(r.Context()) {
		httputil.RespondError(w, http.StatusBadGateway, "move failed, recommendation kept for retry")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"moved":       true,
		"document_id": rec.DocumentID,
		"folder_id":   rec.SuggestedFolderID,
	})
}

// DismissRecommendation clears the active recommendation. No backend
// call, no suppression: the same document may resurface on a later scan.
// POST /api/recommendation/dismiss
func (h *RecommendationHandler) DismissRecommendation(w http.ResponseWriter, r *http.Request) {
	h.engine.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
