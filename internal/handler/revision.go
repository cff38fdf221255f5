package handler

import (
	"log/slog"
	"net/http"
	"time"

	"docjays/internal/domain/services"
	"docjays/internal/httputil"
)

// RevisionHandler exposes the revision engine over HTTP JSON. It owns no
// business logic; every rule lives in the revision service.
type RevisionHandler struct {
	revisionService services.RevisionService
	logger          *slog.Logger
}

// NewRevisionHandler creates a new revision handler
func NewRevisionHandler(revisionService services.RevisionService, logger *slog.Logger) *RevisionHandler {
	return &RevisionHandler{
		revisionService: revisionService,
		logger:          logger,
	}
}

// CreateRevision creates a new revision against a document
// POST /api/revisions
func (h *RevisionHandler) CreateRevision(w http.ResponseWriter, r *http.Request) {
	var req services.CreateRevisionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Transport metadata wins over whatever the body claims
	if client := httputil.GetSourceClient(r); client != "" {
		req.SourceClient = client
	}

	rev, err := h.revisionService.CreateRevision(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rev)
}

// ProposeRevision submits a draft for review
// POST /api/revisions/{id}/propose
func (h *RevisionHandler) ProposeRevision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "revision ID is required")
		return
	}

	rev, err := h.revisionService.ProposeRevision(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rev)
}

// ApproveRevision makes a proposed revision the document's main revision
// POST /api/revisions/{id}/approve
func (h *RevisionHandler) ApproveRevision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "revision ID is required")
		return
	}

	rev, err := h.revisionService.ApproveRevision(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rev)
}

// RejectRevision terminally rejects a revision, with an optional note
// POST /api/revisions/{id}/reject
func (h *RevisionHandler) RejectRevision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "revision ID is required")
		return
	}

	// Body is optional; a bare POST is a rejection without a note
	var req services.RejectRevisionRequest
	if r.ContentLength != 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rev, err := h.revisionService.RejectRevision(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rev)
}

// RebaseRevision re-anchors a revision onto the current main revision
// POST /api/revisions/{id}/rebase
func (h *RevisionHandler) RebaseRevision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "revision ID is required")
		return
	}

	rev, err := h.revisionService.RebaseRevision(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rev)
}

// GetRevision retrieves a full revision record
// GET /api/revisions/{id}
func (h *RevisionHandler) GetRevision(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "revision ID is required")
		return
	}

	rev, err := h.revisionService.GetRevision(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rev)
}

// GetRevisionStatus retrieves a status summary with a live conflict check
// GET /api/revisions/{id}/status
func (h *RevisionHandler) GetRevisionStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "revision ID is required")
		return
	}

	summary, err := h.revisionService.GetRevisionStatus(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}

// ListRevisions lists a document's revisions oldest first
// GET /api/documents/{id}/revisions
func (h *RevisionHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	revs, err := h.revisionService.ListRevisions(r.Context(), documentID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": documentID,
		"revisions":   revs,
		"total":       len(revs),
	})
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *RevisionHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
