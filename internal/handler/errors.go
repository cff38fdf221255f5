package handler

import (
	"errors"
	"net/http"

	"docjays/internal/domain"
	"docjays/internal/httputil"
)

// handleError maps engine errors to problem-details responses. Lifecycle
// refusals carry a machine-readable code so callers can distinguish "rebase
// first" from "retry the request" without parsing the detail string.
func (h *RevisionHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var conflicted *domain.ConflictedRevisionError
	if errors.As(err, &conflicted) {
		extras := map[string]interface{}{"code": "revision_conflicted"}
		if conflicted.ConflictsWith != "" {
			extras["conflicts_with"] = conflicted.ConflictsWith
		}
		httputil.RespondErrorWithExtras(w, conflicted.StatusCode(), conflicted.Error(), extras)
		return
	}

	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) {
		httputil.RespondErrorWithExtras(w, invalid.StatusCode(), invalid.Error(), map[string]interface{}{
			"code":   "invalid_transition",
			"status": invalid.Status,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrConcurrentModification):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, err.Error(), map[string]interface{}{
			"code":      "concurrent_modification",
			"retryable": true,
		})
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
