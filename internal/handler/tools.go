package handler

import (
	"log/slog"
	"net/http"

	"docjays/internal/httputil"
	"docjays/internal/service/tools"
)

// ToolsHandler exposes the engine's named tools to the assistant
// orchestration layer, which relays tool calls from the model verbatim.
type ToolsHandler struct {
	registry *tools.ToolRegistry
	logger   *slog.Logger
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(registry *tools.ToolRegistry, logger *slog.Logger) *ToolsHandler {
	return &ToolsHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListTools returns the registered tool names
// GET /api/tools
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tools": h.registry.Names(),
	})
}

// ExecuteTool runs a single named tool call
// POST /api/tools/execute
func (h *ToolsHandler) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	var call tools.ToolCall
	if err := httputil.ParseJSON(w, r, &call); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if call.Name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tool name is required")
		return
	}

	result := h.registry.Execute(r.Context(), call)
	if result.IsError {
		h.logger.Warn("tool execution failed",
			"tool", call.Name,
			"error", result.Error,
		)
		httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"id":       result.ID,
			"name":     result.Name,
			"is_error": true,
			"error":    result.Error.Error(),
		})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       result.ID,
		"name":     result.Name,
		"is_error": false,
		"result":   result.Result,
	})
}
