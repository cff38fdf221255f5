package tools

import (
	"context"
	"errors"
	"fmt"

	"docjays/internal/domain"
	"docjays/internal/domain/models"
	"docjays/internal/domain/services"
)

// assistantClient is the source_client stamped on revisions created through
// the tool protocol.
const assistantClient = "assistant"

// RegisterRevisionTools registers the revision engine's operations as named
// tools with the provided registry. Revisions created through these tools
// are attributed to an AI author.
func RegisterRevisionTools(registry *ToolRegistry, svc services.RevisionService) {
	registry.Register("revision_create", &CreateRevisionTool{svc: svc})
	registry.Register("revision_propose", &ProposeRevisionTool{svc: svc})
	registry.Register("revision_status", &RevisionStatusTool{svc: svc})
	registry.Register("revision_list", &ListRevisionsTool{svc: svc})
	registry.Register("revision_rebase", &RebaseRevisionTool{svc: svc})
}

// CreateRevisionTool implements the 'revision_create' tool.
type CreateRevisionTool struct {
	svc services.RevisionService
}

// Execute implements ToolExecutor.
// Input parameters:
//   - document_id (string, required)
//   - content (string, required): full replacement text, not a diff
//   - title (string, required)
//   - description (string): optional
//   - status (string): "draft" (default) or "proposed"
//   - based_on (string): optional base revision id override
func (t *CreateRevisionTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	documentID, ok := input["document_id"].(string)
	if !ok || documentID == "" {
		return nil, errors.New("missing required parameter: document_id")
	}
	content, ok := input["content"].(string)
	if !ok || content == "" {
		return nil, errors.New("missing required parameter: content")
	}
	title, ok := input["title"].(string)
	if !ok || title == "" {
		return nil, errors.New("missing required parameter: title")
	}

	req := &services.CreateRevisionRequest{
		DocumentID:   documentID,
		Title:        title,
		Content:      content,
		AuthorType:   string(models.AuthorAI),
		SourceClient: assistantClient,
	}
	if description, ok := input["description"].(string); ok {
		req.Description = description
	}
	if status, ok := input["status"].(string); ok {
		req.Status = status
	}
	if basedOn, ok := input["based_on"].(string); ok && basedOn != "" {
		req.BasedOn = &basedOn
	}

	rev, err := t.svc.CreateRevision(ctx, req)
	if err != nil {
		return engineResult(err)
	}
	return revisionResult(rev), nil
}

// ProposeRevisionTool implements the 'revision_propose' tool.
type ProposeRevisionTool struct {
	svc services.RevisionService
}

// Execute implements ToolExecutor. Requires revision_id.
func (t *ProposeRevisionTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	revisionID, ok := input["revision_id"].(string)
	if !ok || revisionID == "" {
		return nil, errors.New("missing required parameter: revision_id")
	}

	rev, err := t.svc.ProposeRevision(ctx, revisionID)
	if err != nil {
		return engineResult(err)
	}
	return revisionResult(rev), nil
}

// RevisionStatusTool implements the 'revision_status' tool.
type RevisionStatusTool struct {
	svc services.RevisionService
}

// Execute implements ToolExecutor. Requires revision_id. The returned
// conflict state reflects a live check against the document's current main.
func (t *RevisionStatusTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	revisionID, ok := input["revision_id"].(string)
	if !ok || revisionID == "" {
		return nil, errors.New("missing required parameter: revision_id")
	}

	summary, err := t.svc.GetRevisionStatus(ctx, revisionID)
	if err != nil {
		return engineResult(err)
	}

	result := map[string]interface{}{
		"revision_id":   summary.RevisionID,
		"status":        string(summary.Status),
		"has_conflicts": summary.HasConflicts,
	}
	if summary.ConflictReason != nil {
		result["conflict_reason"] = *summary.ConflictReason
	}
	if summary.ProposedAt != nil {
		result["proposed_at"] = summary.ProposedAt
	}
	if summary.ApprovedAt != nil {
		result["approved_at"] = summary.ApprovedAt
	}
	return result, nil
}

// ListRevisionsTool implements the 'revision_list' tool.
type ListRevisionsTool struct {
	svc services.RevisionService
}

// Execute implements ToolExecutor. Requires document_id. Revisions are
// returned oldest first.
func (t *ListRevisionsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	documentID, ok := input["document_id"].(string)
	if !ok || documentID == "" {
		return nil, errors.New("missing required parameter: document_id")
	}

	revs, err := t.svc.ListRevisions(ctx, documentID)
	if err != nil {
		return engineResult(err)
	}

	items := make([]map[string]interface{}, 0, len(revs))
	for i := range revs {
		items = append(items, revisionResult(&revs[i]))
	}
	return map[string]interface{}{
		"document_id": documentID,
		"revisions":   items,
		"total":       len(items),
	}, nil
}

// RebaseRevisionTool implements the 'revision_rebase' tool.
type RebaseRevisionTool struct {
	svc services.RevisionService
}

// Execute implements ToolExecutor. Requires revision_id. Content is never
// auto-merged; the caller must reconcile content before rebasing.
func (t *RebaseRevisionTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	revisionID, ok := input["revision_id"].(string)
	if !ok || revisionID == "" {
		return nil, errors.New("missing required parameter: revision_id")
	}

	rev, err := t.svc.RebaseRevision(ctx, revisionID)
	if err != nil {
		return engineResult(err)
	}
	return revisionResult(rev), nil
}

// revisionResult converts a revision to the JSON-serializable shape tool
// callers receive. Content is included; callers decide how much to show.
func revisionResult(rev *models.Revision) map[string]interface{} {
	result := map[string]interface{}{
		"id":            rev.ID,
		"document_id":   rev.DocumentID,
		"title":         rev.Title,
		"status":        string(rev.Status),
		"is_main":       rev.IsMain,
		"has_conflicts": rev.HasConflicts,
		"author_type":   string(rev.AuthorType),
		"created_at":    rev.CreatedAt,
	}
	if rev.BasedOnRevisionID != nil {
		result["based_on_revision_id"] = *rev.BasedOnRevisionID
	}
	if rev.ConflictReason != nil {
		result["conflict_reason"] = *rev.ConflictReason
	}
	return result
}

// engineResult maps engine failures to structured tool error results so the
// assistant sees the specific refusal reason instead of an opaque failure.
// Unknown errors (persistence and the like) propagate as real errors.
func engineResult(err error) (interface{}, error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errorResult("NOT_FOUND", err.Error()), nil
	case errors.Is(err, domain.ErrValidation):
		return errorResult("INVALID_INPUT", err.Error()), nil
	case errors.Is(err, domain.ErrConflictedRevision):
		return errorResult("REVISION_CONFLICTED", err.Error()), nil
	case errors.Is(err, domain.ErrInvalidTransition):
		return errorResult("INVALID_TRANSITION", err.Error()), nil
	case errors.Is(err, domain.ErrConcurrentModification):
		return errorResult("CONCURRENT_MODIFICATION", fmt.Sprintf("%s; retry the operation", err.Error())), nil
	default:
		return nil, err
	}
}

func errorResult(code, message string) map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"error":   code,
		"message": message,
	}
}
