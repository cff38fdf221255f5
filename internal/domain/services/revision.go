package services

import (
	"context"
	"time"

	"docjays/internal/domain/models"
)

// RevisionService is the revision control engine: it owns the proposal
// lifecycle, conflict detection against the document's current main
// revision, and the main-pointer update on approval.
type RevisionService interface {
	// CreateRevision creates a revision against a document. The base defaults
	// to the document's current main revision unless explicitly overridden.
	// A revision created directly as proposed is conflict-checked immediately.
	CreateRevision(ctx context.Context, req *CreateRevisionRequest) (*models.Revision, error)

	// ProposeRevision moves a draft to proposed, or to conflicted when its
	// base has diverged from the current main
	ProposeRevision(ctx context.Context, revisionID string) (*models.Revision, error)

	// ApproveRevision makes a proposed revision the document's new main.
	// Fails with ConflictedRevisionError while the revision has conflicts.
	ApproveRevision(ctx context.Context, revisionID string) (*models.Revision, error)

	// RejectRevision terminally rejects a draft or proposed revision
	RejectRevision(ctx context.Context, revisionID string, req *RejectRevisionRequest) (*models.Revision, error)

	// RebaseRevision re-anchors a revision's base onto the current main and
	// re-evaluates conflict state
	RebaseRevision(ctx context.Context, revisionID string) (*models.Revision, error)

	// GetRevision retrieves a single revision record
	GetRevision(ctx context.Context, revisionID string) (*models.Revision, error)

	// GetRevisionStatus returns a status summary, re-validating conflict
	// state live for proposed/conflicted revisions without persisting it
	GetRevisionStatus(ctx context.Context, revisionID string) (*RevisionStatusSummary, error)

	// ListRevisions lists a document's revisions oldest first
	ListRevisions(ctx context.Context, documentID string) ([]models.Revision, error)
}

// CreateRevisionRequest represents a revision creation request
type CreateRevisionRequest struct {
	DocumentID   string  `json:"document_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Content      string  `json:"content"`
	Status       string  `json:"status,omitempty"`        // "draft" (default) or "proposed"
	BasedOn      *string `json:"based_on,omitempty"`      // defaults to the document's current main
	AuthorType   string  `json:"author_type,omitempty"`   // "human" (default) or "ai"
	SourceClient string  `json:"source_client,omitempty"` // set by the transport from client metadata
}

// RejectRevisionRequest represents a rejection with an optional reviewer note
type RejectRevisionRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// RevisionStatusSummary is the read-only status view. HasConflicts and
// ConflictReason reflect a fresh conflict check when the revision is
// proposed or conflicted; the persisted flags are untouched by reads.
type RevisionStatusSummary struct {
	RevisionID     string                `json:"revision_id"`
	Status         models.RevisionStatus `json:"status"`
	HasConflicts   bool                  `json:"has_conflicts"`
	ConflictReason *string               `json:"conflict_reason,omitempty"`
	ProposedAt     *time.Time            `json:"proposed_at,omitempty"`
	ApprovedAt     *time.Time            `json:"approved_at,omitempty"`
}
