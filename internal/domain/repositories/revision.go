package repositories

import (
	"context"

	"docjays/internal/domain/models"
)

// RevisionRepository defines data access operations for revisions.
// It is a thin persistence boundary: no lifecycle rules live here.
// Serialization of writes to a single revision is the caller's job;
// UpdateTransition provides the optimistic primitive for it.
type RevisionRepository interface {
	// Create persists a new revision record
	Create(ctx context.Context, rev *models.Revision) error

	// GetByID retrieves a revision by ID
	GetByID(ctx context.Context, id string) (*models.Revision, error)

	// ListByDocument lists all revisions of a document, oldest first
	ListByDocument(ctx context.Context, documentID string) ([]models.Revision, error)

	// UpdateTransition writes the revision's mutable fields conditioned on
	// its status still being from. Returns ConcurrentModificationError when
	// the condition no longer holds.
	UpdateTransition(ctx context.Context, rev *models.Revision, from models.RevisionStatus) error

	// ClearMainFlag clears is_main on every revision of the document except
	// the one identified by exceptID
	ClearMainFlag(ctx context.Context, documentID, exceptID string) error
}
