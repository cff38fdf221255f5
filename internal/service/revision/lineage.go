package revision

import (
	"context"
	"fmt"

	"docjays/internal/domain/models"
	"docjays/internal/domain/repositories"
)

// LineageResolver answers "what is this document's current main revision".
// Every operation resolves main fresh through it; nothing caches the answer.
type LineageResolver struct {
	docRepo repositories.DocumentRepository
	revRepo repositories.RevisionRepository
}

// NewLineageResolver creates a new lineage resolver
func NewLineageResolver(docRepo repositories.DocumentRepository, revRepo repositories.RevisionRepository) *LineageResolver {
	return &LineageResolver{
		docRepo: docRepo,
		revRepo: revRepo,
	}
}

// CurrentMain returns the document's current authoritative revision, or nil
// when the document has never had an approved revision (its own content
// field, owned by the content layer, is then authoritative). An unknown
// document is an error, not a nil result.
func (r *LineageResolver) CurrentMain(ctx context.Context, documentID string) (*models.Revision, error) {
	doc, err := r.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if doc.MainRevisionID == nil {
		return nil, nil
	}

	main, err := r.revRepo.GetByID(ctx, *doc.MainRevisionID)
	if err != nil {
		return nil, fmt.Errorf("resolve main revision of document %s: %w", documentID, err)
	}

	return main, nil
}
