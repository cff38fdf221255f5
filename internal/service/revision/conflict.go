package revision

import (
	"context"
	"fmt"

	"docjays/internal/domain/models"
)

// ConflictResult is the outcome of a conflict check
type ConflictResult struct {
	Conflicted bool
	Reason     *string
}

// ConflictDetector decides whether a revision's recorded base has diverged
// from the document's live main revision.
type ConflictDetector struct {
	lineage *LineageResolver
}

// NewConflictDetector creates a new conflict detector
func NewConflictDetector(lineage *LineageResolver) *ConflictDetector {
	return &ConflictDetector{lineage: lineage}
}

// Detect resolves the document's current main and checks the revision's
// base against it.
func (d *ConflictDetector) Detect(ctx context.Context, rev *models.Revision) (ConflictResult, error) {
	main, err := d.lineage.CurrentMain(ctx, rev.DocumentID)
	if err != nil {
		return ConflictResult{}, err
	}
	return DetectAgainst(rev, main), nil
}

// DetectAgainst is the pure lineage check: a revision conflicts exactly when
// main exists, the revision has a base, and the two ids differ. This is
// pointer identity, not a content diff — byte-identical content on diverged
// lineage still conflicts. A revision without a base (the document's first)
// can never conflict.
func DetectAgainst(rev *models.Revision, main *models.Revision) ConflictResult {
	if main == nil || rev.BasedOnRevisionID == nil {
		return ConflictResult{}
	}
	if main.ID == *rev.BasedOnRevisionID {
		return ConflictResult{}
	}

	reason := fmt.Sprintf("Main has moved to revision %s ('%s') since this revision was based on %s",
		main.ID, main.Title, *rev.BasedOnRevisionID)
	return ConflictResult{Conflicted: true, Reason: &reason}
}
