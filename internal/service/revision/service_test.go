package revision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"docjays/internal/domain"
	"docjays/internal/domain/models"
	"docjays/internal/domain/repositories"
	"docjays/internal/domain/services"
)

// fakeRevisionRepo is an in-memory RevisionRepository that mirrors the
// postgres implementation's optimistic semantics: UpdateTransition only
// succeeds while the stored status still matches the caller's precondition.
type fakeRevisionRepo struct {
	mu        sync.Mutex
	revisions map[string]*models.Revision
	updateErr error
}

func newFakeRevisionRepo() *fakeRevisionRepo {
	return &fakeRevisionRepo{revisions: make(map[string]*models.Revision)}
}

func (f *fakeRevisionRepo) Create(_ context.Context, rev *models.Revision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *rev
	f.revisions[rev.ID] = &clone
	return nil
}

func (f *fakeRevisionRepo) GetByID(_ context.Context, id string) (*models.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rev, ok := f.revisions[id]
	if !ok {
		return nil, fmt.Errorf("revision %s: %w", id, domain.ErrNotFound)
	}
	clone := *rev
	return &clone, nil
}

func (f *fakeRevisionRepo) ListByDocument(_ context.Context, documentID string) ([]models.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var revs []models.Revision
	for _, rev := range f.revisions {
		if rev.DocumentID == documentID {
			revs = append(revs, *rev)
		}
	}
	return revs, nil
}

func (f *fakeRevisionRepo) UpdateTransition(_ context.Context, rev *models.Revision, from models.RevisionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.revisions[rev.ID]
	if !ok {
		return fmt.Errorf("revision %s: %w", rev.ID, domain.ErrNotFound)
	}
	if stored.Status != from {
		return &domain.ConcurrentModificationError{
			Message: fmt.Sprintf("revision %s was modified concurrently", rev.ID),
		}
	}
	clone := *rev
	f.revisions[rev.ID] = &clone
	return nil
}

func (f *fakeRevisionRepo) ClearMainFlag(_ context.Context, documentID, exceptID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rev := range f.revisions {
		if rev.DocumentID == documentID && rev.ID != exceptID {
			rev.IsMain = false
		}
	}
	return nil
}

// fakeDocumentRepo implements the main-pointer CAS the same way the postgres
// repository does with IS NOT DISTINCT FROM.
type fakeDocumentRepo struct {
	mu         sync.Mutex
	docs       map[string]*models.Document
	setMainErr error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*models.Document)}
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeDocumentRepo) Create(_ context.Context, doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *doc
	f.docs[doc.ID] = &clone
	return nil
}

func (f *fakeDocumentRepo) SetMainRevision(_ context.Context, documentID, revisionID string, expected *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setMainErr != nil {
		return f.setMainErr
	}
	doc, ok := f.docs[documentID]
	if !ok {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	current := doc.MainRevisionID
	match := (current == nil && expected == nil) ||
		(current != nil && expected != nil && *current == *expected)
	if !match {
		return &domain.ConcurrentModificationError{
			Message: fmt.Sprintf("document %s main revision changed concurrently", documentID),
		}
	}
	doc.MainRevisionID = &revisionID
	return nil
}

// fakeTxManager runs the function directly; the fakes above already apply
// the same write preconditions the real transaction relies on.
type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type testEnv struct {
	svc     services.RevisionService
	revRepo *fakeRevisionRepo
	docRepo *fakeDocumentRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	revRepo := newFakeRevisionRepo()
	docRepo := newFakeDocumentRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewRevisionService(revRepo, docRepo, &fakeTxManager{}, nil, logger)
	return &testEnv{svc: svc, revRepo: revRepo, docRepo: docRepo}
}

func (e *testEnv) addDocument(id string, mainRevisionID *string) {
	now := time.Now().UTC()
	e.docRepo.docs[id] = &models.Document{
		ID:             id,
		Name:           "doc " + id,
		MainRevisionID: mainRevisionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (e *testEnv) addRevision(id, documentID string, status models.RevisionStatus, basedOn *string) *models.Revision {
	now := time.Now().UTC()
	rev := &models.Revision{
		ID:                id,
		DocumentID:        documentID,
		BasedOnRevisionID: basedOn,
		Title:             "rev " + id,
		Content:           "content of " + id,
		Status:            status,
		AuthorType:        models.AuthorHuman,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if status == models.StatusProposed {
		rev.ProposedAt = &now
	}
	if status == models.StatusConflicted {
		rev.HasConflicts = true
		reason := "base diverged"
		rev.ConflictReason = &reason
	}
	if status == models.StatusApproved {
		rev.IsMain = true
		rev.ApprovedAt = &now
	}
	clone := *rev
	e.revRepo.revisions[id] = &clone
	return rev
}

func strPtr(s string) *string { return &s }

func TestCreateRevision_FirstRevisionHasNoBase(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)

	rev, err := env.svc.CreateRevision(context.Background(), &services.CreateRevisionRequest{
		DocumentID: "doc-1",
		Title:      "First draft",
		Content:    "hello",
	})
	if err != nil {
		t.Fatalf("CreateRevision failed: %v", err)
	}
	if rev.BasedOnRevisionID != nil {
		t.Errorf("expected nil base for first revision, got %v", *rev.BasedOnRevisionID)
	}
	if rev.Status != models.StatusDraft {
		t.Errorf("expected draft status, got %s", rev.Status)
	}
	if rev.AuthorType != models.AuthorHuman {
		t.Errorf("expected human author by default, got %s", rev.AuthorType)
	}
}

func TestCreateRevision_BaseDefaultsToCurrentMain(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("main-1", "doc-1", models.StatusApproved, nil)
	env.addDocument("doc-1", strPtr("main-1"))

	rev, err := env.svc.CreateRevision(context.Background(), &services.CreateRevisionRequest{
		DocumentID: "doc-1",
		Title:      "Follow-up",
		Content:    "updated",
	})
	if err != nil {
		t.Fatalf("CreateRevision failed: %v", err)
	}
	if rev.BasedOnRevisionID == nil || *rev.BasedOnRevisionID != "main-1" {
		t.Errorf("expected base main-1, got %v", rev.BasedOnRevisionID)
	}
}

func TestCreateRevision_DirectProposedRunsConflictCheck(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("old-main", "doc-1", models.StatusApproved, nil)
	env.addRevision("new-main", "doc-1", models.StatusApproved, strPtr("old-main"))
	env.addDocument("doc-1", strPtr("new-main"))

	// Explicit stale base: main is new-main, base is old-main
	rev, err := env.svc.CreateRevision(context.Background(), &services.CreateRevisionRequest{
		DocumentID: "doc-1",
		Title:      "Stale proposal",
		Content:    "text",
		Status:     "proposed",
		BasedOn:    strPtr("old-main"),
	})
	if err != nil {
		t.Fatalf("CreateRevision failed: %v", err)
	}
	if rev.Status != models.StatusConflicted {
		t.Errorf("expected conflicted, got %s", rev.Status)
	}
	if !rev.HasConflicts || rev.ConflictReason == nil {
		t.Error("expected conflict flag and reason to be set")
	}

	// Fresh base goes straight to proposed
	fresh, err := env.svc.CreateRevision(context.Background(), &services.CreateRevisionRequest{
		DocumentID: "doc-1",
		Title:      "Fresh proposal",
		Content:    "text",
		Status:     "proposed",
	})
	if err != nil {
		t.Fatalf("CreateRevision failed: %v", err)
	}
	if fresh.Status != models.StatusProposed {
		t.Errorf("expected proposed, got %s", fresh.Status)
	}
	if fresh.ProposedAt == nil {
		t.Error("expected proposed_at to be set")
	}
}

func TestCreateRevision_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("other-rev", "doc-2", models.StatusApproved, nil)
	env.addDocument("doc-1", nil)
	env.addDocument("doc-2", strPtr("other-rev"))

	tests := []struct {
		name string
		req  *services.CreateRevisionRequest
	}{
		{
			name: "missing title",
			req:  &services.CreateRevisionRequest{DocumentID: "doc-1", Content: "x"},
		},
		{
			name: "missing content",
			req:  &services.CreateRevisionRequest{DocumentID: "doc-1", Title: "t"},
		},
		{
			name: "unknown status",
			req:  &services.CreateRevisionRequest{DocumentID: "doc-1", Title: "t", Content: "x", Status: "approved"},
		},
		{
			name: "base from another document",
			req:  &services.CreateRevisionRequest{DocumentID: "doc-1", Title: "t", Content: "x", BasedOn: strPtr("other-rev")},
		},
		{
			name: "unknown base",
			req:  &services.CreateRevisionRequest{DocumentID: "doc-1", Title: "t", Content: "x", BasedOn: strPtr("missing")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateRevision(context.Background(), tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateRevision_UnknownDocument(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.CreateRevision(context.Background(), &services.CreateRevisionRequest{
		DocumentID: "missing",
		Title:      "t",
		Content:    "x",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestProposeRevision_DraftToProposed(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("main-1", "doc-1", models.StatusApproved, nil)
	env.addDocument("doc-1", strPtr("main-1"))
	env.addRevision("rev-1", "doc-1", models.StatusDraft, strPtr("main-1"))

	rev, err := env.svc.ProposeRevision(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("ProposeRevision failed: %v", err)
	}
	if rev.Status != models.StatusProposed {
		t.Errorf("expected proposed, got %s", rev.Status)
	}
	if rev.ProposedAt == nil {
		t.Error("expected proposed_at to be set")
	}
}

func TestProposeRevision_StaleBaseBecomesConflicted(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("old-main", "doc-1", models.StatusApproved, nil)
	env.addRevision("new-main", "doc-1", models.StatusApproved, strPtr("old-main"))
	env.addDocument("doc-1", strPtr("new-main"))
	env.addRevision("rev-1", "doc-1", models.StatusDraft, strPtr("old-main"))

	rev, err := env.svc.ProposeRevision(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("ProposeRevision failed: %v", err)
	}
	if rev.Status != models.StatusConflicted {
		t.Errorf("expected conflicted, got %s", rev.Status)
	}
	if rev.ConflictReason == nil || !strings.Contains(*rev.ConflictReason, "new-main") {
		t.Errorf("expected conflict reason naming the moved main, got %v", rev.ConflictReason)
	}
}

func TestProposeRevision_OnlyFromDraft(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	for _, status := range []models.RevisionStatus{
		models.StatusProposed, models.StatusApproved, models.StatusRejected, models.StatusConflicted,
	} {
		id := "rev-" + string(status)
		env.addRevision(id, "doc-1", status, nil)
		_, err := env.svc.ProposeRevision(context.Background(), id)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("propose from %s: expected invalid transition, got %v", status, err)
		}
	}
}

func TestApproveRevision_MaintainsSingleMain(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("main-1", "doc-1", models.StatusApproved, nil)
	env.addDocument("doc-1", strPtr("main-1"))
	env.addRevision("rev-1", "doc-1", models.StatusProposed, strPtr("main-1"))

	rev, err := env.svc.ApproveRevision(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("ApproveRevision failed: %v", err)
	}
	if rev.Status != models.StatusApproved {
		t.Errorf("expected approved, got %s", rev.Status)
	}
	if !rev.IsMain {
		t.Error("expected approved revision to be main")
	}
	if rev.ApprovedAt == nil {
		t.Error("expected approved_at to be set")
	}

	doc, _ := env.docRepo.GetByID(context.Background(), "doc-1")
	if doc.MainRevisionID == nil || *doc.MainRevisionID != "rev-1" {
		t.Errorf("expected main pointer rev-1, got %v", doc.MainRevisionID)
	}

	// Exactly one revision of the document carries is_main
	mains := 0
	for _, stored := range env.revRepo.revisions {
		if stored.DocumentID == "doc-1" && stored.IsMain {
			mains++
			if stored.ID != "rev-1" {
				t.Errorf("unexpected main revision %s", stored.ID)
			}
		}
	}
	if mains != 1 {
		t.Errorf("expected exactly one main revision, got %d", mains)
	}
}

func TestApproveRevision_FirstMain(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	env.addRevision("rev-1", "doc-1", models.StatusProposed, nil)

	rev, err := env.svc.ApproveRevision(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("ApproveRevision failed: %v", err)
	}
	if !rev.IsMain {
		t.Error("expected first approved revision to be main")
	}
	doc, _ := env.docRepo.GetByID(context.Background(), "doc-1")
	if doc.MainRevisionID == nil || *doc.MainRevisionID != "rev-1" {
		t.Errorf("expected main pointer rev-1, got %v", doc.MainRevisionID)
	}
}

func TestApproveRevision_RefusesConflicted(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	env.addRevision("rev-1", "doc-1", models.StatusConflicted, nil)

	_, err := env.svc.ApproveRevision(context.Background(), "rev-1")
	if !errors.Is(err, domain.ErrConflictedRevision) {
		t.Fatalf("expected conflicted revision error, got %v", err)
	}
}

func TestApproveRevision_DetectsStaleBaseAtApproval(t *testing.T) {
	// rev-1 still says proposed with has_conflicts=false, but main has moved
	// since; the re-check inside the approval transaction must catch it.
	env := newTestEnv(t)
	env.addRevision("old-main", "doc-1", models.StatusApproved, nil)
	env.addRevision("new-main", "doc-1", models.StatusApproved, strPtr("old-main"))
	env.addDocument("doc-1", strPtr("new-main"))
	env.addRevision("rev-1", "doc-1", models.StatusProposed, strPtr("old-main"))

	_, err := env.svc.ApproveRevision(context.Background(), "rev-1")
	var conflicted *domain.ConflictedRevisionError
	if !errors.As(err, &conflicted) {
		t.Fatalf("expected ConflictedRevisionError, got %v", err)
	}
	if conflicted.ConflictsWith != "new-main" {
		t.Errorf("expected conflicts_with new-main, got %s", conflicted.ConflictsWith)
	}

	// The losing approval must not have moved the pointer
	doc, _ := env.docRepo.GetByID(context.Background(), "doc-1")
	if doc.MainRevisionID == nil || *doc.MainRevisionID != "new-main" {
		t.Errorf("main pointer should be untouched, got %v", doc.MainRevisionID)
	}
}

func TestApproveRevision_ConcurrentPointerMove(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	env.addRevision("rev-1", "doc-1", models.StatusProposed, nil)
	env.docRepo.setMainErr = &domain.ConcurrentModificationError{Message: "document doc-1 main revision changed concurrently"}

	_, err := env.svc.ApproveRevision(context.Background(), "rev-1")
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification, got %v", err)
	}

	// The revision must not be left half-approved
	stored, _ := env.revRepo.GetByID(context.Background(), "rev-1")
	if stored.Status != models.StatusProposed {
		t.Errorf("expected revision to stay proposed, got %s", stored.Status)
	}
}

func TestApproveRevision_OnlyFromProposed(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	for _, status := range []models.RevisionStatus{
		models.StatusDraft, models.StatusApproved, models.StatusRejected,
	} {
		id := "rev-" + string(status)
		env.addRevision(id, "doc-1", status, nil)
		_, err := env.svc.ApproveRevision(context.Background(), id)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("approve from %s: expected invalid transition, got %v", status, err)
		}
	}
}

func TestRejectRevision(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	env.addRevision("rev-draft", "doc-1", models.StatusDraft, nil)
	env.addRevision("rev-proposed", "doc-1", models.StatusProposed, nil)

	rev, err := env.svc.RejectRevision(context.Background(), "rev-draft", nil)
	if err != nil {
		t.Fatalf("RejectRevision failed: %v", err)
	}
	if rev.Status != models.StatusRejected {
		t.Errorf("expected rejected, got %s", rev.Status)
	}

	rev, err = env.svc.RejectRevision(context.Background(), "rev-proposed", &services.RejectRevisionRequest{
		Reason: strPtr("duplicate of an earlier proposal"),
	})
	if err != nil {
		t.Fatalf("RejectRevision failed: %v", err)
	}
	if rev.ConflictReason == nil || *rev.ConflictReason != "duplicate of an earlier proposal" {
		t.Errorf("expected reviewer note to be recorded, got %v", rev.ConflictReason)
	}
}

func TestRejectRevision_IllegalStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	for _, status := range []models.RevisionStatus{
		models.StatusApproved, models.StatusRejected, models.StatusConflicted,
	} {
		id := "rev-" + string(status)
		env.addRevision(id, "doc-1", status, nil)
		_, err := env.svc.RejectRevision(context.Background(), id, nil)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("reject from %s: expected invalid transition, got %v", status, err)
		}
	}
}

func TestRebaseRevision_ConflictedToProposed(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("old-main", "doc-1", models.StatusApproved, nil)
	env.addRevision("new-main", "doc-1", models.StatusApproved, strPtr("old-main"))
	env.addDocument("doc-1", strPtr("new-main"))
	env.addRevision("rev-1", "doc-1", models.StatusConflicted, strPtr("old-main"))

	rev, err := env.svc.RebaseRevision(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("RebaseRevision failed: %v", err)
	}
	if rev.Status != models.StatusProposed {
		t.Errorf("expected proposed, got %s", rev.Status)
	}
	if rev.BasedOnRevisionID == nil || *rev.BasedOnRevisionID != "new-main" {
		t.Errorf("expected base re-pointed to new-main, got %v", rev.BasedOnRevisionID)
	}
	if rev.HasConflicts || rev.ConflictReason != nil {
		t.Error("expected conflict state to be cleared")
	}
	if rev.ProposedAt == nil {
		t.Error("expected proposed_at to be set")
	}
}

func TestRebaseRevision_NoOpWhenBaseIsCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("main-1", "doc-1", models.StatusApproved, nil)
	env.addDocument("doc-1", strPtr("main-1"))
	env.addRevision("rev-1", "doc-1", models.StatusProposed, strPtr("main-1"))

	rev, err := env.svc.RebaseRevision(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("RebaseRevision failed: %v", err)
	}
	if rev.Status != models.StatusProposed {
		t.Errorf("expected proposed, got %s", rev.Status)
	}
	if rev.BasedOnRevisionID == nil || *rev.BasedOnRevisionID != "main-1" {
		t.Errorf("expected base to stay main-1, got %v", rev.BasedOnRevisionID)
	}
}

func TestRebaseRevision_IllegalStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	for _, status := range []models.RevisionStatus{
		models.StatusDraft, models.StatusApproved, models.StatusRejected,
	} {
		id := "rev-" + string(status)
		env.addRevision(id, "doc-1", status, nil)
		_, err := env.svc.RebaseRevision(context.Background(), id)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("rebase from %s: expected invalid transition, got %v", status, err)
		}
	}
}

func TestGetRevisionStatus_LiveRecheckIsNotPersisted(t *testing.T) {
	env := newTestEnv(t)
	env.addRevision("old-main", "doc-1", models.StatusApproved, nil)
	env.addRevision("new-main", "doc-1", models.StatusApproved, strPtr("old-main"))
	env.addDocument("doc-1", strPtr("new-main"))
	// Stored as proposed/no-conflict, but main has moved since
	env.addRevision("rev-1", "doc-1", models.StatusProposed, strPtr("old-main"))

	summary, err := env.svc.GetRevisionStatus(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("GetRevisionStatus failed: %v", err)
	}
	if summary.Status != models.StatusConflicted || !summary.HasConflicts {
		t.Errorf("expected live recheck to report conflicted, got %s", summary.Status)
	}
	if summary.ConflictReason == nil {
		t.Error("expected a conflict reason")
	}

	// The stored record is untouched; only propose and rebase persist state
	stored, _ := env.revRepo.GetByID(context.Background(), "rev-1")
	if stored.Status != models.StatusProposed || stored.HasConflicts {
		t.Errorf("read must not persist the recheck, stored status %s has_conflicts %v",
			stored.Status, stored.HasConflicts)
	}
}

func TestGetRevisionStatus_ConflictedClearsWhenMainReturns(t *testing.T) {
	// Persisted conflicted, but main now equals the base again (e.g. the
	// competing approval's revision chain ended up back on the same id)
	env := newTestEnv(t)
	env.addRevision("main-1", "doc-1", models.StatusApproved, nil)
	env.addDocument("doc-1", strPtr("main-1"))
	env.addRevision("rev-1", "doc-1", models.StatusConflicted, strPtr("main-1"))

	summary, err := env.svc.GetRevisionStatus(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("GetRevisionStatus failed: %v", err)
	}
	if summary.Status != models.StatusProposed || summary.HasConflicts {
		t.Errorf("expected live recheck to report proposed, got %s", summary.Status)
	}
}

func TestGetRevisionStatus_TerminalReportedAsStored(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	env.addRevision("rev-1", "doc-1", models.StatusApproved, nil)

	summary, err := env.svc.GetRevisionStatus(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("GetRevisionStatus failed: %v", err)
	}
	if summary.Status != models.StatusApproved {
		t.Errorf("expected approved, got %s", summary.Status)
	}
}

func TestListRevisions(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	env.addDocument("doc-2", nil)
	env.addRevision("rev-1", "doc-1", models.StatusDraft, nil)
	env.addRevision("rev-2", "doc-1", models.StatusProposed, nil)
	env.addRevision("rev-3", "doc-2", models.StatusDraft, nil)

	revs, err := env.svc.ListRevisions(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListRevisions failed: %v", err)
	}
	if len(revs) != 2 {
		t.Errorf("expected 2 revisions, got %d", len(revs))
	}

	others, err := env.svc.ListRevisions(context.Background(), "doc-2")
	if err != nil {
		t.Fatalf("ListRevisions failed: %v", err)
	}
	if len(others) != 1 {
		t.Errorf("expected 1 revision, got %d", len(others))
	}

	if _, err := env.svc.ListRevisions(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for unknown document, got %v", err)
	}
}

func TestConcurrentModificationOnTransitionWrite(t *testing.T) {
	env := newTestEnv(t)
	env.addDocument("doc-1", nil)
	env.addRevision("rev-1", "doc-1", models.StatusDraft, nil)
	env.revRepo.updateErr = &domain.ConcurrentModificationError{Message: "revision rev-1 was modified concurrently"}

	_, err := env.svc.ProposeRevision(context.Background(), "rev-1")
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Errorf("expected concurrent modification, got %v", err)
	}
}
