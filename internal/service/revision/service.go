package revision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docjays/internal/domain"
	"docjays/internal/domain/models"
	"docjays/internal/domain/repositories"
	"docjays/internal/domain/services"
	"docjays/internal/metrics"
)

// revisionService implements the RevisionService interface. Transitions are
// linearized per revision by the status-conditioned write in the repository;
// the approval path additionally runs inside a transaction so the conflict
// re-check and the document main-pointer CAS commit together.
type revisionService struct {
	revRepo   repositories.RevisionRepository
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	lineage   *LineageResolver
	detector  *ConflictDetector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewRevisionService creates a new revision service
func NewRevisionService(
	revRepo repositories.RevisionRepository,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	m *metrics.Metrics,
	logger *slog.Logger,
) services.RevisionService {
	lineage := NewLineageResolver(docRepo, revRepo)
	return &revisionService{
		revRepo:   revRepo,
		docRepo:   docRepo,
		txManager: txManager,
		lineage:   lineage,
		detector:  NewConflictDetector(lineage),
		metrics:   m,
		logger:    logger,
	}
}

// CreateRevision creates a revision against a document. The base defaults to
// the document's current main revision; an explicit based_on must belong to
// the same document. Creating directly as proposed runs the conflict check
// immediately.
func (s *revisionService) CreateRevision(ctx context.Context, req *services.CreateRevisionRequest) (*models.Revision, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	main, err := s.lineage.CurrentMain(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	basedOn := req.BasedOn
	if basedOn == nil && main != nil {
		id := main.ID
		basedOn = &id
	}
	if req.BasedOn != nil {
		base, err := s.revRepo.GetByID(ctx, *req.BasedOn)
		if err != nil {
			return nil, fmt.Errorf("%w: based_on revision %s not found", domain.ErrValidation, *req.BasedOn)
		}
		if base.DocumentID != req.DocumentID {
			return nil, fmt.Errorf("%w: based_on revision %s belongs to a different document", domain.ErrValidation, *req.BasedOn)
		}
	}

	authorType := models.AuthorType(req.AuthorType)
	if req.AuthorType == "" {
		authorType = models.AuthorHuman
	}

	now := time.Now().UTC()
	rev := &models.Revision{
		ID:                uuid.NewString(),
		DocumentID:        req.DocumentID,
		BasedOnRevisionID: basedOn,
		Title:             req.Title,
		Description:       req.Description,
		Content:           req.Content,
		Status:            models.StatusDraft,
		AuthorType:        authorType,
		SourceClient:      req.SourceClient,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if req.Status == string(models.StatusProposed) {
		res := DetectAgainst(rev, main)
		if res.Conflicted {
			rev.Status = models.StatusConflicted
			rev.HasConflicts = true
			rev.ConflictReason = res.Reason
			s.metrics.RecordConflict()
		} else {
			rev.Status = models.StatusProposed
			rev.ProposedAt = &now
		}
	}

	if err := s.revRepo.Create(ctx, rev); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("create", string(rev.Status))
	s.logger.Debug("revision created",
		"revision_id", rev.ID,
		"document_id", rev.DocumentID,
		"status", rev.Status,
		"author_type", rev.AuthorType,
	)

	return rev, nil
}

// ProposeRevision moves a draft to proposed, or to conflicted when its base
// has diverged from the current main.
func (s *revisionService) ProposeRevision(ctx context.Context, revisionID string) (*models.Revision, error) {
	rev, err := s.revRepo.GetByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	if rev.Status != models.StatusDraft {
		return nil, invalidTransition("propose", rev)
	}

	res, err := s.detector.Detect(ctx, rev)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if res.Conflicted {
		rev.Status = models.StatusConflicted
		rev.HasConflicts = true
		rev.ConflictReason = res.Reason
		s.metrics.RecordConflict()
	} else {
		rev.Status = models.StatusProposed
		rev.ProposedAt = &now
		rev.HasConflicts = false
		rev.ConflictReason = nil
	}
	rev.UpdatedAt = now

	if err := s.revRepo.UpdateTransition(ctx, rev, models.StatusDraft); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("propose", string(rev.Status))
	s.logger.Info("revision proposed",
		"revision_id", rev.ID,
		"document_id", rev.DocumentID,
		"status", rev.Status,
	)

	return rev, nil
}

// ApproveRevision makes a proposed revision the document's new main. The
// conflict re-check, the main-pointer CAS, the previous main's flag clear
// and the status write all commit in one transaction, so two approvals
// racing on the same document cannot both win.
func (s *revisionService) ApproveRevision(ctx context.Context, revisionID string) (*models.Revision, error) {
	rev, err := s.revRepo.GetByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	if err := approvable(rev); err != nil {
		s.metrics.RecordTransition("approve", "refused")
		return nil, err
	}

	var approved *models.Revision
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Re-read inside the transaction; the check above may be stale
		rev, err := s.revRepo.GetByID(txCtx, revisionID)
		if err != nil {
			return err
		}
		if err := approvable(rev); err != nil {
			return err
		}

		main, err := s.lineage.CurrentMain(txCtx, rev.DocumentID)
		if err != nil {
			return err
		}
		if res := DetectAgainst(rev, main); res.Conflicted {
			return &domain.ConflictedRevisionError{
				Message:       fmt.Sprintf("cannot approve: revision %s is conflicted with revision %s", rev.ID, main.ID),
				RevisionID:    rev.ID,
				ConflictsWith: main.ID,
			}
		}

		var expected *string
		if main != nil {
			expected = &main.ID
		}
		if err := s.docRepo.SetMainRevision(txCtx, rev.DocumentID, rev.ID, expected); err != nil {
			return err
		}
		if err := s.revRepo.ClearMainFlag(txCtx, rev.DocumentID, rev.ID); err != nil {
			return err
		}

		now := time.Now().UTC()
		rev.Status = models.StatusApproved
		rev.IsMain = true
		rev.HasConflicts = false
		rev.ConflictReason = nil
		rev.ApprovedAt = &now
		rev.UpdatedAt = now

		if err := s.revRepo.UpdateTransition(txCtx, rev, models.StatusProposed); err != nil {
			return err
		}

		approved = rev
		return nil
	})
	if err != nil {
		s.metrics.RecordTransition("approve", "failed")
		return nil, err
	}

	s.metrics.RecordTransition("approve", string(models.StatusApproved))
	s.logger.Info("revision approved",
		"revision_id", approved.ID,
		"document_id", approved.DocumentID,
	)

	return approved, nil
}

// RejectRevision terminally rejects a draft or proposed revision. The
// optional reviewer note is recorded in the conflict_reason column.
func (s *revisionService) RejectRevision(ctx context.Context, revisionID string, req *services.RejectRevisionRequest) (*models.Revision, error) {
	if err := validateRejectRequest(req); err != nil {
		return nil, err
	}

	rev, err := s.revRepo.GetByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	if rev.Status != models.StatusDraft && rev.Status != models.StatusProposed {
		return nil, invalidTransition("reject", rev)
	}

	from := rev.Status
	now := time.Now().UTC()
	rev.Status = models.StatusRejected
	if req != nil && req.Reason != nil {
		rev.ConflictReason = req.Reason
	}
	rev.UpdatedAt = now

	if err := s.revRepo.UpdateTransition(ctx, rev, from); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("reject", string(rev.Status))
	s.logger.Info("revision rejected",
		"revision_id", rev.ID,
		"document_id", rev.DocumentID,
	)

	return rev, nil
}

// RebaseRevision re-anchors a revision's base onto the current main. The
// base is re-checked once after re-pointing: if main moved again in between,
// the revision stays conflicted with a refreshed reason. Content is never
// auto-merged.
func (s *revisionService) RebaseRevision(ctx context.Context, revisionID string) (*models.Revision, error) {
	rev, err := s.revRepo.GetByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	if rev.Status != models.StatusProposed && rev.Status != models.StatusConflicted {
		return nil, invalidTransition("rebase", rev)
	}

	var rebased *models.Revision
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		rev, err := s.revRepo.GetByID(txCtx, revisionID)
		if err != nil {
			return err
		}
		if rev.Status != models.StatusProposed && rev.Status != models.StatusConflicted {
			return invalidTransition("rebase", rev)
		}
		from := rev.Status

		main, err := s.lineage.CurrentMain(txCtx, rev.DocumentID)
		if err != nil {
			return err
		}
		if main == nil {
			rev.BasedOnRevisionID = nil
		} else {
			id := main.ID
			rev.BasedOnRevisionID = &id
		}

		// Re-check once against a fresh read; main may have moved between
		// the read above and this write
		recheck, err := s.lineage.CurrentMain(txCtx, rev.DocumentID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if res := DetectAgainst(rev, recheck); res.Conflicted {
			rev.Status = models.StatusConflicted
			rev.HasConflicts = true
			rev.ConflictReason = res.Reason
			s.metrics.RecordConflict()
		} else {
			rev.Status = models.StatusProposed
			rev.HasConflicts = false
			rev.ConflictReason = nil
			if rev.ProposedAt == nil {
				rev.ProposedAt = &now
			}
		}
		rev.UpdatedAt = now

		if err := s.revRepo.UpdateTransition(txCtx, rev, from); err != nil {
			return err
		}

		rebased = rev
		return nil
	})
	if err != nil {
		s.metrics.RecordTransition("rebase", "failed")
		return nil, err
	}

	s.metrics.RecordTransition("rebase", string(rebased.Status))
	s.logger.Info("revision rebased",
		"revision_id", rebased.ID,
		"document_id", rebased.DocumentID,
		"status", rebased.Status,
	)

	return rebased, nil
}

// GetRevision retrieves a single revision record
func (s *revisionService) GetRevision(ctx context.Context, revisionID string) (*models.Revision, error) {
	return s.revRepo.GetByID(ctx, revisionID)
}

// GetRevisionStatus returns the revision's status summary. For proposed and
// conflicted revisions the conflict state is re-validated against the live
// main, since main may have moved after the flag was last persisted. The
// recheck result is never written back; only propose and rebase persist it.
func (s *revisionService) GetRevisionStatus(ctx context.Context, revisionID string) (*services.RevisionStatusSummary, error) {
	rev, err := s.revRepo.GetByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	summary := &services.RevisionStatusSummary{
		RevisionID:     rev.ID,
		Status:         rev.Status,
		HasConflicts:   rev.HasConflicts,
		ConflictReason: rev.ConflictReason,
		ProposedAt:     rev.ProposedAt,
		ApprovedAt:     rev.ApprovedAt,
	}

	if rev.Status == models.StatusProposed || rev.Status == models.StatusConflicted {
		res, err := s.detector.Detect(ctx, rev)
		if err != nil {
			return nil, err
		}
		summary.HasConflicts = res.Conflicted
		summary.ConflictReason = res.Reason
		if res.Conflicted {
			summary.Status = models.StatusConflicted
		} else {
			summary.Status = models.StatusProposed
		}
	}

	return summary, nil
}

// ListRevisions lists a document's revisions oldest first
func (s *revisionService) ListRevisions(ctx context.Context, documentID string) ([]models.Revision, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}

	revs, err := s.revRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if revs == nil {
		revs = []models.Revision{}
	}

	return revs, nil
}

// approvable rejects approval attempts on conflicted or non-proposed
// revisions. Called twice: once before the transaction for a fast failure,
// once inside it on the re-read record.
func approvable(rev *models.Revision) error {
	if rev.Status == models.StatusConflicted || rev.HasConflicts {
		msg := fmt.Sprintf("cannot approve: revision %s is conflicted", rev.ID)
		if rev.ConflictReason != nil {
			msg = fmt.Sprintf("%s: %s", msg, *rev.ConflictReason)
		}
		return &domain.ConflictedRevisionError{
			Message:    msg,
			RevisionID: rev.ID,
		}
	}
	if rev.Status != models.StatusProposed {
		return invalidTransition("approve", rev)
	}
	return nil
}

func invalidTransition(op string, rev *models.Revision) error {
	msg := fmt.Sprintf("cannot %s revision %s: status is %s", op, rev.ID, rev.Status)
	if rev.Status.Terminal() {
		msg = fmt.Sprintf("cannot %s revision %s: %s is a terminal status", op, rev.ID, rev.Status)
	}
	return &domain.InvalidTransitionError{
		Message:    msg,
		RevisionID: rev.ID,
		Status:     string(rev.Status),
	}
}
