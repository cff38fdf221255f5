package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docjays/internal/domain"
	"docjays/internal/domain/models"
	"docjays/internal/domain/repositories"
)

// revisionColumns is the select list shared by every revision query, in
// scanRevision order.
const revisionColumns = `id, document_id, based_on_revision_id, title, description, content,
		status, is_main, has_conflicts, conflict_reason, author_type, source_client,
		created_at, proposed_at, approved_at, updated_at`

// PostgresRevisionRepository implements the RevisionRepository interface
type PostgresRevisionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(config *RepositoryConfig) repositories.RevisionRepository {
	return &PostgresRevisionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create persists a new revision record
func (r *PostgresRevisionRepository) Create(ctx context.Context, rev *models.Revision) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, based_on_revision_id, title, description, content,
			status, is_main, has_conflicts, conflict_reason, author_type, source_client,
			created_at, proposed_at, approved_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, r.tables.Revisions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		rev.ID,
		rev.DocumentID,
		rev.BasedOnRevisionID,
		rev.Title,
		rev.Description,
		rev.Content,
		rev.Status,
		rev.IsMain,
		rev.HasConflicts,
		rev.ConflictReason,
		rev.AuthorType,
		rev.SourceClient,
		rev.CreatedAt,
		rev.ProposedAt,
		rev.ApprovedAt,
		rev.UpdatedAt,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", rev.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create revision: %w", err)
	}

	return nil
}

// GetByID retrieves a revision by ID
func (r *PostgresRevisionRepository) GetByID(ctx context.Context, id string) (*models.Revision, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, revisionColumns, r.tables.Revisions)

	executor := GetExecutor(ctx, r.pool)
	rev, err := scanRevision(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("revision %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get revision: %w", err)
	}

	return rev, nil
}

// ListByDocument lists all revisions of a document, oldest first
func (r *PostgresRevisionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Revision, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at ASC, id ASC
	`, revisionColumns, r.tables.Revisions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}

	return revisions, nil
}

// UpdateTransition writes the revision's mutable fields conditioned on its
// status still being from. A zero-row update means another caller moved the
// revision first.
func (r *PostgresRevisionRepository) UpdateTransition(ctx context.Context, rev *models.Revision, from models.RevisionStatus) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2,
			based_on_revision_id = $3,
			is_main = $4,
			has_conflicts = $5,
			conflict_reason = $6,
			proposed_at = $7,
			approved_at = $8,
			updated_at = $9
		WHERE id = $1 AND status = $10
	`, r.tables.Revisions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		rev.ID,
		rev.Status,
		rev.BasedOnRevisionID,
		rev.IsMain,
		rev.HasConflicts,
		rev.ConflictReason,
		rev.ProposedAt,
		rev.ApprovedAt,
		rev.UpdatedAt,
		from,
	)
	if err != nil {
		return fmt.Errorf("update revision: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &domain.ConcurrentModificationError{
			Message: fmt.Sprintf("revision %s changed while transitioning from %s", rev.ID, from),
		}
	}

	return nil
}

// ClearMainFlag clears is_main on every revision of the document except exceptID
func (r *PostgresRevisionRepository) ClearMainFlag(ctx context.Context, documentID, exceptID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_main = false, updated_at = now()
		WHERE document_id = $1 AND is_main AND id <> $2
	`, r.tables.Revisions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID, exceptID); err != nil {
		return fmt.Errorf("clear main flag: %w", err)
	}

	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRevision(row rowScanner) (*models.Revision, error) {
	var rev models.Revision
	err := row.Scan(
		&rev.ID,
		&rev.DocumentID,
		&rev.BasedOnRevisionID,
		&rev.Title,
		&rev.Description,
		&rev.Content,
		&rev.Status,
		&rev.IsMain,
		&rev.HasConflicts,
		&rev.ConflictReason,
		&rev.AuthorType,
		&rev.SourceClient,
		&rev.CreatedAt,
		&rev.ProposedAt,
		&rev.ApprovedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}
