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

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, name, content, main_revision_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Name,
		&doc.Content,
		&doc.MainRevisionID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// Create persists a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, content, main_revision_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		doc.ID,
		doc.Name,
		doc.Content,
		doc.MainRevisionID,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("document %s already exists: %w", doc.ID, domain.ErrValidation)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// SetMainRevision compare-and-swaps main_revision_id from expected to
// revisionID. IS NOT DISTINCT FROM makes the condition hold for the
// nil/NULL "no main yet" case too.
func (r *PostgresDocumentRepository) SetMainRevision(ctx context.Context, documentID, revisionID string, expected *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET main_revision_id = $2, updated_at = now()
		WHERE id = $1 AND main_revision_id IS NOT DISTINCT FROM $3
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, documentID, revisionID, expected)
	if err != nil {
		return fmt.Errorf("set main revision: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &domain.ConcurrentModificationError{
			Message: fmt.Sprintf("main revision of document %s moved during approval", documentID),
		}
	}

	return nil
}
