package repositories

import (
	"context"

	"docjays/internal/domain/models"
)

// DocumentRepository defines the engine's narrow view of documents.
// Document CRUD belongs to the platform's content layer; the revision
// engine only reads documents and compare-and-swaps the main pointer.
type DocumentRepository interface {
	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Create persists a new document (used by seeding, not by the engine)
	Create(ctx context.Context, doc *models.Document) error

	// SetMainRevision updates main_revision_id to revisionID, conditioned on
	// the pointer still holding expected (nil means "no main yet"). Returns
	// ConcurrentModificationError when the pointer has moved.
	SetMainRevision(ctx context.Context, documentID, revisionID string, expected *string) error
}
