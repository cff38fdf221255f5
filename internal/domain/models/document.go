package models

import (
	"time"
)

// Document is the external content entity revisions attach to. The engine
// does not own document CRUD; the only field it ever writes is
// MainRevisionID, and only during an approval.
type Document struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Content        string    `json:"content" db:"content"` // un-revisioned content, authoritative until the first approval
	MainRevisionID *string   `json:"main_revision_id" db:"main_revision_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
