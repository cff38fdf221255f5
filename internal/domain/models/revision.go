package models

import (
	"time"
)

// RevisionStatus is the lifecycle state of a revision.
// The set is closed; every transition goes through the revision service,
// which consults the transition table below.
type RevisionStatus string

const (
	StatusDraft      RevisionStatus = "draft"
	StatusProposed   RevisionStatus = "proposed"
	StatusApproved   RevisionStatus = "approved"
	StatusRejected   RevisionStatus = "rejected"
	StatusConflicted RevisionStatus = "conflicted"
)

// AuthorType identifies whether a revision was authored by a person or an AI assistant.
type AuthorType string

const (
	AuthorHuman AuthorType = "human"
	AuthorAI    AuthorType = "ai"
)

// Valid reports whether s is one of the five known statuses.
func (s RevisionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusProposed, StatusApproved, StatusRejected, StatusConflicted:
		return true
	}
	return false
}

// Terminal reports whether a revision in this status can never transition again.
func (s RevisionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// transitions is the legal state-transition table. Approve additionally
// requires has_conflicts = false, enforced by the service inside the
// approval transaction. proposed -> proposed and conflicted -> conflicted
// are the two rebase outcomes.
var transitions = map[RevisionStatus][]RevisionStatus{
	StatusDraft:      {StatusProposed, StatusConflicted, StatusRejected},
	StatusProposed:   {StatusApproved, StatusRejected, StatusProposed, StatusConflicted},
	StatusConflicted: {StatusProposed, StatusConflicted},
}

// CanTransitionTo reports whether the table allows moving from s to next.
// Terminal statuses have no outgoing edges.
func (s RevisionStatus) CanTransitionTo(next RevisionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether a is a known author type.
func (a AuthorType) Valid() bool {
	return a == AuthorHuman || a == AuthorAI
}

// Revision is a full-content snapshot of a document together with its
// lineage and review metadata. Content is a complete replacement text,
// not a diff. Approved revisions are immutable.
type Revision struct {
	ID                string         `json:"id" db:"id"`
	DocumentID        string         `json:"document_id" db:"document_id"`
	BasedOnRevisionID *string        `json:"based_on_revision_id" db:"based_on_revision_id"` // nil only for a document's first revision
	Title             string         `json:"title" db:"title"`
	Description       string         `json:"description" db:"description"`
	Content           string         `json:"content" db:"content"`
	Status            RevisionStatus `json:"status" db:"status"`
	IsMain            bool           `json:"is_main" db:"is_main"`
	HasConflicts      bool           `json:"has_conflicts" db:"has_conflicts"`
	ConflictReason    *string        `json:"conflict_reason,omitempty" db:"conflict_reason"`
	AuthorType        AuthorType     `json:"author_type" db:"author_type"`
	SourceClient      string         `json:"source_client" db:"source_client"` // editor, cli, assistant, ...
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	ProposedAt        *time.Time     `json:"proposed_at,omitempty" db:"proposed_at"`
	ApprovedAt        *time.Time     `json:"approved_at,omitempty" db:"approved_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}
