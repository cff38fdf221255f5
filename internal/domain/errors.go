package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a document or revision id is unknown
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrConflictedRevision     = errors.New("revision is conflicted")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// InvalidTransitionError indicates an operation that is not legal from the
// revision's current status (including any operation on a terminal revision).
type InvalidTransitionError struct {
	Message    string // Human-readable error message
	RevisionID string // Revision the transition was attempted on
	Status     string // Status the revision was in at the time
}

func (e *InvalidTransitionError) Error() string {
	return e.Message
}

func (e *InvalidTransitionError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrInvalidTransition
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ConflictedRevisionError indicates an approve attempted on a revision whose
// base has diverged from the document's current main revision.
type ConflictedRevisionError struct {
	Message       string // Human-readable error message
	RevisionID    string // Revision that cannot be approved
	ConflictsWith string // ID of the main revision it diverged from, if known
}

func (e *ConflictedRevisionError) Error() string {
	return e.Message
}

func (e *ConflictedRevisionError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflictedRevision
func (e *ConflictedRevisionError) Is(target error) bool {
	return target == ErrConflictedRevision
}

// ConcurrentModificationError indicates an optimistic write precondition
// failed: the revision or the document's main pointer changed between read
// and write. Retrying the whole operation is safe.
type ConcurrentModificationError struct {
	Message string
}

func (e *ConcurrentModificationError) Error() string {
	return e.Message
}

func (e *ConcurrentModificationError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConcurrentModification
func (e *ConcurrentModificationError) Is(target error) bool {
	return target == ErrConcurrentModification
}
