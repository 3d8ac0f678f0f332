package sync

import (
	"errors"
	"fmt"

	"countme-core/internal/domain"
)

var (
	// ErrNetworkUnavailable is recoverable: the queue is left intact and the
	// next cycle retries.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrNotAuthenticated is fatal for a cycle: nothing is pushed or pulled.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// RetryExhaustedError is the terminal signal for an operation that failed on
// every attempt up to the cap. The operation has been removed from the queue;
// the caller decides how to surface it.
type RetryExhaustedError struct {
	Entity   domain.EntityType
	EntityID string
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("sync of %s %s failed after %d attempts: %v", e.Entity, e.EntityID, e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// OwnershipError flags a data-integrity violation: an entity queued for
// upload whose owner is not the authenticated user. Never silently corrected.
type OwnershipError struct {
	Entity   domain.EntityType
	EntityID string
	Want     string
	Got      string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("%s %s belongs to user %q, authenticated as %q", e.Entity, e.EntityID, e.Got, e.Want)
}

// MalformedDocumentError marks a single remote record that failed validation
// and was skipped; siblings are unaffected.
type MalformedDocumentError struct {
	Collection domain.EntityType
	Reason     error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed %s document: %v", e.Collection, e.Reason)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Reason }
