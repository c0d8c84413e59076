package domain

import (
	"errors"
	"fmt"
)

// Remote response classes. NotFound and Conflict are branch signals more often
// than failures: a missing entity triggers the fallback path and a duplicate
// key means another caller won the creation race.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("duplicate key conflict")
	ErrRateLimited = errors.New("rate limited")
	// ErrAmbiguous marks a create response that was accepted but did not
	// confirm the outcome; reconciliation must re-query before giving up.
	ErrAmbiguous = errors.New("remote accepted request without confirming outcome")
)

// Order document validation.
var (
	ErrMissingNumber = errors.New("order_number is required")
	ErrNoLineItems   = errors.New("order must contain at least one line item")
	ErrMissingSKU    = errors.New("line item sku is required")
	ErrBadQuantity   = errors.New("line item quantity must be greater than zero")
	ErrBadPrice      = errors.New("line item price must be non-negative")
)

// RemoteError is a non-retriable server-side failure from the ERP API.
type RemoteError struct {
	Status int
	Body   []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Body)
}

// SyncError is the terminal failure of an order sync. It keeps the external
// reference and the last known remote status so the operator can reconcile
// manually.
type SyncError struct {
	Reference  string
	LastStatus int
	Err        error
}

func (e *SyncError) Error() string {
	if e.LastStatus > 0 {
		return fmt.Sprintf("sync %s failed (last remote status %d): %v", e.Reference, e.LastStatus, e.Err)
	}
	return fmt.Sprintf("sync %s failed: %v", e.Reference, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
