package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrLedgerUnavailable covers network failures and timeouts. Transient,
	// retryable by the caller, never corrupts local state.
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// ErrNotFound means the id does not resolve to a live object.
	ErrNotFound = errors.New("object not found")
)

// RejectedError means the ledger explicitly refused the transaction
// (insufficient funds, stale object version, invalid argument). Not
// retryable without changing the intent.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction rejected: %s", e.Reason)
}

// MalformedError means a payload failed the typed parse boundary at the
// gateway edge. Fail fast, no retry.
type MalformedError struct {
	ObjectID string
	Detail   string
}

func (e *MalformedError) Error() string {
	if e.ObjectID != "" {
		return fmt.Sprintf("malformed object %s: %s", e.ObjectID, e.Detail)
	}
	return fmt.Sprintf("malformed payload: %s", e.Detail)
}
