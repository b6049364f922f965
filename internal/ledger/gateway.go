package ledger

import "context"

// TransactionIntent is an opaque, pre-built transaction payload. The
// gateway passes it through unmodified; construction (move calls, gas,
// signing) belongs to the caller's transaction builder.
type TransactionIntent struct {
	TxBytes    string   `json:"tx_bytes"`
	Signatures []string `json:"signatures"`
}

// TransactionOutcome is the result of a submission that reached finality.
type TransactionOutcome struct {
	Digest  string `json:"digest"`
	Success bool   `json:"success"`
}

// Gateway is the sole channel to the external ledger. It holds no local
// state and guarantees no idempotence; callers de-duplicate via the
// pending mutation log.
type Gateway interface {
	// GetObject fetches the current state of one object. Fails with
	// ErrNotFound, ErrLedgerUnavailable or a MalformedError.
	GetObject(ctx context.Context, id string) (*ObjectSnapshot, error)

	// ListOwnedObjects pages through the objects of the given struct type
	// owned by an address. Results are a point-in-time snapshot, not a
	// live view.
	ListOwnedObjects(owner, structType string) *Pager

	// ListObjectsByType pages through all live objects of a struct type.
	// Used for the public event catalog; same snapshot semantics.
	ListObjectsByType(structType string) *Pager

	// Submit sends a transaction and blocks until finality. Fails with a
	// RejectedError or ErrLedgerUnavailable.
	Submit(ctx context.Context, intent TransactionIntent) (TransactionOutcome, error)
}

// ObjectReader is the read-only slice of Gateway needed by trust-sensitive
// consumers like the scan validator.
type ObjectReader interface {
	GetObject(ctx context.Context, id string) (*ObjectSnapshot, error)
}
