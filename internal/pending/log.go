package pending

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"suicket/internal/models"
)

var (
	// ErrDuplicateIntent means an equivalent mutation (same kind, target
	// and actor) is already in flight. Guards against double-submit from
	// rapid repeated clicks.
	ErrDuplicateIntent = errors.New("duplicate mutation intent")

	// ErrUnknownCorrelation means the correlation id was never recorded or
	// is already retired. Correct callers never hit this.
	ErrUnknownCorrelation = errors.New("unknown correlation id")
)

// Log is the optimistic bookkeeping for writes in flight. It is a
// reconciliation aid, not an audit trail: entries are retired the moment
// their outcome is observed, and the whole log is lost on restart (the
// ledger remains the source of truth).
type Log struct {
	mu      sync.Mutex
	entries map[string]*models.PendingMutation
	order   []string
}

func NewLog() *Log {
	return &Log{entries: make(map[string]*models.PendingMutation)}
}

// Record inserts a Submitted entry and returns its correlation id. Fails
// with ErrDuplicateIntent if an equivalent mutation is already Submitted.
func (l *Log) Record(m models.PendingMutation) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range l.order {
		existing := l.entries[id]
		if existing.Kind == m.Kind && existing.TargetID == m.TargetID && existing.Actor == m.Actor {
			return "", fmt.Errorf("%w: %s on %s", ErrDuplicateIntent, m.Kind, m.TargetID)
		}
	}

	if m.CorrelationID == "" {
		m.CorrelationID = uuid.New().String()
	}
	if m.SubmittedAt.IsZero() {
		m.SubmittedAt = time.Now()
	}
	m.State = models.MutationSubmitted

	entry := m
	l.entries[m.CorrelationID] = &entry
	l.order = append(l.order, m.CorrelationID)
	return m.CorrelationID, nil
}

// MarkConfirmed retires the entry and returns it with its final state.
func (l *Log) MarkConfirmed(correlationID string) (*models.PendingMutation, error) {
	return l.retire(correlationID, models.MutationConfirmed)
}

// MarkFailed retires the entry after a rejected or failed submission.
func (l *Log) MarkFailed(correlationID string) (*models.PendingMutation, error) {
	return l.retire(correlationID, models.MutationFailed)
}

func (l *Log) retire(correlationID string, state models.MutationState) (*models.PendingMutation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[correlationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCorrelation, correlationID)
	}

	delete(l.entries, correlationID)
	for i, id := range l.order {
		if id == correlationID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	entry.State = state
	return entry, nil
}

// ActiveFor returns all Submitted entries touching the given target, in
// submission order.
func (l *Log) ActiveFor(targetID string) []models.PendingMutation {
	l.mu.Lock()
	defer l.mu.Unlock()

	var active []models.PendingMutation
	for _, id := range l.order {
		if entry := l.entries[id]; entry.TargetID == targetID {
			active = append(active, *entry)
		}
	}
	return active
}

// Active returns every Submitted entry in submission order.
func (l *Log) Active() []models.PendingMutation {
	l.mu.Lock()
	defer l.mu.Unlock()

	active := make([]models.PendingMutation, 0, len(l.order))
	for _, id := range l.order {
		active = append(active, *l.entries[id])
	}
	return active
}
