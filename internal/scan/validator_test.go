package scan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"suicket/internal/ledger"
	"suicket/internal/logger"
	"suicket/internal/models"
)

var validTicketID = "0x" + strings.Repeat("ab", 31)

type fakeReader struct {
	snap  *ledger.ObjectSnapshot
	err   error
	calls int
}

func (r *fakeReader) GetObject(ctx context.Context, id string) (*ledger.ObjectSnapshot, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.snap, nil
}

func snapshotFor(ticket models.Ticket) *ledger.ObjectSnapshot {
	return &ledger.ObjectSnapshot{
		ObjectID:  ticket.ObjectID,
		Type:      "0xpkg::main::Ticket",
		FetchedAt: time.Now(),
		Ticket:    &ticket,
	}
}

func TestValidateValidTicket(t *testing.T) {
	reader := &fakeReader{snap: snapshotFor(models.Ticket{
		ObjectID:     validTicketID,
		TicketNumber: 42,
		Owner:        "0xholder",
		EventID:      "0xevent1",
		EventName:    "CalHacks 12.0",
		Status:       models.TicketValid,
	})}
	v := NewValidator(reader, logger.NewQuiet())

	result := v.Validate(context.Background(), validTicketID)

	assert.Equal(t, ClassValid, result.Classification)
	assert.True(t, result.Classification.Admissible())
	assert.Equal(t, 42, result.TicketNumber)
	assert.Equal(t, "CalHacks 12.0", result.EventName)
}

func TestValidateUsedTicketNeverAdmits(t *testing.T) {
	reader := &fakeReader{snap: snapshotFor(models.Ticket{
		ObjectID:     validTicketID,
		TicketNumber: 42,
		Status:       models.TicketUsed,
	})}
	v := NewValidator(reader, logger.NewQuiet())

	result := v.Validate(context.Background(), validTicketID)

	assert.Equal(t, ClassUsed, result.Classification)
	assert.False(t, result.Classification.Admissible())
	assert.Equal(t, "ticket already redeemed", result.Reason)
}

func TestValidateMalformedIDSkipsLedgerRead(t *testing.T) {
	reader := &fakeReader{}
	v := NewValidator(reader, logger.NewQuiet())

	for _, id := range []string{"", "not-an-id", "0x123", "0x" + strings.Repeat("zz", 31)} {
		result := v.Validate(context.Background(), id)
		assert.Equal(t, ClassMalformed, result.Classification, "id %q", id)
		assert.False(t, result.Classification.Admissible())
	}
	assert.Equal(t, 0, reader.calls, "malformed identifiers must be rejected locally")
}

func TestValidateNotFound(t *testing.T) {
	reader := &fakeReader{err: ledger.ErrNotFound}
	v := NewValidator(reader, logger.NewQuiet())

	result := v.Validate(context.Background(), validTicketID)

	assert.Equal(t, ClassNotFound, result.Classification)
	assert.False(t, result.Classification.Admissible())
}

func TestValidateLedgerUnavailableFailsClosed(t *testing.T) {
	reader := &fakeReader{err: ledger.ErrLedgerUnavailable}
	v := NewValidator(reader, logger.NewQuiet())

	result := v.Validate(context.Background(), validTicketID)

	// Fail closed, and with a verdict distinct from Used.
	assert.Equal(t, ClassUnverifiable, result.Classification)
	assert.False(t, result.Classification.Admissible())
	assert.NotEqual(t, ClassUsed, result.Classification)
}

func TestValidateUnexpectedErrorFailsClosed(t *testing.T) {
	reader := &fakeReader{err: errors.New("tls handshake failure")}
	v := NewValidator(reader, logger.NewQuiet())

	result := v.Validate(context.Background(), validTicketID)

	assert.Equal(t, ClassUnverifiable, result.Classification)
	assert.False(t, result.Classification.Admissible())
}

func TestValidateNonTicketObject(t *testing.T) {
	reader := &fakeReader{snap: &ledger.ObjectSnapshot{
		ObjectID:  validTicketID,
		Type:      "0xpkg::main::Event",
		FetchedAt: time.Now(),
		Event:     &models.Event{ObjectID: validTicketID},
	}}
	v := NewValidator(reader, logger.NewQuiet())

	result := v.Validate(context.Background(), validTicketID)

	assert.Equal(t, ClassMalformed, result.Classification)
	assert.Equal(t, "object is not a ticket", result.Reason)
}

func TestValidateMalformedRPCError(t *testing.T) {
	reader := &fakeReader{err: &ledger.MalformedError{ObjectID: validTicketID, Detail: "bad params"}}
	v := NewValidator(reader, logger.NewQuiet())

	result := v.Validate(context.Background(), validTicketID)

	assert.Equal(t, ClassMalformed, result.Classification)
}

func TestAdmissibleOnlyForValid(t *testing.T) {
	for _, c := range []Classification{ClassUsed, ClassNotFound, ClassMalformed, ClassUnverifiable} {
		assert.False(t, c.Admissible(), "%s must deny admission", c)
	}
	assert.True(t, ClassValid.Admissible())
}
