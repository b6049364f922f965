package scan

import (
	"context"
	"errors"
	"fmt"

	"suicket/internal/ledger"
	"suicket/internal/logger"
	"suicket/internal/models"
)

// Classification is the door-side verdict for a scanned identifier.
// Unverifiable is deliberately distinct from Used so staff can tell
// "deny - already used" from "deny - could not verify".
type Classification string

const (
	ClassValid        Classification = "VALID"
	ClassUsed         Classification = "USED"
	ClassNotFound     Classification = "NOT_FOUND"
	ClassMalformed    Classification = "MALFORMED"
	ClassUnverifiable Classification = "UNVERIFIABLE"
)

// Admissible reports whether the verdict admits the holder. Everything
// except a confirmed Valid fails closed.
func (c Classification) Admissible() bool {
	return c == ClassValid
}

// Result carries the verdict plus the ticket details staff see on screen.
type Result struct {
	Classification Classification `json:"classification"`
	TicketID       string         `json:"ticket_id"`
	TicketNumber   int            `json:"ticket_number,omitempty"`
	Owner          string         `json:"owner,omitempty"`
	EventID        string         `json:"event_id,omitempty"`
	EventName      string         `json:"event_name,omitempty"`
	Reason         string         `json:"reason,omitempty"`
}

// Validator performs the trust-sensitive check-in read. It never consults
// the reconciled view store: an optimistic Used overlay from another
// device must not mask a real double-redemption, and a stale cached Valid
// must not admit an already-used ticket.
type Validator struct {
	Gateway ledger.ObjectReader
	Logger  *logger.Logger
}

func NewValidator(gateway ledger.ObjectReader, log *logger.Logger) *Validator {
	return &Validator{Gateway: gateway, Logger: log}
}

// Validate issues a fresh authoritative read for the scanned identifier
// and classifies the ticket's redemption state.
func (v *Validator) Validate(ctx context.Context, ticketID string) Result {
	if !ledger.IsWellFormedObjectID(ticketID) {
		v.Logger.LogScan(string(ClassMalformed), ticketID, "identifier rejected before ledger read")
		return Result{
			Classification: ClassMalformed,
			TicketID:       ticketID,
			Reason:         "identifier is not a valid object id",
		}
	}

	snap, err := v.Gateway.GetObject(ctx, ticketID)
	if err != nil {
		return v.classifyError(ticketID, err)
	}

	if snap.Ticket == nil {
		v.Logger.LogScan(string(ClassMalformed), ticketID, "object is not a ticket")
		return Result{
			Classification: ClassMalformed,
			TicketID:       ticketID,
			Reason:         "object is not a ticket",
		}
	}

	result := Result{
		TicketID:     ticketID,
		TicketNumber: snap.Ticket.TicketNumber,
		Owner:        snap.Ticket.Owner,
		EventID:      snap.Ticket.EventID,
		EventName:    snap.Ticket.EventName,
	}

	switch snap.Ticket.Status {
	case models.TicketUsed:
		result.Classification = ClassUsed
		result.Reason = "ticket already redeemed"
	default:
		result.Classification = ClassValid
	}

	v.Logger.LogScan(string(result.Classification), ticketID, fmt.Sprintf("ticket #%d", result.TicketNumber))
	return result
}

// classifyError fails closed: any ambiguous or unreachable-ledger
// condition denies admission, with a verdict distinct from Used.
func (v *Validator) classifyError(ticketID string, err error) Result {
	result := Result{TicketID: ticketID, Reason: err.Error()}

	var malformed *ledger.MalformedError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		result.Classification = ClassNotFound
		result.Reason = "ticket not found on ledger"
	case errors.As(err, &malformed):
		result.Classification = ClassMalformed
	default:
		// Includes ErrLedgerUnavailable and anything unexpected.
		result.Classification = ClassUnverifiable
	}

	v.Logger.LogScan(string(result.Classification), ticketID, result.Reason)
	return result
}
