package models

import "time"

type MutationKind string

const (
	MutationPurchaseTickets MutationKind = "purchase_tickets"
	MutationRedeemTicket    MutationKind = "redeem_ticket"
	MutationUpdateEvent     MutationKind = "update_event"
)

type MutationState string

const (
	MutationSubmitted MutationState = "submitted"
	MutationConfirmed MutationState = "confirmed"
	MutationFailed    MutationState = "failed"
)

// EventField names the updatable Event attributes, matching the Move entry
// points update_description, update_max_ticket_supply and update_price.
type EventField string

const (
	FieldDescription EventField = "description"
	FieldMaxSupply   EventField = "max_ticket_supply"
	FieldPrice       EventField = "price"
)

// PendingMutation is a locally-submitted, not-yet-finalized write. It lives
// only in the session that created it; the ledger remains the source of
// truth if the process restarts.
type PendingMutation struct {
	CorrelationID string        `json:"correlation_id"`
	Kind          MutationKind  `json:"kind"`
	TargetID      string        `json:"target_id"`
	Actor         string        `json:"actor"`
	State         MutationState `json:"state"`
	SubmittedAt   time.Time     `json:"submitted_at"`

	// PurchaseTickets: requested quantity and the sold count observed when
	// the mutation was submitted. The baseline lets the view detect a fresh
	// snapshot that already includes this purchase.
	Quantity     int `json:"quantity,omitempty"`
	BaselineSold int `json:"baseline_sold,omitempty"`

	// UpdateEvent: which field changes and its new value. StringValue is
	// used for the description, NumberValue for max supply and price.
	Field       EventField `json:"field,omitempty"`
	StringValue string     `json:"string_value,omitempty"`
	NumberValue uint64     `json:"number_value,omitempty"`
}
