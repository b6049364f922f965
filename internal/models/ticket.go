package models

// TicketStatus matches the Move contract encoding: 0 = Valid, 1 = Used.
type TicketStatus int

const (
	TicketValid TicketStatus = 0
	TicketUsed  TicketStatus = 1
)

func (s TicketStatus) String() string {
	switch s {
	case TicketValid:
		return "valid"
	case TicketUsed:
		return "used"
	default:
		return "unknown"
	}
}

// Ticket mirrors the on-chain Ticket NFT. Status only ever transitions
// Valid -> Used, via a successful use_ticket transaction; redemption is a
// status change, never a deletion.
type Ticket struct {
	ObjectID     string       `json:"object_id"`
	TicketNumber int          `json:"ticket_number"`
	Owner        string       `json:"owner"`
	EventID      string       `json:"event_id"`
	EventName    string       `json:"event_name"`
	ImageURL     string       `json:"image_url"`
	Status       TicketStatus `json:"status"`
}
