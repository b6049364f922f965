package models

import "time"

// PurchaseNotice is published after a purchase reaches finality. The email
// relay consumes it and sends the confirmation; delivery is best-effort and
// never blocks or rolls back the purchase itself.
type PurchaseNotice struct {
	Digest           string   `json:"digest"`
	EventID          string   `json:"event_id"`
	EventName        string   `json:"event_name"`
	EventDescription string   `json:"event_description"`
	TicketURLs       []string `json:"ticket_urls"`
	RecipientEmail   string   `json:"recipient_email"`
	Quantity         int      `json:"quantity"`
	PriceMist        uint64   `json:"price_mist"`
}

// RedeemNotice is published after a redeem transaction reaches finality.
type RedeemNotice struct {
	Digest     string    `json:"digest"`
	TicketID   string    `json:"ticket_id"`
	EventID    string    `json:"event_id"`
	Owner      string    `json:"owner"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// CheckinNotice is published by the scanner service when a ticket is
// admitted at the door.
type CheckinNotice struct {
	TicketID       string    `json:"ticket_id"`
	EventID        string    `json:"event_id"`
	TicketNumber   int       `json:"ticket_number"`
	Operator       string    `json:"operator"`
	Classification string    `json:"classification"`
	ScannedAt      time.Time `json:"scanned_at"`
}
