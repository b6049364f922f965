package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ScanRecord is one row of the door check-in audit trail.
type ScanRecord struct {
	bun.BaseModel `bun:"table:scan_records"`

	ID             string    `bun:"id,pk" json:"id"`
	TicketID       string    `bun:"ticket_id,notnull" json:"ticket_id"`
	EventID        string    `bun:"event_id" json:"event_id"`
	TicketNumber   int       `bun:"ticket_number" json:"ticket_number"`
	Classification string    `bun:"classification,notnull" json:"classification"`
	Operator       string    `bun:"operator" json:"operator"`
	Reason         string    `bun:"reason" json:"reason,omitempty"`
	ScannedAt      time.Time `bun:"scanned_at,notnull" json:"scanned_at"`
}
