package view

import (
	"time"

	"suicket/internal/models"
)

// EventView is the Event projection served to the UI. InFlight carries the
// quantity of a purchase that is submitted but not yet confirmed; the
// overlay never fabricates Ticket entities because their ids are unknown
// until the ledger mints them.
type EventView struct {
	models.Event
	InFlight int `json:"in_flight"`
}

// TicketView is the Ticket projection. RedeemInFlight marks an optimistic
// Used overlay that the ledger has not confirmed yet.
type TicketView struct {
	models.Ticket
	RedeemInFlight bool `json:"redeem_in_flight"`
}

// MergeEvent overlays the active mutations for one event onto its ledger
// snapshot. Pure function of its inputs. Mutations are applied in
// submission order, so conflicting overlays resolve last-submitted-wins;
// a mutation whose effect a newer snapshot already reflects is stale and
// skipped, preventing double-counting once confirmed data arrives.
func MergeEvent(ev models.Event, mutations []models.PendingMutation, snapshotTime time.Time) EventView {
	merged := EventView{Event: ev}

	for _, m := range mutations {
		newerSnapshot := snapshotTime.After(m.SubmittedAt)

		switch m.Kind {
		case models.MutationPurchaseTickets:
			if newerSnapshot && merged.TicketsSold >= m.BaselineSold+m.Quantity {
				continue // ledger already reflects this purchase
			}
			sold := merged.TicketsSold + m.Quantity
			if sold > merged.MaxSupply {
				sold = merged.MaxSupply
			}
			merged.TicketsSold = sold
			merged.InFlight += m.Quantity

		case models.MutationUpdateEvent:
			switch m.Field {
			case models.FieldDescription:
				if newerSnapshot && merged.Description == m.StringValue {
					continue
				}
				merged.Description = m.StringValue
			case models.FieldMaxSupply:
				if newerSnapshot && merged.MaxSupply == int(m.NumberValue) {
					continue
				}
				merged.MaxSupply = int(m.NumberValue)
			case models.FieldPrice:
				if newerSnapshot && merged.PriceMist == m.NumberValue {
					continue
				}
				merged.PriceMist = m.NumberValue
			}
		}
	}

	return merged
}

// MergeTicket overlays a pending redemption onto a ticket snapshot. The
// optimistic Used state shows up immediately so a scan-in-progress UI does
// not wait for finality.
func MergeTicket(t models.Ticket, mutations []models.PendingMutation, snapshotTime time.Time) TicketView {
	merged := TicketView{Ticket: t}

	for _, m := range mutations {
		if m.Kind != models.MutationRedeemTicket {
			continue
		}
		if snapshotTime.After(m.SubmittedAt) && merged.Status == models.TicketUsed {
			continue // ledger already reflects the redemption
		}
		merged.Status = models.TicketUsed
		merged.RedeemInFlight = true
	}

	return merged
}
