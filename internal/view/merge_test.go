package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"suicket/internal/models"
)

func baseEvent() models.Event {
	return models.Event{
		ObjectID:    "0xevent1",
		Name:        "CalHacks 12.0",
		Description: "Hackathon",
		MaxSupply:   50,
		TicketsSold: 10,
		PriceMist:   1_000_000_000,
	}
}

func purchase(qty, baseline int, submittedAt time.Time) models.PendingMutation {
	return models.PendingMutation{
		Kind:         models.MutationPurchaseTickets,
		TargetID:     "0xevent1",
		Actor:        "0xbuyer",
		Quantity:     qty,
		BaselineSold: baseline,
		SubmittedAt:  submittedAt,
	}
}

func TestMergeEventPurchaseOverlay(t *testing.T) {
	now := time.Now()
	snapshotTime := now.Add(-time.Minute) // snapshot is older than the mutation

	merged := MergeEvent(baseEvent(), []models.PendingMutation{purchase(3, 10, now)}, snapshotTime)

	assert.Equal(t, 13, merged.TicketsSold)
	assert.Equal(t, 3, merged.InFlight)
}

func TestMergeEventSoldNeverExceedsMaxSupply(t *testing.T) {
	now := time.Now()
	snapshotTime := now.Add(-time.Minute)

	ev := baseEvent()
	ev.TicketsSold = 49

	// 49 sold, purchase of 2: overlay caps at maxSupply.
	merged := MergeEvent(ev, []models.PendingMutation{purchase(2, 49, now)}, snapshotTime)

	assert.Equal(t, 50, merged.TicketsSold)
	assert.True(t, merged.SoldOut())
	assert.Equal(t, 2, merged.InFlight)
}

func TestMergeEventSoldNeverDecreases(t *testing.T) {
	now := time.Now()
	snapshotTime := now.Add(-time.Minute)

	ev := baseEvent()
	var mutations []models.PendingMutation
	for i := 0; i < 5; i++ {
		m := purchase(7, ev.TicketsSold, now.Add(time.Duration(i)*time.Second))
		m.Actor = "0xbuyer" // same actor, distinct submissions
		mutations = append(mutations, m)
	}

	prev := ev.TicketsSold
	for i := range mutations {
		merged := MergeEvent(ev, mutations[:i+1], snapshotTime)
		assert.GreaterOrEqual(t, merged.TicketsSold, prev)
		assert.LessOrEqual(t, merged.TicketsSold, ev.MaxSupply)
		prev = merged.TicketsSold
	}
}

func TestMergeEventSkipsStalePurchase(t *testing.T) {
	submittedAt := time.Now().Add(-time.Minute)
	snapshotTime := time.Now() // snapshot is fresher than the mutation

	ev := baseEvent()
	ev.TicketsSold = 13 // ledger already reflects baseline 10 + qty 3

	merged := MergeEvent(ev, []models.PendingMutation{purchase(3, 10, submittedAt)}, snapshotTime)

	// No double-application once confirmed data arrives.
	assert.Equal(t, 13, merged.TicketsSold)
}

func TestMergeEventLedgerCorrectsOptimisticCap(t *testing.T) {
	// Event has maxSupply=50, sold=49; a purchase of 2 was optimistically
	// capped at 50, but the ledger only minted 1 ticket. The fresh
	// snapshot carries the true sold count and wins.
	submittedAt := time.Now().Add(-time.Minute)
	snapshotTime := time.Now()

	ev := baseEvent()
	ev.TicketsSold = 50 // ledger truth after partial mint

	merged := MergeEvent(ev, []models.PendingMutation{purchase(2, 49, submittedAt)}, snapshotTime)

	// 50 >= 49+2 is false, so the mutation is not considered stale, but
	// re-applying it still caps at maxSupply: the view equals the ledger.
	assert.Equal(t, 50, merged.TicketsSold)
	assert.True(t, merged.SoldOut())
}

func TestMergeEventUpdateOverlay(t *testing.T) {
	now := time.Now()
	snapshotTime := now.Add(-time.Minute)

	mutations := []models.PendingMutation{
		{
			Kind:        models.MutationUpdateEvent,
			TargetID:    "0xevent1",
			Field:       models.FieldDescription,
			StringValue: "Updated description",
			SubmittedAt: now,
		},
		{
			Kind:        models.MutationUpdateEvent,
			TargetID:    "0xevent1",
			Field:       models.FieldPrice,
			NumberValue: 2_000_000_000,
			SubmittedAt: now.Add(time.Second),
		},
	}

	merged := MergeEvent(baseEvent(), mutations, snapshotTime)

	assert.Equal(t, "Updated description", merged.Description)
	assert.Equal(t, uint64(2_000_000_000), merged.PriceMist)
}

func TestMergeEventLastSubmittedWins(t *testing.T) {
	now := time.Now()
	snapshotTime := now.Add(-time.Minute)

	mutations := []models.PendingMutation{
		{
			Kind:        models.MutationUpdateEvent,
			Field:       models.FieldDescription,
			StringValue: "first",
			SubmittedAt: now,
		},
		{
			Kind:        models.MutationUpdateEvent,
			Field:       models.FieldDescription,
			StringValue: "second",
			SubmittedAt: now.Add(time.Second),
		},
	}

	merged := MergeEvent(baseEvent(), mutations, snapshotTime)
	assert.Equal(t, "second", merged.Description)
}

func TestMergeEventSkipsStaleUpdate(t *testing.T) {
	submittedAt := time.Now().Add(-time.Minute)
	snapshotTime := time.Now()

	ev := baseEvent()
	ev.Description = "already applied"

	merged := MergeEvent(ev, []models.PendingMutation{{
		Kind:        models.MutationUpdateEvent,
		Field:       models.FieldDescription,
		StringValue: "already applied",
		SubmittedAt: submittedAt,
	}}, snapshotTime)

	assert.Equal(t, "already applied", merged.Description)
}

func TestMergeTicketRedeemOverlay(t *testing.T) {
	now := time.Now()
	snapshotTime := now.Add(-time.Minute)

	ticket := models.Ticket{
		ObjectID:     "0xticket1",
		TicketNumber: 7,
		Status:       models.TicketValid,
	}

	merged := MergeTicket(ticket, []models.PendingMutation{{
		Kind:        models.MutationRedeemTicket,
		TargetID:    "0xticket1",
		SubmittedAt: now,
	}}, snapshotTime)

	assert.Equal(t, models.TicketUsed, merged.Status)
	assert.True(t, merged.RedeemInFlight)
}

func TestMergeTicketSkipsStaleRedeem(t *testing.T) {
	submittedAt := time.Now().Add(-time.Minute)
	snapshotTime := time.Now()

	ticket := models.Ticket{
		ObjectID: "0xticket1",
		Status:   models.TicketUsed, // ledger already reflects the redemption
	}

	merged := MergeTicket(ticket, []models.PendingMutation{{
		Kind:        models.MutationRedeemTicket,
		TargetID:    "0xticket1",
		SubmittedAt: submittedAt,
	}}, snapshotTime)

	assert.Equal(t, models.TicketUsed, merged.Status)
	assert.False(t, merged.RedeemInFlight)
}

func TestMergeIsPure(t *testing.T) {
	now := time.Now()
	snapshotTime := now.Add(-time.Minute)

	ev := baseEvent()
	mutations := []models.PendingMutation{purchase(3, 10, now)}

	first := MergeEvent(ev, mutations, snapshotTime)
	second := MergeEvent(ev, mutations, snapshotTime)

	assert.Equal(t, first, second)
	assert.Equal(t, 10, ev.TicketsSold, "inputs must not be mutated")
}
