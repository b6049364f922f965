package ledger

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suicket/internal/models"
)

func rawEvent(t *testing.T, id string, fields string) rawObject {
	t.Helper()
	var raw rawObject
	payload := `{
		"objectId": "` + id + `",
		"version": "42",
		"type": "0xpkg::main::Event",
		"content": {"dataType": "moveObject", "fields": ` + fields + `}
	}`
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestParseSnapshotEvent(t *testing.T) {
	raw := rawEvent(t, "0xevent1", `{
		"event_name": "CalHacks 12.0",
		"event_description": "Hackathon",
		"image_url": "https://img.example/e.png",
		"event_owner_address": "0xorganizer",
		"max_ticket_supply": "50",
		"ticket_sold": "10",
		"price": "1000000000"
	}`)

	fetchedAt := time.Now()
	snap, err := parseSnapshot(raw, fetchedAt)
	require.NoError(t, err)

	require.NotNil(t, snap.Event)
	assert.Nil(t, snap.Ticket)
	assert.Equal(t, uint64(42), snap.Version)
	assert.Equal(t, fetchedAt, snap.FetchedAt)
	assert.Equal(t, "CalHacks 12.0", snap.Event.Name)
	assert.Equal(t, 50, snap.Event.MaxSupply)
	assert.Equal(t, 10, snap.Event.TicketsSold)
	assert.Equal(t, uint64(1_000_000_000), snap.Event.PriceMist)
}

func TestParseSnapshotTicket(t *testing.T) {
	var raw rawObject
	payload := `{
		"objectId": "0xticket1",
		"version": "7",
		"type": "0xpkg::main::Ticket",
		"content": {"dataType": "moveObject", "fields": {
			"ticket_number": "11",
			"owner": "0xholder",
			"status": 1,
			"event_id": "0xevent1",
			"event_name": "CalHacks 12.0",
			"image_url": ""
		}}
	}`
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	snap, err := parseSnapshot(raw, time.Now())
	require.NoError(t, err)

	require.NotNil(t, snap.Ticket)
	assert.Nil(t, snap.Event)
	assert.Equal(t, 11, snap.Ticket.TicketNumber)
	assert.Equal(t, models.TicketUsed, snap.Ticket.Status)
	assert.Equal(t, "0xevent1", snap.Ticket.EventID)
}

func TestParseSnapshotNumericU64(t *testing.T) {
	// Some fullnodes serialize u64 as a plain JSON number.
	raw := rawEvent(t, "0xevent1", `{
		"event_name": "CalHacks",
		"max_ticket_supply": 50,
		"ticket_sold": 10,
		"price": 0
	}`)

	snap, err := parseSnapshot(raw, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 50, snap.Event.MaxSupply)
	assert.Equal(t, uint64(0), snap.Event.PriceMist)
}

func TestParseSnapshotMalformed(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"missing object id", `{"version":"1","type":"0xpkg::main::Event","content":{"dataType":"moveObject","fields":{}}}`},
		{"missing content", `{"objectId":"0xo","version":"1","type":"0xpkg::main::Event"}`},
		{"not a move object", `{"objectId":"0xo","version":"1","type":"0xpkg::main::Event","content":{"dataType":"package","fields":{}}}`},
		{"unexpected type", `{"objectId":"0xo","version":"1","type":"0xpkg::main::Venue","content":{"dataType":"moveObject","fields":{}}}`},
		{"event without name", `{"objectId":"0xo","version":"1","type":"0xpkg::main::Event","content":{"dataType":"moveObject","fields":{"max_ticket_supply":"5"}}}`},
		{"unknown ticket status", `{"objectId":"0xo","version":"1","type":"0xpkg::main::Ticket","content":{"dataType":"moveObject","fields":{"ticket_number":"1","status":9}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var raw rawObject
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &raw))

			_, err := parseSnapshot(raw, time.Now())
			var malformed *MalformedError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestIsWellFormedObjectID(t *testing.T) {
	valid := "0x" + strings.Repeat("a1", 31)
	assert.True(t, IsWellFormedObjectID(valid))
	assert.True(t, IsWellFormedObjectID("0x"+strings.Repeat("F", 64)))

	assert.False(t, IsWellFormedObjectID(""))
	assert.False(t, IsWellFormedObjectID("0x123"))
	assert.False(t, IsWellFormedObjectID(strings.Repeat("a", 64)), "missing 0x prefix")
	assert.False(t, IsWellFormedObjectID("0x"+strings.Repeat("g", 62)), "non-hex characters")
}
