package ledger

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"suicket/internal/models"
)

// ObjectSnapshot is the typed, point-in-time view of one ledger object.
// Exactly one of Event or Ticket is set, depending on the object's Move
// struct type.
type ObjectSnapshot struct {
	ObjectID  string
	Type      string
	Version   uint64
	FetchedAt time.Time
	Event     *models.Event
	Ticket    *models.Ticket
}

// rawObject is the wire shape of a fullnode object response.
type rawObject struct {
	ObjectID string `json:"objectId"`
	Version  string `json:"version"`
	Type     string `json:"type"`
	Content  *struct {
		DataType string          `json:"dataType"`
		Fields   json.RawMessage `json:"fields"`
	} `json:"content"`
}

// u64str handles Sui's u64-as-string JSON encoding, tolerating plain
// numbers as well.
type u64str uint64

func (u *u64str) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*u = u64str(v)
	return nil
}

type rawEventFields struct {
	EventName         string `json:"event_name"`
	EventDescription  string `json:"event_description"`
	ImageURL          string `json:"image_url"`
	EventOwnerAddress string `json:"event_owner_address"`
	MaxTicketSupply   u64str `json:"max_ticket_supply"`
	TicketSold        u64str `json:"ticket_sold"`
	Price             u64str `json:"price"`
}

type rawTicketFields struct {
	TicketNumber u64str `json:"ticket_number"`
	Owner        string `json:"owner"`
	Status       int    `json:"status"`
	EventID      string `json:"event_id"`
	EventName    string `json:"event_name"`
	ImageURL     string `json:"image_url"`
}

// parseSnapshot is the parse-or-fail boundary: anything that does not
// decode into a typed Event or Ticket snapshot fails with MalformedError
// instead of leaking loosely-shaped JSON into the view.
func parseSnapshot(raw rawObject, fetchedAt time.Time) (*ObjectSnapshot, error) {
	if raw.ObjectID == "" {
		return nil, &MalformedError{Detail: "missing objectId"}
	}
	if raw.Content == nil {
		return nil, &MalformedError{ObjectID: raw.ObjectID, Detail: "missing content"}
	}
	if raw.Content.DataType != "moveObject" {
		return nil, &MalformedError{ObjectID: raw.ObjectID, Detail: "content is not a move object"}
	}

	version, _ := strconv.ParseUint(raw.Version, 10, 64)
	snap := &ObjectSnapshot{
		ObjectID:  raw.ObjectID,
		Type:      raw.Type,
		Version:   version,
		FetchedAt: fetchedAt,
	}

	switch {
	case strings.HasSuffix(raw.Type, "::Event"):
		var fields rawEventFields
		if err := json.Unmarshal(raw.Content.Fields, &fields); err != nil {
			return nil, &MalformedError{ObjectID: raw.ObjectID, Detail: "bad event fields: " + err.Error()}
		}
		if fields.EventName == "" {
			return nil, &MalformedError{ObjectID: raw.ObjectID, Detail: "event has no name"}
		}
		snap.Event = &models.Event{
			ObjectID:     raw.ObjectID,
			Name:         fields.EventName,
			Description:  fields.EventDescription,
			ImageURL:     fields.ImageURL,
			OwnerAddress: fields.EventOwnerAddress,
			MaxSupply:    int(fields.MaxTicketSupply),
			TicketsSold:  int(fields.TicketSold),
			PriceMist:    uint64(fields.Price),
		}

	case strings.HasSuffix(raw.Type, "::Ticket"):
		var fields rawTicketFields
		if err := json.Unmarshal(raw.Content.Fields, &fields); err != nil {
			return nil, &MalformedError{ObjectID: raw.ObjectID, Detail: "bad ticket fields: " + err.Error()}
		}
		if fields.Status != int(models.TicketValid) && fields.Status != int(models.TicketUsed) {
			return nil, &MalformedError{ObjectID: raw.ObjectID, Detail: "unknown ticket status " + strconv.Itoa(fields.Status)}
		}
		snap.Ticket = &models.Ticket{
			ObjectID:     raw.ObjectID,
			TicketNumber: int(fields.TicketNumber),
			Owner:        fields.Owner,
			EventID:      fields.EventID,
			EventName:    fields.EventName,
			ImageURL:     fields.ImageURL,
			Status:       models.TicketStatus(fields.Status),
		}

	default:
		return nil, &MalformedError{ObjectID: raw.ObjectID, Detail: "unexpected object type " + raw.Type}
	}

	return snap, nil
}

// IsWellFormedObjectID checks the Sui object id shape (0x followed by hex)
// before any network round trip is attempted.
func IsWellFormedObjectID(id string) bool {
	if !strings.HasPrefix(id, "0x") || len(id) < 60 {
		return false
	}
	for _, c := range id[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
