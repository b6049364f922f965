package view

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"suicket/internal/ledger"
	"suicket/internal/logger"
	"suicket/internal/models"
	"suicket/internal/pending"
)

// Notifier is the best-effort side channel for confirmed mutations. A
// failed notification is logged and never rolls back or blocks the
// mutation it reports on.
type Notifier interface {
	TicketsPurchased(ctx context.Context, notice models.PurchaseNotice) error
	TicketRedeemed(ctx context.Context, notice models.RedeemNotice) error
}

// Snapshot is one consistent projection of events and tickets: the last
// good ledger read overlaid with every mutation still in flight. Stale is
// set when the most recent refresh failed and the data is served from the
// previous good read.
type Snapshot struct {
	Events  []EventView  `json:"events"`
	Tickets []TicketView `json:"tickets"`
	Stale   bool         `json:"stale"`
	AsOf    time.Time    `json:"as_of"`
}

// Store merges ledger snapshots with the pending mutation log into the
// single view the UI reads from. Refreshes happen only on explicit
// triggers (user action, post-submission) so latency and failure
// attribution stay visible to the caller.
type Store struct {
	gateway  ledger.Gateway
	log      *pending.Log
	notifier Notifier
	logger   *logger.Logger

	owner         string
	eventType     string
	ticketType    string
	ticketURLBase string

	mu      sync.Mutex
	events  map[string]models.Event
	tickets map[string]models.Ticket
	asOf    time.Time
	stale   bool
}

// Option configures a Store.
type Option func(*Store)

// WithTicketURLBase sets the explorer base URL used to build the ticket
// links included in purchase confirmations.
func WithTicketURLBase(base string) Option {
	return func(s *Store) { s.ticketURLBase = base }
}

func NewStore(gw ledger.Gateway, log *pending.Log, notifier Notifier, lg *logger.Logger, owner, packageID string, opts ...Option) *Store {
	s := &Store{
		gateway:       gw,
		log:           log,
		notifier:      notifier,
		logger:        lg,
		owner:         owner,
		eventType:     packageID + "::main::Event",
		ticketType:    packageID + "::main::Ticket",
		ticketURLBase: "https://suiscan.xyz/testnet/object",
		events:        make(map[string]models.Event),
		tickets:       make(map[string]models.Ticket),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the cached ledger snapshot set with a fresh read. On
// failure the previous good snapshot is kept and marked stale; View still
// serves it, so readers degrade instead of blanking.
func (s *Store) Refresh(ctx context.Context) error {
	eventSnaps, err := s.gateway.ListObjectsByType(s.eventType).Collect(ctx)
	if err != nil {
		s.markStale()
		return fmt.Errorf("refreshing event catalog: %w", err)
	}

	ticketSnaps, err := s.gateway.ListOwnedObjects(s.owner, s.ticketType).Collect(ctx)
	if err != nil {
		s.markStale()
		return fmt.Errorf("refreshing owned tickets: %w", err)
	}

	events := make(map[string]models.Event, len(eventSnaps))
	for _, snap := range eventSnaps {
		if snap.Event != nil {
			events[snap.ObjectID] = *snap.Event
		}
	}
	tickets := make(map[string]models.Ticket, len(ticketSnaps))
	for _, snap := range ticketSnaps {
		if snap.Ticket != nil {
			tickets[snap.ObjectID] = *snap.Ticket
		}
	}

	s.mu.Lock()
	s.events = events
	s.tickets = tickets
	s.asOf = time.Now()
	s.stale = false
	s.mu.Unlock()

	s.logger.Info("VIEW", fmt.Sprintf("snapshot refreshed: %d events, %d tickets", len(events), len(tickets)))
	return nil
}

func (s *Store) markStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// View returns the merged projection. Never fails: a failed refresh only
// shows up as Stale on the result.
func (s *Store) View() Snapshot {
	s.mu.Lock()
	events := make([]models.Event, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, ev)
	}
	tickets := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		tickets = append(tickets, t)
	}
	asOf := s.asOf
	stale := s.stale
	s.mu.Unlock()

	snapshot := Snapshot{Stale: stale, AsOf: asOf}
	for _, ev := range events {
		snapshot.Events = append(snapshot.Events, MergeEvent(ev, s.log.ActiveFor(ev.ObjectID), asOf))
	}
	for _, t := range tickets {
		snapshot.Tickets = append(snapshot.Tickets, MergeTicket(t, s.log.ActiveFor(t.ObjectID), asOf))
	}

	sort.Slice(snapshot.Events, func(i, j int) bool {
		return snapshot.Events[i].ObjectID < snapshot.Events[j].ObjectID
	})
	sort.Slice(snapshot.Tickets, func(i, j int) bool {
		return snapshot.Tickets[i].TicketNumber < snapshot.Tickets[j].TicketNumber
	})
	return snapshot
}

// Event returns the merged projection of a single event.
func (s *Store) Event(id string) (EventView, bool) {
	s.mu.Lock()
	ev, ok := s.events[id]
	asOf := s.asOf
	s.mu.Unlock()
	if !ok {
		return EventView{}, false
	}
	return MergeEvent(ev, s.log.ActiveFor(id), asOf), true
}

// SubmitPurchase records the mutation, submits the pre-built transaction,
// observes the outcome and refreshes the snapshot. The recipient email is
// forwarded on the notification side channel when the purchase confirms.
func (s *Store) SubmitPurchase(ctx context.Context, eventID string, quantity int, recipientEmail string, intent ledger.TransactionIntent) (string, error) {
	if quantity <= 0 {
		return "", fmt.Errorf("purchase quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	baseline := s.events[eventID].TicketsSold
	knownTickets := make(map[string]bool, len(s.tickets))
	for id := range s.tickets {
		knownTickets[id] = true
	}
	s.mu.Unlock()

	correlationID, err := s.log.Record(models.PendingMutation{
		Kind:         models.MutationPurchaseTickets,
		TargetID:     eventID,
		Actor:        s.owner,
		Quantity:     quantity,
		BaselineSold: baseline,
	})
	if err != nil {
		return "", err
	}

	outcome, err := s.gateway.Submit(ctx, intent)
	if err != nil {
		s.retireFailed(correlationID)
		return "", fmt.Errorf("purchase submission: %w", err)
	}

	if _, err := s.log.MarkConfirmed(correlationID); err != nil {
		s.logger.Error("VIEW", fmt.Sprintf("confirming purchase %s: %v", correlationID, err))
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("VIEW", fmt.Sprintf("post-purchase refresh failed, serving stale view: %v", err))
	}

	s.notifyPurchase(ctx, eventID, quantity, recipientEmail, outcome, knownTickets)
	return correlationID, nil
}

// SubmitRedeem drives a use_ticket transaction through the same
// record/submit/observe/refresh pipeline.
func (s *Store) SubmitRedeem(ctx context.Context, ticketID string, intent ledger.TransactionIntent) (string, error) {
	correlationID, err := s.log.Record(models.PendingMutation{
		Kind:     models.MutationRedeemTicket,
		TargetID: ticketID,
		Actor:    s.owner,
	})
	if err != nil {
		return "", err
	}

	outcome, err := s.gateway.Submit(ctx, intent)
	if err != nil {
		s.retireFailed(correlationID)
		return "", fmt.Errorf("redeem submission: %w", err)
	}

	if _, err := s.log.MarkConfirmed(correlationID); err != nil {
		s.logger.Error("VIEW", fmt.Sprintf("confirming redeem %s: %v", correlationID, err))
	}

	s.mu.Lock()
	ticket := s.tickets[ticketID]
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("VIEW", fmt.Sprintf("post-redeem refresh failed, serving stale view: %v", err))
	}

	if s.notifier != nil {
		notice := models.RedeemNotice{
			Digest:     outcome.Digest,
			TicketID:   ticketID,
			EventID:    ticket.EventID,
			Owner:      s.owner,
			RedeemedAt: time.Now(),
		}
		if err := s.notifier.TicketRedeemed(ctx, notice); err != nil {
			s.logger.Warn("VIEW", fmt.Sprintf("redeem notification failed (not rolling back): %v", err))
		}
	}
	return correlationID, nil
}

// SubmitUpdate drives an organizer field update. StringValue carries a new
// description, NumberValue a new max supply or price.
func (s *Store) SubmitUpdate(ctx context.Context, eventID string, field models.EventField, stringValue string, numberValue uint64, intent ledger.TransactionIntent) (string, error) {
	correlationID, err := s.log.Record(models.PendingMutation{
		Kind:        models.MutationUpdateEvent,
		TargetID:    eventID,
		Actor:       s.owner,
		Field:       field,
		StringValue: stringValue,
		NumberValue: numberValue,
	})
	if err != nil {
		return "", err
	}

	if _, err := s.gateway.Submit(ctx, intent); err != nil {
		s.retireFailed(correlationID)
		return "", fmt.Errorf("update submission: %w", err)
	}

	if _, err := s.log.MarkConfirmed(correlationID); err != nil {
		s.logger.Error("VIEW", fmt.Sprintf("confirming update %s: %v", correlationID, err))
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("VIEW", fmt.Sprintf("post-update refresh failed, serving stale view: %v", err))
	}
	return correlationID, nil
}

func (s *Store) retireFailed(correlationID string) {
	if _, err := s.log.MarkFailed(correlationID); err != nil {
		s.logger.Error("VIEW", fmt.Sprintf("retiring failed mutation %s: %v", correlationID, err))
	}
}

func (s *Store) notifyPurchase(ctx context.Context, eventID string, quantity int, recipientEmail string, outcome ledger.TransactionOutcome, knownTickets map[string]bool) {
	if s.notifier == nil || recipientEmail == "" {
		return
	}

	s.mu.Lock()
	event := s.events[eventID]
	var ticketURLs []string
	for id, t := range s.tickets {
		if !knownTickets[id] && t.EventID == eventID {
			ticketURLs = append(ticketURLs, fmt.Sprintf("%s/%s", s.ticketURLBase, id))
		}
	}
	s.mu.Unlock()
	sort.Strings(ticketURLs)

	notice := models.PurchaseNotice{
		Digest:           outcome.Digest,
		EventID:          eventID,
		EventName:        event.Name,
		EventDescription: event.Description,
		TicketURLs:       ticketURLs,
		RecipientEmail:   recipientEmail,
		Quantity:         quantity,
		PriceMist:        event.PriceMist,
	}
	if err := s.notifier.TicketsPurchased(ctx, notice); err != nil {
		s.logger.Warn("VIEW", fmt.Sprintf("purchase notification failed (not rolling back): %v", err))
	}
}
