package models

// Event mirrors the on-chain Event object. The ledger is the only writer:
// TicketsSold is incremented by successful buy_ticket transactions and is
// never mutated locally, only observed.
type Event struct {
	ObjectID     string `json:"object_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	OwnerAddress string `json:"owner_address"`
	MaxSupply    int    `json:"max_supply"`
	TicketsSold  int    `json:"tickets_sold"`
	// PriceMist is the unit price in MIST, the smallest SUI denomination.
	PriceMist uint64 `json:"price_mist"`
}

// SoldOut reports whether the event is logically exhausted. Events are
// never deleted on the ledger.
func (e Event) SoldOut() bool {
	return e.MaxSupply > 0 && e.TicketsSold >= e.MaxSupply
}
