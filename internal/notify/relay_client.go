package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"suicket/internal/models"
)

// RelayClient is the HTTP consumer side of the relay contract, for
// deployments where the client core talks to the relay directly instead
// of through the bus.
type RelayClient struct {
	baseURL string
	http    *http.Client
}

func NewRelayClient(baseURL string) *RelayClient {
	return &RelayClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RelayClient) post(ctx context.Context, req TicketEmailRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/send-ticket-email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("email relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return fmt.Errorf("email relay returned HTTP %d: %s %s", resp.StatusCode, failure.Error, failure.Details)
	}
	return nil
}

// TicketsPurchased sends the confirmation email for a finalized purchase.
func (c *RelayClient) TicketsPurchased(ctx context.Context, notice models.PurchaseNotice) error {
	return c.post(ctx, TicketEmailRequest{
		EventName:        notice.EventName,
		EventDescription: notice.EventDescription,
		TicketURLs:       notice.TicketURLs,
		RecipientEmail:   notice.RecipientEmail,
		Quantity:         notice.Quantity,
		PriceMist:        notice.PriceMist,
		Digest:           notice.Digest,
	})
}

// TicketRedeemed is a no-op for the relay: the original system only mails
// purchase confirmations. Present so the client satisfies view.Notifier.
func (c *RelayClient) TicketRedeemed(ctx context.Context, notice models.RedeemNotice) error {
	return nil
}
