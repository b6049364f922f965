package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMist(t *testing.T) {
	assert.Equal(t, "FREE", FormatMist(0))
	assert.Equal(t, "1 SUI", FormatMist(1_000_000_000))
	assert.Equal(t, "0.5 SUI", FormatMist(500_000_000))
	assert.Equal(t, "2.25 SUI", FormatMist(2_250_000_000))
	assert.Equal(t, "0.000000001 SUI", FormatMist(1))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Your CalHacks Ticket - Confirmation", Subject(TicketEmailRequest{
		EventName: "CalHacks",
		Quantity:  1,
	}))
	assert.Equal(t, "Your CalHacks Tickets - Confirmation", Subject(TicketEmailRequest{
		EventName: "CalHacks",
		Quantity:  3,
	}))
}

func TestRenderTicketEmail(t *testing.T) {
	htmlBody, textBody, err := RenderTicketEmail(TicketEmailRequest{
		EventName:        "CalHacks 12.0",
		EventDescription: "Hackathon",
		TicketURLs: []string{
			"https://suiscan.xyz/testnet/object/0xticketa",
			"https://suiscan.xyz/testnet/object/0xticketb",
		},
		RecipientEmail: "buyer@example.com",
		Quantity:       2,
		PriceMist:      1_000_000_000,
	})
	require.NoError(t, err)

	assert.Contains(t, htmlBody, "CalHacks 12.0")
	assert.Contains(t, htmlBody, "Hackathon")
	assert.Contains(t, htmlBody, "1 SUI")
	assert.Contains(t, htmlBody, "Ticket 1")
	assert.Contains(t, htmlBody, "Ticket 2")
	assert.Contains(t, htmlBody, "https://suiscan.xyz/testnet/object/0xticketa")
	assert.Contains(t, htmlBody, "Tickets Confirmation", "plural for quantity 2")

	assert.Contains(t, textBody, "TICKETS CONFIRMATION")
	assert.Contains(t, textBody, "Ticket 2: https://suiscan.xyz/testnet/object/0xticketb")
	assert.Contains(t, textBody, "Price: 1 SUI")
}

func TestRenderSingularTicket(t *testing.T) {
	htmlBody, textBody, err := RenderTicketEmail(TicketEmailRequest{
		EventName:  "CalHacks",
		TicketURLs: []string{"https://suiscan.xyz/testnet/object/0xticketa"},
		Quantity:   1,
	})
	require.NoError(t, err)

	assert.Contains(t, htmlBody, "Ticket Confirmation")
	assert.NotContains(t, htmlBody, "Tickets Confirmation")
	assert.Contains(t, textBody, "TICKET CONFIRMATION")
	assert.Contains(t, textBody, "Price: FREE")
}

func TestRenderEscapesHTML(t *testing.T) {
	htmlBody, _, err := RenderTicketEmail(TicketEmailRequest{
		EventName:  `<script>alert("x")</script>`,
		TicketURLs: []string{"https://suiscan.xyz/testnet/object/0xticketa"},
		Quantity:   1,
	})
	require.NoError(t, err)
	assert.False(t, strings.Contains(htmlBody, "<script>alert"))
}
