package notify

import (
	"bytes"
	"fmt"
	html "html/template"
	"strings"
	text "text/template"

	"github.com/shopspring/decimal"
)

// TicketEmailRequest is the payload of one confirmation email, matching
// the relay's POST /api/send-ticket-email contract.
type TicketEmailRequest struct {
	EventName        string   `json:"eventName"`
	EventDescription string   `json:"eventDescription,omitempty"`
	TicketURLs       []string `json:"ticketUrls"`
	RecipientEmail   string   `json:"recipientEmail"`
	Quantity         int      `json:"quantity"`
	PriceMist        uint64   `json:"priceMist,omitempty"`
	Digest           string   `json:"digest,omitempty"`
}

// FormatMist renders a MIST amount as a SUI price string. 1 SUI is 10^9
// MIST; a zero price shows as FREE, matching the event card.
func FormatMist(mist uint64) string {
	if mist == 0 {
		return "FREE"
	}
	sui := decimal.New(int64(mist), -9)
	return sui.String() + " SUI"
}

func plural(quantity int) string {
	if quantity > 1 {
		return "s"
	}
	return ""
}

var htmlTemplate = html.Must(html.New("ticket_email").Funcs(html.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Your {{.EventName}} Tickets</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 30px; border-radius: 10px; margin-bottom: 20px;">
    <h1 style="color: #007bff; margin: 0 0 20px 0; text-align: center;">🎫 Ticket{{.Plural}} Confirmation</h1>
    <h2 style="color: #333; margin: 0 0 20px 0;">{{.EventName}}</h2>

    <div style="background-color: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p style="margin: 0 0 10px 0;"><strong>📝 Description:</strong> {{.EventDescription}}</p>
      <p style="margin: 0 0 10px 0;"><strong>🎟️ Tickets:</strong> {{.Quantity}}</p>
      <p style="margin: 0;"><strong>💰 Price:</strong> {{.Price}}</p>
    </div>
  </div>

  <div style="margin: 30px 0;">
    <h3 style="color: #333; margin: 0 0 20px 0;">Your Ticket{{.Plural}}</h3>
    {{range $index, $url := .TicketURLs}}
    <div style="margin: 20px 0; padding: 15px; border: 1px solid #e0e0e0; border-radius: 8px;">
      <h3 style="margin: 0 0 10px 0; color: #333;">Ticket {{inc $index}}</h3>
      <p style="margin: 0 0 10px 0; color: #666;">Click the link below to view your ticket:</p>
      <a href="{{$url}}" style="display: inline-block; padding: 10px 20px; background-color: #007bff; color: white; text-decoration: none; border-radius: 4px;">
        View Ticket {{inc $index}}
      </a>
    </div>
    {{end}}
  </div>

  <div style="background-color: #e9ecef; padding: 20px; border-radius: 8px; margin: 30px 0;">
    <h4 style="margin: 0 0 15px 0; color: #333;">Important Information:</h4>
    <ul style="margin: 0; padding-left: 20px;">
      <li style="margin: 5px 0;">Please save this email and keep your ticket links safe</li>
      <li style="margin: 5px 0;">Present your ticket QR code at the event entrance</li>
      <li style="margin: 5px 0;">Each ticket is valid for one person only</li>
      <li style="margin: 5px 0;">Contact us if you have any questions</li>
    </ul>
  </div>

  <div style="text-align: center; margin: 30px 0; padding: 20px; border-top: 1px solid #e0e0e0;">
    <p style="margin: 0; color: #666; font-size: 14px;">
      Powered by <strong>Suicket</strong> - NFT Tickets on Sui Blockchain
    </p>
  </div>
</body>
</html>
`))

var textTemplate = text.Must(text.New("ticket_email_text").Funcs(text.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`🎫 TICKET{{.PluralUpper}} CONFIRMATION

Event: {{.EventName}}
Description: {{.EventDescription}}
Tickets: {{.Quantity}}
Price: {{.Price}}

YOUR TICKET{{.PluralUpper}}:
{{range $index, $url := .TicketURLs}}Ticket {{inc $index}}: {{$url}}
{{end}}
Important Information:
- Please save this email and keep your ticket links safe
- Present your ticket QR code at the event entrance
- Each ticket is valid for one person only
- Contact us if you have any questions

Powered by Suicket - NFT Tickets on Sui Blockchain
`))

type templateData struct {
	EventName        string
	EventDescription string
	TicketURLs       []string
	Quantity         int
	Price            string
	Plural           string
	PluralUpper      string
}

func newTemplateData(req TicketEmailRequest) templateData {
	return templateData{
		EventName:        req.EventName,
		EventDescription: req.EventDescription,
		TicketURLs:       req.TicketURLs,
		Quantity:         req.Quantity,
		Price:            FormatMist(req.PriceMist),
		Plural:           plural(req.Quantity),
		PluralUpper:      strings.ToUpper(plural(req.Quantity)),
	}
}

// RenderTicketEmail produces the HTML and plain-text bodies for one
// confirmation email.
func RenderTicketEmail(req TicketEmailRequest) (htmlBody, textBody string, err error) {
	data := newTemplateData(req)

	var htmlBuf bytes.Buffer
	if err := htmlTemplate.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}

	var textBuf bytes.Buffer
	if err := textTemplate.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}

	return htmlBuf.String(), strings.TrimSpace(textBuf.String()), nil
}

// Subject matches the original confirmation subject line.
func Subject(req TicketEmailRequest) string {
	return fmt.Sprintf("Your %s Ticket%s - Confirmation", req.EventName, plural(req.Quantity))
}
