package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendGridMailURL = "https://api.sendgrid.com/v3/mail/send"

// Attachment is a base64-encoded file included with the email.
type Attachment struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition"`
}

// EmailMessage is one outbound email, provider-agnostic.
type EmailMessage struct {
	To          string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Sender delivers an email. Implemented by SendGridClient in production
// and by fakes in tests.
type Sender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SendGridClient posts to the SendGrid v3 mail/send API.
type SendGridClient struct {
	apiKey string
	from   string
	url    string
	http   *http.Client
}

func NewSendGridClient(apiKey, from string) *SendGridClient {
	return &SendGridClient{
		apiKey: apiKey,
		from:   from,
		url:    sendGridMailURL,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

type sgAddress struct {
	Email string `json:"email"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgPayload struct {
	Personalizations []struct {
		To []sgAddress `json:"to"`
	} `json:"personalizations"`
	From        sgAddress    `json:"from"`
	Subject     string       `json:"subject"`
	Content     []sgContent  `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

func (c *SendGridClient) Send(ctx context.Context, msg EmailMessage) error {
	payload := sgPayload{
		From:        sgAddress{Email: c.from},
		Subject:     msg.Subject,
		Attachments: msg.Attachments,
	}
	payload.Personalizations = []struct {
		To []sgAddress `json:"to"`
	}{{To: []sgAddress{{Email: msg.To}}}}

	// SendGrid requires text/plain before text/html.
	if msg.TextBody != "" {
		payload.Content = append(payload.Content, sgContent{Type: "text/plain", Value: msg.TextBody})
	}
	if msg.HTMLBody != "" {
		payload.Content = append(payload.Content, sgContent{Type: "text/html", Value: msg.HTMLBody})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid returned HTTP %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
