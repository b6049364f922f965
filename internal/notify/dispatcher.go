package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"suicket/internal/logger"
	"suicket/internal/models"
	"suicket/internal/qr"
)

var ErrMissingFields = errors.New("missing required fields")

// Dispatcher assembles and sends ticket confirmation emails. It sits
// outside the consistency domain: failures here are logged upstream and
// never affect the ticket or event mutation they report on.
type Dispatcher struct {
	Sender      Sender
	Idempotency *IdempotencyStore // nil disables de-duplication
	QR          *qr.Generator
	Logger      *logger.Logger
}

func NewDispatcher(sender Sender, idempotency *IdempotencyStore, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		Sender:      sender,
		Idempotency: idempotency,
		QR:          qr.NewGenerator(),
		Logger:      log,
	}
}

// Validate enforces the relay contract: event name, recipient and ticket
// URLs are required.
func Validate(req TicketEmailRequest) error {
	if req.EventName == "" || req.RecipientEmail == "" || len(req.TicketURLs) == 0 {
		return ErrMissingFields
	}
	return nil
}

// DispatchTicketEmail renders and sends one confirmation email with a QR
// attachment per ticket link.
func (d *Dispatcher) DispatchTicketEmail(ctx context.Context, req TicketEmailRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	if d.Idempotency != nil && req.Digest != "" {
		fresh, err := d.Idempotency.Reserve(ctx, req.RecipientEmail, req.Digest)
		if err != nil {
			// Degrade to sending: a broken de-dup store must not block
			// the confirmation.
			d.Logger.Warn("EMAIL", fmt.Sprintf("idempotency check failed, sending anyway: %v", err))
		} else if !fresh {
			d.Logger.LogEmail("SKIP", req.RecipientEmail, "confirmation already sent for digest "+req.Digest)
			return nil
		}
	}

	htmlBody, textBody, err := RenderTicketEmail(req)
	if err != nil {
		return err
	}

	msg := EmailMessage{
		To:       req.RecipientEmail,
		Subject:  Subject(req),
		TextBody: textBody,
		HTMLBody: htmlBody,
	}

	for i, url := range req.TicketURLs {
		png, err := d.QR.Encode(url)
		if err != nil {
			d.Logger.Warn("EMAIL", fmt.Sprintf("qr generation failed for ticket %d: %v", i+1, err))
			continue
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Content:     base64.StdEncoding.EncodeToString(png),
			Type:        "image/png",
			Filename:    fmt.Sprintf("ticket-%d.png", i+1),
			Disposition: "attachment",
		})
	}

	if err := d.Sender.Send(ctx, msg); err != nil {
		if d.Idempotency != nil && req.Digest != "" {
			if relErr := d.Idempotency.Release(ctx, req.RecipientEmail, req.Digest); relErr != nil {
				d.Logger.Warn("EMAIL", fmt.Sprintf("releasing idempotency slot: %v", relErr))
			}
		}
		return fmt.Errorf("sending confirmation to %s: %w", req.RecipientEmail, err)
	}

	d.Logger.LogEmail("SENT", req.RecipientEmail, fmt.Sprintf("%d ticket(s) for %s", req.Quantity, req.EventName))
	return nil
}

// DispatchPurchaseNotice adapts a bus notice into the email contract.
func (d *Dispatcher) DispatchPurchaseNotice(ctx context.Context, notice models.PurchaseNotice) error {
	return d.DispatchTicketEmail(ctx, TicketEmailRequest{
		EventName:        notice.EventName,
		EventDescription: notice.EventDescription,
		TicketURLs:       notice.TicketURLs,
		RecipientEmail:   notice.RecipientEmail,
		Quantity:         notice.Quantity,
		PriceMist:        notice.PriceMist,
		Digest:           notice.Digest,
	})
}
