package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"suicket/internal/logger"
	"suicket/internal/models"
)

// PurchaseConsumer feeds purchase notices from the bus into the email
// dispatch path.
type PurchaseConsumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

func NewPurchaseConsumer(brokers []string, groupID string, log *logger.Logger) *PurchaseConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    TopicTicketPurchased,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &PurchaseConsumer{reader: reader, logger: log}
}

// Start consumes until the context is cancelled. Handler failures are
// logged and the message is skipped; email is best-effort by contract.
func (c *PurchaseConsumer) Start(ctx context.Context, handler func(ctx context.Context, notice models.PurchaseNotice) error) {
	c.logger.LogKafka("CONSUME", TopicTicketPurchased, "consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("KAFKA", fmt.Sprintf("reading message: %v", err))
			continue
		}

		var notice models.PurchaseNotice
		if err := json.Unmarshal(msg.Value, &notice); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("unmarshal purchase notice: %v", err))
			continue
		}

		c.logger.LogKafka("RECEIVED", TopicTicketPurchased, fmt.Sprintf("digest=%s recipient=%s", notice.Digest, notice.RecipientEmail))
		if err := handler(ctx, notice); err != nil {
			c.logger.Error("KAFKA", fmt.Sprintf("handling purchase notice %s: %v", notice.Digest, err))
		}
	}
}

func (c *PurchaseConsumer) Close() error {
	return c.reader.Close()
}
