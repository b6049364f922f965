package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"suicket/internal/models"
)

// Producer publishes ticketing notices. All publishes are best-effort side
// channels: a failed publish is reported to the caller for logging but
// must never roll back the mutation it reports on.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

func (p *Producer) publish(topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

// TicketsPurchased streams a purchase confirmation for the email relay.
func (p *Producer) TicketsPurchased(_ context.Context, notice models.PurchaseNotice) error {
	return p.publish(TopicTicketPurchased, notice.Digest, notice)
}

// TicketRedeemed streams a redeem confirmation.
func (p *Producer) TicketRedeemed(_ context.Context, notice models.RedeemNotice) error {
	return p.publish(TopicTicketRedeemed, notice.TicketID, notice)
}

// TicketCheckin streams a door admission from the scanner service.
func (p *Producer) TicketCheckin(notice models.CheckinNotice) error {
	return p.publish(TopicTicketCheckin, notice.TicketID, notice)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
