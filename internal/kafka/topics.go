package kafka

import (
	"fmt"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
)

const (
	TopicTicketPurchased = "suicket.ticket.purchased"
	TopicTicketRedeemed  = "suicket.ticket.redeemed"
	TopicTicketCheckin   = "suicket.ticket.checkin"
)

// CreateTopicIfNotExists creates the topic on the cluster controller.
// Creating an existing topic is a no-op on the broker side.
func CreateTopicIfNotExists(brokers []string, topic string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dialing broker %s: %w", brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("resolving controller: %w", err)
	}

	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dialing controller: %w", err)
	}
	defer controllerConn.Close()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}

// EnsureTopicsExist creates every required topic, collecting the first
// failure so startup can warn without aborting.
func EnsureTopicsExist(brokers []string, topics []string) error {
	var firstErr error
	for _, topic := range topics {
		if err := CreateTopicIfNotExists(brokers, topic); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("creating topic %s: %w", topic, err)
		}
	}
	return firstErr
}
