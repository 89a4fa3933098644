package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Consumer interface {
	Start() error
	Close() error
}

// PermissionRevoker withdraws every permission a user holds. Implemented by
// the permission service; declared here to keep the consumer decoupled.
type PermissionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

type EventConsumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
	revoker   PermissionRevoker
	enabled   bool
}

func NewEventConsumer(rabbitURI string, revoker PermissionRevoker) (*EventConsumer, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event consumption is disabled")
		return &EventConsumer{
			enabled: false,
		}, nil
	}

	// Connect to RabbitMQ
	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	// Create a channel
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Declare the exchange the auth service publishes account events on
	exchangeName := "auth.events"
	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Declare the queue
	queueName := "festival-service-user-events"
	queue, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Bind the queue to handle user deletion events
	err = channel.QueueBind(
		queue.Name,           // queue name
		EventTypeUserDeleted, // routing key
		exchangeName,         // exchange
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &EventConsumer{
		conn:      conn,
		channel:   channel,
		queueName: queue.Name,
		revoker:   revoker,
		enabled:   true,
	}, nil
}

func (c *EventConsumer) Start() error {
	if !c.enabled {
		log.Println("Event consumption is disabled")
		return nil
	}

	// Set QoS
	err := c.channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	// Start consuming messages
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	// Process messages in a goroutine
	go func() {
		for msg := range msgs {
			if err := c.processMessage(msg); err != nil {
				log.Printf("Failed to process message: %v", err)
				msg.Nack(false, true) // Nack and requeue
			} else {
				msg.Ack(false) // Acknowledge message
			}
		}
	}()

	log.Println("Event consumer started, waiting for messages...")
	return nil
}

func (c *EventConsumer) processMessage(msg amqp091.Delivery) error {
	log.Printf("Received message with routing key: %s", msg.RoutingKey)

	switch msg.RoutingKey {
	case EventTypeUserDeleted:
		return c.handleUserDeletedEvent(msg.Body)
	default:
		log.Printf("Unknown routing key: %s", msg.RoutingKey)
		return nil // Don't requeue unknown message types
	}
}

func (c *EventConsumer) handleUserDeletedEvent(body []byte) error {
	var deletedEvent UserDeletedEvent
	if err := json.Unmarshal(body, &deletedEvent); err != nil {
		return fmt.Errorf("failed to unmarshal user deleted event: %w", err)
	}

	if deletedEvent.UserID == "" {
		log.Println("User deleted event without user ID, skipping")
		return nil
	}

	log.Printf("Processing user deleted event for user %s", deletedEvent.UserID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.revoker.RevokeAllForUser(ctx, deletedEvent.UserID); err != nil {
		return fmt.Errorf("failed to revoke permissions for deleted user %s: %w", deletedEvent.UserID, err)
	}

	log.Printf("Revoked all permissions for deleted user %s", deletedEvent.UserID)
	return nil
}

func (c *EventConsumer) Close() error {
	if !c.enabled {
		return nil
	}

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}
