package transcript

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

const ExchangeName = "chat_exchanges"

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPRecorder publishes every exchange to the chat_exchanges topic exchange
// with routing key chat.<chat id>.
type AMQPRecorder struct {
	channel func() (publisher, error)
}

func NewAMQPRecorder(conn *amqp.Connection) (*AMQPRecorder, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPRecorder{
		channel: func() (publisher, error) { return conn.Channel() },
	}, nil
}

func (r *AMQPRecorder) Record(_ context.Context, ex Exchange) error {
	ch, err := r.channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}
	routingKey := fmt.Sprintf("chat.%s", ex.ChatID)

	return ch.Publish(
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    ex.ID.String(),
			Timestamp:    ex.CreatedAt,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
