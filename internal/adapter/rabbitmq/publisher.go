package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.MessagePublisher {
	return &publisher{conn: conn}
}

// OrderPlacedRoutingKey is orders.placed.<delivery method>.
func OrderPlacedRoutingKey(msg interfaces.OrderPlacedMessage) string {
	return fmt.Sprintf("orders.placed.%s", msg.DeliveryMethod)
}

func (p *publisher) PublishOrderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	return p.publish(ctx, ordersExchange, "topic", OrderPlacedRoutingKey(msg), msg, amqp.Persistent)
}

func (p *publisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	return p.publish(ctx, notificationsExchange, "fanout", "", msg, amqp.Transient)
}

func (p *publisher) publish(ctx context.Context, exchange, kind, key string, msg interface{}, mode uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.DeclareExchange(exchange, kind); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(ctx, exchange, key, amqp.Publishing{
		DeliveryMode: mode,
		ContentType:  "application/json",
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (p *publisher) channel() (Channel, error) {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return nil, err
		}
	}
	return p.conn.Channel()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every message. It is used
// when RabbitMQ is disabled.
func NewNopPublisher() interfaces.MessagePublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderPlaced(context.Context, interfaces.OrderPlacedMessage) error {
	return nil
}

func (nopPublisher) PublishStatusUpdate(context.Context, interfaces.StatusUpdateMessage) error {
	return nil
}
