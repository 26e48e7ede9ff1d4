package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/ordertaker/internal/config"
)

const (
	ordersExchange        = "orders_topic"
	notificationsExchange = "notifications_fanout"
)

var ErrConnectionClosed = errors.New("connection is closed")

// Connection hands out channels on a broker connection that can be redialed
// after the server drops it.
type Connection interface {
	Channel() (Channel, error)
	Close() error
	IsClosed() bool
	Reconnect() error
}

// Channel covers what the order publisher and the notifications consumer
// do with an AMQP channel. Exchanges are always durable.
type Channel interface {
	DeclareExchange(name, kind string) error
	// Subscribe declares an exclusive auto-deleted queue bound to exchange
	// and returns its server-generated name.
	Subscribe(exchange string) (string, error)
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	Consume(queue string) (<-chan amqp.Delivery, error)
	NotifyClose() <-chan *amqp.Error
	Close() error
}

type broker struct {
	mu     sync.RWMutex
	url    string
	conn   *amqp.Connection
	closed bool
}

func Connect(cfg config.RabbitMQConfig) (Connection, error) {
	b := &broker{url: cfg.URL()}
	if err := b.dial(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *broker) dial() error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	b.conn = conn
	return nil
}

func (b *broker) Channel() (Channel, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrConnectionClosed
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return channel{ch}, nil
}

// Close is final: Channel and Reconnect report ErrConnectionClosed afterwards.
func (b *broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.conn.IsClosed() {
		return nil
	}
	return b.conn.Close()
}

func (b *broker) IsClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed || b.conn.IsClosed()
}

// Reconnect redials when the server has dropped the connection and does
// nothing while it is healthy.
func (b *broker) Reconnect() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.closed:
		return ErrConnectionClosed
	case !b.conn.IsClosed():
		return nil
	}
	return b.dial()
}

type channel struct {
	ch *amqp.Channel
}

func (c channel) DeclareExchange(name, kind string) error {
	return c.ch.ExchangeDeclare(name, kind, true, false, false, false, nil)
}

func (c channel) Subscribe(exchange string) (string, error) {
	q, err := c.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := c.ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return "", fmt.Errorf("failed to bind queue: %w", err)
	}
	return q.Name, nil
}

func (c channel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	return c.ch.PublishWithContext(ctx, exchange, key, false, false, msg)
}

func (c channel) Consume(queue string) (<-chan amqp.Delivery, error) {
	return c.ch.Consume(queue, "", true, false, false, false, nil)
}

func (c channel) NotifyClose() <-chan *amqp.Error {
	return c.ch.NotifyClose(make(chan *amqp.Error, 1))
}

func (c channel) Close() error {
	return c.ch.Close()
}
