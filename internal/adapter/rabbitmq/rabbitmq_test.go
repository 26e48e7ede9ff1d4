package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	exchanges  map[string]string
	bound      []string
	published  []published
	deliveries chan amqp.Delivery
	closeCh    chan *amqp.Error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		exchanges:  make(map[string]string),
		deliveries: make(chan amqp.Delivery, 8),
		closeCh:    make(chan *amqp.Error, 1),
	}
}

func (f *fakeChannel) DeclareExchange(name, kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges[name] = kind
	return nil
}

func (f *fakeChannel) Subscribe(exchange string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = append(f.bound, exchange)
	return "amq.gen-test", nil
}

func (f *fakeChannel) Publish(_ context.Context, exchange, key string, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Consume(string) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error { return nil }

func (f *fakeChannel) NotifyClose() <-chan *amqp.Error { return f.closeCh }

type fakeConnection struct {
	mu         sync.Mutex
	channels   []*fakeChannel
	opened     int
	closed     bool
	reconnects int
}

func (f *fakeConnection) Channel() (Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrConnectionClosed
	}
	ch := f.channels[f.opened]
	f.opened++
	return ch, nil
}

func (f *fakeConnection) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConnection) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConnection) Reconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return nil
}

func TestPublishOrderPlaced(t *testing.T) {
	ch := newFakeChannel()
	pub := NewPublisher(&fakeConnection{channels: []*fakeChannel{ch}})

	msg := interfaces.OrderPlacedMessage{
		OrderID:        "ORDER-20261019-0001",
		DeliveryMethod: domain.DeliveryMethodDelivery,
		PaymentStatus:  domain.PaymentStatusPaid,
		ItemCount:      2,
		TotalAmount:    decimal.RequireFromString("3.50"),
	}
	require.NoError(t, pub.PublishOrderPlaced(context.Background(), msg))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "orders_topic", got.exchange)
	assert.Equal(t, "topic", ch.exchanges["orders_topic"])
	assert.Equal(t, "orders.placed.delivery", got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var decoded interfaces.OrderPlacedMessage
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, msg.OrderID, decoded.OrderID)
	assert.True(t, msg.TotalAmount.Equal(decoded.TotalAmount))
}

func TestPublishStatusUpdate(t *testing.T) {
	ch := newFakeChannel()
	pub := NewPublisher(&fakeConnection{channels: []*fakeChannel{ch}})

	err := pub.PublishStatusUpdate(context.Background(), interfaces.StatusUpdateMessage{
		OrderID: "ORDER-20261019-0001", Field: interfaces.FieldStatus, OldValue: "new", NewValue: "ready",
	})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "notifications_fanout", ch.published[0].exchange)
	assert.Equal(t, "fanout", ch.exchanges["notifications_fanout"])
	assert.Empty(t, ch.published[0].key)
}

func TestPublishOnClosedConnection(t *testing.T) {
	conn := &fakeConnection{closed: true}
	err := NewPublisher(conn).PublishStatusUpdate(context.Background(), interfaces.StatusUpdateMessage{})
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.Equal(t, 1, conn.reconnects)
}

func TestNopPublisher(t *testing.T) {
	pub := NewNopPublisher()
	assert.NoError(t, pub.PublishOrderPlaced(context.Background(), interfaces.OrderPlacedMessage{}))
	assert.NoError(t, pub.PublishStatusUpdate(context.Background(), interfaces.StatusUpdateMessage{}))
}

func TestConsumeNotificationsReconnects(t *testing.T) {
	first, second := newFakeChannel(), newFakeChannel()
	conn := &fakeConnection{channels: []*fakeChannel{first, second}}
	c := &consumer{conn: conn, logger: logger.Discard(), delay: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 2)
	done := make(chan error, 1)
	go func() {
		done <- c.ConsumeNotifications(ctx, func(_ context.Context, body []byte) error {
			received <- string(body)
			return nil
		})
	}()

	first.deliveries <- amqp.Delivery{Body: []byte("one")}
	assert.Equal(t, "one", <-received)

	first.closeCh <- &amqp.Error{Code: 320, Reason: "CONNECTION_FORCED"}

	second.deliveries <- amqp.Delivery{Body: []byte("two")}
	assert.Equal(t, "two", <-received)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Equal(t, 2, conn.opened)
	assert.Equal(t, 1, conn.reconnects)

	for _, ch := range []*fakeChannel{first, second} {
		ch.mu.Lock()
		assert.Equal(t, "fanout", ch.exchanges["notifications_fanout"])
		assert.Equal(t, []string{"notifications_fanout"}, ch.bound)
		ch.mu.Unlock()
	}
}
