package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

const reconnectDelay = 5 * time.Second

type consumer struct {
	conn   Connection
	logger logger.Logger
	delay  time.Duration
}

func NewConsumer(conn Connection, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, logger: logger, delay: reconnectDelay}
}

// ConsumeNotifications delivers every status update to handler until ctx is
// cancelled, reconnecting whenever the broker drops the channel.
func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	for {
		err := c.consumeNotifications(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil || errors.Is(err, ErrConnectionClosed) {
			return err
		}

		c.logger.Warn("consumer_disconnected", fmt.Sprintf("Notifications consumer disconnected, reconnecting in %s", c.delay), "", map[string]interface{}{
			"error": err.Error(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}

		if err := c.conn.Reconnect(); err != nil {
			c.logger.Error("reconnect_failed", "Failed to reconnect to RabbitMQ", "", nil, err)
		}
	}
}

func (c *consumer) consumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.DeclareExchange(notificationsExchange, "fanout"); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := ch.Subscribe(notificationsExchange)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(queue)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("consumer_started", "Listening for order notifications", "", map[string]interface{}{
		"queue": queue,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return errors.New("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("messages channel closed")
			}

			// notifications are fire-and-forget; a bad message is logged by the handler
			_ = handler(ctx, msg.Body)
		}
	}
}
