package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

// RabbitMQ messages
type OrderPlacedMessage struct {
	OrderID        string                `json:"order_id"`
	CreatedAt      time.Time             `json:"created_at"`
	DeliveryMethod domain.DeliveryMethod `json:"delivery_method"`
	PaymentStatus  domain.PaymentStatus  `json:"payment_status"`
	ItemCount      int                   `json:"item_count"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
}

// StatusUpdateMessage reports a change of either the fulfillment status or
// the payment status; Field names which one.
type StatusUpdateMessage struct {
	OrderID   string    `json:"order_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
)

// Messaging interfaces (adapter/rabbitmq)
type MessagePublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMessage) error
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
