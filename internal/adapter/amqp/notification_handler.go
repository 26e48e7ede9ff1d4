package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

// NotificationHandler prints status updates received from the broker.
type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

func NewNotificationHandler(logger logger.Logger, out io.Writer) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    out,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.StatusUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received %s update for order %s", msg.Field, msg.OrderID),
		msg.OrderID, map[string]interface{}{
			"field":     msg.Field,
			"new_value": msg.NewValue,
		})

	label := "Status"
	if msg.Field == interfaces.FieldPaymentStatus {
		label = "Payment"
	}
	_, err := fmt.Fprintf(h.out, "Notification for order %s: %s changed from '%s' to '%s' at %s\n",
		msg.OrderID, label, msg.OldValue, msg.NewValue, msg.Timestamp.Format("2006-01-02 15:04:05"))
	return err
}
