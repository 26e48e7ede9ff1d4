package order

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/whatsapp"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

var _ interfaces.OrderService = (*Service)(nil)

type Service struct {
	repo      interfaces.OrderRepository
	catalog   interfaces.CatalogRepository
	publisher interfaces.MessagePublisher
	logger    logger.Logger
	store     whatsapp.Store
	host      string
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of creation and update times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the order workflow. store and host are used to render the
// customer message and its link (host is e.g. "wa.me").
func NewService(
	repo interfaces.OrderRepository,
	catalog interfaces.CatalogRepository,
	publisher interfaces.MessagePublisher,
	logger logger.Logger,
	store whatsapp.Store,
	host string,
	opts ...Option,
) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		store:     store,
		host:      host,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the draft into a persisted order and resets the draft.
// A draft that fails validation consumes no order number.
func (s *Service) Checkout(ctx context.Context, draft *domain.Draft, details domain.CheckoutDetails) (*domain.Order, error) {
	order, err := domain.NewOrder(draft.Items(), details, s.now())
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", "", nil, err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	id, err := s.repo.NextOrderNumber(ctx, order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order.ID = id

	if err := s.repo.AppendOrder(ctx, order); err != nil {
		s.logger.Error("order_save_failed", "Failed to save order", id, nil, err)
		return nil, err
	}
	draft.Reset()

	s.logger.Info("order_created", fmt.Sprintf("Order %s created", id), id, map[string]interface{}{
		"items":           len(order.Items),
		"total_amount":    order.TotalAmount.StringFixed(2),
		"delivery_method": order.DeliveryMethod,
	})

	// The order is already stored, so a broker failure is only logged.
	msg := interfaces.OrderPlacedMessage{
		OrderID:        order.ID,
		CreatedAt:      order.CreatedAt,
		DeliveryMethod: order.DeliveryMethod,
		PaymentStatus:  order.PaymentStatus,
		ItemCount:      len(order.Items),
		TotalAmount:    order.TotalAmount,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish order", id, nil, err)
	}

	return order, nil
}

// PlaceOrder builds a draft from product ids against the current catalog and
// checks it out.
func (s *Service) PlaceOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	products, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	draft := domain.NewDraft()
	for i, item := range cmd.Items {
		p, ok := domain.FindProduct(products, item.ProductID)
		if !ok {
			return nil, fmt.Errorf("items[%d]: %w: %s", i, domain.ErrProductNotFound, item.ProductID)
		}
		draft.Select(p)
		if _, err := draft.Add(item.Quantity); err != nil {
			return nil, fmt.Errorf("items[%d] (%s): %w", i, p.Name, err)
		}
	}

	details, err := checkoutDetails(cmd)
	if err != nil {
		return nil, err
	}

	return s.Checkout(ctx, draft, details)
}

func checkoutDetails(cmd interfaces.CreateOrderCommand) (domain.CheckoutDetails, error) {
	method, err := domain.ParseDeliveryMethod(cmd.DeliveryMethod)
	if err != nil {
		return domain.CheckoutDetails{}, err
	}

	payment := domain.PaymentStatusNotPaid
	if cmd.PaymentStatus != "" {
		if payment, err = domain.ParsePaymentStatus(cmd.PaymentStatus); err != nil {
			return domain.CheckoutDetails{}, err
		}
	}

	return domain.CheckoutDetails{
		DeliveryMethod:   method,
		PickupTime:       cmd.PickupTime,
		DeliveryAddress:  cmd.DeliveryAddress,
		DeliveryLandmark: cmd.DeliveryLandmark,
		SpecialNotes:     cmd.SpecialNotes,
		PaymentStatus:    payment,
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	at := s.now()
	prev, err := s.repo.UpdateStatus(ctx, id, status, at)
	if err != nil {
		return nil, err
	}

	s.logger.Info("status_updated", fmt.Sprintf("Order %s: %s -> %s", id, prev, status), id, nil)
	s.notify(ctx, interfaces.StatusUpdateMessage{
		OrderID:   id,
		Field:     interfaces.FieldStatus,
		OldValue:  string(prev),
		NewValue:  string(status),
		Timestamp: at,
	})

	return s.repo.FindOrder(ctx, id)
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPaymentStatus, status)
	}

	at := s.now()
	prev, err := s.repo.UpdatePaymentStatus(ctx, id, status, at)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment_updated", fmt.Sprintf("Order %s: %s -> %s", id, prev, status), id, nil)
	s.notify(ctx, interfaces.StatusUpdateMessage{
		OrderID:   id,
		Field:     interfaces.FieldPaymentStatus,
		OldValue:  string(prev),
		NewValue:  string(status),
		Timestamp: at,
	})

	return s.repo.FindOrder(ctx, id)
}

func (s *Service) notify(ctx context.Context, msg interfaces.StatusUpdateMessage) {
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish status update", msg.OrderID, nil, err)
	}
}

// Orders returns the orders matching filter in the order they were placed.
func (s *Service) Orders(ctx context.Context, filter domain.Filter) ([]domain.Order, error) {
	return s.repo.FilterOrders(ctx, filter)
}

func (s *Service) Order(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindOrder(ctx, id)
}

// Message renders the customer message for order id and its click-to-chat
// link.
func (s *Service) Message(ctx context.Context, id string) (interfaces.OrderMessage, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		return interfaces.OrderMessage{}, err
	}

	text := whatsapp.FormatOrder(order, s.store)
	return interfaces.OrderMessage{
		OrderID: order.ID,
		Text:    text,
		Link:    whatsapp.Link(s.host, s.store.Phone, text),
	}, nil
}

// ClearOrders deletes every order and resets the order counter.
func (s *Service) ClearOrders(ctx context.Context) error {
	if err := s.repo.ClearOrders(ctx); err != nil {
		return err
	}
	s.logger.Warn("orders_cleared", "All orders deleted", "", nil)
	return nil
}
