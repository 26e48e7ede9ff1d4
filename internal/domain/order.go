package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const defaultPickupTime = "Not specified"

// Order represents a submitted customer order
type Order struct {
	ID               string          `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
	Items            []OrderItem     `json:"items"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DeliveryMethod   DeliveryMethod  `json:"delivery_method"`
	PickupTime       string          `json:"pickup_time"`
	DeliveryAddress  string          `json:"delivery_address"`
	DeliveryLandmark string          `json:"delivery_landmark"`
	SpecialNotes     string          `json:"special_notes"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	Status           Status          `json:"status"`
}

// OrderItem represents a line in an order. Name and price are copied from the
// product at the time the line was added.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price_per_unit"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewOrderItem creates a line for qty units of p.
func NewOrderItem(p Product, qty int) OrderItem {
	return OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		UnitPrice:   p.Price,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// CheckoutDetails holds everything the operator fills in besides the items.
type CheckoutDetails struct {
	DeliveryMethod   DeliveryMethod
	PickupTime       string
	DeliveryAddress  string
	DeliveryLandmark string
	SpecialNotes     string
	PaymentStatus    PaymentStatus
}

// NewOrder creates a new order with business rules applied. The identifier is
// assigned by the caller once the order has passed validation.
func NewOrder(items []OrderItem, details CheckoutDetails, createdAt time.Time) (*Order, error) {
	order := &Order{
		CreatedAt:        createdAt,
		Items:            append([]OrderItem(nil), items...),
		DeliveryMethod:   details.DeliveryMethod,
		PickupTime:       details.PickupTime,
		DeliveryAddress:  details.DeliveryAddress,
		DeliveryLandmark: details.DeliveryLandmark,
		SpecialNotes:     details.SpecialNotes,
		PaymentStatus:    details.PaymentStatus,
		Status:           StatusNew,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if order.PickupTime == "" {
		order.PickupTime = defaultPickupTime
	}
	order.CalculateTotal()

	return order, nil
}

// Validate applies business validation rules
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}

	for i, item := range o.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	if !o.DeliveryMethod.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDeliveryMethod, o.DeliveryMethod)
	}

	if !o.PaymentStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, o.PaymentStatus)
	}

	return nil
}

// CalculateTotal sets the total amount to the sum of the line subtotals.
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.TotalAmount = total
}

// SetStatus changes the fulfillment status and stamps the update time.
func (o *Order) SetStatus(status Status, at time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o.Status = status
	o.UpdatedAt = &at
	return nil
}

// SetPaymentStatus changes the payment status and stamps the update time.
func (o *Order) SetPaymentStatus(status PaymentStatus, at time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}
	o.PaymentStatus = status
	o.UpdatedAt = &at
	return nil
}

// FormatOrderID builds the public identifier from the creation date and the
// order counter, e.g. ORDER-20260131-0007.
func FormatOrderID(createdAt time.Time, counter int64) string {
	return fmt.Sprintf("ORDER-%s-%04d", createdAt.UTC().Format("20060102"), counter)
}
