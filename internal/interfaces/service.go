package interfaces

import (
	"context"
	"io"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/csvimport"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

// Service commands
type CreateOrderCommand struct {
	Items            []CreateOrderItemCommand
	DeliveryMethod   string
	PickupTime       string
	DeliveryAddress  string
	DeliveryLandmark string
	SpecialNotes     string
	PaymentStatus    string
}

type CreateOrderItemCommand struct {
	ProductID string
	Quantity  int
}

// OrderMessage is a rendered customer message and its click-to-chat link.
type OrderMessage struct {
	OrderID string
	Text    string
	Link    string
}

// Service interfaces (business logic)
type CatalogService interface {
	Import(ctx context.Context, r io.Reader) (csvimport.Result, error)
	ImportFile(ctx context.Context, path string) (csvimport.Result, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, term string) ([]domain.Product, error)
	Product(ctx context.Context, id string) (domain.Product, error)
	Clear(ctx context.Context) error
}

type OrderService interface {
	Checkout(ctx context.Context, draft *domain.Draft, details domain.CheckoutDetails) (*domain.Order, error)
	PlaceOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error)
	Orders(ctx context.Context, filter domain.Filter) ([]domain.Order, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	Message(ctx context.Context, id string) (OrderMessage, error)
	ClearOrders(ctx context.Context) error
}
