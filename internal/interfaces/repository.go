package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

// Repository interfaces (adapter/storage)
type CatalogRepository interface {
	ReplaceCatalog(ctx context.Context, products []domain.Product) error
	Catalog(ctx context.Context) ([]domain.Product, error)
	ClearCatalog(ctx context.Context) error
}

type OrderRepository interface {
	NextOrderNumber(ctx context.Context, createdAt time.Time) (string, error)
	AppendOrder(ctx context.Context, order *domain.Order) error
	Orders(ctx context.Context) ([]domain.Order, error)
	FindOrder(ctx context.Context, id string) (*domain.Order, error)
	FilterOrders(ctx context.Context, f domain.Filter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) (domain.Status, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, at time.Time) (domain.PaymentStatus, error)
	ClearOrders(ctx context.Context) error
}
