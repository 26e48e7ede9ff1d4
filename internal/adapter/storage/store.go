package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

const (
	keyProducts     = "bow_momentum_products"
	keyOrders       = "bow_momentum_orders"
	keyOrderCounter = "bow_momentum_order_counter"
)

// Store is the single owner of the catalog, the order log and the order
// counter. The mutex serialises read-modify-write sequences within this
// process; separate processes sharing one backend are not coordinated.
type Store struct {
	kv        KV
	namespace string
	mu        sync.Mutex
}

// NewStore wraps kv. A non-empty namespace is prepended to every key so that
// several shops can share one backend.
func NewStore(kv KV, namespace string) *Store {
	return &Store{kv: kv, namespace: namespace}
}

func (s *Store) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + ":" + name
}

// ReplaceCatalog overwrites the whole product table with a single write.
func (s *Store) ReplaceCatalog(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if products == nil {
		products = []domain.Product{}
	}
	return s.putJSON(ctx, keyProducts, products)
}

// Catalog returns the stored products, or an empty slice if none were saved.
func (s *Store) Catalog(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := []domain.Product{}
	if _, err := s.getJSON(ctx, keyProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) ClearCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Wrap(s.kv.Delete(ctx, s.key(keyProducts)), "failed to clear catalog")
}

// NextOrderNumber advances the order counter by one and returns the
// identifier for an order created at createdAt.
func (s *Store) NextOrderNumber(ctx context.Context, createdAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counter int64
	if _, err := s.getJSON(ctx, keyOrderCounter, &counter); err != nil {
		return "", err
	}
	counter++
	if err := s.putJSON(ctx, keyOrderCounter, counter); err != nil {
		return "", err
	}

	return domain.FormatOrderID(createdAt, counter), nil
}

// AppendOrder adds order at the end of the order log.
func (s *Store) AppendOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return err
	}
	orders = append(orders, *order)
	return s.putJSON(ctx, keyOrders, orders)
}

// Orders returns the full order log in insertion order.
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadOrders(ctx)
}

func (s *Store) FindOrder(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, errors.Wrap(domain.ErrOrderNotFound, id)
}

// UpdateStatus sets the fulfillment status of order id and returns the
// previous one. The log is left untouched when id is unknown.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) (domain.Status, error) {
	var prev domain.Status
	err := s.update(ctx, id, func(o *domain.Order) error {
		prev = o.Status
		return o.SetStatus(status, at)
	})
	return prev, err
}

// UpdatePaymentStatus sets the payment status of order id and returns the
// previous one. The log is left untouched when id is unknown.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, at time.Time) (domain.PaymentStatus, error) {
	var prev domain.PaymentStatus
	err := s.update(ctx, id, func(o *domain.Order) error {
		prev = o.PaymentStatus
		return o.SetPaymentStatus(status, at)
	})
	return prev, err
}

func (s *Store) FilterOrders(ctx context.Context, f domain.Filter) ([]domain.Order, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterOrders(orders, f), nil
}

// ClearOrders removes the order log and resets the counter.
func (s *Store) ClearOrders(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key(keyOrders)); err != nil {
		return errors.Wrap(err, "failed to clear orders")
	}
	return errors.Wrap(s.kv.Delete(ctx, s.key(keyOrderCounter)), "failed to reset order counter")
}

func (s *Store) update(ctx context.Context, id string, mutate func(o *domain.Order) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if err := mutate(&orders[i]); err != nil {
			return err
		}
		return s.putJSON(ctx, keyOrders, orders)
	}

	return errors.Wrap(domain.ErrOrderNotFound, id)
}

func (s *Store) loadOrders(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	if _, err := s.getJSON(ctx, keyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) getJSON(ctx context.Context, name string, dst interface{}) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", name)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errors.Wrapf(err, "failed to decode %s", name)
	}
	return true, nil
}

func (s *Store) putJSON(ctx context.Context, name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}
	return errors.Wrapf(s.kv.Put(ctx, s.key(name), raw), "failed to write %s", name)
}
