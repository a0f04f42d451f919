package memory

import (
	"fmt"
	"sync"

	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
)

// OrderRepository provides in-memory order storage. Writes are serialized
// behind a mutex and UpdateOrder enforces the order's version counter, so
// two invoice applications racing on the same order cannot both land.
type OrderRepository struct {
	orders map[string]*entities.Order
	order  []string
	mutex  sync.RWMutex
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]*entities.Order),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// SaveOrder stores a new order
func (r *OrderRepository) SaveOrder(order *entities.Order) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order already exists: %s", order.ID)
	}

	r.orders[order.ID] = order.Clone()
	r.order = append(r.order, order.ID)
	return nil
}

// UpdateOrder replaces a stored order. The incoming order's Version must be
// exactly one ahead of the stored version; anything else means the caller
// worked from a stale snapshot.
func (r *OrderRepository) UpdateOrder(order *entities.Order) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.orders[order.ID]
	if !exists {
		return fmt.Errorf("order not found: %s", order.ID)
	}
	if order.Version != existing.Version+1 {
		return fmt.Errorf("order %s at version %d, write carries version %d: %w",
			order.OrderNumber, existing.Version, order.Version, planerrors.ErrVersionConflict)
	}

	r.orders[order.ID] = order.Clone()
	return nil
}

// GetOrder returns a copy of the order with the given id
func (r *OrderRepository) GetOrder(id string) (*entities.Order, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, fmt.Errorf("order not found: %s", id)
	}
	return order.Clone(), nil
}

// GetAllOrders returns copies of all orders in insertion order
func (r *OrderRepository) GetAllOrders() ([]*entities.Order, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	orders := make([]*entities.Order, 0, len(r.order))
	for _, id := range r.order {
		if order, exists := r.orders[id]; exists {
			orders = append(orders, order.Clone())
		}
	}
	return orders, nil
}

// DeleteOrder removes an order. Its order number's sequence position is not
// reclaimed; numbering stays monotonic per season year.
func (r *OrderRepository) DeleteOrder(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.orders[id]; !exists {
		return fmt.Errorf("order not found: %s", id)
	}
	delete(r.orders, id)

	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
