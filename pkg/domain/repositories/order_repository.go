package repositories

import "github.com/agriplan/procure/pkg/domain/entities"

// OrderRepository provides access to purchase order data. Implementations
// must serialize writes: UpdateOrder rejects a write whose Version is not
// exactly one ahead of the stored order's Version.
type OrderRepository interface {
	GetOrder(id string) (*entities.Order, error)
	GetAllOrders() ([]*entities.Order, error)
	SaveOrder(order *entities.Order) error
	UpdateOrder(order *entities.Order) error
	DeleteOrder(id string) error
}
