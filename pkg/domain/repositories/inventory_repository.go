package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/entities"
)

// InventoryRepository provides access to on-hand inventory data
type InventoryRepository interface {
	GetAllItems() ([]*entities.InventoryItem, error)
	GetItemsByProduct(productID string) ([]*entities.InventoryItem, error)

	// OnHand sums the quantity across all rows for a product
	OnHand(productID string) (decimal.Decimal, error)

	LoadItems(items []*entities.InventoryItem) error
	AddItem(item *entities.InventoryItem) error
}
