package memory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
)

// InventoryRepository provides in-memory inventory storage
type InventoryRepository struct {
	items []entities.InventoryItem
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadItems loads inventory rows into the repository
func (r *InventoryRepository) LoadItems(items []*entities.InventoryItem) error {
	for _, item := range items {
		if err := r.AddItem(item); err != nil {
			return err
		}
	}
	return nil
}

// AddItem appends one inventory row
func (r *InventoryRepository) AddItem(item *entities.InventoryItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("inventory item %s has no product id", item.ID)
	}
	r.items = append(r.items, *item)
	return nil
}

// GetAllItems returns all inventory rows in insertion order
func (r *InventoryRepository) GetAllItems() ([]*entities.InventoryItem, error) {
	items := make([]*entities.InventoryItem, 0, len(r.items))
	for i := range r.items {
		items = append(items, &r.items[i])
	}
	return items, nil
}

// GetItemsByProduct returns the inventory rows for one product
func (r *InventoryRepository) GetItemsByProduct(productID string) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	for i := range r.items {
		if r.items[i].ProductID == productID {
			items = append(items, &r.items[i])
		}
	}
	return items, nil
}

// OnHand sums the quantity across all rows for a product
func (r *InventoryRepository) OnHand(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range r.items {
		if r.items[i].ProductID == productID {
			total = total.Add(r.items[i].Quantity)
		}
	}
	return total, nil
}
