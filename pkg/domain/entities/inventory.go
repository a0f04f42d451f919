package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InventoryItem is one on-hand stock row. On-hand quantity for readiness
// comparison is the sum of all rows for a product.
type InventoryItem struct {
	ID        string
	ProductID string
	Quantity  decimal.Decimal
	Unit      string
	Packaging string
}

// NewInventoryItem creates a validated InventoryItem
func NewInventoryItem(id, productID string, quantity decimal.Decimal, unit string) (*InventoryItem, error) {
	if id == "" {
		return nil, fmt.Errorf("inventory item id cannot be empty")
	}
	if productID == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}
	if unit == "" {
		return nil, fmt.Errorf("unit cannot be empty")
	}

	return &InventoryItem{
		ID:        id,
		ProductID: productID,
		Quantity:  quantity,
		Unit:      unit,
	}, nil
}
