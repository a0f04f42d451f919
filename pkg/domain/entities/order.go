package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a purchase order
type OrderStatus int

const (
	OrderDraft OrderStatus = iota
	OrderOrdered
	OrderPartial
	OrderComplete
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	switch s {
	case OrderDraft:
		return "draft"
	case OrderOrdered:
		return "ordered"
	case OrderPartial:
		return "partial"
	case OrderComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ParseOrderStatus parses an order status name
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch s {
	case "draft":
		return OrderDraft, nil
	case "ordered":
		return OrderOrdered, nil
	case "partial":
		return OrderPartial, nil
	case "complete":
		return OrderComplete, nil
	default:
		return OrderDraft, fmt.Errorf("invalid order status: %s (expected: draft, ordered, partial, or complete)", s)
	}
}

// PaymentStatus represents the payment state of an order
type PaymentStatus int

const (
	PaymentUnpaid PaymentStatus = iota
	PaymentPaid
)

// String method for PaymentStatus enum
func (s PaymentStatus) String() string {
	switch s {
	case PaymentUnpaid:
		return "unpaid"
	case PaymentPaid:
		return "paid"
	default:
		return "unknown"
	}
}

// LineStatus represents the fulfillment status of one order line
type LineStatus int

const (
	LinePending LineStatus = iota
	LinePartial
	LineComplete
)

// String method for LineStatus enum
func (s LineStatus) String() string {
	switch s {
	case LinePending:
		return "pending"
	case LinePartial:
		return "partial"
	case LineComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Order is a purchase order for one vendor in one season year. Version
// increments on every applied invoice so the repository layer can reject
// writes against a stale snapshot.
type Order struct {
	ID            string
	OrderNumber   string
	VendorID      string
	VendorName    string
	SeasonYear    int
	Status        OrderStatus
	PaymentStatus PaymentStatus
	BidEventID    string
	Version       int
	CreatedAt     time.Time
	Lines         []OrderLineItem
}

// OrderLineItem is one product line on an order.
// Invariant: RemainingQty = max(0, OrderedQty - ReceivedQty).
type OrderLineItem struct {
	ID           string
	SpecID       string
	ProductID    string
	Description  string
	OrderedQty   decimal.Decimal
	ReceivedQty  decimal.Decimal
	RemainingQty decimal.Decimal
	Unit         string
	UnitPrice    decimal.Decimal
	Status       LineStatus
}

// NewOrder creates a validated Order in draft status
func NewOrder(id, orderNumber, vendorID string, seasonYear int) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if orderNumber == "" {
		return nil, fmt.Errorf("order number cannot be empty")
	}
	if vendorID == "" {
		return nil, fmt.Errorf("vendor id cannot be empty")
	}
	if seasonYear <= 0 {
		return nil, fmt.Errorf("season year must be positive, got %d", seasonYear)
	}

	return &Order{
		ID:            id,
		OrderNumber:   orderNumber,
		VendorID:      vendorID,
		SeasonYear:    seasonYear,
		Status:        OrderDraft,
		PaymentStatus: PaymentUnpaid,
		CreatedAt:     time.Now(),
	}, nil
}

// Clone returns a deep copy of the order so callers can treat the original
// as an immutable snapshot.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Lines = make([]OrderLineItem, len(o.Lines))
	copy(clone.Lines, o.Lines)
	return &clone
}

// LineByID returns the order line with the given id
func (o *Order) LineByID(id string) (*OrderLineItem, error) {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i], nil
		}
	}
	return nil, fmt.Errorf("line item %s not found on order %s", id, o.OrderNumber)
}
