package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ChargeType classifies an invoice-level charge
type ChargeType int

const (
	ChargeFreight ChargeType = iota
	ChargeHandling
	ChargeTax
	ChargeOther
)

// String method for ChargeType enum
func (t ChargeType) String() string {
	switch t {
	case ChargeFreight:
		return "freight"
	case ChargeHandling:
		return "handling"
	case ChargeTax:
		return "tax"
	case ChargeOther:
		return "other"
	default:
		return "unknown"
	}
}

// ParseChargeType parses a charge type name
func ParseChargeType(s string) (ChargeType, error) {
	switch s {
	case "freight":
		return ChargeFreight, nil
	case "handling":
		return ChargeHandling, nil
	case "tax":
		return ChargeTax, nil
	case "other":
		return ChargeOther, nil
	default:
		return ChargeOther, fmt.Errorf("invalid charge type: %s (expected: freight, handling, tax, or other)", s)
	}
}

// Allocable reports whether a charge type counts toward proportional
// freight allocation across line items.
func (t ChargeType) Allocable() bool {
	return t == ChargeFreight || t == ChargeHandling
}

// InvoiceCharge is one invoice-level charge (freight, handling, tax)
type InvoiceCharge struct {
	ID     string
	Type   ChargeType
	Amount decimal.Decimal
}

// InvoiceLineItem is one delivered product line on an invoice.
// Invariant: LandedUnitCost = (Subtotal + AllocatedCharge) / Quantity.
type InvoiceLineItem struct {
	ID              string
	OrderLineItemID string
	ProductID       string
	Quantity        decimal.Decimal
	Unit            string
	UnitPrice       decimal.Decimal
	Subtotal        decimal.Decimal
	AllocatedCharge decimal.Decimal
	LandedUnitCost  decimal.Decimal
	LandedTotal     decimal.Decimal
}

// Invoice records one vendor delivery, optionally against a parent order
type Invoice struct {
	ID            string
	OrderID       string
	VendorID      string
	SeasonYear    int
	InvoiceNumber string
	InvoiceDate   time.Time
	Charges       []InvoiceCharge
	Lines         []InvoiceLineItem
}

// NewInvoice creates a validated Invoice
func NewInvoice(id, vendorID string, seasonYear int, invoiceDate time.Time) (*Invoice, error) {
	if id == "" {
		return nil, fmt.Errorf("invoice id cannot be empty")
	}
	if vendorID == "" {
		return nil, fmt.Errorf("vendor id cannot be empty")
	}
	if seasonYear <= 0 {
		return nil, fmt.Errorf("season year must be positive, got %d", seasonYear)
	}

	return &Invoice{
		ID:          id,
		VendorID:    vendorID,
		SeasonYear:  seasonYear,
		InvoiceDate: invoiceDate,
	}, nil
}

// ChargesTotal sums the allocable charges on the invoice
func (inv *Invoice) ChargesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, charge := range inv.Charges {
		if charge.Type.Allocable() {
			total = total.Add(charge.Amount)
		}
	}
	return total
}
