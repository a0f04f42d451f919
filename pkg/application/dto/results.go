package dto

import (
	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
)

// CropBreakdown is one crop's contribution to a rollup entry. Rows are
// merged by crop name: repeated timings under the same crop add into one row.
type CropBreakdown struct {
	CropName string
	Quantity decimal.Decimal
}

// RollupEntry is the aggregated planned demand for one commodity, keyed by
// spec id with product id as the fallback key
type RollupEntry struct {
	Key        string
	SpecID     string
	SpecName   string
	ProductID  string
	Unit       string
	PlannedQty decimal.Decimal
	Breakdown  []CropBreakdown
}

// DemandRollup contains the aggregated demand for a season, sorted by
// planned quantity descending
type DemandRollup struct {
	SeasonYear int
	Entries    []RollupEntry
	Warnings   []planerrors.Warning
}

// ProductUsage is the planned canonical usage for one product, before any
// spec grouping. Readiness comparison runs at this granularity.
type ProductUsage struct {
	ProductID string
	Quantity  decimal.Decimal
	Unit      string
}

// BlockingItem is a product whose on-hand stock cannot cover planned demand
type BlockingItem struct {
	ProductID   string
	ProductName string
	Needed      decimal.Decimal
	OnHand      decimal.Decimal
	ShortQty    decimal.Decimal
	Unit        string
}

// ReadyItem is a product whose on-hand stock covers planned demand
type ReadyItem struct {
	ProductID   string
	ProductName string
	Needed      decimal.Decimal
	OnHand      decimal.Decimal
	Remaining   decimal.Decimal
	Unit        string
}

// UnassignedStock is on-hand inventory for a product with no planned usage
type UnassignedStock struct {
	ProductID   string
	ProductName string
	OnHand      decimal.Decimal
	Unit        string
	Value       decimal.Decimal
}

// ReadinessReport partitions the product universe into blocking, ready, and
// unassigned buckets; no product id appears in more than one bucket
type ReadinessReport struct {
	Blocking   []BlockingItem
	Ready      []ReadyItem
	Unassigned []UnassignedStock
	Warnings   []planerrors.Warning
}

// DraftOrderResult carries the orders synthesized from bid awards together
// with the warnings accumulated along the way. Callers must surface the
// warnings, not discard them.
type DraftOrderResult struct {
	Orders   []entities.Order
	Warnings []planerrors.Warning
}

// AllocationOutcome is the result of distributing invoice charges across
// line items
type AllocationOutcome struct {
	Lines        []entities.InvoiceLineItem
	ChargesTotal decimal.Decimal
	Allocated    decimal.Decimal
	Warnings     []planerrors.Warning
}

// FulfillmentResult is the outcome of applying one invoice to its order
type FulfillmentResult struct {
	Order         entities.Order
	LedgerEntries []entities.PriceLedgerEntry
	Received      []entities.InventoryItem
	Warnings      []planerrors.Warning
}

// SpendLine is one product's forecast spend with one vendor
type SpendLine struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	PriceUnit   string
	Extended    decimal.Decimal
}

// VendorSpend is the forecast spend for one vendor, lines included
type VendorSpend struct {
	VendorID   string
	VendorName string
	Total      decimal.Decimal
	Lines      []SpendLine
}

// SpendForecast maps aggregated demand through preferred vendor pricing,
// sorted by vendor total descending. Products with no offering land in the
// Unassigned bucket valued at their fallback estimated price.
type SpendForecast struct {
	Vendors    []VendorSpend
	Unassigned []SpendLine
	Warnings   []planerrors.Warning
}
