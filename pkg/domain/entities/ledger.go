package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSourceInvoice marks price ledger entries derived from posted invoices
const LedgerSourceInvoice = "invoice"

// PriceLedgerKey identifies a price ledger entry. A new invoice for the same
// key replaces the prior entry (most-recent-wins).
type PriceLedgerKey struct {
	SeasonYear int
	VendorID   string
	ProductID  string
	Source     string
}

// PriceLedgerEntry records the most recent landed unit cost for a product
// from one vendor in one season
type PriceLedgerEntry struct {
	SeasonYear    int
	VendorID      string
	ProductID     string
	Source        string
	UnitPrice     decimal.Decimal
	Unit          string
	EffectiveDate time.Time
	Note          string
}

// Key returns the upsert key for the entry
func (e *PriceLedgerEntry) Key() PriceLedgerKey {
	return PriceLedgerKey{
		SeasonYear: e.SeasonYear,
		VendorID:   e.VendorID,
		ProductID:  e.ProductID,
		Source:     e.Source,
	}
}
