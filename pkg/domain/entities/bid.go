package entities

import (
	"github.com/shopspring/decimal"
)

// BidEvent lists the commodity lines going out for competitive bid and the
// vendors invited to quote them.
type BidEvent struct {
	ID         string
	Name       string
	SeasonYear int
	SpecIDs    []string
	VendorIDs  []string
}

// VendorQuote is one vendor's quoted price for one commodity spec line
type VendorQuote struct {
	ID         string
	BidEventID string
	VendorID   string
	SpecID     string
	Price      decimal.Decimal
	PriceUnit  string
}

// Award binds one commodity spec line to the winning vendor. AwardedPrice,
// when set, overrides the vendor's quoted price.
type Award struct {
	ID           string
	BidEventID   string
	SpecID       string
	VendorID     string
	Quantity     decimal.Decimal
	Unit         string
	AwardedPrice *decimal.Decimal
}
