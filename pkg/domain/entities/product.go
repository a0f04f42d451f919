package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductForm represents the physical form of a product
type ProductForm int

const (
	Liquid ProductForm = iota
	Dry
)

// String method for ProductForm enum
func (f ProductForm) String() string {
	switch f {
	case Liquid:
		return "Liquid"
	case Dry:
		return "Dry"
	default:
		return "Unknown"
	}
}

// Product is the canonical product master record. SpecID links the product to
// a commodity spec when it participates in competitive bidding; only products
// flagged BidEligible enter demand rollup grouping.
type Product struct {
	ID             string
	Name           string
	Form           ProductForm
	Category       string
	SpecID         string
	BidEligible    bool
	Density        decimal.Decimal // lb per gal, zero when not applicable
	EstimatedPrice decimal.Decimal // fallback price when no vendor offering exists
	EstPriceUnit   string
}

// Vendor represents a supplier of products
type Vendor struct {
	ID   string
	Name string
}

// VendorOffering attaches a vendor's price to a product. At most one offering
// per product carries the Preferred flag.
type VendorOffering struct {
	ID            string
	ProductID     string
	VendorID      string
	Price         decimal.Decimal
	PriceUnit     string
	ContainerSize decimal.Decimal // zero when sold loose
	Preferred     bool
}

// CommoditySpec groups equivalent bid-eligible products so that different
// vendors' goods compare on a single line. ProductID, when set, names the
// canonical product a draft order should be written against.
type CommoditySpec struct {
	ID            string
	Name          string
	ProductID     string
	UnitOfMeasure string // ton, gal, or lbs
}

// NewProduct creates a validated Product
func NewProduct(id, name string, form ProductForm) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}

	return &Product{
		ID:   id,
		Name: name,
		Form: form,
	}, nil
}

// IsContainerUnit reports whether a price unit denominates whole containers
// rather than a unit of measure.
func IsContainerUnit(priceUnit string) bool {
	switch priceUnit {
	case "jug", "bag", "case", "tote":
		return true
	default:
		return false
	}
}
