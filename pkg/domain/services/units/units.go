// Package units converts application rates to canonical purchasing units:
// gallons for liquid products and pounds for dry products.
package units

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/services/planerrors"
)

// Canonical unit names used across rollups, inventory, and pricing
const (
	Gallon = "gal"
	Pound  = "lbs"
	Ton    = "ton"
)

const lbPerTon = 2000

var (
	ouncesPerGallon = decimal.NewFromInt(128)
	pintsPerGallon  = decimal.NewFromInt(8)
	quartsPerGallon = decimal.NewFromInt(4)

	ouncesPerPound = decimal.NewFromInt(16)
	poundsPerCwt   = decimal.NewFromInt(100)
	poundsPerTon   = decimal.NewFromInt(lbPerTon)
)

// ToCanonicalLiquid converts a liquid rate to gallons. Supported units:
// fluid ounce, pint, quart, gallon. Unrecognized units are a hard error,
// never treated as already-canonical.
func ToCanonicalLiquid(rate decimal.Decimal, unit string) (decimal.Decimal, error) {
	switch normalize(unit) {
	case "oz", "floz", "ounce", "ounces":
		return rate.Div(ouncesPerGallon), nil
	case "pt", "pint", "pints":
		return rate.Div(pintsPerGallon), nil
	case "qt", "quart", "quarts":
		return rate.Div(quartsPerGallon), nil
	case "gal", "gallon", "gallons":
		return rate, nil
	default:
		return decimal.Zero, fmt.Errorf("liquid unit %q: %w", unit, planerrors.ErrUnsupportedUnit)
	}
}

// ToCanonicalDry converts a dry rate to pounds. Supported units: ounce,
// pound, hundredweight (100 lb), ton (2000 lb). Unrecognized units are a
// hard error, never treated as already-canonical.
func ToCanonicalDry(rate decimal.Decimal, unit string) (decimal.Decimal, error) {
	switch normalize(unit) {
	case "oz", "ounce", "ounces":
		return rate.Div(ouncesPerPound), nil
	case "lb", "lbs", "pound", "pounds":
		return rate, nil
	case "cwt", "hundredweight":
		return rate.Mul(poundsPerCwt), nil
	case "ton", "tons":
		return rate.Mul(poundsPerTon), nil
	default:
		return decimal.Zero, fmt.Errorf("dry unit %q: %w", unit, planerrors.ErrUnsupportedUnit)
	}
}

// PoundsToTons converts an accumulated pound quantity to tons
func PoundsToTons(pounds decimal.Decimal) decimal.Decimal {
	return pounds.Div(poundsPerTon)
}

func normalize(unit string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(unit)), " ", "")
}
