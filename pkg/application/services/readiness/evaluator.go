// Package readiness compares aggregated demand against on-hand inventory
// to determine whether a season's plan is covered.
package readiness

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
	"github.com/agriplan/procure/pkg/domain/services/units"
)

// Evaluator classifies products as blocking, ready, or unassigned
type Evaluator struct{}

// NewEvaluator creates a new readiness evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate partitions the product universe in one pass: products with
// planned usage become blocking (short) or ready (covered), and inventory
// whose product has no planned usage becomes unassigned stock, valued so it
// is surfaced rather than silently dropped. Every product id lands in
// exactly one bucket.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	usages []dto.ProductUsage,
	inventoryRepo repositories.InventoryRepository,
	catalog repositories.CatalogRepository,
) (*dto.ReadinessReport, error) {
	report := &dto.ReadinessReport{}

	items, err := inventoryRepo.GetAllItems()
	if err != nil {
		return nil, err
	}

	onHand := make(map[string]decimal.Decimal)
	var stockOrder []string
	for _, item := range items {
		if _, seen := onHand[item.ProductID]; !seen {
			stockOrder = append(stockOrder, item.ProductID)
		}
		onHand[item.ProductID] = onHand[item.ProductID].Add(item.Quantity)
	}

	planned := make(map[string]bool, len(usages))
	for _, usage := range usages {
		planned[usage.ProductID] = true

		have := onHand[usage.ProductID]
		remaining := have.Sub(usage.Quantity)
		name := e.productName(usage.ProductID, catalog, &report.Warnings)

		if remaining.IsNegative() {
			report.Blocking = append(report.Blocking, dto.BlockingItem{
				ProductID:   usage.ProductID,
				ProductName: name,
				Needed:      usage.Quantity,
				OnHand:      have,
				ShortQty:    remaining.Abs(),
				Unit:        usage.Unit,
			})
		} else {
			report.Ready = append(report.Ready, dto.ReadyItem{
				ProductID:   usage.ProductID,
				ProductName: name,
				Needed:      usage.Quantity,
				OnHand:      have,
				Remaining:   remaining,
				Unit:        usage.Unit,
			})
		}
	}

	for _, productID := range stockOrder {
		if planned[productID] {
			continue
		}

		quantity := onHand[productID]
		stock := dto.UnassignedStock{
			ProductID: productID,
			OnHand:    quantity,
		}

		product, err := catalog.GetProduct(productID)
		if err != nil {
			report.Warnings = append(report.Warnings, planerrors.Warningf(
				planerrors.WarnMissingReference,
				"inventory references unknown product %s", productID))
		} else {
			stock.ProductName = product.Name
			stock.Unit = canonicalUnit(product)
			stock.Value = e.stockValue(product, quantity, catalog)
		}

		report.Unassigned = append(report.Unassigned, stock)
	}

	return report, nil
}

// stockValue prices unassigned stock at the preferred offering, falling back
// to the product's estimated price. Ton-priced products are divided by 2000
// before multiplying because stock quantities are carried in pounds.
func (e *Evaluator) stockValue(
	product *entities.Product,
	quantity decimal.Decimal,
	catalog repositories.CatalogRepository,
) decimal.Decimal {
	price := product.EstimatedPrice
	priceUnit := product.EstPriceUnit

	offerings, err := catalog.GetOfferings(product.ID)
	if err == nil {
		if offering := preferredOffering(offerings); offering != nil {
			price = offering.Price
			priceUnit = offering.PriceUnit
		}
	}

	if priceUnit == units.Ton {
		return units.PoundsToTons(quantity).Mul(price)
	}
	return quantity.Mul(price)
}

func (e *Evaluator) productName(
	productID string,
	catalog repositories.CatalogRepository,
	warnings *[]planerrors.Warning,
) string {
	product, err := catalog.GetProduct(productID)
	if err != nil {
		*warnings = append(*warnings, planerrors.Warningf(
			planerrors.WarnMissingReference,
			"planned usage references unknown product %s", productID))
		return ""
	}
	return product.Name
}

// preferredOffering returns the first offering flagged preferred, else the
// first offering in insertion order, else nil
func preferredOffering(offerings []*entities.VendorOffering) *entities.VendorOffering {
	for _, offering := range offerings {
		if offering.Preferred {
			return offering
		}
	}
	if len(offerings) > 0 {
		return offerings[0]
	}
	return nil
}

func canonicalUnit(product *entities.Product) string {
	if product.Form == entities.Liquid {
		return units.Gallon
	}
	return units.Pound
}
