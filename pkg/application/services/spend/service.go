// Package spend maps aggregated demand through preferred vendor pricing to
// produce a per-vendor spend forecast for budgeting and export.
package spend

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
	"github.com/agriplan/procure/pkg/domain/services/units"
)

// Service builds vendor spend forecasts from demand rollups
type Service struct{}

// NewService creates a new spend forecast service
func NewService() *Service {
	return &Service{}
}

// Forecast resolves each rollup entry to its preferred vendor offering and
// groups the extended cost by vendor, sorted by total spend descending.
// Container-priced offerings (jug, bag, case, tote) are already denominated
// in container count; ton-priced pound-measured quantities divide by 2000
// before multiplying. Products with no offering fall into the unassigned
// bucket at the product's fallback estimated price.
func (s *Service) Forecast(
	ctx context.Context,
	rollup *dto.DemandRollup,
	catalog repositories.CatalogRepository,
) (*dto.SpendForecast, error) {
	forecast := &dto.SpendForecast{}

	vendorIndex := make(map[string]int)

	for _, entry := range rollup.Entries {
		product, err := catalog.GetProduct(entry.ProductID)
		if err != nil {
			forecast.Warnings = append(forecast.Warnings, planerrors.Warningf(
				planerrors.WarnMissingReference,
				"rollup entry %s references unknown product %s", entry.SpecName, entry.ProductID))
			continue
		}

		offerings, err := catalog.GetOfferings(product.ID)
		if err != nil {
			offerings = nil
		}

		offering := preferredOffering(offerings)
		if offering == nil {
			forecast.Unassigned = append(forecast.Unassigned, dto.SpendLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    entry.PlannedQty,
				Unit:        entry.Unit,
				UnitPrice:   product.EstimatedPrice,
				PriceUnit:   product.EstPriceUnit,
				Extended:    extendedCost(entry.PlannedQty, entry.Unit, product.EstimatedPrice, product.EstPriceUnit),
			})
			continue
		}

		line := dto.SpendLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    entry.PlannedQty,
			Unit:        entry.Unit,
			UnitPrice:   offering.Price,
			PriceUnit:   offering.PriceUnit,
			Extended:    extendedCost(entry.PlannedQty, entry.Unit, offering.Price, offering.PriceUnit),
		}

		idx, seen := vendorIndex[offering.VendorID]
		if !seen {
			vendorName := ""
			if vendor, err := catalog.GetVendor(offering.VendorID); err == nil {
				vendorName = vendor.Name
			}
			forecast.Vendors = append(forecast.Vendors, dto.VendorSpend{
				VendorID:   offering.VendorID,
				VendorName: vendorName,
				Total:      decimal.Zero,
			})
			idx = len(forecast.Vendors) - 1
			vendorIndex[offering.VendorID] = idx
		}

		forecast.Vendors[idx].Lines = append(forecast.Vendors[idx].Lines, line)
		forecast.Vendors[idx].Total = forecast.Vendors[idx].Total.Add(line.Extended)
	}

	sort.SliceStable(forecast.Vendors, func(i, j int) bool {
		return forecast.Vendors[i].Total.GreaterThan(forecast.Vendors[j].Total)
	})

	return forecast, nil
}

// extendedCost multiplies a planned quantity by a price, honoring the two
// pricing quirks: container units price whole containers with no further
// conversion, and ton prices against pound quantities divide by 2000 first.
func extendedCost(quantity decimal.Decimal, quantityUnit string, price decimal.Decimal, priceUnit string) decimal.Decimal {
	if entities.IsContainerUnit(priceUnit) {
		return price.Mul(quantity)
	}
	if priceUnit == units.Ton && quantityUnit == units.Pound {
		return units.PoundsToTons(quantity).Mul(price)
	}
	return quantity.Mul(price)
}

// preferredOffering returns the first offering flagged preferred, else the
// first by insertion order, else nil
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
