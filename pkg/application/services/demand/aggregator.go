// Package demand aggregates a season's planned product applications into
// purchasable per-commodity quantities.
package demand

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
	"github.com/agriplan/procure/pkg/domain/services/units"
)

// Aggregator walks a season's crop plans and produces demand rollups.
// It is stateless; every call recomputes from the snapshot it is given.
type Aggregator struct{}

// NewAggregator creates a new demand aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// plannedQuantity is one resolved application contribution in canonical units
type plannedQuantity struct {
	crop     *entities.Crop
	product  *entities.Product
	quantity decimal.Decimal // gallons for liquid products, pounds for dry
}

// Rollup aggregates the season's planned demand per commodity, keyed by the
// product's commodity spec with the product id as fallback. Entries are
// sorted by planned quantity descending; that ordering is a user-facing
// contract. Dangling product or tier references are skipped with a warning.
func (a *Aggregator) Rollup(
	ctx context.Context,
	season *entities.Season,
	assignments []*entities.FieldAssignment,
	catalog repositories.CatalogRepository,
) (*dto.DemandRollup, error) {
	result := &dto.DemandRollup{SeasonYear: season.Year}

	entryIndex := make(map[string]int)
	breakdownIndex := make(map[string]map[string]int)

	err := a.walkPlannedQuantities(season, assignments, catalog, &result.Warnings, func(pq plannedQuantity) error {
		key := pq.product.ID
		var spec *entities.CommoditySpec
		if pq.product.SpecID != "" {
			found, err := catalog.GetSpec(pq.product.SpecID)
			if err != nil {
				result.Warnings = append(result.Warnings, planerrors.Warningf(
					planerrors.WarnMissingReference,
					"product %s references unknown spec %s", pq.product.ID, pq.product.SpecID))
			} else {
				spec = found
				key = spec.ID
			}
		}

		// Dry commodities priced by weight normalize lb to ton at
		// accumulation time, not at query time.
		quantity := pq.quantity
		unit := units.Gallon
		if pq.product.Form == entities.Dry {
			unit = units.Pound
			if spec != nil && spec.UnitOfMeasure == units.Ton {
				quantity = units.PoundsToTons(quantity)
				unit = units.Ton
			}
		}

		idx, exists := entryIndex[key]
		if !exists {
			name := pq.product.Name
			specID := ""
			if spec != nil {
				name = spec.Name
				specID = spec.ID
			}
			productID := pq.product.ID
			if spec != nil && spec.ProductID != "" {
				productID = spec.ProductID
			}

			result.Entries = append(result.Entries, dto.RollupEntry{
				Key:        key,
				SpecID:     specID,
				SpecName:   name,
				ProductID:  productID,
				Unit:       unit,
				PlannedQty: decimal.Zero,
			})
			idx = len(result.Entries) - 1
			entryIndex[key] = idx
			breakdownIndex[key] = make(map[string]int)
		}

		entry := &result.Entries[idx]
		entry.PlannedQty = entry.PlannedQty.Add(quantity)

		// Breakdown rows merge by crop name, one row per crop regardless
		// of how many timings contributed.
		rows := breakdownIndex[key]
		if rowIdx, ok := rows[pq.crop.Name]; ok {
			entry.Breakdown[rowIdx].Quantity = entry.Breakdown[rowIdx].Quantity.Add(quantity)
		} else {
			entry.Breakdown = append(entry.Breakdown, dto.CropBreakdown{
				CropName: pq.crop.Name,
				Quantity: quantity,
			})
			rows[pq.crop.Name] = len(entry.Breakdown) - 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].PlannedQty.GreaterThan(result.Entries[j].PlannedQty)
	})

	return result, nil
}

// UsageByProduct aggregates planned usage per product in canonical units
// (gallons or pounds) without spec grouping. Readiness comparison runs at
// this granularity.
func (a *Aggregator) UsageByProduct(
	ctx context.Context,
	season *entities.Season,
	assignments []*entities.FieldAssignment,
	catalog repositories.CatalogRepository,
) ([]dto.ProductUsage, []planerrors.Warning, error) {
	var warnings []planerrors.Warning
	usageIndex := make(map[string]int)
	var usages []dto.ProductUsage

	err := a.walkPlannedQuantities(season, assignments, catalog, &warnings, func(pq plannedQuantity) error {
		unit := units.Gallon
		if pq.product.Form == entities.Dry {
			unit = units.Pound
		}
		if idx, ok := usageIndex[pq.product.ID]; ok {
			usages[idx].Quantity = usages[idx].Quantity.Add(pq.quantity)
		} else {
			usages = append(usages, dto.ProductUsage{
				ProductID: pq.product.ID,
				Quantity:  pq.quantity,
				Unit:      unit,
			})
			usageIndex[pq.product.ID] = len(usages) - 1
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return usages, warnings, nil
}

// walkPlannedQuantities resolves every planned application in the season to
// a canonical quantity and feeds it to visit. A crop with at least one field
// assignment uses the assignment acreage; a crop with field data present but
// zero assignments falls back to the tier-based calculation (documented
// fallback pending product-owner confirmation, not a bug). Products that are
// not bid-eligible are skipped without a warning.
func (a *Aggregator) walkPlannedQuantities(
	season *entities.Season,
	assignments []*entities.FieldAssignment,
	catalog repositories.CatalogRepository,
	warnings *[]planerrors.Warning,
	visit func(plannedQuantity) error,
) error {
	assignmentsByCrop := make(map[string][]*entities.FieldAssignment)
	for _, fa := range assignments {
		assignmentsByCrop[fa.CropID] = append(assignmentsByCrop[fa.CropID], fa)
	}

	for i := range season.Crops {
		crop := &season.Crops[i]
		cropAssignments := assignmentsByCrop[crop.ID]

		if len(cropAssignments) > 0 {
			if err := a.walkFieldAssignments(crop, cropAssignments, catalog, warnings, visit); err != nil {
				return err
			}
			continue
		}

		if err := a.walkTierApplications(crop, catalog, warnings, visit); err != nil {
			return err
		}
	}

	return nil
}

// walkTierApplications computes tier-weighted quantities for one crop:
// tier acreage = crop total acres x tier percent / 100
func (a *Aggregator) walkTierApplications(
	crop *entities.Crop,
	catalog repositories.CatalogRepository,
	warnings *[]planerrors.Warning,
	visit func(plannedQuantity) error,
) error {
	for _, app := range crop.Applications {
		tier, err := crop.TierByID(app.TierID)
		if err != nil {
			*warnings = append(*warnings, planerrors.Warningf(
				planerrors.WarnMissingReference,
				"application %s on crop %s references unknown tier %s", app.ID, crop.Name, app.TierID))
			continue
		}

		product, err := catalog.GetProduct(app.ProductID)
		if err != nil {
			*warnings = append(*warnings, planerrors.Warningf(
				planerrors.WarnMissingReference,
				"application %s on crop %s references unknown product %s", app.ID, crop.Name, app.ProductID))
			continue
		}
		if !product.BidEligible {
			continue
		}

		acres := crop.TotalAcres.Mul(tier.Percent).Div(decimal.NewFromInt(100))
		canonicalRate, err := toCanonicalRate(product, app.Rate, app.RateUnit)
		if err != nil {
			return fmt.Errorf("crop %s application %s: %w", crop.Name, app.ID, err)
		}

		if err := visit(plannedQuantity{
			crop:     crop,
			product:  product,
			quantity: canonicalRate.Mul(acres),
		}); err != nil {
			return err
		}
	}
	return nil
}

// walkFieldAssignments computes per-field quantities from the pre-resolved
// effective application sequence, replacing the tier weighting entirely
func (a *Aggregator) walkFieldAssignments(
	crop *entities.Crop,
	cropAssignments []*entities.FieldAssignment,
	catalog repositories.CatalogRepository,
	warnings *[]planerrors.Warning,
	visit func(plannedQuantity) error,
) error {
	for _, fa := range cropAssignments {
		for _, app := range fa.Applications {
			if app.IsExcluded {
				continue
			}

			product, err := catalog.GetProduct(app.ProductID)
			if err != nil {
				*warnings = append(*warnings, planerrors.Warningf(
					planerrors.WarnMissingReference,
					"field %s on crop %s references unknown product %s", fa.FieldName, crop.Name, app.ProductID))
				continue
			}
			if !product.BidEligible {
				continue
			}

			canonicalRate, err := toCanonicalRate(product, app.Rate, app.RateUnit)
			if err != nil {
				return fmt.Errorf("crop %s field %s: %w", crop.Name, fa.FieldName, err)
			}

			if err := visit(plannedQuantity{
				crop:     crop,
				product:  product,
				quantity: canonicalRate.Mul(fa.PlannedAcres),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func toCanonicalRate(product *entities.Product, rate decimal.Decimal, unit string) (decimal.Decimal, error) {
	if product.Form == entities.Liquid {
		return units.ToCanonicalLiquid(rate, unit)
	}
	return units.ToCanonicalDry(rate, unit)
}
