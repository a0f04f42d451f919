package demand

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
	"github.com/agriplan/procure/pkg/infrastructure/repositories/memory"
)

// buildTestCatalog creates a catalog with a dry spec-linked fertilizer, a
// liquid herbicide with no spec, and a non-bid-eligible seed treatment
func buildTestCatalog(t *testing.T) *memory.CatalogRepository {
	t.Helper()

	ams, err := entities.NewProduct("P-AMS", "Ammonium Sulfate", entities.Dry)
	if err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	ams.BidEligible = true
	ams.SpecID = "SPEC-AMS"

	herbicide, err := entities.NewProduct("P-HERB", "Glyphosate 4L", entities.Liquid)
	if err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	herbicide.BidEligible = true

	treatment, err := entities.NewProduct("P-TREAT", "Seed Treatment", entities.Liquid)
	if err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	treatment.BidEligible = false

	catalog := memory.NewCatalogRepository()
	if err := catalog.LoadProducts([]*entities.Product{ams, herbicide, treatment}); err != nil {
		t.Fatalf("Failed to load products: %v", err)
	}
	if err := catalog.LoadSpecs([]*entities.CommoditySpec{
		{ID: "SPEC-AMS", Name: "AMS 21-0-0-24S", ProductID: "P-AMS", UnitOfMeasure: "ton"},
	}); err != nil {
		t.Fatalf("Failed to load specs: %v", err)
	}

	return catalog
}

// buildCornSeason returns a season with one crop: Corn, 132 acres, a single
// full-coverage tier, AMS at 100 lbs/acre and glyphosate at 32 oz/acre
func buildCornSeason(t *testing.T) *entities.Season {
	t.Helper()

	corn, err := entities.NewCrop("C-CORN", "Corn", decimal.NewFromInt(132))
	if err != nil {
		t.Fatalf("Failed to create crop: %v", err)
	}
	corn.Tiers = []entities.Tier{
		{ID: "T-CORE", CropID: "C-CORN", Name: "Core", Percent: decimal.NewFromInt(100)},
	}
	corn.Applications = []entities.Application{
		{
			ID: "A-1", CropID: "C-CORN", ProductID: "P-AMS",
			Rate: decimal.NewFromInt(100), RateUnit: "lbs", TierID: "T-CORE",
		},
		{
			ID: "A-2", CropID: "C-CORN", ProductID: "P-HERB",
			Rate: decimal.NewFromInt(32), RateUnit: "oz", TierID: "T-CORE",
		},
	}

	return &entities.Season{ID: "S-2026", Year: 2026, Name: "2026 Plan", Crops: []entities.Crop{*corn}}
}

func TestAggregator_Rollup_TierWeighted(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)

	aggregator := NewAggregator()
	rollup, err := aggregator.Rollup(context.Background(), season, nil, catalog)
	if err != nil {
		t.Fatalf("Rollup failed: %v", err)
	}

	if rollup.SeasonYear != 2026 {
		t.Errorf("Expected season year 2026, got %d", rollup.SeasonYear)
	}

	if len(rollup.Entries) != 2 {
		t.Fatalf("Expected 2 rollup entries, got %d", len(rollup.Entries))
	}

	// 132 acres x 32 oz = 33 gal outranks 6.6 tons in the descending sort
	herb := rollup.Entries[0]
	if herb.Key != "P-HERB" {
		t.Fatalf("Expected product-id fallback key P-HERB first, got %s", herb.Key)
	}
	if !herb.PlannedQty.Equal(decimal.NewFromInt(33)) {
		t.Errorf("Expected 33 gal of glyphosate, got %s", herb.PlannedQty)
	}
	if herb.Unit != "gal" {
		t.Errorf("Expected gal unit, got %s", herb.Unit)
	}
	if herb.SpecName != "Glyphosate 4L" {
		t.Errorf("Expected product name as display name, got %s", herb.SpecName)
	}

	// 132 acres x 100 lbs = 13200 lbs, normalized to tons by the spec UOM
	ams := rollup.Entries[1]
	if ams.Key != "SPEC-AMS" {
		t.Fatalf("Expected spec key SPEC-AMS, got %s", ams.Key)
	}
	if !ams.PlannedQty.Equal(decimal.NewFromFloat(6.6)) {
		t.Errorf("Expected 6.6 tons of AMS, got %s", ams.PlannedQty)
	}
	if ams.Unit != "ton" {
		t.Errorf("Expected ton unit, got %s", ams.Unit)
	}
	if ams.SpecName != "AMS 21-0-0-24S" {
		t.Errorf("Expected spec name, got %s", ams.SpecName)
	}

	if len(ams.Breakdown) != 1 {
		t.Fatalf("Expected 1 breakdown row, got %d", len(ams.Breakdown))
	}
	if ams.Breakdown[0].CropName != "Corn" || !ams.Breakdown[0].Quantity.Equal(decimal.NewFromFloat(6.6)) {
		t.Errorf("Expected Corn 6.6, got %s %s", ams.Breakdown[0].CropName, ams.Breakdown[0].Quantity)
	}

	if len(rollup.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", rollup.Warnings)
	}
}

func TestAggregator_Rollup_TierPercentWeighting(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)

	// Drop the tier to 75% coverage: 132 x 0.75 = 99 acres
	season.Crops[0].Tiers[0].Percent = decimal.NewFromInt(75)
	season.Crops[0].Applications = season.Crops[0].Applications[:1]

	aggregator := NewAggregator()
	rollup, err := aggregator.Rollup(context.Background(), season, nil, catalog)
	if err != nil {
		t.Fatalf("Rollup failed: %v", err)
	}

	if len(rollup.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(rollup.Entries))
	}

	// 99 acres x 100 lbs = 9900 lbs = 4.95 tons
	if !rollup.Entries[0].PlannedQty.Equal(decimal.NewFromFloat(4.95)) {
		t.Errorf("Expected 4.95 tons, got %s", rollup.Entries[0].PlannedQty)
	}
}

func TestAggregator_Rollup_FieldAssignmentsReplaceTiers(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)

	// Splitting the same 132 acres across two fields at the same rates must
	// reproduce the tier-weighted totals exactly
	assignments := []*entities.FieldAssignment{
		{
			ID: "FA-1", CropID: "C-CORN", FieldName: "North 80", PlannedAcres: decimal.NewFromInt(80),
			Applications: []entities.EffectiveApplication{
				{ProductID: "P-AMS", Rate: decimal.NewFromInt(100), RateUnit: "lbs"},
				{ProductID: "P-HERB", Rate: decimal.NewFromInt(32), RateUnit: "oz"},
			},
		},
		{
			ID: "FA-2", CropID: "C-CORN", FieldName: "South 52", PlannedAcres: decimal.NewFromInt(52),
			Applications: []entities.EffectiveApplication{
				{ProductID: "P-AMS", Rate: decimal.NewFromInt(100), RateUnit: "lbs"},
				{ProductID: "P-HERB", Rate: decimal.NewFromInt(32), RateUnit: "oz"},
			},
		},
	}

	aggregator := NewAggregator()
	fromTiers, err := aggregator.Rollup(context.Background(), season, nil, catalog)
	if err != nil {
		t.Fatalf("Tier rollup failed: %v", err)
	}
	fromFields, err := aggregator.Rollup(context.Background(), season, assignments, catalog)
	if err != nil {
		t.Fatalf("Field rollup failed: %v", err)
	}

	if len(fromFields.Entries) != len(fromTiers.Entries) {
		t.Fatalf("Expected %d entries, got %d", len(fromTiers.Entries), len(fromFields.Entries))
	}
	for i := range fromTiers.Entries {
		if !fromFields.Entries[i].PlannedQty.Equal(fromTiers.Entries[i].PlannedQty) {
			t.Errorf("Entry %s: expected %s, got %s",
				fromTiers.Entries[i].Key,
				fromTiers.Entries[i].PlannedQty,
				fromFields.Entries[i].PlannedQty)
		}
	}
}

func TestAggregator_Rollup_ExcludedFieldApplicationsSkipped(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)

	assignments := []*entities.FieldAssignment{
		{
			ID: "FA-1", CropID: "C-CORN", FieldName: "North 80", PlannedAcres: decimal.NewFromInt(80),
			Applications: []entities.EffectiveApplication{
				{ProductID: "P-AMS", Rate: decimal.NewFromInt(100), RateUnit: "lbs"},
				{ProductID: "P-HERB", Rate: decimal.NewFromInt(32), RateUnit: "oz", IsExcluded: true},
			},
		},
	}

	aggregator := NewAggregator()
	rollup, err := aggregator.Rollup(context.Background(), season, assignments, catalog)
	if err != nil {
		t.Fatalf("Rollup failed: %v", err)
	}

	if len(rollup.Entries) != 1 {
		t.Fatalf("Expected only AMS after exclusion, got %d entries", len(rollup.Entries))
	}
	if rollup.Entries[0].Key != "SPEC-AMS" {
		t.Errorf("Expected SPEC-AMS, got %s", rollup.Entries[0].Key)
	}
	// 80 acres x 100 lbs = 8000 lbs = 4 tons
	if !rollup.Entries[0].PlannedQty.Equal(decimal.NewFromInt(4)) {
		t.Errorf("Expected 4 tons, got %s", rollup.Entries[0].PlannedQty)
	}
}

func TestAggregator_Rollup_BreakdownMergesByCropName(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)

	// Two passes of the same product at different timings on the same crop
	season.Crops[0].Applications = []entities.Application{
		{
			ID: "A-1", CropID: "C-CORN", ProductID: "P-AMS",
			Rate: decimal.NewFromInt(60), RateUnit: "lbs", TimingID: "TM-PRE", TierID: "T-CORE",
		},
		{
			ID: "A-2", CropID: "C-CORN", ProductID: "P-AMS",
			Rate: decimal.NewFromInt(40), RateUnit: "lbs", TimingID: "TM-V4", TierID: "T-CORE",
		},
	}

	aggregator := NewAggregator()
	rollup, err := aggregator.Rollup(context.Background(), season, nil, catalog)
	if err != nil {
		t.Fatalf("Rollup failed: %v", err)
	}

	if len(rollup.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(rollup.Entries))
	}

	entry := rollup.Entries[0]
	if len(entry.Breakdown) != 1 {
		t.Fatalf("Expected 1 merged breakdown row, got %d", len(entry.Breakdown))
	}
	if !entry.Breakdown[0].Quantity.Equal(entry.PlannedQty) {
		t.Errorf("Merged row %s should equal entry total %s",
			entry.Breakdown[0].Quantity, entry.PlannedQty)
	}
	if !entry.PlannedQty.Equal(decimal.NewFromFloat(6.6)) {
		t.Errorf("Expected 6.6 tons across both timings, got %s", entry.PlannedQty)
	}
}

func TestAggregator_Rollup_IneligibleProductsSkippedSilently(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)
	season.Crops[0].Applications = append(season.Crops[0].Applications, entities.Application{
		ID: "A-3", CropID: "C-CORN", ProductID: "P-TREAT",
		Rate: decimal.NewFromInt(5), RateUnit: "oz", TierID: "T-CORE",
	})

	aggregator := NewAggregator()
	rollup, err := aggregator.Rollup(context.Background(), season, nil, catalog)
	if err != nil {
		t.Fatalf("Rollup failed: %v", err)
	}

	for _, entry := range rollup.Entries {
		if entry.Key == "P-TREAT" {
			t.Error("Non-bid-eligible product should not appear in rollup")
		}
	}
	if len(rollup.Warnings) != 0 {
		t.Errorf("Eligibility skip is silent, got warnings: %v", rollup.Warnings)
	}
}

func TestAggregator_Rollup_DanglingReferencesWarnAndContinue(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)
	season.Crops[0].Applications = append(season.Crops[0].Applications,
		entities.Application{
			ID: "A-3", CropID: "C-CORN", ProductID: "P-GONE",
			Rate: decimal.NewFromInt(5), RateUnit: "oz", TierID: "T-CORE",
		},
		entities.Application{
			ID: "A-4", CropID: "C-CORN", ProductID: "P-AMS",
			Rate: decimal.NewFromInt(10), RateUnit: "lbs", TierID: "T-GONE",
		},
	)

	aggregator := NewAggregator()
	rollup, err := aggregator.Rollup(context.Background(), season, nil, catalog)
	if err != nil {
		t.Fatalf("Rollup failed: %v", err)
	}

	if len(rollup.Entries) != 2 {
		t.Fatalf("Expected the valid applications to survive, got %d entries", len(rollup.Entries))
	}
	if len(rollup.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d: %v", len(rollup.Warnings), rollup.Warnings)
	}
	for _, warning := range rollup.Warnings {
		if warning.Code != planerrors.WarnMissingReference {
			t.Errorf("Expected missing_reference warning, got %s", warning.Code)
		}
	}
}

func TestAggregator_Rollup_UnsupportedUnitIsFatal(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)
	season.Crops[0].Applications = []entities.Application{
		{
			ID: "A-1", CropID: "C-CORN", ProductID: "P-AMS",
			Rate: decimal.NewFromInt(50), RateUnit: "kg", TierID: "T-CORE",
		},
	}

	aggregator := NewAggregator()
	_, err := aggregator.Rollup(context.Background(), season, nil, catalog)
	if !errors.Is(err, planerrors.ErrUnsupportedUnit) {
		t.Fatalf("Expected ErrUnsupportedUnit, got %v", err)
	}
}

func TestAggregator_UsageByProduct_StaysInCanonicalUnits(t *testing.T) {
	catalog := buildTestCatalog(t)
	season := buildCornSeason(t)

	aggregator := NewAggregator()
	usages, warnings, err := aggregator.UsageByProduct(context.Background(), season, nil, catalog)
	if err != nil {
		t.Fatalf("UsageByProduct failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if len(usages) != 2 {
		t.Fatalf("Expected 2 usages, got %d", len(usages))
	}

	byProduct := make(map[string]int)
	for i, usage := range usages {
		byProduct[usage.ProductID] = i
	}

	// Dry product usage stays in pounds; the ton normalization belongs to
	// the spec-grouped rollup only
	ams := usages[byProduct["P-AMS"]]
	if !ams.Quantity.Equal(decimal.NewFromInt(13200)) || ams.Unit != "lbs" {
		t.Errorf("Expected 13200 lbs, got %s %s", ams.Quantity, ams.Unit)
	}

	herb := usages[byProduct["P-HERB"]]
	if !herb.Quantity.Equal(decimal.NewFromInt(33)) || herb.Unit != "gal" {
		t.Errorf("Expected 33 gal, got %s %s", herb.Quantity, herb.Unit)
	}
}
