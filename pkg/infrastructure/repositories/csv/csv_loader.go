// Package csv loads planning data from CSV files with strict header
// validation and row-numbered parse errors.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/entities"
)

// Loader handles loading procurement planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadSeason assembles a season from the crops, tiers, and applications
// files in one pass
func (l *Loader) LoadSeason(year int, cropsFile, tiersFile, applicationsFile string) (*entities.Season, error) {
	crops, err := l.LoadCrops(cropsFile)
	if err != nil {
		return nil, err
	}

	tiers, err := l.LoadTiers(tiersFile)
	if err != nil {
		return nil, err
	}

	applications, err := l.LoadApplications(applicationsFile)
	if err != nil {
		return nil, err
	}

	cropIndex := make(map[string]int, len(crops))
	for i, crop := range crops {
		cropIndex[crop.ID] = i
	}

	for _, tier := range tiers {
		idx, exists := cropIndex[tier.CropID]
		if !exists {
			return nil, fmt.Errorf("tier %s references unknown crop %s", tier.ID, tier.CropID)
		}
		crops[idx].Tiers = append(crops[idx].Tiers, *tier)
	}

	for _, app := range applications {
		idx, exists := cropIndex[app.CropID]
		if !exists {
			return nil, fmt.Errorf("application %s references unknown crop %s", app.ID, app.CropID)
		}
		crops[idx].Applications = append(crops[idx].Applications, *app)
	}

	season := &entities.Season{
		ID:   fmt.Sprintf("season-%d", year),
		Year: year,
		Name: strconv.Itoa(year),
	}
	for _, crop := range crops {
		season.Crops = append(season.Crops, *crop)
	}

	return season, nil
}

// LoadCrops loads crops from a CSV file
func (l *Loader) LoadCrops(filename string) ([]*entities.Crop, error) {
	records, err := readRecords(filename, []string{"crop_id", "name", "total_acres"})
	if err != nil {
		return nil, fmt.Errorf("crops CSV: %w", err)
	}

	var crops []*entities.Crop
	for i, record := range records {
		totalAcres, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("crops CSV row %d: invalid total_acres: %s", i+2, record[2])
		}

		crop, err := entities.NewCrop(record[0], record[1], totalAcres)
		if err != nil {
			return nil, fmt.Errorf("crops CSV row %d: %w", i+2, err)
		}

		crops = append(crops, crop)
	}

	return crops, nil
}

// LoadTiers loads coverage tiers from a CSV file
func (l *Loader) LoadTiers(filename string) ([]*entities.Tier, error) {
	records, err := readRecords(filename, []string{"tier_id", "crop_id", "name", "percent"})
	if err != nil {
		return nil, fmt.Errorf("tiers CSV: %w", err)
	}

	var tiers []*entities.Tier
	for i, record := range records {
		percent, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("tiers CSV row %d: invalid percent: %s", i+2, record[3])
		}

		tiers = append(tiers, &entities.Tier{
			ID:      record[0],
			CropID:  record[1],
			Name:    record[2],
			Percent: percent,
		})
	}

	return tiers, nil
}

// LoadApplications loads planned applications from a CSV file
func (l *Loader) LoadApplications(filename string) ([]*entities.Application, error) {
	records, err := readRecords(filename, []string{
		"application_id", "crop_id", "product_id", "rate", "rate_unit", "timing_id", "tier_id",
	})
	if err != nil {
		return nil, fmt.Errorf("applications CSV: %w", err)
	}

	var applications []*entities.Application
	for i, record := range records {
		rate, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("applications CSV row %d: invalid rate: %s", i+2, record[3])
		}

		applications = append(applications, &entities.Application{
			ID:        record[0],
			CropID:    record[1],
			ProductID: record[2],
			Rate:      rate,
			RateUnit:  record[4],
			TimingID:  record[5],
			TierID:    record[6],
		})
	}

	return applications, nil
}

// LoadProducts loads product master records from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readRecords(filename, []string{
		"product_id", "name", "form", "category", "spec_id", "bid_eligible",
		"estimated_price", "est_price_unit",
	})
	if err != nil {
		return nil, fmt.Errorf("products CSV: %w", err)
	}

	var products []*entities.Product
	for i, record := range records {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadSpecs loads commodity specs from a CSV file
func (l *Loader) LoadSpecs(filename string) ([]*entities.CommoditySpec, error) {
	records, err := readRecords(filename, []string{"spec_id", "name", "product_id", "unit_of_measure"})
	if err != nil {
		return nil, fmt.Errorf("specs CSV: %w", err)
	}

	var specs []*entities.CommoditySpec
	for _, record := range records {
		specs = append(specs, &entities.CommoditySpec{
			ID:            record[0],
			Name:          record[1],
			ProductID:     record[2],
			UnitOfMeasure: record[3],
		})
	}

	return specs, nil
}

// LoadVendors loads vendors from a CSV file
func (l *Loader) LoadVendors(filename string) ([]*entities.Vendor, error) {
	records, err := readRecords(filename, []string{"vendor_id", "name"})
	if err != nil {
		return nil, fmt.Errorf("vendors CSV: %w", err)
	}

	var vendors []*entities.Vendor
	for _, record := range records {
		vendors = append(vendors, &entities.Vendor{ID: record[0], Name: record[1]})
	}

	return vendors, nil
}

// LoadOfferings loads vendor offerings from a CSV file
func (l *Loader) LoadOfferings(filename string) ([]*entities.VendorOffering, error) {
	records, err := readRecords(filename, []string{
		"offering_id", "product_id", "vendor_id", "price", "price_unit", "container_size", "preferred",
	})
	if err != nil {
		return nil, fmt.Errorf("offerings CSV: %w", err)
	}

	var offerings []*entities.VendorOffering
	for i, record := range records {
		offering, err := parseOffering(record)
		if err != nil {
			return nil, fmt.Errorf("offerings CSV row %d: %w", i+2, err)
		}
		offerings = append(offerings, offering)
	}

	return offerings, nil
}

// LoadInventory loads inventory rows from a CSV file
func (l *Loader) LoadInventory(filename string) ([]*entities.InventoryItem, error) {
	records, err := readRecords(filename, []string{"item_id", "product_id", "quantity", "unit", "packaging"})
	if err != nil {
		return nil, fmt.Errorf("inventory CSV: %w", err)
	}

	var items []*entities.InventoryItem
	for i, record := range records {
		quantity, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid quantity: %s", i+2, record[2])
		}

		item, err := entities.NewInventoryItem(record[0], record[1], quantity, record[3])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		item.Packaging = record[4]

		items = append(items, item)
	}

	return items, nil
}

// LoadAssignments loads field assignments and their per-field effective
// applications from two CSV files. The applications file carries the rates
// with any field-level overrides already baked in; excluded rows stay in the
// file so the exclusion is visible.
func (l *Loader) LoadAssignments(assignmentsFile, applicationsFile string) ([]*entities.FieldAssignment, error) {
	assignmentRecords, err := readRecords(assignmentsFile, []string{
		"assignment_id", "crop_id", "field_name", "planned_acres",
	})
	if err != nil {
		return nil, fmt.Errorf("assignments CSV: %w", err)
	}

	var assignments []*entities.FieldAssignment
	assignmentIndex := make(map[string]int)
	for i, record := range assignmentRecords {
		acres, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("assignments CSV row %d: invalid planned_acres: %s", i+2, record[3])
		}

		assignment := &entities.FieldAssignment{
			ID:           record[0],
			CropID:       record[1],
			FieldName:    record[2],
			PlannedAcres: acres,
		}

		if _, exists := assignmentIndex[assignment.ID]; exists {
			return nil, fmt.Errorf("assignments CSV row %d: duplicate assignment id %s", i+2, assignment.ID)
		}
		assignmentIndex[assignment.ID] = len(assignments)
		assignments = append(assignments, assignment)
	}

	appRecords, err := readRecords(applicationsFile, []string{
		"assignment_id", "product_id", "rate", "rate_unit", "excluded",
	})
	if err != nil {
		return nil, fmt.Errorf("assignment applications CSV: %w", err)
	}

	for i, record := range appRecords {
		idx, exists := assignmentIndex[record[0]]
		if !exists {
			return nil, fmt.Errorf("assignment applications CSV row %d: unknown assignment id %s", i+2, record[0])
		}

		rate, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("assignment applications CSV row %d: invalid rate: %s", i+2, record[2])
		}

		excluded, err := strconv.ParseBool(record[4])
		if err != nil {
			return nil, fmt.Errorf("assignment applications CSV row %d: invalid excluded: %s", i+2, record[4])
		}

		assignments[idx].Applications = append(assignments[idx].Applications, entities.EffectiveApplication{
			ProductID:  record[1],
			Rate:       rate,
			RateUnit:   record[3],
			IsExcluded: excluded,
		})
	}

	return assignments, nil
}

// readRecords opens a CSV file, validates its header, and returns the data
// rows with column counts checked
func readRecords(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s must have a header row", filename)
	}

	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("header mismatch in %s. Expected: %v, Got: %v",
			filename, expectedHeader, records[0])
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d",
				filename, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	form, err := parseProductForm(record[2])
	if err != nil {
		return nil, err
	}

	product, err := entities.NewProduct(record[0], record[1], form)
	if err != nil {
		return nil, err
	}
	product.Category = record[3]
	product.SpecID = record[4]

	product.BidEligible, err = strconv.ParseBool(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid bid_eligible: %s", record[5])
	}

	if record[6] != "" {
		product.EstimatedPrice, err = decimal.NewFromString(record[6])
		if err != nil {
			return nil, fmt.Errorf("invalid estimated_price: %s", record[6])
		}
	}
	product.EstPriceUnit = record[7]

	return product, nil
}

func parseOffering(record []string) (*entities.VendorOffering, error) {
	price, err := decimal.NewFromString(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid price: %s", record[3])
	}

	offering := &entities.VendorOffering{
		ID:        record[0],
		ProductID: record[1],
		VendorID:  record[2],
		Price:     price,
		PriceUnit: record[4],
	}

	if record[5] != "" {
		offering.ContainerSize, err = decimal.NewFromString(record[5])
		if err != nil {
			return nil, fmt.Errorf("invalid container_size: %s", record[5])
		}
	}

	offering.Preferred, err = strconv.ParseBool(record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid preferred: %s", record[6])
	}

	return offering, nil
}

func parseProductForm(s string) (entities.ProductForm, error) {
	switch strings.ToLower(s) {
	case "liquid":
		return entities.Liquid, nil
	case "dry":
		return entities.Dry, nil
	default:
		return entities.Liquid, fmt.Errorf("invalid form: %s (expected: liquid or dry)", s)
	}
}
