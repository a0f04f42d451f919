package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Season owns the crop plans for one growing year
type Season struct {
	ID    string
	Year  int
	Name  string
	Crops []Crop
}

// Crop represents one planned crop with its acreage and application schedule
type Crop struct {
	ID           string
	Name         string
	TotalAcres   decimal.Decimal
	Tiers        []Tier
	Timings      []ApplicationTiming
	Applications []Application
}

// Tier is a named coverage percentage of a crop's total acreage.
// Tier percentages are independent per crop and need not sum to 100.
type Tier struct {
	ID      string
	CropID  string
	Name    string
	Percent decimal.Decimal
}

// ApplicationTiming is a named pass over the field (e.g. "Pre-plant", "V4")
type ApplicationTiming struct {
	ID     string
	CropID string
	Name   string
}

// Application plans one product at a rate for one timing and tier of a crop
type Application struct {
	ID        string
	CropID    string
	ProductID string
	Rate      decimal.Decimal
	RateUnit  string
	TimingID  string
	TierID    string
}

// FieldAssignment subdivides a crop's acreage into one field's planned acres.
// When a crop has at least one assignment, the assignments fully replace the
// tier-based acreage weighting for that crop.
type FieldAssignment struct {
	ID           string
	CropID       string
	FieldName    string
	PlannedAcres decimal.Decimal
	Applications []EffectiveApplication
}

// EffectiveApplication is a pre-resolved application for one field assignment,
// with any per-field overrides (rate change, exclusion, unit change) already
// applied by the caller.
type EffectiveApplication struct {
	ProductID  string
	Rate       decimal.Decimal
	RateUnit   string
	IsExcluded bool
}

// TierByID returns the crop's tier with the given id
func (c *Crop) TierByID(id string) (*Tier, error) {
	for i := range c.Tiers {
		if c.Tiers[i].ID == id {
			return &c.Tiers[i], nil
		}
	}
	return nil, fmt.Errorf("tier %s not found on crop %s", id, c.Name)
}

// NewCrop creates a validated Crop
func NewCrop(id, name string, totalAcres decimal.Decimal) (*Crop, error) {
	if id == "" {
		return nil, fmt.Errorf("crop id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("crop name cannot be empty")
	}
	if totalAcres.IsNegative() {
		return nil, fmt.Errorf("total acres cannot be negative, got %s", totalAcres)
	}

	return &Crop{
		ID:         id,
		Name:       name,
		TotalAcres: totalAcres,
	}, nil
}
