package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/application/services/demand"
	"github.com/agriplan/procure/pkg/application/services/readiness"
	"github.com/agriplan/procure/pkg/application/services/spend"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/infrastructure/repositories/csv"
	"github.com/agriplan/procure/pkg/infrastructure/repositories/memory"
	"github.com/agriplan/procure/pkg/interfaces/cli/output"
)

// PlanConfig holds configuration for the plan command
type PlanConfig struct {
	ScenarioDir      string
	CropsFile        string
	TiersFile        string
	ApplicationsFile string
	AssignmentsFile  string
	OverridesFile    string
	ProductsFile     string
	SpecsFile        string
	VendorsFile      string
	OfferingsFile    string
	InventoryFile    string
	SeasonYear       int
	OutputDir        string
	Format           string
	BidSheetFile     string
	Verbose          bool
	Help             bool
}

// PlanCommand runs the demand rollup, inventory readiness, and vendor spend
// forecast for one season
type PlanCommand struct {
	config PlanConfig
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config PlanConfig) *PlanCommand {
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading data from CSV files...")
	}

	csvLoader := csv.NewLoader()

	season, err := csvLoader.LoadSeason(
		c.config.SeasonYear, files["Crops"], files["Tiers"], files["Applications"])
	if err != nil {
		return fmt.Errorf("error loading season: %w", err)
	}

	var assignments []*entities.FieldAssignment
	if files["Assignments"] != "" {
		assignments, err = csvLoader.LoadAssignments(files["Assignments"], files["Overrides"])
		if err != nil {
			return fmt.Errorf("error loading field assignments: %w", err)
		}
	}

	products, err := csvLoader.LoadProducts(files["Products"])
	if err != nil {
		return fmt.Errorf("error loading products: %w", err)
	}

	specs, err := csvLoader.LoadSpecs(files["Specs"])
	if err != nil {
		return fmt.Errorf("error loading specs: %w", err)
	}

	vendors, err := csvLoader.LoadVendors(files["Vendors"])
	if err != nil {
		return fmt.Errorf("error loading vendors: %w", err)
	}

	offerings, err := csvLoader.LoadOfferings(files["Offerings"])
	if err != nil {
		return fmt.Errorf("error loading offerings: %w", err)
	}

	inventory, err := csvLoader.LoadInventory(files["Inventory"])
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded successfully:\n")
		fmt.Printf("  Crops: %d\n", len(season.Crops))
		fmt.Printf("  Field Assignments: %d\n", len(assignments))
		fmt.Printf("  Products: %d\n", len(products))
		fmt.Printf("  Specs: %d\n", len(specs))
		fmt.Printf("  Vendors: %d\n", len(vendors))
		fmt.Printf("  Offerings: %d\n", len(offerings))
		fmt.Printf("  Inventory Items: %d\n", len(inventory))
		fmt.Println()
	}

	catalogRepo := memory.NewCatalogRepository()
	if err := catalogRepo.LoadProducts(products); err != nil {
		return fmt.Errorf("failed to load products into repository: %w", err)
	}
	if err := catalogRepo.LoadSpecs(specs); err != nil {
		return fmt.Errorf("failed to load specs into repository: %w", err)
	}
	if err := catalogRepo.LoadVendors(vendors); err != nil {
		return fmt.Errorf("failed to load vendors into repository: %w", err)
	}
	if err := catalogRepo.LoadOfferings(offerings); err != nil {
		return fmt.Errorf("failed to load offerings into repository: %w", err)
	}

	inventoryRepo := memory.NewInventoryRepository()
	if err := inventoryRepo.LoadItems(inventory); err != nil {
		return fmt.Errorf("failed to load inventory into repository: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🔄 Running demand rollup...")
	}

	aggregator := demand.NewAggregator()
	rollup, err := aggregator.Rollup(ctx, season, assignments, catalogRepo)
	if err != nil {
		return fmt.Errorf("error running demand rollup: %w", err)
	}

	usages, usageWarnings, err := aggregator.UsageByProduct(ctx, season, assignments, catalogRepo)
	if err != nil {
		return fmt.Errorf("error computing product usage: %w", err)
	}

	evaluator := readiness.NewEvaluator()
	readinessReport, err := evaluator.Evaluate(ctx, usages, inventoryRepo, catalogRepo)
	if err != nil {
		return fmt.Errorf("error evaluating inventory readiness: %w", err)
	}
	readinessReport.Warnings = append(usageWarnings, readinessReport.Warnings...)

	forecaster := spend.NewService()
	forecast, err := forecaster.Forecast(ctx, rollup, catalogRepo)
	if err != nil {
		return fmt.Errorf("error forecasting vendor spend: %w", err)
	}

	report := &output.PlanReport{
		Rollup:    rollup,
		Readiness: readinessReport,
		Forecast:  forecast,
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}

	if err := output.GeneratePlan(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.BidSheetFile != "" {
		if err := c.writeBidSheet(rollup); err != nil {
			return err
		}
	}

	if c.config.Verbose {
		fmt.Println("🏁 Procurement plan complete!")
	}

	return nil
}

// writeBidSheet picks the bid sheet writer by file extension
func (c *PlanCommand) writeBidSheet(rollup *dto.DemandRollup) error {
	var err error
	switch filepath.Ext(c.config.BidSheetFile) {
	case ".xlsx":
		err = output.WriteBidSheetXLSX(rollup, c.config.BidSheetFile)
	case ".csv":
		err = output.WriteBidSheetCSV(rollup, c.config.BidSheetFile)
	default:
		return fmt.Errorf("bid sheet file must end in .csv or .xlsx: %s", c.config.BidSheetFile)
	}
	if err != nil {
		return fmt.Errorf("error writing bid sheet: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("📋 Wrote bid sheet %s\n", c.config.BidSheetFile)
	}
	return nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.CropsFile == "" || c.config.TiersFile == "" ||
			c.config.ApplicationsFile == "" || c.config.ProductsFile == "" ||
			c.config.SpecsFile == "" || c.config.VendorsFile == "" ||
			c.config.OfferingsFile == "" || c.config.InventoryFile == "") {
		return fmt.Errorf("must specify either -scenario directory or individual CSV files")
	}
	if c.config.SeasonYear <= 0 {
		return fmt.Errorf("season year must be positive, got %d", c.config.SeasonYear)
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use. The assignments
// and overrides files are optional; everything else must exist.
func (c *PlanCommand) resolveInputFiles() (map[string]string, error) {
	files := map[string]string{
		"Crops":        c.config.CropsFile,
		"Tiers":        c.config.TiersFile,
		"Applications": c.config.ApplicationsFile,
		"Assignments":  c.config.AssignmentsFile,
		"Overrides":    c.config.OverridesFile,
		"Products":     c.config.ProductsFile,
		"Specs":        c.config.SpecsFile,
		"Vendors":      c.config.VendorsFile,
		"Offerings":    c.config.OfferingsFile,
		"Inventory":    c.config.InventoryFile,
	}

	if c.config.ScenarioDir != "" {
		files["Crops"] = filepath.Join(c.config.ScenarioDir, "crops.csv")
		files["Tiers"] = filepath.Join(c.config.ScenarioDir, "tiers.csv")
		files["Applications"] = filepath.Join(c.config.ScenarioDir, "applications.csv")
		files["Assignments"] = filepath.Join(c.config.ScenarioDir, "assignments.csv")
		files["Overrides"] = filepath.Join(c.config.ScenarioDir, "assignment_applications.csv")
		files["Products"] = filepath.Join(c.config.ScenarioDir, "products.csv")
		files["Specs"] = filepath.Join(c.config.ScenarioDir, "specs.csv")
		files["Vendors"] = filepath.Join(c.config.ScenarioDir, "vendors.csv")
		files["Offerings"] = filepath.Join(c.config.ScenarioDir, "offerings.csv")
		files["Inventory"] = filepath.Join(c.config.ScenarioDir, "inventory.csv")
	}

	for name, path := range files {
		if name == "Assignments" || name == "Overrides" {
			if path != "" {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					files[name] = ""
				}
			}
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	// Field-level overrides only make sense alongside assignments
	if files["Assignments"] == "" {
		files["Overrides"] = ""
	}

	return files, nil
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader(files map[string]string) {
	fmt.Printf("🚜 Procurement Planner CLI\n")
	fmt.Printf("Season: %d\n", c.config.SeasonYear)
	fmt.Printf("Input files:\n")
	fmt.Printf("  Crops: %s\n", files["Crops"])
	fmt.Printf("  Tiers: %s\n", files["Tiers"])
	fmt.Printf("  Applications: %s\n", files["Applications"])
	if files["Assignments"] != "" {
		fmt.Printf("  Assignments: %s\n", files["Assignments"])
	}
	fmt.Printf("  Products: %s\n", files["Products"])
	fmt.Printf("  Inventory: %s\n", files["Inventory"])
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`Procurement Planner - Demand Rollup, Readiness, and Spend Forecast

USAGE:
    procure plan -scenario <directory> -year <year>
    procure plan -crops <file> -tiers <file> ... -year <year>

OPTIONS:
    -scenario <dir>      Path to scenario directory containing CSV files
    -year <year>         Season year to plan (required)
    -crops <file>        Path to crops CSV file
    -tiers <file>        Path to tiers CSV file
    -applications <file> Path to applications CSV file
    -assignments <file>  Path to field assignments CSV file (optional)
    -overrides <file>    Path to assignment applications CSV file (optional)
    -products <file>     Path to products CSV file
    -specs <file>        Path to commodity specs CSV file
    -vendors <file>      Path to vendors CSV file
    -offerings <file>    Path to vendor offerings CSV file
    -inventory <file>    Path to inventory CSV file
    -output <dir>        Output directory for results (optional)
    -format <fmt>        Output format: text, json, csv (default: text)
    -bid-sheet <file>    Write a bid sheet (.csv or .xlsx by extension)
    -verbose             Enable verbose output
    -help                Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── crops.csv                    # Crops with total acres
    ├── tiers.csv                    # Acreage tiers per crop
    ├── applications.csv             # Product applications per crop
    ├── assignments.csv              # Field assignments (optional)
    ├── assignment_applications.csv  # Per-field effective applications (optional)
    ├── products.csv                 # Product master
    ├── specs.csv                    # Commodity specs
    ├── vendors.csv                  # Vendors
    ├── offerings.csv                # Vendor offerings with prices
    └── inventory.csv                # On-hand inventory

EXAMPLES:
    # Plan a season from a scenario directory
    procure plan -scenario examples/midwest_2026 -year 2026 -verbose

    # Plan and export an xlsx bid sheet
    procure plan -scenario examples/midwest_2026 -year 2026 -bid-sheet bids_2026.xlsx

    # Generate JSON output
    procure plan -scenario examples/midwest_2026 -year 2026 -format json -output results/
`)
}
