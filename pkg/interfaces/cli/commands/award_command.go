package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agriplan/procure/pkg/application/services/bidorders"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/infrastructure/events"
	"github.com/agriplan/procure/pkg/infrastructure/repositories/csv"
	"github.com/agriplan/procure/pkg/infrastructure/repositories/memory"
	"github.com/agriplan/procure/pkg/interfaces/cli/output"
)

// AwardConfig holds configuration for the award command
type AwardConfig struct {
	DataDir    string
	EventID    string
	EventName  string
	SeasonYear int
	Verbose    bool
	Help       bool
}

// AwardCommand turns bid awards into draft purchase orders, one per vendor
type AwardCommand struct {
	config AwardConfig
}

// NewAwardCommand creates a new award command with the given configuration
func NewAwardCommand(config AwardConfig) *AwardCommand {
	return &AwardCommand{
		config: config,
	}
}

// Execute runs the award command
func (c *AwardCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("🏷️  Bid Award Processing\n")
		fmt.Printf("Event: %s (season %d)\n", c.config.EventID, c.config.SeasonYear)
		fmt.Printf("Data directory: %s\n\n", c.config.DataDir)
	}

	csvLoader := csv.NewLoader()

	products, err := csvLoader.LoadProducts(filepath.Join(c.config.DataDir, "products.csv"))
	if err != nil {
		return fmt.Errorf("error loading products: %w", err)
	}

	specs, err := csvLoader.LoadSpecs(filepath.Join(c.config.DataDir, "specs.csv"))
	if err != nil {
		return fmt.Errorf("error loading specs: %w", err)
	}

	vendors, err := csvLoader.LoadVendors(filepath.Join(c.config.DataDir, "vendors.csv"))
	if err != nil {
		return fmt.Errorf("error loading vendors: %w", err)
	}

	awards, err := csvLoader.LoadAwards(filepath.Join(c.config.DataDir, "awards.csv"))
	if err != nil {
		return fmt.Errorf("error loading awards: %w", err)
	}

	quotes, err := csvLoader.LoadQuotes(filepath.Join(c.config.DataDir, "quotes.csv"))
	if err != nil {
		return fmt.Errorf("error loading quotes: %w", err)
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

	orderRepo := memory.NewOrderRepository()
	if err := c.loadExistingOrders(csvLoader, orderRepo); err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded: %d awards, %d quotes\n\n", len(awards), len(quotes))
		fmt.Println("🔄 Building draft orders...")
	}

	event := &entities.BidEvent{
		ID:         c.config.EventID,
		Name:       c.config.EventName,
		SeasonYear: c.config.SeasonYear,
	}

	builder := bidorders.NewBuilder()
	result, err := builder.BuildDraftOrders(ctx, event, awards, quotes, orderRepo, catalogRepo)
	if err != nil {
		return fmt.Errorf("error building draft orders: %w", err)
	}

	eventStore := events.NewInMemoryEventStore()
	for i := range result.Orders {
		order := &result.Orders[i]
		if err := orderRepo.SaveOrder(order); err != nil {
			return fmt.Errorf("failed to save order %s: %w", order.OrderNumber, err)
		}
		if err := eventStore.AppendEvent(order.ID, events.NewOrderDraftedEvent(*order)); err != nil {
			return fmt.Errorf("failed to record draft event for %s: %w", order.OrderNumber, err)
		}
	}

	c.printOrders(result.Orders)
	output.PrintWarnings(result.Warnings)

	if c.config.Verbose {
		fmt.Printf("\n🏁 %d draft order(s) created\n", len(result.Orders))
	}

	return nil
}

// loadExistingOrders seeds the order repository from previously saved order
// files so numbering continues where it left off. Missing files mean a fresh
// season.
func (c *AwardCommand) loadExistingOrders(csvLoader *csv.Loader, orderRepo *memory.OrderRepository) error {
	ordersPath := filepath.Join(c.config.DataDir, "orders.csv")
	linesPath := filepath.Join(c.config.DataDir, "order_lines.csv")

	if _, err := os.Stat(ordersPath); os.IsNotExist(err) {
		return nil
	}

	orders, err := csvLoader.LoadOrders(ordersPath, linesPath)
	if err != nil {
		return fmt.Errorf("error loading existing orders: %w", err)
	}

	for _, order := range orders {
		if err := orderRepo.SaveOrder(order); err != nil {
			return fmt.Errorf("failed to load order %s into repository: %w", order.OrderNumber, err)
		}
	}

	if c.config.Verbose {
		fmt.Printf("📂 Loaded %d existing order(s)\n", len(orders))
	}
	return nil
}

// printOrders prints the created draft orders with their lines
func (c *AwardCommand) printOrders(orders []entities.Order) {
	for i := range orders {
		order := &orders[i]
		fmt.Printf("📦 %s — %s (%s)\n", order.OrderNumber, order.VendorName, order.Status)
		for _, line := range order.Lines {
			fmt.Printf("  %-28s %s %s @ $%s\n",
				line.Description,
				output.FormatQuantity(line.OrderedQty, line.Unit),
				line.Unit,
				line.UnitPrice.StringFixed(2))
		}
	}
}

// validateInputs validates the command configuration
func (c *AwardCommand) validateInputs() error {
	if c.config.DataDir == "" {
		return fmt.Errorf("must specify -data directory")
	}
	if c.config.EventID == "" {
		return fmt.Errorf("must specify -event id")
	}
	if c.config.SeasonYear <= 0 {
		return fmt.Errorf("season year must be positive, got %d", c.config.SeasonYear)
	}
	return nil
}

// showHelp displays the help message
func (c *AwardCommand) showHelp() {
	fmt.Printf(`Procurement Planner - Bid Award to Draft Orders

USAGE:
    procure award -data <directory> -event <id> -year <year>

OPTIONS:
    -data <dir>    Directory containing awards.csv, quotes.csv, products.csv,
                   specs.csv, vendors.csv, and optionally orders.csv +
                   order_lines.csv from earlier runs
    -event <id>    Bid event id the awards belong to
    -name <name>   Bid event display name (optional)
    -year <year>   Season year for order numbering (required)
    -verbose       Enable verbose output
    -help          Show this help message

CSV FILE FORMATS:

awards.csv:
    award_id,bid_event_id,spec_id,vendor_id,quantity,unit,awarded_price
    AW-1,BID-2026,SPEC-AMS,V-HELENA,6.6,ton,415.00

quotes.csv:
    quote_id,bid_event_id,vendor_id,spec_id,price,price_unit
    Q-1,BID-2026,V-HELENA,SPEC-AMS,418.50,ton

EXAMPLES:
    # Build draft orders for a season's awards
    procure award -data data/2026 -event BID-2026 -year 2026 -verbose
`)
}
