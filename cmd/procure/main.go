package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/agriplan/procure/pkg/interfaces/cli/commands"
)

const usage = `Procurement Planner CLI

USAGE:
    procure <command> [options]

COMMANDS:
    plan      Run demand rollup, inventory readiness, and spend forecast
    award     Turn bid awards into draft purchase orders
    receive   Apply a vendor invoice to an order

Run 'procure <command> -help' for command options.

Defaults for -data and -year can be set in a .env file via
PROCURE_DATA_DIR and PROCURE_SEASON_YEAR.
`

func main() {
	// Optional .env for local defaults; absence is not an error
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "plan":
		err = runPlan(ctx, os.Args[2:])
	case "award":
		err = runAward(ctx, os.Args[2:])
	case "receive":
		err = runReceive(ctx, os.Args[2:])
	case "help", "-help", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runPlan(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("plan", flag.ExitOnError)
	var (
		scenarioDir = flags.String(
			"scenario",
			envOr("PROCURE_DATA_DIR", ""),
			"Path to scenario directory containing CSV files",
		)
		cropsFile        = flags.String("crops", "", "Path to crops CSV file")
		tiersFile        = flags.String("tiers", "", "Path to tiers CSV file")
		applicationsFile = flags.String("applications", "", "Path to applications CSV file")
		assignmentsFile  = flags.String("assignments", "", "Path to field assignments CSV file (optional)")
		overridesFile    = flags.String("overrides", "", "Path to assignment applications CSV file (optional)")
		productsFile     = flags.String("products", "", "Path to products CSV file")
		specsFile        = flags.String("specs", "", "Path to commodity specs CSV file")
		vendorsFile      = flags.String("vendors", "", "Path to vendors CSV file")
		offeringsFile    = flags.String("offerings", "", "Path to vendor offerings CSV file")
		inventoryFile    = flags.String("inventory", "", "Path to inventory CSV file")
		seasonYear       = flags.Int("year", envInt("PROCURE_SEASON_YEAR", 0), "Season year to plan")
		outputDir        = flags.String("output", "", "Output directory for results (optional)")
		format           = flags.String("format", "text", "Output format: text, json, csv")
		bidSheetFile     = flags.String("bid-sheet", "", "Write a bid sheet (.csv or .xlsx by extension)")
		verbose          = flags.Bool("verbose", false, "Enable verbose output")
		help             = flags.Bool("help", false, "Show help message")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	config := commands.PlanConfig{
		ScenarioDir:      *scenarioDir,
		CropsFile:        *cropsFile,
		TiersFile:        *tiersFile,
		ApplicationsFile: *applicationsFile,
		AssignmentsFile:  *assignmentsFile,
		OverridesFile:    *overridesFile,
		ProductsFile:     *productsFile,
		SpecsFile:        *specsFile,
		VendorsFile:      *vendorsFile,
		OfferingsFile:    *offeringsFile,
		InventoryFile:    *inventoryFile,
		SeasonYear:       *seasonYear,
		OutputDir:        *outputDir,
		Format:           *format,
		BidSheetFile:     *bidSheetFile,
		Verbose:          *verbose,
		Help:             *help,
	}

	return commands.NewPlanCommand(config).Execute(ctx)
}

func runAward(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("award", flag.ExitOnError)
	var (
		dataDir    = flags.String("data", envOr("PROCURE_DATA_DIR", ""), "Directory containing award CSV files")
		eventID    = flags.String("event", "", "Bid event id the awards belong to")
		eventName  = flags.String("name", "", "Bid event display name (optional)")
		seasonYear = flags.Int("year", envInt("PROCURE_SEASON_YEAR", 0), "Season year for order numbering")
		verbose    = flags.Bool("verbose", false, "Enable verbose output")
		help       = flags.Bool("help", false, "Show help message")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	config := commands.AwardConfig{
		DataDir:    *dataDir,
		EventID:    *eventID,
		EventName:  *eventName,
		SeasonYear: *seasonYear,
		Verbose:    *verbose,
		Help:       *help,
	}

	return commands.NewAwardCommand(config).Execute(ctx)
}

func runReceive(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("receive", flag.ExitOnError)
	var (
		dataDir       = flags.String("data", envOr("PROCURE_DATA_DIR", ""), "Directory containing order and invoice CSV files")
		orderID       = flags.String("order", "", "Order id the invoice fulfills")
		invoiceNumber = flags.String("invoice", "", "Vendor invoice number")
		invoiceDate   = flags.String("date", "", "Invoice date, YYYY-MM-DD")
		verbose       = flags.Bool("verbose", false, "Enable verbose output")
		help          = flags.Bool("help", false, "Show help message")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	config := commands.ReceiveConfig{
		DataDir:       *dataDir,
		OrderID:       *orderID,
		InvoiceNumber: *invoiceNumber,
		InvoiceDate:   *invoiceDate,
		Verbose:       *verbose,
		Help:          *help,
	}

	return commands.NewReceiveCommand(config).Execute(ctx)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
