package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/application/services/freight"
	"github.com/agriplan/procure/pkg/application/services/fulfillment"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/infrastructure/events"
	"github.com/agriplan/procure/pkg/infrastructure/repositories/csv"
	"github.com/agriplan/procure/pkg/infrastructure/repositories/memory"
	"github.com/agriplan/procure/pkg/interfaces/cli/output"
)

// ReceiveConfig holds configuration for the receive command
type ReceiveConfig struct {
	DataDir       string
	OrderID       string
	InvoiceNumber string
	InvoiceDate   string
	Verbose       bool
	Help          bool
}

// ReceiveCommand applies a vendor invoice to its purchase order: charges are
// allocated across lines, received quantities advance line and order status,
// stock is put away, and landed unit costs land in the price ledger
type ReceiveCommand struct {
	config ReceiveConfig
}

// NewReceiveCommand creates a new receive command with the given configuration
func NewReceiveCommand(config ReceiveConfig) *ReceiveCommand {
	return &ReceiveCommand{
		config: config,
	}
}

// Execute runs the receive command
func (c *ReceiveCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	invoiceDate, err := time.Parse("2006-01-02", c.config.InvoiceDate)
	if err != nil {
		return fmt.Errorf("invalid invoice date %q: expected YYYY-MM-DD", c.config.InvoiceDate)
	}

	if c.config.Verbose {
		fmt.Printf("🚚 Receiving invoice %s against order %s\n\n", c.config.InvoiceNumber, c.config.OrderID)
	}

	csvLoader := csv.NewLoader()

	orders, err := csvLoader.LoadOrders(
		filepath.Join(c.config.DataDir, "orders.csv"),
		filepath.Join(c.config.DataDir, "order_lines.csv"))
	if err != nil {
		return fmt.Errorf("error loading orders: %w", err)
	}

	orderRepo := memory.NewOrderRepository()
	for _, order := range orders {
		if err := orderRepo.SaveOrder(order); err != nil {
			return fmt.Errorf("failed to load order %s into repository: %w", order.OrderNumber, err)
		}
	}

	order, err := orderRepo.GetOrder(c.config.OrderID)
	if err != nil {
		return fmt.Errorf("order %s not found: %w", c.config.OrderID, err)
	}

	invoiceLines, err := csvLoader.LoadInvoiceLines(filepath.Join(c.config.DataDir, "invoice_lines.csv"))
	if err != nil {
		return fmt.Errorf("error loading invoice lines: %w", err)
	}

	charges, err := csvLoader.LoadCharges(filepath.Join(c.config.DataDir, "charges.csv"))
	if err != nil {
		return fmt.Errorf("error loading charges: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded: %d invoice line(s), %d charge(s)\n\n", len(invoiceLines), len(charges))
		fmt.Println("🔄 Allocating charges...")
	}

	allocator := freight.NewAllocator()
	allocation, err := allocator.Allocate(ctx, invoiceLines, charges)
	if err != nil {
		return fmt.Errorf("error allocating charges: %w", err)
	}

	invoice, err := entities.NewInvoice(uuid.NewString(), order.VendorID, order.SeasonYear, invoiceDate)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	invoice.OrderID = order.ID
	invoice.InvoiceNumber = c.config.InvoiceNumber
	invoice.Charges = charges
	invoice.Lines = allocation.Lines

	fulfiller := fulfillment.NewService()
	result, err := fulfiller.ApplyInvoice(ctx, order, invoice)
	if err != nil {
		return fmt.Errorf("error applying invoice: %w", err)
	}

	inventoryRepo := memory.NewInventoryRepository()
	ledgerRepo := memory.NewLedgerRepository()
	if err := fulfiller.Record(ctx, result, orderRepo, inventoryRepo, ledgerRepo); err != nil {
		return fmt.Errorf("error recording fulfillment: %w", err)
	}

	eventStore := events.NewInMemoryEventStore()
	applied := events.NewInvoiceAppliedEvent(result.Order, invoice.InvoiceNumber, result.Received)
	if err := eventStore.AppendEvent(result.Order.ID, applied); err != nil {
		return fmt.Errorf("failed to record invoice event: %w", err)
	}
	for _, entry := range result.LedgerEntries {
		recorded := events.NewPriceRecordedEvent(result.Order.ID, entry)
		if err := eventStore.AppendEvent(result.Order.ID, recorded); err != nil {
			return fmt.Errorf("failed to record price event: %w", err)
		}
	}

	c.printResult(invoice, allocation.Lines, result)
	output.PrintWarnings(allocation.Warnings)
	output.PrintWarnings(result.Warnings)

	if c.config.Verbose {
		fmt.Println("\n🏁 Invoice applied")
	}

	return nil
}

// printResult prints landed costs, line progress, and the resulting statuses
func (c *ReceiveCommand) printResult(invoice *entities.Invoice, lines []entities.InvoiceLineItem, result *dto.FulfillmentResult) {
	fmt.Printf("💵 Landed costs for invoice %s:\n", invoice.InvoiceNumber)
	for _, line := range lines {
		fmt.Printf("  %-12s %s %s  subtotal $%s  +charge $%s  = $%s ($%s/%s landed)\n",
			line.ProductID,
			output.FormatQuantity(line.Quantity, line.Unit),
			line.Unit,
			line.Subtotal.StringFixed(2),
			line.AllocatedCharge.StringFixed(2),
			line.LandedTotal.StringFixed(2),
			line.LandedUnitCost.StringFixed(2),
			line.Unit)
	}

	fmt.Printf("\n📦 Order %s is now %s (payment %s)\n",
		result.Order.OrderNumber, result.Order.Status, result.Order.PaymentStatus)
	for _, line := range result.Order.Lines {
		fmt.Printf("  %-28s received %s of %s %s (%s)\n",
			line.Description,
			output.FormatQuantity(line.ReceivedQty, line.Unit),
			output.FormatQuantity(line.OrderedQty, line.Unit),
			line.Unit,
			line.Status)
	}

	if len(result.LedgerEntries) > 0 {
		fmt.Printf("\n📒 Price ledger updates:\n")
		for _, entry := range result.LedgerEntries {
			fmt.Printf("  %s @ $%s/%s (vendor %s, season %d)\n",
				entry.ProductID,
				entry.UnitPrice.StringFixed(2),
				entry.Unit,
				entry.VendorID,
				entry.SeasonYear)
		}
	}
}

// validateInputs validates the command configuration
func (c *ReceiveCommand) validateInputs() error {
	if c.config.DataDir == "" {
		return fmt.Errorf("must specify -data directory")
	}
	if c.config.OrderID == "" {
		return fmt.Errorf("must specify -order id")
	}
	if c.config.InvoiceNumber == "" {
		return fmt.Errorf("must specify -invoice number")
	}
	if c.config.InvoiceDate == "" {
		return fmt.Errorf("must specify -date (YYYY-MM-DD)")
	}
	return nil
}

// showHelp displays the help message
func (c *ReceiveCommand) showHelp() {
	fmt.Printf(`Procurement Planner - Receive an Invoice Against an Order

USAGE:
    procure receive -data <directory> -order <id> -invoice <number> -date <YYYY-MM-DD>

OPTIONS:
    -data <dir>       Directory containing orders.csv, order_lines.csv,
                      invoice_lines.csv, and charges.csv
    -order <id>       Order id the invoice fulfills
    -invoice <number> Vendor invoice number
    -date <date>      Invoice date, YYYY-MM-DD
    -verbose          Enable verbose output
    -help             Show this help message

CSV FILE FORMATS:

invoice_lines.csv:
    line_id,order_line_item_id,product_id,quantity,unit,unit_price
    IL-1,OL-1,P-UREA,4150,lbs,1.00

charges.csv:
    charge_id,type,amount
    CH-1,freight,350.00
    CH-2,tax,58.20

EXAMPLES:
    # Apply a delivery invoice to an order
    procure receive -data data/2026 -order ORD-1 -invoice INV-8841 -date 2026-04-12 -verbose
`)
}
