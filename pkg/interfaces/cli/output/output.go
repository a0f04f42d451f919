package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// PlanReport bundles the planning results for output
type PlanReport struct {
	Rollup    *dto.DemandRollup    `json:"rollup"`
	Readiness *dto.ReadinessReport `json:"readiness,omitempty"`
	Forecast  *dto.SpendForecast   `json:"forecast,omitempty"`
}

// GeneratePlan writes the planning report in the configured format
func GeneratePlan(report *PlanReport, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints human-readable tables to stdout
func generateTextOutput(report *PlanReport) error {
	fmt.Printf("📊 Demand Rollup — Season %d\n", report.Rollup.SeasonYear)
	fmt.Printf("============================\n\n")

	fmt.Printf("%-28s %-14s %-6s  %s\n", "Commodity", "Planned Qty", "Unit", "Crops")
	fmt.Printf("%-28s %-14s %-6s  %s\n", "----------------------------", "--------------", "------", "-----")
	for _, entry := range report.Rollup.Entries {
		fmt.Printf("%-28s %-14s %-6s  %s\n",
			entry.SpecName,
			FormatQuantity(entry.PlannedQty, entry.Unit),
			entry.Unit,
			breakdownSummary(entry))
	}
	fmt.Println()

	if report.Readiness != nil {
		printReadiness(report.Readiness)
	}

	if report.Forecast != nil {
		printForecast(report.Forecast)
	}

	PrintWarnings(report.Rollup.Warnings)
	if report.Readiness != nil {
		PrintWarnings(report.Readiness.Warnings)
	}
	if report.Forecast != nil {
		PrintWarnings(report.Forecast.Warnings)
	}

	return nil
}

func printReadiness(readiness *dto.ReadinessReport) {
	if len(readiness.Blocking) > 0 {
		fmt.Printf("⚠️  Blocking (short of plan):\n")
		fmt.Printf("%-28s %-12s %-12s %-12s %-6s\n", "Product", "Needed", "On Hand", "Short", "Unit")
		for _, item := range readiness.Blocking {
			fmt.Printf("%-28s %-12s %-12s %-12s %-6s\n",
				item.ProductName,
				FormatQuantity(item.Needed, item.Unit),
				FormatQuantity(item.OnHand, item.Unit),
				FormatQuantity(item.ShortQty, item.Unit),
				item.Unit)
		}
		fmt.Println()
	}

	if len(readiness.Ready) > 0 {
		fmt.Printf("✅ Covered by inventory:\n")
		fmt.Printf("%-28s %-12s %-12s %-12s %-6s\n", "Product", "Needed", "On Hand", "Surplus", "Unit")
		for _, item := range readiness.Ready {
			fmt.Printf("%-28s %-12s %-12s %-12s %-6s\n",
				item.ProductName,
				FormatQuantity(item.Needed, item.Unit),
				FormatQuantity(item.OnHand, item.Unit),
				FormatQuantity(item.Remaining, item.Unit),
				item.Unit)
		}
		fmt.Println()
	}

	if len(readiness.Unassigned) > 0 {
		fmt.Printf("📦 Unassigned stock (on hand, not in plan):\n")
		fmt.Printf("%-28s %-12s %-6s %-12s\n", "Product", "On Hand", "Unit", "Value")
		for _, item := range readiness.Unassigned {
			fmt.Printf("%-28s %-12s %-6s $%s\n",
				item.ProductName,
				FormatQuantity(item.OnHand, item.Unit),
				item.Unit,
				item.Value.StringFixed(2))
		}
		fmt.Println()
	}
}

func printForecast(forecast *dto.SpendForecast) {
	fmt.Printf("💰 Vendor Spend Forecast:\n")
	for _, vendor := range forecast.Vendors {
		name := vendor.VendorName
		if name == "" {
			name = vendor.VendorID
		}
		fmt.Printf("  %s — $%s\n", name, vendor.Total.StringFixed(2))
		for _, line := range vendor.Lines {
			fmt.Printf("    %-26s %s %s @ $%s/%s = $%s\n",
				line.ProductName,
				FormatQuantity(line.Quantity, line.Unit),
				line.Unit,
				line.UnitPrice.StringFixed(2),
				line.PriceUnit,
				line.Extended.StringFixed(2))
		}
	}
	if len(forecast.Unassigned) > 0 {
		fmt.Printf("  (no vendor assigned)\n")
		for _, line := range forecast.Unassigned {
			fmt.Printf("    %-26s %s %s est. $%s\n",
				line.ProductName,
				FormatQuantity(line.Quantity, line.Unit),
				line.Unit,
				line.Extended.StringFixed(2))
		}
	}
	fmt.Println()
}

// PrintWarnings surfaces accumulated warnings to stdout; callers must not
// silently discard them
func PrintWarnings(warnings []planerrors.Warning) {
	for _, warning := range warnings {
		fmt.Printf("⚠️  %s\n", warning)
	}
}

// generateJSONOutput writes the report as JSON to stdout or a file
func generateJSONOutput(report *PlanReport, config Config) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(data))
		return nil
	}

	path := filepath.Join(config.OutputDir, "plan.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if config.Verbose {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

// generateCSVOutput writes one CSV file per section into the output directory
func generateCSVOutput(report *PlanReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("csv output requires an output directory")
	}

	if err := writeRollupCSV(report.Rollup, filepath.Join(config.OutputDir, "rollup.csv")); err != nil {
		return err
	}

	if report.Readiness != nil {
		if err := writeReadinessCSV(report.Readiness, filepath.Join(config.OutputDir, "readiness.csv")); err != nil {
			return err
		}
	}

	if report.Forecast != nil {
		if err := writeSpendCSV(report.Forecast, filepath.Join(config.OutputDir, "spend.csv")); err != nil {
			return err
		}
	}

	return nil
}

func writeRollupCSV(rollup *dto.DemandRollup, path string) error {
	rows := [][]string{{"commodity", "planned_qty", "unit", "crops"}}
	for _, entry := range rollup.Entries {
		rows = append(rows, []string{
			entry.SpecName,
			FormatQuantity(entry.PlannedQty, entry.Unit),
			entry.Unit,
			breakdownSummary(entry),
		})
	}
	return writeCSVFile(path, rows)
}

func writeReadinessCSV(readiness *dto.ReadinessReport, path string) error {
	rows := [][]string{{"bucket", "product", "needed", "on_hand", "delta", "unit", "value"}}
	for _, item := range readiness.Blocking {
		rows = append(rows, []string{
			"blocking", item.ProductName,
			FormatQuantity(item.Needed, item.Unit),
			FormatQuantity(item.OnHand, item.Unit),
			FormatQuantity(item.ShortQty, item.Unit),
			item.Unit, "",
		})
	}
	for _, item := range readiness.Ready {
		rows = append(rows, []string{
			"ready", item.ProductName,
			FormatQuantity(item.Needed, item.Unit),
			FormatQuantity(item.OnHand, item.Unit),
			FormatQuantity(item.Remaining, item.Unit),
			item.Unit, "",
		})
	}
	for _, item := range readiness.Unassigned {
		rows = append(rows, []string{
			"unassigned", item.ProductName, "",
			FormatQuantity(item.OnHand, item.Unit),
			"", item.Unit, item.Value.StringFixed(2),
		})
	}
	return writeCSVFile(path, rows)
}

func writeSpendCSV(forecast *dto.SpendForecast, path string) error {
	rows := [][]string{{"vendor", "product", "quantity", "unit", "unit_price", "price_unit", "extended"}}
	for _, vendor := range forecast.Vendors {
		for _, line := range vendor.Lines {
			rows = append(rows, []string{
				vendor.VendorName, line.ProductName,
				FormatQuantity(line.Quantity, line.Unit), line.Unit,
				line.UnitPrice.StringFixed(2), line.PriceUnit,
				line.Extended.StringFixed(2),
			})
		}
	}
	for _, line := range forecast.Unassigned {
		rows = append(rows, []string{
			"", line.ProductName,
			FormatQuantity(line.Quantity, line.Unit), line.Unit,
			line.UnitPrice.StringFixed(2), line.PriceUnit,
			line.Extended.StringFixed(2),
		})
	}
	return writeCSVFile(path, rows)
}

func writeCSVFile(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func breakdownSummary(entry dto.RollupEntry) string {
	summary := ""
	for i, row := range entry.Breakdown {
		if i > 0 {
			summary += ", "
		}
		summary += fmt.Sprintf("%s (%s)", row.CropName, FormatQuantity(row.Quantity, entry.Unit))
	}
	return summary
}
