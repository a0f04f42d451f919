package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/services/units"
)

// FormatQuantity renders a canonical quantity the way buyers read it: tons to
// two decimals, gallons to one, pounds as a grouped integer
func FormatQuantity(qty decimal.Decimal, unit string) string {
	switch unit {
	case units.Ton:
		return qty.StringFixed(2)
	case units.Gallon:
		return qty.StringFixed(1)
	case units.Pound:
		return groupThousands(qty.Round(0).StringFixed(0))
	default:
		return qty.String()
	}
}

// groupThousands inserts comma separators into an integer string
func groupThousands(s string) string {
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var builder strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}

	if negative {
		return "-" + builder.String()
	}
	return builder.String()
}

var bidSheetHeader = []string{"Commodity", "Quantity", "Unit", "Crop Breakdown"}

// WriteBidSheetCSV writes the rollup as a vendor-facing bid sheet in CSV form
func WriteBidSheetCSV(rollup *dto.DemandRollup, path string) error {
	rows := [][]string{bidSheetHeader}
	for _, entry := range rollup.Entries {
		rows = append(rows, bidSheetRow(entry))
	}
	return writeCSVFile(path, rows)
}

// WriteBidSheetXLSX writes the rollup as a vendor-facing bid sheet workbook
func WriteBidSheetXLSX(rollup *dto.DemandRollup, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := fmt.Sprintf("Bid Sheet %d", rollup.SeasonYear)
	file.SetSheetName("Sheet1", sheet)

	for col, title := range bidSheetHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header cell %s: %w", cell, err)
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := file.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, entry := range rollup.Entries {
		row := bidSheetRow(entry)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := file.SetColWidth(sheet, "A", "A", 30); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := file.SetColWidth(sheet, "D", "D", 40); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func bidSheetRow(entry dto.RollupEntry) []string {
	return []string{
		entry.SpecName,
		FormatQuantity(entry.PlannedQty, entry.Unit),
		entry.Unit,
		breakdownSummary(entry),
	}
}
