package csv

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/domain/entities"
)

// LoadAwards loads bid awards from a CSV file. An empty awarded_price means
// the vendor's quote price applies.
func (l *Loader) LoadAwards(filename string) ([]*entities.Award, error) {
	records, err := readRecords(filename, []string{
		"award_id", "bid_event_id", "spec_id", "vendor_id", "quantity", "unit", "awarded_price",
	})
	if err != nil {
		return nil, fmt.Errorf("awards CSV: %w", err)
	}

	var awards []*entities.Award
	for i, record := range records {
		quantity, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("awards CSV row %d: invalid quantity: %s", i+2, record[4])
		}

		award := &entities.Award{
			ID:         record[0],
			BidEventID: record[1],
			SpecID:     record[2],
			VendorID:   record[3],
			Quantity:   quantity,
			Unit:       record[5],
		}

		if record[6] != "" {
			price, err := decimal.NewFromString(record[6])
			if err != nil {
				return nil, fmt.Errorf("awards CSV row %d: invalid awarded_price: %s", i+2, record[6])
			}
			award.AwardedPrice = &price
		}

		awards = append(awards, award)
	}

	return awards, nil
}

// LoadQuotes loads vendor quotes from a CSV file
func (l *Loader) LoadQuotes(filename string) ([]*entities.VendorQuote, error) {
	records, err := readRecords(filename, []string{
		"quote_id", "bid_event_id", "vendor_id", "spec_id", "price", "price_unit",
	})
	if err != nil {
		return nil, fmt.Errorf("quotes CSV: %w", err)
	}

	var quotes []*entities.VendorQuote
	for i, record := range records {
		price, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("quotes CSV row %d: invalid price: %s", i+2, record[4])
		}

		quotes = append(quotes, &entities.VendorQuote{
			ID:         record[0],
			BidEventID: record[1],
			VendorID:   record[2],
			SpecID:     record[3],
			Price:      price,
			PriceUnit:  record[5],
		})
	}

	return quotes, nil
}

// LoadInvoiceLines loads invoice line items from a CSV file. Subtotals and
// landed costs are computed by the freight allocator, not read from disk.
func (l *Loader) LoadInvoiceLines(filename string) ([]entities.InvoiceLineItem, error) {
	records, err := readRecords(filename, []string{
		"line_id", "order_line_item_id", "product_id", "quantity", "unit", "unit_price",
	})
	if err != nil {
		return nil, fmt.Errorf("invoice lines CSV: %w", err)
	}

	var lines []entities.InvoiceLineItem
	for i, record := range records {
		quantity, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("invoice lines CSV row %d: invalid quantity: %s", i+2, record[3])
		}

		unitPrice, err := decimal.NewFromString(record[5])
		if err != nil {
			return nil, fmt.Errorf("invoice lines CSV row %d: invalid unit_price: %s", i+2, record[5])
		}

		lines = append(lines, entities.InvoiceLineItem{
			ID:              record[0],
			OrderLineItemID: record[1],
			ProductID:       record[2],
			Quantity:        quantity,
			Unit:            record[4],
			UnitPrice:       unitPrice,
		})
	}

	return lines, nil
}

// LoadCharges loads invoice-level charges from a CSV file
func (l *Loader) LoadCharges(filename string) ([]entities.InvoiceCharge, error) {
	records, err := readRecords(filename, []string{"charge_id", "type", "amount"})
	if err != nil {
		return nil, fmt.Errorf("charges CSV: %w", err)
	}

	var charges []entities.InvoiceCharge
	for i, record := range records {
		chargeType, err := entities.ParseChargeType(record[1])
		if err != nil {
			return nil, fmt.Errorf("charges CSV row %d: %w", i+2, err)
		}

		amount, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("charges CSV row %d: invalid amount: %s", i+2, record[2])
		}

		charges = append(charges, entities.InvoiceCharge{
			ID:     record[0],
			Type:   chargeType,
			Amount: amount,
		})
	}

	return charges, nil
}

// LoadOrders loads previously saved orders and their lines from CSV files,
// enough to continue numbering and receiving against them
func (l *Loader) LoadOrders(ordersFile, linesFile string) ([]*entities.Order, error) {
	orderRecords, err := readRecords(ordersFile, []string{
		"order_id", "order_number", "vendor_id", "season_year", "status", "bid_event_id", "version", "created_at",
	})
	if err != nil {
		return nil, fmt.Errorf("orders CSV: %w", err)
	}

	var orders []*entities.Order
	orderIndex := make(map[string]int)
	for i, record := range orderRecords {
		order, err := parseOrder(record)
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}
		orderIndex[order.ID] = len(orders)
		orders = append(orders, order)
	}

	lineRecords, err := readRecords(linesFile, []string{
		"line_id", "order_id", "spec_id", "product_id", "description",
		"ordered_qty", "received_qty", "unit", "unit_price",
	})
	if err != nil {
		return nil, fmt.Errorf("order lines CSV: %w", err)
	}

	for i, record := range lineRecords {
		idx, exists := orderIndex[record[1]]
		if !exists {
			return nil, fmt.Errorf("order lines CSV row %d: unknown order %s", i+2, record[1])
		}

		line, err := parseOrderLine(record)
		if err != nil {
			return nil, fmt.Errorf("order lines CSV row %d: %w", i+2, err)
		}

		orders[idx].Lines = append(orders[idx].Lines, *line)
	}

	return orders, nil
}

func parseOrder(record []string) (*entities.Order, error) {
	seasonYear, err := parseInt(record[3], "season_year")
	if err != nil {
		return nil, err
	}

	order, err := entities.NewOrder(record[0], record[1], record[2], seasonYear)
	if err != nil {
		return nil, err
	}

	order.Status, err = entities.ParseOrderStatus(record[4])
	if err != nil {
		return nil, err
	}
	order.BidEventID = record[5]

	order.Version, err = parseInt(record[6], "version")
	if err != nil {
		return nil, err
	}

	order.CreatedAt, err = time.Parse("2006-01-02", record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid created_at format: %s (expected YYYY-MM-DD)", record[7])
	}

	return order, nil
}

func parseOrderLine(record []string) (*entities.OrderLineItem, error) {
	orderedQty, err := decimal.NewFromString(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid ordered_qty: %s", record[5])
	}

	receivedQty, err := decimal.NewFromString(record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid received_qty: %s", record[6])
	}

	unitPrice, err := decimal.NewFromString(record[8])
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price: %s", record[8])
	}

	remaining := orderedQty.Sub(receivedQty)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	status := entities.LinePending
	switch {
	case !receivedQty.IsZero() && receivedQty.GreaterThanOrEqual(orderedQty):
		status = entities.LineComplete
	case !receivedQty.IsZero():
		status = entities.LinePartial
	}

	return &entities.OrderLineItem{
		ID:           record[0],
		SpecID:       record[2],
		ProductID:    record[3],
		Description:  record[4],
		OrderedQty:   orderedQty,
		ReceivedQty:  receivedQty,
		RemainingQty: remaining,
		Unit:         record[7],
		UnitPrice:    unitPrice,
		Status:       status,
	}, nil
}

func parseInt(s, field string) (int, error) {
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return value, nil
}
