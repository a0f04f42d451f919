// Package fulfillment advances order state as invoices post against it and
// propagates landed cost into the price ledger.
package fulfillment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
)

// Service applies invoices to orders and derives fulfillment state
type Service struct{}

// NewService creates a new fulfillment service
func NewService() *Service {
	return &Service{}
}

// ApplyInvoice applies one invoice to its parent order and returns a new
// order snapshot plus the ledger entries and inventory receipts the posting
// produces. The input order is not mutated.
//
// Received quantities sum across invoices, which supports split deliveries.
// It also means re-applying the same invoice counts its receipts twice;
// guarding against duplicate application is the caller's responsibility.
func (s *Service) ApplyInvoice(
	ctx context.Context,
	order *entities.Order,
	invoice *entities.Invoice,
) (*dto.FulfillmentResult, error) {
	if invoice.OrderID != "" && invoice.OrderID != order.ID {
		return nil, fmt.Errorf("invoice %s belongs to order %s, not %s: %w",
			invoice.InvoiceNumber, invoice.OrderID, order.ID, planerrors.ErrMissingReference)
	}

	updated := order.Clone()
	result := &dto.FulfillmentResult{}

	for _, invLine := range invoice.Lines {
		line, err := updated.LineByID(invLine.OrderLineItemID)
		if err != nil {
			result.Warnings = append(result.Warnings, planerrors.Warningf(
				planerrors.WarnMissingReference,
				"invoice %s line %s references no line on order %s",
				invoice.InvoiceNumber, invLine.OrderLineItemID, updated.OrderNumber))
			continue
		}

		line.ReceivedQty = line.ReceivedQty.Add(invLine.Quantity)
		line.RemainingQty = line.OrderedQty.Sub(line.ReceivedQty)
		if line.RemainingQty.IsNegative() {
			line.RemainingQty = decimal.Zero
		}
		line.Status = deriveLineStatus(line)

		result.Received = append(result.Received, entities.InventoryItem{
			ID:        uuid.NewString(),
			ProductID: invLine.ProductID,
			Quantity:  invLine.Quantity,
			Unit:      invLine.Unit,
		})
	}

	updated.Status = deriveOrderStatus(updated)
	updated.Version++

	result.Order = *updated
	result.LedgerEntries = s.ledgerEntries(invoice)

	return result, nil
}

// Record persists a fulfillment result: the updated order (version-checked),
// the received stock, and the ledger upserts
func (s *Service) Record(
	ctx context.Context,
	result *dto.FulfillmentResult,
	orderRepo repositories.OrderRepository,
	inventoryRepo repositories.InventoryRepository,
	ledgerRepo repositories.LedgerRepository,
) error {
	if err := orderRepo.UpdateOrder(&result.Order); err != nil {
		return fmt.Errorf("failed to update order %s: %w", result.Order.OrderNumber, err)
	}

	for i := range result.Received {
		if err := inventoryRepo.AddItem(&result.Received[i]); err != nil {
			return fmt.Errorf("failed to receive inventory for product %s: %w",
				result.Received[i].ProductID, err)
		}
	}

	for i := range result.LedgerEntries {
		if err := ledgerRepo.Upsert(&result.LedgerEntries[i]); err != nil {
			return fmt.Errorf("failed to record price for product %s: %w",
				result.LedgerEntries[i].ProductID, err)
		}
	}

	return nil
}

// ledgerEntries builds one price ledger upsert per invoice line with a
// positive landed unit cost. Non-positive landed costs are skipped, not
// errors.
func (s *Service) ledgerEntries(invoice *entities.Invoice) []entities.PriceLedgerEntry {
	var entries []entities.PriceLedgerEntry
	for _, line := range invoice.Lines {
		if !line.LandedUnitCost.IsPositive() {
			continue
		}
		entries = append(entries, entities.PriceLedgerEntry{
			SeasonYear:    invoice.SeasonYear,
			VendorID:      invoice.VendorID,
			ProductID:     line.ProductID,
			Source:        entities.LedgerSourceInvoice,
			UnitPrice:     line.LandedUnitCost,
			Unit:          line.Unit,
			EffectiveDate: invoice.InvoiceDate,
			Note:          fmt.Sprintf("Landed cost from invoice %s", invoice.InvoiceNumber),
		})
	}
	return entries
}

// deriveLineStatus maps received quantity to the line state machine:
// pending (nothing received), partial, complete (received >= ordered)
func deriveLineStatus(line *entities.OrderLineItem) entities.LineStatus {
	switch {
	case line.ReceivedQty.IsZero():
		return entities.LinePending
	case line.ReceivedQty.GreaterThanOrEqual(line.OrderedQty):
		return entities.LineComplete
	default:
		return entities.LinePartial
	}
}

// deriveOrderStatus aggregates line states: complete iff every line is
// complete, partial iff anything has been received, otherwise the order
// keeps its prior status (a draft order with no receipts stays draft, an
// ordered order with no receipts stays ordered).
func deriveOrderStatus(order *entities.Order) entities.OrderStatus {
	if len(order.Lines) == 0 {
		return order.Status
	}

	allComplete := true
	anyReceived := false
	for i := range order.Lines {
		if order.Lines[i].Status != entities.LineComplete {
			allComplete = false
		}
		if !order.Lines[i].ReceivedQty.IsZero() {
			anyReceived = true
		}
	}

	switch {
	case allComplete:
		return entities.OrderComplete
	case anyReceived:
		return entities.OrderPartial
	default:
		return order.Status
	}
}
