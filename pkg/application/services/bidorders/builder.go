// Package bidorders converts competitive-bid awards into draft purchase
// orders, one per winning vendor.
package bidorders

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
)

// Builder synthesizes draft orders from bid awards
type Builder struct{}

// NewBuilder creates a new draft order builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildDraftOrders groups the event's awards by vendor and creates one draft
// order per vendor with sequential ORD-{year}-{NNN} numbers. Awards missing
// a vendor id are skipped with a warning; zero-price and zero-quantity lines
// are warnings, not aborts, because partial award data is expected
// mid-workflow. Orders are returned, not persisted; the caller saves them
// and must surface the warnings.
func (b *Builder) BuildDraftOrders(
	ctx context.Context,
	event *entities.BidEvent,
	awards []*entities.Award,
	quotes []*entities.VendorQuote,
	orderRepo repositories.OrderRepository,
	catalog repositories.CatalogRepository,
) (*dto.DraftOrderResult, error) {
	result := &dto.DraftOrderResult{}

	// Group awards by vendor, preserving first-seen vendor order
	awardsByVendor := make(map[string][]*entities.Award)
	var vendorOrder []string
	for _, award := range awards {
		if award.BidEventID != event.ID {
			continue
		}
		if award.VendorID == "" {
			result.Warnings = append(result.Warnings, planerrors.Warningf(
				planerrors.WarnMissingVendor,
				"award %s for spec %s has no vendor and was skipped", award.ID, award.SpecID))
			continue
		}
		if _, seen := awardsByVendor[award.VendorID]; !seen {
			vendorOrder = append(vendorOrder, award.VendorID)
		}
		awardsByVendor[award.VendorID] = append(awardsByVendor[award.VendorID], award)
	}

	nextSeq, err := b.nextSequence(event.SeasonYear, orderRepo)
	if err != nil {
		return nil, err
	}

	for _, vendorID := range vendorOrder {
		order, err := entities.NewOrder(
			uuid.NewString(),
			formatOrderNumber(event.SeasonYear, nextSeq),
			vendorID,
			event.SeasonYear,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create order for vendor %s: %w", vendorID, err)
		}
		nextSeq++
		order.BidEventID = event.ID

		if vendor, err := catalog.GetVendor(vendorID); err == nil {
			order.VendorName = vendor.Name
		}

		for _, award := range awardsByVendor[vendorID] {
			line := b.buildLine(award, quotes, catalog, &result.Warnings)
			order.Lines = append(order.Lines, line)
		}

		result.Orders = append(result.Orders, *order)
	}

	if err := b.checkSequencing(result.Orders, orderRepo); err != nil {
		return nil, err
	}

	return result, nil
}

// buildLine resolves one award into an order line. Product id comes from the
// spec's canonical product when the spec defines one, otherwise the spec id
// is treated as a product id directly. Unit price falls back from awarded
// price to the matching quote to zero.
func (b *Builder) buildLine(
	award *entities.Award,
	quotes []*entities.VendorQuote,
	catalog repositories.CatalogRepository,
	warnings *[]planerrors.Warning,
) entities.OrderLineItem {
	productID := award.SpecID
	description := award.SpecID
	if spec, err := catalog.GetSpec(award.SpecID); err == nil {
		description = spec.Name
		if spec.ProductID != "" {
			productID = spec.ProductID
		}
	}

	price := decimal.Zero
	switch {
	case award.AwardedPrice != nil:
		price = *award.AwardedPrice
	default:
		if quote := matchQuote(award, quotes); quote != nil {
			price = quote.Price
		}
	}

	if price.IsZero() {
		*warnings = append(*warnings, planerrors.Warningf(
			planerrors.WarnZeroPrice,
			"award %s for spec %s has no usable price", award.ID, award.SpecID))
	}
	if award.Quantity.IsZero() {
		*warnings = append(*warnings, planerrors.Warningf(
			planerrors.WarnZeroQuantity,
			"award %s for spec %s has zero quantity", award.ID, award.SpecID))
	}

	return entities.OrderLineItem{
		ID:           uuid.NewString(),
		SpecID:       award.SpecID,
		ProductID:    productID,
		Description:  description,
		OrderedQty:   award.Quantity,
		RemainingQty: award.Quantity,
		Unit:         award.Unit,
		UnitPrice:    price,
		Status:       entities.LinePending,
	}
}

// nextSequence returns one past the highest sequence number among existing
// orders matching the year's prefix. Sequence numbers are never reused, even
// when the highest-numbered order has been deleted, so the scan is over
// numbers, not order count.
func (b *Builder) nextSequence(seasonYear int, orderRepo repositories.OrderRepository) (int, error) {
	orders, err := orderRepo.GetAllOrders()
	if err != nil {
		return 0, fmt.Errorf("failed to list orders: %w", err)
	}

	prefix := fmt.Sprintf("ORD-%d-", seasonYear)
	maxSeq := 0
	for _, order := range orders {
		if !strings.HasPrefix(order.OrderNumber, prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(order.OrderNumber, prefix))
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return maxSeq + 1, nil
}

// checkSequencing asserts no order number collides with another new or
// existing order. The monotonic-max algorithm makes this unreachable; a
// collision is a fatal invariant violation.
func (b *Builder) checkSequencing(created []entities.Order, orderRepo repositories.OrderRepository) error {
	existing, err := orderRepo.GetAllOrders()
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	seen := make(map[string]bool, len(existing)+len(created))
	for _, order := range existing {
		seen[order.OrderNumber] = true
	}
	for _, order := range created {
		if seen[order.OrderNumber] {
			return fmt.Errorf("order number %s already assigned: %w",
				order.OrderNumber, planerrors.ErrSequencingConflict)
		}
		seen[order.OrderNumber] = true
	}

	return nil
}

func matchQuote(award *entities.Award, quotes []*entities.VendorQuote) *entities.VendorQuote {
	for _, quote := range quotes {
		if quote.BidEventID == award.BidEventID &&
			quote.VendorID == award.VendorID &&
			quote.SpecID == award.SpecID {
			return quote
		}
	}
	return nil
}

func formatOrderNumber(seasonYear, seq int) string {
	return fmt.Sprintf("ORD-%d-%03d", seasonYear, seq)
}
