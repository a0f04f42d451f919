// Package freight distributes invoice-level charges across line items
// proportionally to each line's extended value, producing the true landed
// cost per unit.
package freight

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agriplan/procure/pkg/application/dto"
	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/services/planerrors"
)

// Allocator distributes charges and computes landed costs
type Allocator struct{}

// NewAllocator creates a new freight allocator
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate assigns each line its share of the invoice's allocable charges,
// proportional to the line's subtotal share of total subtotal value (not
// quantity, not line count). Zero-subtotal lines receive zero. When every
// subtotal is zero a nonzero charge cannot be distributed; it is left
// unallocated and reported as a warning. The last charged line absorbs the
// division remainder so the allocated shares always sum to the charge total.
// Inputs are not mutated.
func (a *Allocator) Allocate(
	ctx context.Context,
	lines []entities.InvoiceLineItem,
	charges []entities.InvoiceCharge,
) (*dto.AllocationOutcome, error) {
	outcome := &dto.AllocationOutcome{
		Lines: make([]entities.InvoiceLineItem, len(lines)),
	}
	copy(outcome.Lines, lines)

	for _, charge := range charges {
		if charge.Type.Allocable() {
			outcome.ChargesTotal = outcome.ChargesTotal.Add(charge.Amount)
		}
	}

	totalSubtotal := decimal.Zero
	lastCharged := -1
	for i := range outcome.Lines {
		line := &outcome.Lines[i]
		line.Subtotal = line.Quantity.Mul(line.UnitPrice)
		totalSubtotal = totalSubtotal.Add(line.Subtotal)
		if line.Subtotal.IsPositive() {
			lastCharged = i
		}
	}

	switch {
	case totalSubtotal.IsPositive():
		for i := range outcome.Lines {
			line := &outcome.Lines[i]
			if !line.Subtotal.IsPositive() {
				line.AllocatedCharge = decimal.Zero
				continue
			}
			if i == lastCharged {
				// Remainder line: guarantees conservation of the charge total
				line.AllocatedCharge = outcome.ChargesTotal.Sub(outcome.Allocated)
			} else {
				line.AllocatedCharge = outcome.ChargesTotal.Mul(line.Subtotal).Div(totalSubtotal)
			}
			outcome.Allocated = outcome.Allocated.Add(line.AllocatedCharge)
		}
	case !outcome.ChargesTotal.IsZero():
		outcome.Warnings = append(outcome.Warnings, planerrors.Warningf(
			planerrors.WarnUnallocatedCharge,
			"charge total %s cannot be allocated: no line has a positive subtotal",
			outcome.ChargesTotal))
	}

	for i := range outcome.Lines {
		line := &outcome.Lines[i]
		line.LandedTotal = line.Subtotal.Add(line.AllocatedCharge)
		if line.Quantity.IsPositive() {
			line.LandedUnitCost = line.LandedTotal.Div(line.Quantity)
		} else {
			line.LandedUnitCost = decimal.Zero
			outcome.Warnings = append(outcome.Warnings, planerrors.Warningf(
				planerrors.WarnZeroQuantity,
				"line %s has no positive quantity; landed unit cost is undefined", line.ID))
		}
	}

	return outcome, nil
}
