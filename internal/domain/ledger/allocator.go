package ledger

import (
	"sort"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/types"
)

// AllocationLine is one lot's contribution to a sale.
type AllocationLine struct {
	Lot      *PurchaseLot
	Quantity types.Quantity
	UnitCost types.Money
}

// Cost returns this line's share of the total cost.
func (l AllocationLine) Cost() types.Money {
	return l.UnitCost.Mul(l.Quantity.Decimal())
}

// Allocation is the result of a FIFO walk: which lots are consumed, how much
// from each, and the weighted-average unit cost of the whole.
type Allocation struct {
	Lines     []AllocationLine
	TotalCost types.Money

	// UnitCost = TotalCost / requested quantity.
	UnitCost types.Money
}

// Allocate selects purchase lots oldest-first and greedily consumes them
// until the requested quantity is satisfied.
//
// Lots are ordered by purchase timestamp ascending, ties broken by lot ID
// (UUIDv7, so insertion order); the ordering is total and the result
// deterministic. Allocate is a pure function: it never mutates the lots, and
// the caller is responsible for persisting the remaining-quantity decrements
// it describes.
//
// Returns InvalidQuantity for a non-positive request and InsufficientStock
// when open lots are exhausted before the request is satisfied. The sum of
// line quantities always equals the requested quantity exactly.
func Allocate(lots []*PurchaseLot, requested types.Quantity) (*Allocation, error) {
	if !requested.IsPositive() {
		return nil, apperror.NewInvalidQuantity("quantity", requested.String())
	}

	ordered := make([]*PurchaseLot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].OccurredAt.Equal(ordered[j].OccurredAt) {
			return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	alloc := &Allocation{TotalCost: types.Zero()}
	needed := requested

	for _, lot := range ordered {
		if needed.IsZero() {
			break
		}
		if !lot.Remaining.IsPositive() {
			continue
		}

		take := types.Min(lot.Remaining, needed)
		alloc.Lines = append(alloc.Lines, AllocationLine{
			Lot:      lot,
			Quantity: take,
			UnitCost: lot.UnitPrice,
		})
		alloc.TotalCost = alloc.TotalCost.Add(lot.UnitPrice.Mul(take.Decimal()))
		needed -= take
	}

	if needed.IsPositive() {
		available := requested - needed
		return nil, apperror.NewInsufficientStock("", requested.String(), available.String())
	}

	alloc.UnitCost = alloc.TotalCost.Div(requested.Decimal())
	return alloc, nil
}

// SumRemaining totals the unsold quantity across the given lots. Used to
// cross-check the cached product stock against derived truth.
func SumRemaining(lots []*PurchaseLot) types.Quantity {
	var total types.Quantity
	for _, lot := range lots {
		total += lot.Remaining
	}
	return total
}
