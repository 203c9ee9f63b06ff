package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
)

func lotAt(t *testing.T, occurredAt time.Time, quantity, unitPrice string) *PurchaseLot {
	t.Helper()
	return NewPurchaseLot(id.New(), types.MustQuantity(quantity), types.MustMoney(unitPrice), occurredAt, "tester")
}

func TestAllocate_OldestLotFirst(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	older := lotAt(t, base, "10", "5.00")
	newer := lotAt(t, base.Add(24*time.Hour), "10", "7.00")

	// Pass lots out of order; Allocate must sort by purchase time.
	alloc, err := Allocate([]*PurchaseLot{newer, older}, types.MustQuantity("15"))
	require.NoError(t, err)

	require.Len(t, alloc.Lines, 2)
	assert.Equal(t, older.ID, alloc.Lines[0].Lot.ID)
	assert.Equal(t, types.MustQuantity("10"), alloc.Lines[0].Quantity)
	assert.Equal(t, newer.ID, alloc.Lines[1].Lot.ID)
	assert.Equal(t, types.MustQuantity("5"), alloc.Lines[1].Quantity)

	// 10*5 + 5*7 = 85; weighted unit cost 85/15.
	assert.True(t, alloc.TotalCost.Equal(types.MustMoney("85")), "total cost = %s", alloc.TotalCost)
	assert.Equal(t, "5.6667", alloc.UnitCost.StringFixed(4))
}

func TestAllocate_TieBrokenByLotID(t *testing.T) {
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	first := lotAt(t, at, "4", "1.00")
	second := lotAt(t, at, "4", "2.00")

	// Same timestamp: the lower (earlier-created) ID wins.
	want := first
	if second.ID.String() < first.ID.String() {
		want = second
	}

	alloc, err := Allocate([]*PurchaseLot{second, first}, types.MustQuantity("3"))
	require.NoError(t, err)
	require.Len(t, alloc.Lines, 1)
	assert.Equal(t, want.ID, alloc.Lines[0].Lot.ID)
}

func TestAllocate_ExactDepletion(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lots := []*PurchaseLot{
		lotAt(t, base, "3", "2.50"),
		lotAt(t, base.Add(time.Hour), "7", "3.00"),
	}

	alloc, err := Allocate(lots, types.MustQuantity("10"))
	require.NoError(t, err)

	var total types.Quantity
	for _, line := range alloc.Lines {
		total += line.Quantity
	}
	assert.Equal(t, types.MustQuantity("10"), total)
	assert.True(t, alloc.TotalCost.Equal(types.MustMoney("28.50")), "total cost = %s", alloc.TotalCost)
}

func TestAllocate_SkipsConsumedLots(t *testing.T) {
	base := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	drained := lotAt(t, base, "10", "1.00")
	drained.Remaining = 0
	open := lotAt(t, base.Add(time.Hour), "5", "4.00")

	alloc, err := Allocate([]*PurchaseLot{drained, open}, types.MustQuantity("5"))
	require.NoError(t, err)
	require.Len(t, alloc.Lines, 1)
	assert.Equal(t, open.ID, alloc.Lines[0].Lot.ID)
}

func TestAllocate_PartiallyConsumedLot(t *testing.T) {
	base := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	lot := lotAt(t, base, "10", "2.00")
	lot.Remaining = types.MustQuantity("4")

	alloc, err := Allocate([]*PurchaseLot{lot}, types.MustQuantity("4"))
	require.NoError(t, err)
	require.Len(t, alloc.Lines, 1)
	assert.Equal(t, types.MustQuantity("4"), alloc.Lines[0].Quantity)
	assert.True(t, alloc.TotalCost.Equal(types.MustMoney("8")))
}

func TestAllocate_InsufficientStock(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	lots := []*PurchaseLot{
		lotAt(t, base, "2", "1.00"),
		lotAt(t, base.Add(time.Hour), "3", "1.50"),
	}

	_, err := Allocate(lots, types.MustQuantity("6"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, types.MustQuantity("5").String(), appErr.Details["available"])

	// Failed allocation must not touch the lots.
	assert.Equal(t, types.MustQuantity("2"), lots[0].Remaining)
	assert.Equal(t, types.MustQuantity("3"), lots[1].Remaining)
}

func TestAllocate_NonPositiveQuantity(t *testing.T) {
	lots := []*PurchaseLot{lotAt(t, time.Now().UTC(), "5", "1.00")}

	for _, qty := range []string{"0", "-3"} {
		_, err := Allocate(lots, types.MustQuantity(qty))
		require.Error(t, err, "quantity %s", qty)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))
	}
}

func TestAllocate_DoesNotMutateLots(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	lot := lotAt(t, base, "10", "2.00")

	_, err := Allocate([]*PurchaseLot{lot}, types.MustQuantity("6"))
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("10"), lot.Remaining)
}

func TestAllocate_FractionalQuantities(t *testing.T) {
	base := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	lots := []*PurchaseLot{
		lotAt(t, base, "1.5", "2.00"),
		lotAt(t, base.Add(time.Hour), "2.5", "4.00"),
	}

	alloc, err := Allocate(lots, types.MustQuantity("2.25"))
	require.NoError(t, err)

	// 1.5*2 + 0.75*4 = 6; unit cost 6/2.25.
	assert.True(t, alloc.TotalCost.Equal(types.MustMoney("6")), "total cost = %s", alloc.TotalCost)
	assert.Equal(t, "2.6667", alloc.UnitCost.StringFixed(4))
}

func TestSumRemaining(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	a := lotAt(t, base, "10", "1.00")
	b := lotAt(t, base, "5", "1.00")
	b.Remaining = types.MustQuantity("2")

	assert.Equal(t, types.MustQuantity("12"), SumRemaining([]*PurchaseLot{a, b}))
	assert.Equal(t, types.Quantity(0), SumRemaining(nil))
}
