package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/infrastructure/storage/memory"
)

type fixture struct {
	store   *memory.Store
	svc     *ledger.Service
	product *product.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	svc := ledger.NewService(store.Products(), store.Lots(), store.Sales(), store.Movements(), memory.NewTxManager(store))

	p := product.NewProduct("WID-001", "Widget", "pcs")
	require.NoError(t, store.Products().Create(context.Background(), p))

	return &fixture{store: store, svc: svc, product: p}
}

func (f *fixture) purchase(t *testing.T, quantity, unitPrice string, at time.Time) *ledger.PurchaseLot {
	t.Helper()
	lot, err := f.svc.RecordPurchase(context.Background(), ledger.PurchaseInput{
		ProductID:  f.product.ID,
		Quantity:   types.MustQuantity(quantity),
		UnitPrice:  types.MustMoney(unitPrice),
		OccurredAt: at,
		Actor:      "tester",
	})
	require.NoError(t, err)
	return lot
}

func (f *fixture) sale(t *testing.T, quantity, sellingPrice string) *ledger.Sale {
	t.Helper()
	sale, err := f.svc.RecordSale(context.Background(), ledger.SaleInput{
		ProductID:    f.product.ID,
		Quantity:     types.MustQuantity(quantity),
		SellingPrice: types.MustMoney(sellingPrice),
		Actor:        "tester",
	})
	require.NoError(t, err)
	return sale
}

// stock fetches the current cached stock.
func (f *fixture) stock(t *testing.T) types.Quantity {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return p.Stock
}

// assertInSync checks the core invariant: cached stock equals the sum of
// lot remainders.
func (f *fixture) assertInSync(t *testing.T) {
	t.Helper()
	derived, err := f.store.Lots().SumRemainingByProduct(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, derived, f.stock(t), "cached stock must equal sum of lot remainders")
}

var t0 = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func TestRecordPurchase(t *testing.T) {
	f := newFixture(t)

	lot := f.purchase(t, "10", "5.00", t0)

	assert.Equal(t, types.MustQuantity("10"), lot.Quantity)
	assert.Equal(t, types.MustQuantity("10"), lot.Remaining)
	assert.Equal(t, types.MustQuantity("10"), f.stock(t))
	f.assertInSync(t)

	trail, err := f.store.Movements().ListByRecorder(context.Background(), lot.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, ledger.MovementKindPurchase, trail[0].Kind)
	assert.Equal(t, types.MustQuantity("10"), trail[0].Quantity)
}

func TestRecordPurchase_RejectsNonPositive(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordPurchase(context.Background(), ledger.PurchaseInput{
		ProductID: f.product.ID,
		Quantity:  types.MustQuantity("0"),
		UnitPrice: types.MustMoney("1.00"),
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	_, err = f.svc.RecordPurchase(context.Background(), ledger.PurchaseInput{
		ProductID: f.product.ID,
		Quantity:  types.MustQuantity("5"),
		UnitPrice: types.MustMoney("-2.00"),
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	assert.Equal(t, types.Quantity(0), f.stock(t))
}

func TestRecordPurchase_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordPurchase(context.Background(), ledger.PurchaseInput{
		ProductID: id.New(),
		Quantity:  types.MustQuantity("5"),
		UnitPrice: types.MustMoney("1.00"),
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordSale_FIFOCost(t *testing.T) {
	f := newFixture(t)
	lot1 := f.purchase(t, "10", "5.00", t0)
	lot2 := f.purchase(t, "10", "7.00", t0.Add(24*time.Hour))

	sale := f.sale(t, "15", "12.00")

	// 10@5 + 5@7 = 85; weighted cost 85/15.
	assert.Equal(t, "5.6667", sale.CostPrice.StringFixed(4))

	got1, err := f.store.Lots().GetByID(context.Background(), lot1.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), got1.Remaining, "oldest lot drained first")

	got2, err := f.store.Lots().GetByID(context.Background(), lot2.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("5"), got2.Remaining)

	assert.Equal(t, types.MustQuantity("5"), f.stock(t))
	f.assertInSync(t)

	// One outflow movement per touched lot, priced at that lot's cost.
	trail, err := f.store.Movements().ListByRecorder(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, types.MustQuantity("-10"), trail[0].Quantity)
	assert.True(t, trail[0].UnitPrice.Equal(types.MustMoney("5.00")))
	assert.Equal(t, types.MustQuantity("-5"), trail[1].Quantity)
	assert.True(t, trail[1].UnitPrice.Equal(types.MustMoney("7.00")))
}

func TestRecordSale_SingleLot(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, "10", "4.00", t0)

	sale := f.sale(t, "4", "9.00")

	assert.True(t, sale.CostPrice.Equal(types.MustMoney("4.00")))
	assert.True(t, sale.Revenue().Equal(types.MustMoney("36.00")))
	assert.True(t, sale.Cost().Equal(types.MustMoney("16.00")))
	assert.Equal(t, types.MustQuantity("6"), f.stock(t))
	f.assertInSync(t)
}

func TestRecordSale_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	lot := f.purchase(t, "5", "2.00", t0)

	_, err := f.svc.RecordSale(context.Background(), ledger.SaleInput{
		ProductID:    f.product.ID,
		Quantity:     types.MustQuantity("8"),
		SellingPrice: types.MustMoney("3.00"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	got, err := f.store.Lots().GetByID(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("5"), got.Remaining)
	assert.Equal(t, types.MustQuantity("5"), f.stock(t))
	f.assertInSync(t)
}

func TestRecordSale_ConsistencyFault(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, "10", "2.00", t0)

	// Corrupt the cached aggregate behind the ledger's back.
	require.NoError(t, f.store.Products().UpdateStock(context.Background(), f.product.ID, types.MustQuantity("12")))

	_, err := f.svc.RecordSale(context.Background(), ledger.SaleInput{
		ProductID:    f.product.ID,
		Quantity:     types.MustQuantity("11"),
		SellingPrice: types.MustMoney("3.00"),
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeConsistencyFault))

	// Drift must not be healed.
	assert.Equal(t, types.MustQuantity("12"), f.stock(t))
}

func TestRecordSale_ConcurrentWritersSerialize(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, "30000", "1.00", t0)

	// Two sales of 20000 each race; only one can fit into 30000.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.RecordSale(context.Background(), ledger.SaleInput{
				ProductID:    f.product.ID,
				Quantity:     types.MustQuantity("20000"),
				SellingPrice: types.MustMoney("2.00"),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsInsufficientStock(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the racing sales may commit")

	assert.Equal(t, types.MustQuantity("10000"), f.stock(t))
	f.assertInSync(t)
}

func TestRecordSale_WeightedCostIdempotence(t *testing.T) {
	split := newFixture(t)
	split.purchase(t, "10", "5.00", t0)
	split.purchase(t, "10", "7.00", t0.Add(time.Hour))

	whole := newFixture(t)
	whole.purchase(t, "10", "5.00", t0)
	whole.purchase(t, "10", "7.00", t0.Add(time.Hour))

	// Selling 7.5 twice must carry the same total cost as selling 15 once,
	// and neither path may create lots.
	first := split.sale(t, "7.5", "12.00")
	second := split.sale(t, "7.5", "12.00")
	single := whole.sale(t, "15", "12.00")

	splitCost := first.Cost().Add(second.Cost())
	assert.True(t, splitCost.Round(4).Equal(single.Cost().Round(4)),
		"split %s vs single %s", splitCost, single.Cost())

	lots, err := split.store.Lots().CountByProduct(context.Background(), split.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, lots, "sales consume lots, never create them")

	assert.Equal(t, split.stock(t), whole.stock(t))
	split.assertInSync(t)
}

func TestReverseSale_RestoresExactAllocation(t *testing.T) {
	f := newFixture(t)
	lot1 := f.purchase(t, "10", "5.00", t0)
	lot2 := f.purchase(t, "10", "7.00", t0.Add(24*time.Hour))
	sale := f.sale(t, "15", "12.00")

	require.NoError(t, f.svc.ReverseSale(context.Background(), sale.ID))

	got1, err := f.store.Lots().GetByID(context.Background(), lot1.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("10"), got1.Remaining)

	got2, err := f.store.Lots().GetByID(context.Background(), lot2.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("10"), got2.Remaining)

	assert.Equal(t, types.MustQuantity("20"), f.stock(t))
	f.assertInSync(t)

	_, err = f.store.Sales().GetByID(context.Background(), sale.ID)
	assert.True(t, apperror.IsNotFound(err))

	trail, err := f.store.Movements().ListByRecorder(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestReverseSale_ScopedToOwnTrail(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, "20", "3.00", t0)
	saleA := f.sale(t, "5", "6.00")
	saleB := f.sale(t, "4", "6.00")

	require.NoError(t, f.svc.ReverseSale(context.Background(), saleA.ID))

	// saleB's movements and effect stay intact.
	trailB, err := f.store.Movements().ListByRecorder(context.Background(), saleB.ID)
	require.NoError(t, err)
	assert.Len(t, trailB, 1)

	_, err = f.store.Sales().GetByID(context.Background(), saleB.ID)
	assert.NoError(t, err)

	assert.Equal(t, types.MustQuantity("16"), f.stock(t))
	f.assertInSync(t)
}

func TestReverseSale_LaterPurchaseDoesNotShiftRestore(t *testing.T) {
	f := newFixture(t)
	lot1 := f.purchase(t, "10", "5.00", t0)
	sale := f.sale(t, "10", "8.00")

	// A newer lot arrives after the sale; reversal must still restore lot1,
	// not whatever a fresh FIFO walk would pick.
	lot2 := f.purchase(t, "10", "6.00", t0.Add(48*time.Hour))

	require.NoError(t, f.svc.ReverseSale(context.Background(), sale.ID))

	got1, err := f.store.Lots().GetByID(context.Background(), lot1.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("10"), got1.Remaining)

	got2, err := f.store.Lots().GetByID(context.Background(), lot2.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("10"), got2.Remaining)

	f.assertInSync(t)
}

func TestReverseSale_PartialRestoreAbortsWhole(t *testing.T) {
	f := newFixture(t)
	lot1 := f.purchase(t, "10", "5.00", t0)
	lot2 := f.purchase(t, "10", "7.00", t0.Add(time.Hour))
	sale := f.sale(t, "15", "12.00")

	// Corrupt the second lot so its restore would exceed the lot quantity.
	// The first lot's restore happens before the fault is detected and must
	// be rolled back with everything else.
	require.NoError(t, f.store.Lots().UpdateRemaining(context.Background(), lot2.ID, types.MustQuantity("10")))

	err := f.svc.ReverseSale(context.Background(), sale.ID)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeConsistencyFault))

	got1, err := f.store.Lots().GetByID(context.Background(), lot1.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), got1.Remaining, "first lot's restore must not survive the abort")

	_, err = f.store.Sales().GetByID(context.Background(), sale.ID)
	assert.NoError(t, err, "sale survives a failed reversal")

	trail, err := f.store.Movements().ListByRecorder(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Len(t, trail, 2)
}

func TestReversePurchase_UntouchedLot(t *testing.T) {
	f := newFixture(t)
	lot := f.purchase(t, "10", "5.00", t0)
	f.purchase(t, "5", "6.00", t0.Add(time.Hour))

	require.NoError(t, f.svc.ReversePurchase(context.Background(), lot.ID))

	_, err := f.store.Lots().GetByID(context.Background(), lot.ID)
	assert.True(t, apperror.IsNotFound(err))

	assert.Equal(t, types.MustQuantity("5"), f.stock(t))
	f.assertInSync(t)

	trail, err := f.store.Movements().ListByRecorder(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestReversePurchase_RejectsConsumedLot(t *testing.T) {
	f := newFixture(t)
	lot := f.purchase(t, "10", "5.00", t0)
	f.sale(t, "3", "8.00")

	err := f.svc.ReversePurchase(context.Background(), lot.ID)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeLotPartiallyConsumed))

	// The lot survives with its partial remainder.
	got, err := f.store.Lots().GetByID(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("7"), got.Remaining)
	f.assertInSync(t)
}

func TestReversalRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, "10", "5.00", t0)
	f.purchase(t, "10", "7.00", t0.Add(time.Hour))

	before, err := f.svc.Reconcile(context.Background(), f.product.ID)
	require.NoError(t, err)

	sale := f.sale(t, "12", "9.00")
	require.NoError(t, f.svc.ReverseSale(context.Background(), sale.ID))

	after, err := f.svc.Reconcile(context.Background(), f.product.ID)
	require.NoError(t, err)

	assert.Equal(t, before.CachedStock, after.CachedStock)
	assert.Equal(t, before.DerivedStock, after.DerivedStock)
	assert.True(t, after.InSync)
}

func TestReconcile_ReportsDriftWithoutHealing(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, "10", "2.00", t0)

	require.NoError(t, f.store.Products().UpdateStock(context.Background(), f.product.ID, types.MustQuantity("9")))

	rec, err := f.svc.Reconcile(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.False(t, rec.InSync)
	assert.Equal(t, types.MustQuantity("9"), rec.CachedStock)
	assert.Equal(t, types.MustQuantity("10"), rec.DerivedStock)

	// Still drifted afterwards.
	assert.Equal(t, types.MustQuantity("9"), f.stock(t))
}

func TestMovementHistory(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, "10", "5.00", t0)
	f.sale(t, "4", "8.00")

	history, err := f.svc.MovementHistory(context.Background(), f.product.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first: the sale outflow precedes the purchase inflow.
	assert.Equal(t, ledger.MovementKindSale, history[0].Kind)
	assert.Equal(t, ledger.MovementKindPurchase, history[1].Kind)
}

func TestProductInUse(t *testing.T) {
	f := newFixture(t)

	used, err := f.svc.ProductInUse(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.False(t, used)

	lot := f.purchase(t, "5", "1.00", t0)

	used, err = f.svc.ProductInUse(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.True(t, used)

	require.NoError(t, f.svc.ReversePurchase(context.Background(), lot.ID))

	used, err = f.svc.ProductInUse(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.False(t, used)
}
