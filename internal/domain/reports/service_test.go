package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/domain/reports"
	"fifostock/internal/infrastructure/storage/memory"
)

type fixture struct {
	store   *memory.Store
	ledger  *ledger.Service
	reports *reports.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:   store,
		ledger:  ledger.NewService(store.Products(), store.Lots(), store.Sales(), store.Movements(), memory.NewTxManager(store)),
		reports: reports.NewService(store.Reports()),
	}
}

func (f *fixture) addProduct(t *testing.T, code string) *product.Product {
	t.Helper()
	p := product.NewProduct(code, "Product "+code, "pcs")
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) purchase(t *testing.T, p *product.Product, quantity, unitPrice string, at time.Time) *ledger.PurchaseLot {
	t.Helper()
	lot, err := f.ledger.RecordPurchase(context.Background(), ledger.PurchaseInput{
		ProductID:  p.ID,
		Quantity:   types.MustQuantity(quantity),
		UnitPrice:  types.MustMoney(unitPrice),
		OccurredAt: at,
	})
	require.NoError(t, err)
	return lot
}

func (f *fixture) sale(t *testing.T, p *product.Product, quantity, sellingPrice string, at time.Time) *ledger.Sale {
	t.Helper()
	sale, err := f.ledger.RecordSale(context.Background(), ledger.SaleInput{
		ProductID:    p.ID,
		Quantity:     types.MustQuantity(quantity),
		SellingPrice: types.MustMoney(sellingPrice),
		OccurredAt:   at,
	})
	require.NoError(t, err)
	return sale
}

var day1 = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func TestStockValue(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "A-1")
	f.purchase(t, p, "10", "5.00", day1)
	f.purchase(t, p, "10", "7.00", day1.Add(time.Hour))
	f.sale(t, p, "15", "12.00", day1.Add(2*time.Hour))

	// Remaining after FIFO sale: 5 from the 7.00 lot.
	v, err := f.reports.StockValue(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustQuantity("5"), v.Quantity)
	assert.True(t, v.StockValue.Equal(types.MustMoney("35.00")), "got %s", v.StockValue)
}

func TestStockValue_NoLots(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "A-1")

	v, err := f.reports.StockValue(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), v.Quantity)
	assert.True(t, v.StockValue.IsZero())
}

func TestAveragePurchasePrice(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "A-1")
	f.purchase(t, p, "10", "5.00", day1)
	f.purchase(t, p, "30", "7.00", day1.Add(time.Hour))

	// (10*5 + 30*7) / 40 = 6.50, regardless of consumption.
	f.sale(t, p, "25", "12.00", day1.Add(2*time.Hour))

	avg, err := f.reports.AveragePurchasePrice(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "6.5000", avg.StringFixed(4))
}

func TestAveragePurchasePrice_NoLots(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "A-1")

	avg, err := f.reports.AveragePurchasePrice(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())
}

func TestProfitForPeriod(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "A-1")
	f.purchase(t, p, "10", "4.00", day1)
	f.sale(t, p, "6", "10.00", day1.Add(time.Hour))

	// A sale outside the window must not count.
	f.sale(t, p, "2", "10.00", day1.Add(72*time.Hour))

	pl, err := f.reports.ProfitForPeriod(context.Background(), day1, day1.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, pl.SalesCount)
	assert.True(t, pl.Revenue.Equal(types.MustMoney("60.00")), "got %s", pl.Revenue)
	assert.True(t, pl.Cost.Equal(types.MustMoney("24.00")), "got %s", pl.Cost)
	assert.True(t, pl.GrossProfit.Equal(types.MustMoney("36.00")), "got %s", pl.GrossProfit)
	assert.True(t, pl.TotalPurchases.Equal(types.MustMoney("40.00")), "got %s", pl.TotalPurchases)
}

func TestProfitForPeriod_InvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.reports.ProfitForPeriod(context.Background(), day1, day1.Add(-time.Hour))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.reports.ProfitForPeriod(context.Background(), time.Time{}, day1)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestGetSummary(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct(t, "A-1")
	b := f.addProduct(t, "B-1")
	f.purchase(t, a, "10", "5.00", day1)
	f.purchase(t, b, "4", "2.50", day1)
	f.sale(t, a, "3", "9.00", day1.Add(time.Hour))

	sum, err := f.reports.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalProducts)
	assert.Equal(t, 2, sum.TotalPurchases)
	assert.Equal(t, 1, sum.TotalSales)
	// 7*5 remaining on A plus 4*2.50 on B.
	assert.True(t, sum.StockValue.Equal(types.MustMoney("45.00")), "got %s", sum.StockValue)
}

func TestGetRecentActivity(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "A-1")
	p.MinStock = types.MustQuantity("10")
	require.NoError(t, f.store.Products().Update(context.Background(), p))

	for i := 0; i < 7; i++ {
		f.purchase(t, p, "1", "2.00", day1.Add(time.Duration(i)*time.Hour))
	}
	f.sale(t, p, "2", "5.00", day1.Add(8*time.Hour))

	act, err := f.reports.GetRecentActivity(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, act.Purchases, 5)
	assert.Len(t, act.Sales, 1)

	// Newest purchase first.
	assert.Equal(t, day1.Add(6*time.Hour), act.Purchases[0].OccurredAt)

	// Stock 5 <= min 10, so the product shows up as low.
	require.Len(t, act.LowStock, 1)
	assert.Equal(t, p.ID, act.LowStock[0].ID)
}

func TestGetRecentActivity_LimitClamped(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "A-1")
	for i := 0; i < 8; i++ {
		f.purchase(t, p, "1", "2.00", day1.Add(time.Duration(i)*time.Hour))
	}

	act, err := f.reports.GetRecentActivity(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, act.Purchases, 5)
}
