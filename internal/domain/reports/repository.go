package reports

import (
	"context"
	"time"

	"fifostock/internal/core/id"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
)

// Repository defines report data access. Implementations return raw entities;
// the service owns all arithmetic so valuation stays in one place.
type Repository interface {
	// OpenLotsByProduct returns lots with remaining stock, FIFO order.
	OpenLotsByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error)

	// LotsByProduct returns every lot on file for the product.
	LotsByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error)

	// SalesInPeriod returns sales with occurred_at in [from, to].
	SalesInPeriod(ctx context.Context, from, to time.Time) ([]*ledger.Sale, error)

	// PurchasesInPeriod returns lots with occurred_at in [from, to].
	PurchasesInPeriod(ctx context.Context, from, to time.Time) ([]*ledger.PurchaseLot, error)

	Counts(ctx context.Context) (Counts, error)

	AllProducts(ctx context.Context) ([]*product.Product, error)

	// LowStockProducts returns products with stock at or below their reorder
	// threshold, lowest stock first.
	LowStockProducts(ctx context.Context, limit int) ([]*product.Product, error)

	RecentPurchases(ctx context.Context, limit int) ([]*ledger.PurchaseLot, error)
	RecentSales(ctx context.Context, limit int) ([]*ledger.Sale, error)
}
