// Package report_repo provides PostgreSQL read models for reporting.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fifostock/internal/core/id"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/domain/reports"
	"fifostock/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository. All queries are plain reads;
// the service layer owns valuation arithmetic.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var lotColumns = []string{
	"id", "version", "created_at", "updated_at", "created_by",
	"product_id", "occurred_at", "quantity", "unit_price", "remaining",
}

var saleColumns = []string{
	"id", "version", "created_at", "updated_at", "created_by",
	"product_id", "occurred_at", "quantity", "selling_price", "cost_price",
}

var productColumns = []string{
	"id", "version", "code", "name", "unit",
	"stock", "min_stock", "created_at", "updated_at",
}

// OpenLotsByProduct returns lots with remaining stock in FIFO order.
func (r *ReportRepo) OpenLotsByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
	q := r.builder.Select(lotColumns...).
		From("purchase_lots").
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Gt{"remaining": 0}).
		OrderBy("occurred_at ASC", "id ASC")

	return r.selectLots(ctx, q)
}

// LotsByProduct returns every lot on file for the product, oldest first.
func (r *ReportRepo) LotsByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
	q := r.builder.Select(lotColumns...).
		From("purchase_lots").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("occurred_at ASC", "id ASC")

	return r.selectLots(ctx, q)
}

// SalesInPeriod returns sales with occurred_at in [from, to].
func (r *ReportRepo) SalesInPeriod(ctx context.Context, from, to time.Time) ([]*ledger.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From("sales").
		Where(squirrel.GtOrEq{"occurred_at": from}).
		Where(squirrel.LtOrEq{"occurred_at": to}).
		OrderBy("occurred_at ASC", "id ASC")

	return r.selectSales(ctx, q)
}

// PurchasesInPeriod returns lots with occurred_at in [from, to].
func (r *ReportRepo) PurchasesInPeriod(ctx context.Context, from, to time.Time) ([]*ledger.PurchaseLot, error) {
	q := r.builder.Select(lotColumns...).
		From("purchase_lots").
		Where(squirrel.GtOrEq{"occurred_at": from}).
		Where(squirrel.LtOrEq{"occurred_at": to}).
		OrderBy("occurred_at ASC", "id ASC")

	return r.selectLots(ctx, q)
}

// Counts returns entity totals for the dashboard in a single round-trip.
func (r *ReportRepo) Counts(ctx context.Context) (reports.Counts, error) {
	sql := `
		SELECT
			(SELECT COUNT(*) FROM products)      AS products,
			(SELECT COUNT(*) FROM purchase_lots) AS purchases,
			(SELECT COUNT(*) FROM sales)         AS sales
	`

	var counts reports.Counts
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql).Scan(&counts.Products, &counts.Purchases, &counts.Sales)
	if err != nil {
		return counts, fmt.Errorf("count entities: %w", err)
	}

	return counts, nil
}

// AllProducts returns every product ordered by code.
func (r *ReportRepo) AllProducts(ctx context.Context) ([]*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From("products").
		OrderBy("code ASC")

	return r.selectProducts(ctx, q)
}

// LowStockProducts returns products at or below their reorder threshold,
// lowest stock first.
func (r *ReportRepo) LowStockProducts(ctx context.Context, limit int) ([]*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From("products").
		Where(squirrel.Gt{"min_stock": 0}).
		Where("stock <= min_stock").
		OrderBy("stock ASC", "code ASC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return r.selectProducts(ctx, q)
}

// RecentPurchases returns the latest purchase lots.
func (r *ReportRepo) RecentPurchases(ctx context.Context, limit int) ([]*ledger.PurchaseLot, error) {
	q := r.builder.Select(lotColumns...).
		From("purchase_lots").
		OrderBy("occurred_at DESC", "id DESC").
		Limit(uint64(limit))

	return r.selectLots(ctx, q)
}

// RecentSales returns the latest sales.
func (r *ReportRepo) RecentSales(ctx context.Context, limit int) ([]*ledger.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From("sales").
		OrderBy("occurred_at DESC", "id DESC").
		Limit(uint64(limit))

	return r.selectSales(ctx, q)
}

func (r *ReportRepo) selectLots(ctx context.Context, q squirrel.SelectBuilder) ([]*ledger.PurchaseLot, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lots []*ledger.PurchaseLot
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lots, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchase lots: %w", err)
	}

	return lots, nil
}

func (r *ReportRepo) selectSales(ctx context.Context, q squirrel.SelectBuilder) ([]*ledger.Sale, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []*ledger.Sale
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sales, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}

	return sales, nil
}

func (r *ReportRepo) selectProducts(ctx context.Context, q squirrel.SelectBuilder) ([]*product.Product, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	return items, nil
}
