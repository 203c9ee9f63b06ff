// Package ledger_repo provides PostgreSQL implementations for the FIFO
// ledger repositories: purchase lots, sales and the movement trail.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/infrastructure/storage/postgres"
)

const purchaseLotsTable = "purchase_lots"

var purchaseLotColumns = []string{
	"id", "version", "created_at", "updated_at", "created_by",
	"product_id", "occurred_at", "quantity", "unit_price", "remaining",
}

// LotRepo implements ledger.LotRepository.
type LotRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewLotRepo creates a new purchase lot repository.
func NewLotRepo(txManager *postgres.TxManager) *LotRepo {
	return &LotRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new purchase lot.
func (r *LotRepo) Create(ctx context.Context, lot *ledger.PurchaseLot) error {
	q := r.builder.Insert(purchaseLotsTable).
		Columns(purchaseLotColumns...).
		Values(
			lot.ID, lot.Version, lot.CreatedAt, lot.UpdatedAt, lot.CreatedBy,
			lot.ProductID, lot.OccurredAt, lot.Quantity, lot.UnitPrice, lot.Remaining,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase lot: %w", err)
	}

	return nil
}

// GetByID retrieves a lot by ID.
func (r *LotRepo) GetByID(ctx context.Context, lotID id.ID) (*ledger.PurchaseLot, error) {
	q := r.builder.Select(purchaseLotColumns...).
		From(purchaseLotsTable).
		Where(squirrel.Eq{"id": lotID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lot ledger.PurchaseLot
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &lot, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", lotID.String())
		}
		return nil, fmt.Errorf("get purchase lot: %w", err)
	}

	return &lot, nil
}

// ListOpenByProduct returns lots with remaining stock in consumption order:
// occurred_at ascending, ties broken by id (time-ordered UUIDs).
func (r *LotRepo) ListOpenByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
	q := r.builder.Select(purchaseLotColumns...).
		From(purchaseLotsTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Gt{"remaining": 0}).
		OrderBy("occurred_at ASC", "id ASC")

	return r.selectLots(ctx, q)
}

// ListByProduct returns every lot on file for the product, newest first.
func (r *LotRepo) ListByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
	q := r.builder.Select(purchaseLotColumns...).
		From(purchaseLotsTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("occurred_at DESC", "id DESC")

	return r.selectLots(ctx, q)
}

// UpdateRemaining persists a lot's unsold portion after allocation or restore.
func (r *LotRepo) UpdateRemaining(ctx context.Context, lotID id.ID, remaining types.Quantity) error {
	q := r.builder.Update(purchaseLotsTable).
		Set("remaining", remaining).
		Where(squirrel.Eq{"id": lotID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase", lotID.String())
	}

	return nil
}

// Delete removes a purchase lot.
func (r *LotRepo) Delete(ctx context.Context, lotID id.ID) error {
	q := r.builder.Delete(purchaseLotsTable).Where(squirrel.Eq{"id": lotID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete purchase lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase", lotID.String())
	}

	return nil
}

// SumRemainingByProduct derives true stock from lot remainders.
func (r *LotRepo) SumRemainingByProduct(ctx context.Context, productID id.ID) (types.Quantity, error) {
	sql := `SELECT COALESCE(SUM(remaining), 0) FROM purchase_lots WHERE product_id = $1`

	var sum types.Quantity
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum remaining: %w", err)
	}

	return sum, nil
}

// CountByProduct returns the number of lots referencing the product.
func (r *LotRepo) CountByProduct(ctx context.Context, productID id.ID) (int, error) {
	sql := `SELECT COUNT(*) FROM purchase_lots WHERE product_id = $1`

	var count int
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count purchase lots: %w", err)
	}

	return count, nil
}

func (r *LotRepo) selectLots(ctx context.Context, q squirrel.SelectBuilder) ([]*ledger.PurchaseLot, error) {
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
