package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/infrastructure/storage/postgres"
)

const salesTable = "sales"

var saleColumns = []string{
	"id", "version", "created_at", "updated_at", "created_by",
	"product_id", "occurred_at", "quantity", "selling_price", "cost_price",
}

// SaleRepo implements ledger.SaleRepository.
type SaleRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new sale.
func (r *SaleRepo) Create(ctx context.Context, sale *ledger.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns(saleColumns...).
		Values(
			sale.ID, sale.Version, sale.CreatedAt, sale.UpdatedAt, sale.CreatedBy,
			sale.ProductID, sale.OccurredAt, sale.Quantity, sale.SellingPrice, sale.CostPrice,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

// GetByID retrieves a sale by ID.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*ledger.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sale ledger.Sale
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	return &sale, nil
}

// Delete removes a sale.
func (r *SaleRepo) Delete(ctx context.Context, saleID id.ID) error {
	q := r.builder.Delete(salesTable).Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}

	return nil
}

// CountByProduct returns the number of sales referencing the product.
func (r *SaleRepo) CountByProduct(ctx context.Context, productID id.ID) (int, error) {
	sql := `SELECT COUNT(*) FROM sales WHERE product_id = $1`

	var count int
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}

	return count, nil
}
