package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fifostock/internal/core/id"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/infrastructure/storage/postgres"
)

const stockMovementsTable = "stock_movements"

var movementColumns = []string{
	"id", "product_id", "purchase_lot_id", "recorder_id", "kind",
	"quantity", "unit_price", "occurred_at", "created_at",
}

// MovementRepo implements ledger.MovementRepository.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewMovementRepo creates a new stock movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateBatch inserts the movements produced by one recording transaction.
// Uses COPY when a transaction is open, which is the normal path.
func (r *MovementRepo) CreateBatch(ctx context.Context, movements []ledger.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.ID, m.ProductID, m.PurchaseLotID, m.RecorderID, m.Kind,
				m.Quantity, m.UnitPrice, m.OccurredAt, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: multi-row insert outside a transaction.
	q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(
			m.ID, m.ProductID, m.PurchaseLotID, m.RecorderID, m.Kind,
			m.Quantity, m.UnitPrice, m.OccurredAt, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// ListByRecorder returns the movements produced by one purchase or sale,
// in creation order. Reversal replays this exact set.
func (r *MovementRepo) ListByRecorder(ctx context.Context, recorderID id.ID) ([]ledger.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at ASC", "id ASC")

	return r.selectMovements(ctx, q)
}

// DeleteByRecorder removes movements strictly scoped to one transaction.
// Movements of any other purchase or sale are untouched.
func (r *MovementRepo) DeleteByRecorder(ctx context.Context, recorderID id.ID) error {
	q := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	return nil
}

// ListByProduct returns a product's movement history, newest first.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID id.ID, limit int) ([]ledger.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC", "id DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return r.selectMovements(ctx, q)
}

func (r *MovementRepo) selectMovements(ctx context.Context, q squirrel.SelectBuilder) ([]ledger.StockMovement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}
