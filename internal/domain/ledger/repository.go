package ledger

import (
	"context"

	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
)

// LotRepository defines persistence operations for purchase lots.
type LotRepository interface {
	Create(ctx context.Context, lot *PurchaseLot) error

	GetByID(ctx context.Context, lotID id.ID) (*PurchaseLot, error)

	// ListOpenByProduct returns lots with Remaining > 0, ordered by
	// OccurredAt ascending then ID ascending (the FIFO order).
	ListOpenByProduct(ctx context.Context, productID id.ID) ([]*PurchaseLot, error)

	// ListByProduct returns all of the product's lots, newest first.
	ListByProduct(ctx context.Context, productID id.ID) ([]*PurchaseLot, error)

	// UpdateRemaining persists an allocation decrement (or reversal restore)
	// for a single lot.
	UpdateRemaining(ctx context.Context, lotID id.ID, remaining types.Quantity) error

	Delete(ctx context.Context, lotID id.ID) error

	// SumRemainingByProduct derives the product's true stock from lot
	// remainders, independent of the cached aggregate.
	SumRemainingByProduct(ctx context.Context, productID id.ID) (types.Quantity, error)

	CountByProduct(ctx context.Context, productID id.ID) (int, error)
}

// SaleRepository defines persistence operations for sales.
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error

	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	Delete(ctx context.Context, saleID id.ID) error

	CountByProduct(ctx context.Context, productID id.ID) (int, error)
}

// MovementRepository defines persistence operations for the immutable
// stock movement trail.
type MovementRepository interface {
	// CreateBatch inserts movements produced by one recording transaction.
	CreateBatch(ctx context.Context, movements []StockMovement) error

	// ListByRecorder returns the movements produced by a specific purchase or
	// sale, in creation order. Reversal replays this exact set.
	ListByRecorder(ctx context.Context, recorderID id.ID) ([]StockMovement, error)

	// DeleteByRecorder removes movements strictly scoped to one transaction.
	DeleteByRecorder(ctx context.Context, recorderID id.ID) error

	// ListByProduct returns a product's movement history, newest first.
	ListByProduct(ctx context.Context, productID id.ID, limit int) ([]StockMovement, error)
}
