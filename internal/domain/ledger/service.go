package ledger

import (
	"context"
	"fmt"
	"time"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/tx"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/pkg/logger"
)

// Service orchestrates the full lifecycle of purchases and sales. Every
// operation runs as one unit of work: it locks the product row first (so
// writers on the same product serialize), mutates lots, the cached stock and
// the movement trail together, and commits or rolls back as a whole.
type Service struct {
	products  product.Repository
	lots      LotRepository
	sales     SaleRepository
	movements MovementRepository
	txManager tx.Manager
}

// NewService creates the Inventory Ledger Service.
func NewService(
	products product.Repository,
	lots LotRepository,
	sales SaleRepository,
	movements MovementRepository,
	txManager tx.Manager,
) *Service {
	return &Service{
		products:  products,
		lots:      lots,
		sales:     sales,
		movements: movements,
		txManager: txManager,
	}
}

// PurchaseInput carries a purchase entry.
type PurchaseInput struct {
	ProductID  id.ID
	Quantity   types.Quantity
	UnitPrice  types.Money
	OccurredAt time.Time
	Actor      string
}

// SaleInput carries a sale entry.
type SaleInput struct {
	ProductID    id.ID
	Quantity     types.Quantity
	SellingPrice types.Money
	OccurredAt   time.Time
	Actor        string
}

// RecordPurchase creates a purchase lot, bumps the cached product stock and
// writes the inflow movement, atomically.
func (s *Service) RecordPurchase(ctx context.Context, in PurchaseInput) (*PurchaseLot, error) {
	if !in.Quantity.IsPositive() {
		return nil, apperror.NewInvalidQuantity("quantity", in.Quantity.String())
	}
	if !in.UnitPrice.IsPositive() {
		return nil, apperror.NewInvalidQuantity("unit_price", in.UnitPrice.String())
	}

	var lot *PurchaseLot
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		lot = NewPurchaseLot(p.ID, in.Quantity, in.UnitPrice, in.OccurredAt, in.Actor)
		if err := s.lots.Create(ctx, lot); err != nil {
			return fmt.Errorf("create lot: %w", err)
		}

		lotID := lot.ID
		movement := NewStockMovement(
			p.ID, &lotID, lot.ID,
			MovementKindPurchase, in.Quantity, in.UnitPrice, lot.OccurredAt,
		)
		if err := s.movements.CreateBatch(ctx, []StockMovement{movement}); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}

		if err := s.products.UpdateStock(ctx, p.ID, p.Stock+in.Quantity); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase recorded",
		"purchase_id", lot.ID,
		"product_id", in.ProductID,
		"quantity", in.Quantity,
		"unit_price", in.UnitPrice,
	)
	return lot, nil
}

// RecordSale allocates the requested quantity across purchase lots oldest
// first, persists the per-lot decrements, the sale (with its realized FIFO
// cost) and one outflow movement per touched lot, atomically. Nothing is
// written when the allocation fails.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (*Sale, error) {
	if !in.Quantity.IsPositive() {
		return nil, apperror.NewInvalidQuantity("quantity", in.Quantity.String())
	}
	if !in.SellingPrice.IsPositive() {
		return nil, apperror.NewInvalidQuantity("selling_price", in.SellingPrice.String())
	}

	var sale *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		if p.Stock < in.Quantity {
			return apperror.NewInsufficientStock(p.ID.String(), in.Quantity.String(), p.Stock.String())
		}

		open, err := s.lots.ListOpenByProduct(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list open lots: %w", err)
		}

		// The cached aggregate and the lot remainders must agree before we
		// trust either; drift means a prior bug and must surface, not heal.
		derived := SumRemaining(open)
		if derived != p.Stock {
			return apperror.NewConsistencyFault(p.ID.String(), p.Stock.String(), derived.String())
		}

		alloc, err := Allocate(open, in.Quantity)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeInsufficientStock {
				appErr.WithDetail("product_id", p.ID.String())
			}
			return err
		}

		sale = NewSale(p.ID, in.Quantity, in.SellingPrice, alloc.UnitCost, in.OccurredAt, in.Actor)
		if err := s.sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		movements := make([]StockMovement, 0, len(alloc.Lines))
		for _, line := range alloc.Lines {
			if err := s.lots.UpdateRemaining(ctx, line.Lot.ID, line.Lot.Remaining-line.Quantity); err != nil {
				return fmt.Errorf("update lot %s: %w", line.Lot.ID, err)
			}
			lotID := line.Lot.ID
			movements = append(movements, NewStockMovement(
				p.ID, &lotID, sale.ID,
				MovementKindSale, line.Quantity.Neg(), line.UnitCost, sale.OccurredAt,
			))
		}
		if err := s.movements.CreateBatch(ctx, movements); err != nil {
			return fmt.Errorf("create movements: %w", err)
		}

		if err := s.products.UpdateStock(ctx, p.ID, p.Stock-in.Quantity); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"product_id", in.ProductID,
		"quantity", in.Quantity,
		"cost_price", sale.CostPrice,
	)
	return sale, nil
}

// ReversePurchase deletes a purchase lot, its movement and the stock it
// contributed. Rejected with LotPartiallyConsumed when sales already took
// part of the lot: deleting it would falsify the FIFO cost history of those
// sales.
func (s *Service) ReversePurchase(ctx context.Context, purchaseID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		lot, err := s.lots.GetByID(ctx, purchaseID)
		if err != nil {
			return err
		}

		p, err := s.products.GetForUpdate(ctx, lot.ProductID)
		if err != nil {
			return err
		}

		if lot.Consumed() {
			return apperror.NewLotPartiallyConsumed(lot.ID.String(), lot.Remaining.String(), lot.Quantity.String())
		}

		if err := s.movements.DeleteByRecorder(ctx, lot.ID); err != nil {
			return fmt.Errorf("delete movements: %w", err)
		}
		if err := s.lots.Delete(ctx, lot.ID); err != nil {
			return fmt.Errorf("delete lot: %w", err)
		}
		if err := s.products.UpdateStock(ctx, p.ID, p.Stock-lot.Quantity); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase reversed", "purchase_id", purchaseID)
	return nil
}

// ReverseSale undoes the exact allocation a sale performed, driven strictly
// by that sale's movement trail: each touched lot gets back precisely the
// quantity the sale took from it. A fresh FIFO run would restore different
// lots whenever later purchases or sales changed the picture.
func (s *Service) ReverseSale(ctx context.Context, saleID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}

		p, err := s.products.GetForUpdate(ctx, sale.ProductID)
		if err != nil {
			return err
		}

		trail, err := s.movements.ListByRecorder(ctx, sale.ID)
		if err != nil {
			return fmt.Errorf("load movement trail: %w", err)
		}

		for _, m := range trail {
			if m.PurchaseLotID == nil {
				return apperror.NewConsistencyFault(p.ID.String(), p.Stock.String(), "").
					WithDetail("movement_id", m.ID.String()).
					WithDetail("reason", "sale movement without originating lot")
			}

			lot, err := s.lots.GetByID(ctx, *m.PurchaseLotID)
			if err != nil {
				return fmt.Errorf("load lot %s: %w", *m.PurchaseLotID, err)
			}

			// Movement quantity is negative for sales; restoring adds it back.
			restored := lot.Remaining + m.Quantity.Abs()
			if restored > lot.Quantity {
				return apperror.NewConsistencyFault(p.ID.String(), p.Stock.String(), "").
					WithDetail("purchase_id", lot.ID.String()).
					WithDetail("reason", "restore would exceed lot quantity")
			}
			if err := s.lots.UpdateRemaining(ctx, lot.ID, restored); err != nil {
				return fmt.Errorf("restore lot %s: %w", lot.ID, err)
			}
		}

		if err := s.movements.DeleteByRecorder(ctx, sale.ID); err != nil {
			return fmt.Errorf("delete movements: %w", err)
		}
		if err := s.sales.Delete(ctx, sale.ID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		if err := s.products.UpdateStock(ctx, p.ID, p.Stock+sale.Quantity); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale reversed", "sale_id", saleID)
	return nil
}

// Reconciliation is the result of a cached-vs-derived stock check.
type Reconciliation struct {
	ProductID    id.ID          `json:"productId"`
	CachedStock  types.Quantity `json:"cachedStock"`
	DerivedStock types.Quantity `json:"derivedStock"`
	InSync       bool           `json:"inSync"`
}

// Reconcile compares the cached product stock with the sum of lot remainders.
// Drift is reported, never healed: overwriting either side would hide the bug
// that caused it.
func (s *Service) Reconcile(ctx context.Context, productID id.ID) (*Reconciliation, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	derived, err := s.lots.SumRemainingByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("sum remaining: %w", err)
	}

	rec := &Reconciliation{
		ProductID:    productID,
		CachedStock:  p.Stock,
		DerivedStock: derived,
		InSync:       p.Stock == derived,
	}
	if !rec.InSync {
		logger.Warn(ctx, "stock drift detected",
			"product_id", productID,
			"cached", p.Stock,
			"derived", derived,
		)
	}
	return rec, nil
}

// GetPurchase retrieves a purchase lot.
func (s *Service) GetPurchase(ctx context.Context, purchaseID id.ID) (*PurchaseLot, error) {
	return s.lots.GetByID(ctx, purchaseID)
}

// GetSale retrieves a sale.
func (s *Service) GetSale(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.sales.GetByID(ctx, saleID)
}

// ListPurchases returns a product's lots, newest first.
func (s *Service) ListPurchases(ctx context.Context, productID id.ID) ([]*PurchaseLot, error) {
	return s.lots.ListByProduct(ctx, productID)
}

// MovementHistory returns a product's movement trail, newest first.
func (s *Service) MovementHistory(ctx context.Context, productID id.ID, limit int) ([]StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.movements.ListByProduct(ctx, productID, limit)
}

// ProductInUse implements product.UsageChecker: a product with lots or sales
// on file cannot be deleted.
func (s *Service) ProductInUse(ctx context.Context, productID id.ID) (bool, error) {
	lots, err := s.lots.CountByProduct(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("count lots: %w", err)
	}
	if lots > 0 {
		return true, nil
	}

	sales, err := s.sales.CountByProduct(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("count sales: %w", err)
	}
	return sales > 0, nil
}
