package memory

import (
	"context"
	"sort"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/ledger"
)

// LotRepo implements ledger.LotRepository over the shared store.
type LotRepo struct {
	store *Store
}

var _ ledger.LotRepository = (*LotRepo)(nil)

func (r *LotRepo) Create(ctx context.Context, lot *ledger.PurchaseLot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.lots[lot.ID] = *lot
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, lotID id.ID) (*ledger.PurchaseLot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	lot, ok := r.store.lots[lotID]
	if !ok {
		return nil, apperror.NewNotFound("purchase", lotID.String())
	}
	return &lot, nil
}

func (r *LotRepo) ListOpenByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var lots []*ledger.PurchaseLot
	for _, lot := range r.store.lots {
		if lot.ProductID == productID && lot.Remaining > 0 {
			l := lot
			lots = append(lots, &l)
		}
	}
	sortLotsFIFO(lots)
	return lots, nil
}

func (r *LotRepo) ListByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var lots []*ledger.PurchaseLot
	for _, lot := range r.store.lots {
		if lot.ProductID == productID {
			l := lot
			lots = append(lots, &l)
		}
	}
	sortLotsFIFO(lots)
	// Newest first.
	for i, j := 0, len(lots)-1; i < j; i, j = i+1, j-1 {
		lots[i], lots[j] = lots[j], lots[i]
	}
	return lots, nil
}

func (r *LotRepo) UpdateRemaining(ctx context.Context, lotID id.ID, remaining types.Quantity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	lot, ok := r.store.lots[lotID]
	if !ok {
		return apperror.NewNotFound("purchase", lotID.String())
	}
	lot.Remaining = remaining
	r.store.lots[lotID] = lot
	return nil
}

func (r *LotRepo) Delete(ctx context.Context, lotID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.lots[lotID]; !ok {
		return apperror.NewNotFound("purchase", lotID.String())
	}
	delete(r.store.lots, lotID)
	return nil
}

func (r *LotRepo) SumRemainingByProduct(ctx context.Context, productID id.ID) (types.Quantity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var sum types.Quantity
	for _, lot := range r.store.lots {
		if lot.ProductID == productID {
			sum += lot.Remaining
		}
	}
	return sum, nil
}

func (r *LotRepo) CountByProduct(ctx context.Context, productID id.ID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, lot := range r.store.lots {
		if lot.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func sortLotsFIFO(lots []*ledger.PurchaseLot) {
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].OccurredAt.Equal(lots[j].OccurredAt) {
			return lots[i].OccurredAt.Before(lots[j].OccurredAt)
		}
		return lots[i].ID.String() < lots[j].ID.String()
	})
}

// SaleRepo implements ledger.SaleRepository over the shared store.
type SaleRepo struct {
	store *Store
}

var _ ledger.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, sale *ledger.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sales[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*ledger.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sale, ok := r.store.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	return &sale, nil
}

func (r *SaleRepo) Delete(ctx context.Context, saleID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sales[saleID]; !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	delete(r.store.sales, saleID)
	return nil
}

func (r *SaleRepo) CountByProduct(ctx context.Context, productID id.ID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, sale := range r.store.sales {
		if sale.ProductID == productID {
			count++
		}
	}
	return count, nil
}

// MovementRepo implements ledger.MovementRepository over the shared store.
type MovementRepo struct {
	store *Store
}

var _ ledger.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) CreateBatch(ctx context.Context, movements []ledger.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movements = append(r.store.movements, movements...)
	return nil
}

func (r *MovementRepo) ListByRecorder(ctx context.Context, recorderID id.ID) ([]ledger.StockMovement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []ledger.StockMovement
	for _, m := range r.store.movements {
		if m.RecorderID == recorderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MovementRepo) DeleteByRecorder(ctx context.Context, recorderID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.movements[:0]
	for _, m := range r.store.movements {
		if m.RecorderID != recorderID {
			kept = append(kept, m)
		}
	}
	r.store.movements = kept
	return nil
}

func (r *MovementRepo) ListByProduct(ctx context.Context, productID id.ID, limit int) ([]ledger.StockMovement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []ledger.StockMovement
	// Insertion order is creation order; walk backwards for newest first.
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if m.ProductID != productID {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
