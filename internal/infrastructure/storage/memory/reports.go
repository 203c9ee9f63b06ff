package memory

import (
	"context"
	"sort"
	"time"

	"fifostock/internal/core/id"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/domain/reports"
)

// ReportRepo implements reports.Repository over the shared store.
type ReportRepo struct {
	store *Store
}

var _ reports.Repository = (*ReportRepo)(nil)

func (r *ReportRepo) OpenLotsByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
	return (&LotRepo{store: r.store}).ListOpenByProduct(ctx, productID)
}

func (r *ReportRepo) LotsByProduct(ctx context.Context, productID id.ID) ([]*ledger.PurchaseLot, error) {
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
	return lots, nil
}

func (r *ReportRepo) SalesInPeriod(ctx context.Context, from, to time.Time) ([]*ledger.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*ledger.Sale
	for _, sale := range r.store.sales {
		if inPeriod(sale.OccurredAt, from, to) {
			s := sale
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (r *ReportRepo) PurchasesInPeriod(ctx context.Context, from, to time.Time) ([]*ledger.PurchaseLot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*ledger.PurchaseLot
	for _, lot := range r.store.lots {
		if inPeriod(lot.OccurredAt, from, to) {
			l := lot
			out = append(out, &l)
		}
	}
	sortLotsFIFO(out)
	return out, nil
}

func (r *ReportRepo) Counts(ctx context.Context) (reports.Counts, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return reports.Counts{
		Products:  len(r.store.products),
		Purchases: len(r.store.lots),
		Sales:     len(r.store.sales),
	}, nil
}

func (r *ReportRepo) AllProducts(ctx context.Context) ([]*product.Product, error) {
	return (&ProductRepo{store: r.store}).List(ctx)
}

func (r *ReportRepo) LowStockProducts(ctx context.Context, limit int) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*product.Product
	for _, p := range r.store.products {
		if p.MinStock > 0 && p.Stock <= p.MinStock {
			item := p
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Code < out[j].Code
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepo) RecentPurchases(ctx context.Context, limit int) ([]*ledger.PurchaseLot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*ledger.PurchaseLot
	for _, lot := range r.store.lots {
		l := lot
		out = append(out, &l)
	}
	sortLotsFIFO(out)
	reverseLots(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepo) RecentSales(ctx context.Context, limit int) ([]*ledger.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*ledger.Sale
	for _, sale := range r.store.sales {
		s := sale
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func inPeriod(at, from, to time.Time) bool {
	return !at.Before(from) && !at.After(to)
}

func reverseLots(lots []*ledger.PurchaseLot) {
	for i, j := 0, len(lots)-1; i < j; i, j = i+1, j-1 {
		lots[i], lots[j] = lots[j], lots[i]
	}
}
