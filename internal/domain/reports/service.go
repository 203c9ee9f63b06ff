package reports

import (
	"context"
	"fmt"
	"time"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
)

// Service is the valuation/reporting engine. All queries recompute from
// ledger state on demand; O(lots) per product is accepted by design.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// StockValue values the product's unsold stock at FIFO cost: the sum of
// remaining * unit price over its open lots. This is a fresh walk, never a
// cached total.
func (s *Service) StockValue(ctx context.Context, productID id.ID) (*Valuation, error) {
	lots, err := s.repo.OpenLotsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("open lots: %w", err)
	}

	value := types.Zero()
	var quantity types.Quantity
	for _, lot := range lots {
		value = value.Add(lot.UnitPrice.Mul(lot.Remaining.Decimal()))
		quantity += lot.Remaining
	}

	return &Valuation{
		ProductID:  productID,
		Quantity:   quantity,
		StockValue: value,
	}, nil
}

// AveragePurchasePrice returns the quantity-weighted average unit price
// across all of the product's purchase lots, regardless of how much of each
// remains. This is a distinct metric from FIFO stock value.
func (s *Service) AveragePurchasePrice(ctx context.Context, productID id.ID) (types.Money, error) {
	lots, err := s.repo.LotsByProduct(ctx, productID)
	if err != nil {
		return types.Zero(), fmt.Errorf("lots: %w", err)
	}
	if len(lots) == 0 {
		return types.Zero(), nil
	}

	totalValue := types.Zero()
	var totalQty types.Quantity
	for _, lot := range lots {
		totalValue = totalValue.Add(lot.UnitPrice.Mul(lot.Quantity.Decimal()))
		totalQty += lot.Quantity
	}
	if totalQty.IsZero() {
		return types.Zero(), nil
	}

	return totalValue.Div(totalQty.Decimal()), nil
}

// ProfitForPeriod sums revenue and realized FIFO cost over sales in
// [from, to]. Period boundaries (day, month, year) are the caller's concern.
func (s *Service) ProfitForPeriod(ctx context.Context, from, to time.Time) (*ProfitLoss, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperror.NewValidation("from and to are required")
	}
	if from.After(to) {
		return nil, apperror.NewValidation("from must be before to")
	}

	sales, err := s.repo.SalesInPeriod(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales in period: %w", err)
	}

	revenue := types.Zero()
	cost := types.Zero()
	for _, sale := range sales {
		revenue = revenue.Add(sale.Revenue())
		cost = cost.Add(sale.Cost())
	}

	purchases, err := s.repo.PurchasesInPeriod(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("purchases in period: %w", err)
	}
	totalPurchases := types.Zero()
	for _, lot := range purchases {
		totalPurchases = totalPurchases.Add(lot.UnitPrice.Mul(lot.Quantity.Decimal()))
	}

	return &ProfitLoss{
		From:           from,
		To:             to,
		Revenue:        revenue,
		Cost:           cost,
		GrossProfit:    revenue.Sub(cost),
		TotalPurchases: totalPurchases,
		SalesCount:     len(sales),
	}, nil
}

// GetSummary returns dashboard counters plus the FIFO value of all stock.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}

	products, err := s.repo.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}

	total := types.Zero()
	for _, p := range products {
		v, err := s.StockValue(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		total = total.Add(v.StockValue)
	}

	return &Summary{
		TotalProducts:  counts.Products,
		TotalPurchases: counts.Purchases,
		TotalSales:     counts.Sales,
		StockValue:     total,
	}, nil
}

// GetRecentActivity returns the latest purchases, sales and low-stock items.
func (s *Service) GetRecentActivity(ctx context.Context, limit int) (*RecentActivity, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	purchases, err := s.repo.RecentPurchases(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent purchases: %w", err)
	}
	sales, err := s.repo.RecentSales(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sales: %w", err)
	}
	lowStock, err := s.repo.LowStockProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	return &RecentActivity{
		Purchases: purchases,
		Sales:     sales,
		LowStock:  lowStock,
	}, nil
}
