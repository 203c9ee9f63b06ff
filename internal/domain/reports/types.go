// Package reports provides read-only valuation and reporting over the ledger.
// Everything here is derived on demand from ledger state, never stored.
package reports

import (
	"time"

	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
)

// Valuation is the FIFO stock value of a single product.
type Valuation struct {
	ProductID  id.ID          `json:"productId"`
	Quantity   types.Quantity `json:"quantity"`
	StockValue types.Money    `json:"stockValue"`
}

// ProfitLoss summarizes sales against realized FIFO cost for a period.
type ProfitLoss struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Revenue     types.Money `json:"revenue"`
	Cost        types.Money `json:"cost"`
	GrossProfit types.Money `json:"grossProfit"`

	// TotalPurchases is the value of stock bought in the period.
	TotalPurchases types.Money `json:"totalPurchases"`

	SalesCount int `json:"salesCount"`
}

// Summary carries dashboard counters.
type Summary struct {
	TotalProducts  int         `json:"totalProducts"`
	TotalPurchases int         `json:"totalPurchases"`
	TotalSales     int         `json:"totalSales"`
	StockValue     types.Money `json:"stockValue"`
}

// Counts holds raw entity counts from the store.
type Counts struct {
	Products  int
	Purchases int
	Sales     int
}

// RecentActivity lists the latest ledger entries for the dashboard.
type RecentActivity struct {
	Purchases []*ledger.PurchaseLot `json:"purchases"`
	Sales     []*ledger.Sale        `json:"sales"`
	LowStock  []*product.Product    `json:"lowStock"`
}
