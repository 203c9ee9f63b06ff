package dto

import (
	"time"

	"fifostock/internal/core/types"
	"fifostock/internal/domain/ledger"
)

// RecordPurchaseRequest for recording a purchase lot.
type RecordPurchaseRequest struct {
	ProductID  string         `json:"productId" binding:"required"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	UnitPrice  types.Money    `json:"unitPrice" binding:"required"`
	OccurredAt *time.Time     `json:"occurredAt,omitempty"`
}

// RecordSaleRequest for recording a sale.
type RecordSaleRequest struct {
	ProductID    string         `json:"productId" binding:"required"`
	Quantity     types.Quantity `json:"quantity" binding:"required"`
	SellingPrice types.Money    `json:"sellingPrice" binding:"required"`
	OccurredAt   *time.Time     `json:"occurredAt,omitempty"`
}

// PurchaseResponse is the public view of a purchase lot.
type PurchaseResponse struct {
	ID         string         `json:"id"`
	ProductID  string         `json:"productId"`
	Quantity   types.Quantity `json:"quantity"`
	UnitPrice  types.Money    `json:"unitPrice"`
	Remaining  types.Quantity `json:"remaining"`
	OccurredAt time.Time      `json:"occurredAt"`
	CreatedAt  time.Time      `json:"createdAt"`
	CreatedBy  string         `json:"createdBy,omitempty"`
}

// FromPurchaseLot converts a domain lot.
func FromPurchaseLot(lot *ledger.PurchaseLot) PurchaseResponse {
	return PurchaseResponse{
		ID:         lot.ID.String(),
		ProductID:  lot.ProductID.String(),
		Quantity:   lot.Quantity,
		UnitPrice:  lot.UnitPrice,
		Remaining:  lot.Remaining,
		OccurredAt: lot.OccurredAt,
		CreatedAt:  lot.CreatedAt,
		CreatedBy:  lot.CreatedBy,
	}
}

// FromPurchaseLots converts a slice of domain lots.
func FromPurchaseLots(lots []*ledger.PurchaseLot) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, FromPurchaseLot(lot))
	}
	return out
}

// SaleResponse is the public view of a sale.
type SaleResponse struct {
	ID           string         `json:"id"`
	ProductID    string         `json:"productId"`
	Quantity     types.Quantity `json:"quantity"`
	SellingPrice types.Money    `json:"sellingPrice"`
	CostPrice    types.Money    `json:"costPrice"`
	Revenue      types.Money    `json:"revenue"`
	Profit       types.Money    `json:"profit"`
	OccurredAt   time.Time      `json:"occurredAt"`
	CreatedAt    time.Time      `json:"createdAt"`
	CreatedBy    string         `json:"createdBy,omitempty"`
}

// FromSale converts a domain sale.
func FromSale(sale *ledger.Sale) SaleResponse {
	revenue := sale.Revenue()
	return SaleResponse{
		ID:           sale.ID.String(),
		ProductID:    sale.ProductID.String(),
		Quantity:     sale.Quantity,
		SellingPrice: sale.SellingPrice,
		CostPrice:    sale.CostPrice,
		Revenue:      revenue,
		Profit:       revenue.Sub(sale.Cost()),
		OccurredAt:   sale.OccurredAt,
		CreatedAt:    sale.CreatedAt,
		CreatedBy:    sale.CreatedBy,
	}
}

// FromSales converts a slice of domain sales.
func FromSales(sales []*ledger.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, FromSale(sale))
	}
	return out
}

// MovementResponse is one row of a product's movement trail.
type MovementResponse struct {
	ID            string         `json:"id"`
	ProductID     string         `json:"productId"`
	PurchaseLotID *string        `json:"purchaseLotId,omitempty"`
	RecorderID    string         `json:"recorderId"`
	Kind          string         `json:"kind"`
	Quantity      types.Quantity `json:"quantity"`
	UnitPrice     types.Money    `json:"unitPrice"`
	OccurredAt    time.Time      `json:"occurredAt"`
}

// FromMovements converts a movement trail.
func FromMovements(movements []ledger.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		resp := MovementResponse{
			ID:         m.ID.String(),
			ProductID:  m.ProductID.String(),
			RecorderID: m.RecorderID.String(),
			Kind:       string(m.Kind),
			Quantity:   m.Quantity,
			UnitPrice:  m.UnitPrice,
			OccurredAt: m.OccurredAt,
		}
		if m.PurchaseLotID != nil {
			lotID := m.PurchaseLotID.String()
			resp.PurchaseLotID = &lotID
		}
		out = append(out, resp)
	}
	return out
}
