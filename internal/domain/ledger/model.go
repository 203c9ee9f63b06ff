// Package ledger implements the FIFO lot-consumption ledger: purchase lots,
// sales, the stock movement trail, and the allocation algorithm that ties
// them together.
package ledger

import (
	"context"
	"time"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/entity"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
)

// MovementKind identifies the transaction type that produced a movement.
type MovementKind string

const (
	// MovementKindPurchase is an inflow from a purchase lot (positive quantity).
	MovementKindPurchase MovementKind = "purchase"
	// MovementKindSale is an outflow from a sale allocation (negative quantity).
	MovementKindSale MovementKind = "sale"
)

// PurchaseLot is a single purchase event's inventory, tracked independently
// for FIFO costing. Remaining starts at Quantity and only decreases as sales
// consume the lot; it is restored solely by reversing those sales.
type PurchaseLot struct {
	entity.BaseDocument

	ProductID id.ID `db:"product_id" json:"productId"`

	// OccurredAt is the FIFO ordering key.
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	// Remaining is the unsold portion of the lot. Invariant: 0 <= Remaining <= Quantity.
	Remaining types.Quantity `db:"remaining" json:"remaining"`
}

// NewPurchaseLot creates a lot with Remaining initialized to Quantity.
func NewPurchaseLot(productID id.ID, quantity types.Quantity, unitPrice types.Money, occurredAt time.Time, actor string) *PurchaseLot {
	doc := entity.NewBaseDocument()
	doc.CreatedBy = actor
	if occurredAt.IsZero() {
		occurredAt = doc.CreatedAt
	}
	return &PurchaseLot{
		BaseDocument: doc,
		ProductID:    productID,
		OccurredAt:   occurredAt,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Remaining:    quantity,
	}
}

// Validate implements entity.Validatable.
func (l *PurchaseLot) Validate(ctx context.Context) error {
	if id.IsNil(l.ProductID) {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if !l.Quantity.IsPositive() {
		return apperror.NewInvalidQuantity("quantity", l.Quantity.String())
	}
	if !l.UnitPrice.IsPositive() {
		return apperror.NewInvalidQuantity("unit_price", l.UnitPrice.String())
	}
	if l.Remaining.IsNegative() || l.Remaining > l.Quantity {
		return apperror.NewValidation("remaining must be within [0, quantity]").
			WithDetail("remaining", l.Remaining.String()).
			WithDetail("quantity", l.Quantity.String())
	}
	return nil
}

// Consumed reports whether sales have taken any part of the lot.
func (l *PurchaseLot) Consumed() bool {
	return l.Remaining < l.Quantity
}

// Sale records an outflow at a selling price. CostPrice is the realized FIFO
// unit cost for the specific allocation that happened at creation time; it is
// persisted then and never recomputed (historical cost integrity).
type Sale struct {
	entity.BaseDocument

	ProductID id.ID `db:"product_id" json:"productId"`

	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	Quantity     types.Quantity `db:"quantity" json:"quantity"`
	SellingPrice types.Money    `db:"selling_price" json:"sellingPrice"`
	CostPrice    types.Money    `db:"cost_price" json:"costPrice"`
}

// NewSale creates a sale record for a completed allocation.
func NewSale(productID id.ID, quantity types.Quantity, sellingPrice, costPrice types.Money, occurredAt time.Time, actor string) *Sale {
	doc := entity.NewBaseDocument()
	doc.CreatedBy = actor
	if occurredAt.IsZero() {
		occurredAt = doc.CreatedAt
	}
	return &Sale{
		BaseDocument: doc,
		ProductID:    productID,
		OccurredAt:   occurredAt,
		Quantity:     quantity,
		SellingPrice: sellingPrice,
		CostPrice:    costPrice,
	}
}

// Revenue returns quantity * selling price.
func (s *Sale) Revenue() types.Money {
	return s.SellingPrice.Mul(s.Quantity.Decimal())
}

// Cost returns quantity * realized FIFO cost.
func (s *Sale) Cost() types.Money {
	return s.CostPrice.Mul(s.Quantity.Decimal())
}

// StockMovement is one immutable row of the audit trail. A purchase produces
// one inflow movement; a sale produces one outflow movement per lot touched,
// each priced at that lot's cost. Movements are never updated; reversing the
// recording transaction deletes them.
type StockMovement struct {
	ID id.ID `db:"id" json:"id"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// PurchaseLotID is the lot this movement touched. Set for all purchase
	// movements and for every sale movement (the consumed lot).
	PurchaseLotID *id.ID `db:"purchase_lot_id" json:"purchaseLotId,omitempty"`

	// RecorderID is the purchase lot or sale that produced this movement.
	// Reversal deletes movements strictly by recorder.
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	Kind MovementKind `db:"kind" json:"kind"`

	// Quantity is signed: positive inflow, negative outflow.
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a movement row.
func NewStockMovement(productID id.ID, lotID *id.ID, recorderID id.ID, kind MovementKind, quantity types.Quantity, unitPrice types.Money, occurredAt time.Time) StockMovement {
	return StockMovement{
		ID:            id.New(),
		ProductID:     productID,
		PurchaseLotID: lotID,
		RecorderID:    recorderID,
		Kind:          kind,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		OccurredAt:    occurredAt,
		CreatedAt:     time.Now().UTC(),
	}
}
