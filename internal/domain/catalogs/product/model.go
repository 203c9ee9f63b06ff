// Package product provides the Product catalog.
package product

import (
	"context"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/entity"
	"fifostock/internal/core/types"
)

// Product represents a stocked item.
//
// Stock is a cached aggregate: it must equal the sum of Remaining across the
// product's purchase lots at all times. The Inventory Ledger Service writes it
// only inside the same unit of work that mutates lots; reconciliation detects
// drift as a consistency fault instead of papering over it.
type Product struct {
	entity.Catalog

	// Unit is the unit of measure (pcs, kg, ...).
	Unit string `db:"unit" json:"unit"`

	// Stock is the cached total quantity on hand.
	Stock types.Quantity `db:"stock" json:"stock"`

	// MinStock is the reorder threshold (informational only).
	MinStock types.Quantity `db:"min_stock" json:"minStock"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name, unit string) *Product {
	if unit == "" {
		unit = "pcs"
	}
	return &Product{
		Catalog: entity.NewCatalog(code, name),
		Unit:    unit,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if p.MinStock.IsNegative() {
		return apperror.NewValidation("min stock cannot be negative").
			WithDetail("field", "minStock")
	}
	if p.Stock.IsNegative() {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}
	return nil
}

// BelowMinimum reports whether the product needs reordering.
func (p *Product) BelowMinimum() bool {
	return p.Stock <= p.MinStock
}
