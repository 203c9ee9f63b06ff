package dto

import (
	"time"

	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/product"
)

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Code     string         `json:"code" binding:"required"`
	Name     string         `json:"name" binding:"required"`
	Unit     string         `json:"unit,omitempty"`
	MinStock types.Quantity `json:"minStock,omitempty"`
}

// ToDomain converts the request to a new product.
func (r *CreateProductRequest) ToDomain() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.Unit)
	p.MinStock = r.MinStock
	return p
}

// UpdateProductRequest for updating products. Stock is absent on purpose:
// only ledger operations move stock.
type UpdateProductRequest struct {
	Code     *string         `json:"code,omitempty"`
	Name     *string         `json:"name,omitempty"`
	Unit     *string         `json:"unit,omitempty"`
	MinStock *types.Quantity `json:"minStock,omitempty"`
}

// ApplyTo applies present fields to an existing product.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Unit      string         `json:"unit"`
	Stock     types.Quantity `json:"stock"`
	MinStock  types.Quantity `json:"minStock"`
	BelowMin  bool           `json:"belowMin"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// FromProduct converts a domain product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		Code:      p.Code,
		Name:      p.Name,
		Unit:      p.Unit,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		BelowMin:  p.BelowMinimum(),
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// FromProducts converts a slice of domain products.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}
