package product

import (
	"context"

	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID id.ID) error

	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate retrieves a product with a row lock. The ledger takes this
	// lock first in every mutation so conflicting writers on the same product
	// serialize at the persistence boundary.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	GetByCode(ctx context.Context, code string) (*Product, error)

	List(ctx context.Context) ([]*Product, error)

	// UpdateStock writes the cached stock aggregate. Must only be called
	// inside the unit of work that mutates the product's lots, with the
	// product row already locked.
	UpdateStock(ctx context.Context, productID id.ID, stock types.Quantity) error
}

// UsageChecker reports whether a product owns any purchase lots or sales.
// Implemented by the ledger; guards product deletion.
type UsageChecker interface {
	ProductInUse(ctx context.Context, productID id.ID) (bool, error)
}
