package memory

import (
	"context"
	"sort"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/company"
	"fifostock/internal/domain/catalogs/product"
)

// ProductRepo implements product.Repository over the shared store.
type ProductRepo struct {
	store *Store
}

var _ product.Repository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	r.store.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[productID]; !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	delete(r.store.products, productID)
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &p, nil
}

// GetForUpdate has no row lock to take here; the TxManager holds the
// store's transaction lock for the whole unit of work.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.Code == code {
			found := p
			return &found, nil
		}
	}
	return nil, apperror.NewNotFound("product", code)
}

func (r *ProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := make([]*product.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		item := p
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return items, nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, productID id.ID, stock types.Quantity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.Stock = stock
	r.store.products[productID] = p
	return nil
}

// CompanyRepo implements company.Repository over the shared store.
type CompanyRepo struct {
	store *Store
}

var _ company.Repository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Get(ctx context.Context) (*company.Company, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if r.store.company == nil {
		return nil, apperror.NewNotFound("company", "profile")
	}
	c := *r.store.company
	return &c, nil
}

func (r *CompanyRepo) Create(ctx context.Context, c *company.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *c
	r.store.company = &copied
	return nil
}

func (r *CompanyRepo) Update(ctx context.Context, c *company.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.company == nil {
		return apperror.NewNotFound("company", c.ID.String())
	}
	copied := *c
	r.store.company = &copied
	return nil
}
