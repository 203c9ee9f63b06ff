// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/types"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "version", "code", "name", "unit",
	"stock", "min_stock", "created_at", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productsTable).
		Columns(productColumns...).
		Values(
			p.ID, p.Version, p.Code, p.Name, p.Unit,
			p.Stock, p.MinStock, p.CreatedAt, p.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// Update persists the product's catalog fields and cached stock.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productsTable).
		Set("code", p.Code).
		Set("name", p.Name).
		Set("unit", p.Unit).
		Set("stock", p.Stock).
		Set("min_stock", p.MinStock).
		Set("version", p.Version).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}

	return nil
}

// Delete removes a product.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder.Delete(productsTable).Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}

	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// GetForUpdate retrieves a product with a row lock. Conflicting ledger
// writers on the same product serialize here.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql := `
		SELECT id, version, code, name, unit, stock, min_stock, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, productID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	return &p, nil
}

// GetByCode retrieves a product by its unique code.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", code)
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}

	return &p, nil
}

// List returns all products ordered by code.
func (r *ProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return items, nil
}

// UpdateStock writes the cached stock aggregate. Callers must hold the
// product row lock.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID id.ID, stock types.Quantity) error {
	q := r.builder.Update(productsTable).
		Set("stock", stock).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}

	return nil
}
