package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fifostock/internal/core/apperror"
	"fifostock/internal/domain/catalogs/company"
	"fifostock/internal/infrastructure/storage/postgres"
)

const companiesTable = "companies"

var companyColumns = []string{
	"id", "version", "name", "address", "phone", "email",
	"website", "tax_id", "currency", "created_at", "updated_at",
}

// CompanyRepo implements company.Repository. The table holds a single
// profile row; Get always returns the oldest one.
type CompanyRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the company profile.
func (r *CompanyRepo) Get(ctx context.Context) (*company.Company, error) {
	q := r.builder.Select(companyColumns...).
		From(companiesTable).
		OrderBy("created_at ASC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c company.Company
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("company", "profile")
		}
		return nil, fmt.Errorf("get company: %w", err)
	}

	return &c, nil
}

// Create inserts the company profile.
func (r *CompanyRepo) Create(ctx context.Context, c *company.Company) error {
	q := r.builder.Insert(companiesTable).
		Columns(companyColumns...).
		Values(
			c.ID, c.Version, c.Name, c.Address, c.Phone, c.Email,
			c.Website, c.TaxID, c.Currency, c.CreatedAt, c.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	return nil
}

// Update persists profile changes.
func (r *CompanyRepo) Update(ctx context.Context, c *company.Company) error {
	q := r.builder.Update(companiesTable).
		Set("name", c.Name).
		Set("address", c.Address).
		Set("phone", c.Phone).
		Set("email", c.Email).
		Set("website", c.Website).
		Set("tax_id", c.TaxID).
		Set("currency", c.Currency).
		Set("version", c.Version).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("company", c.ID.String())
	}

	return nil
}
