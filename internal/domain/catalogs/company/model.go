// Package company provides the company profile settings.
package company

import (
	"context"
	"time"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/entity"
)

// Company is the single company profile used on reports.
type Company struct {
	entity.BaseEntity

	Name     string  `db:"name" json:"name"`
	Address  *string `db:"address" json:"address,omitempty"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
	Email    *string `db:"email" json:"email,omitempty"`
	Website  *string `db:"website" json:"website,omitempty"`
	TaxID    *string `db:"tax_id" json:"taxId,omitempty"`
	Currency string  `db:"currency" json:"currency"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewCompany creates a company profile with defaults.
func NewCompany(name string) *Company {
	now := time.Now().UTC()
	if name == "" {
		name = "FIFO Stock Co."
	}
	return &Company{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Currency:   "USD",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate implements entity.Validatable.
func (c *Company) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.Currency == "" {
		return apperror.NewValidation("currency is required").WithDetail("field", "currency")
	}
	return nil
}

// Touch updates the UpdatedAt timestamp and increments version.
func (c *Company) Touch() {
	c.UpdatedAt = time.Now().UTC()
	c.BaseEntity.Touch()
}
