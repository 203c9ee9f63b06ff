package entity

import (
	"context"
	"time"

	"fifostock/internal/core/apperror"
)

// Catalog is the base type for reference data (products, company profile).
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier (unique business key)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	now := time.Now().UTC()
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if c.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	return nil
}

// Touch updates the UpdatedAt timestamp and increments version.
func (c *Catalog) Touch() {
	c.UpdatedAt = time.Now().UTC()
	c.BaseEntity.Touch()
}
