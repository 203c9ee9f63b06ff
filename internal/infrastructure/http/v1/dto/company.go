package dto

import (
	"time"

	"fifostock/internal/domain/catalogs/company"
)

// UpdateCompanyRequest for editing the company profile.
type UpdateCompanyRequest struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Website  *string `json:"website,omitempty"`
	TaxID    *string `json:"taxId,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// ApplyTo applies present fields to the profile.
func (r *UpdateCompanyRequest) ApplyTo(c *company.Company) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Address != nil {
		c.Address = r.Address
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.Website != nil {
		c.Website = r.Website
	}
	if r.TaxID != nil {
		c.TaxID = r.TaxID
	}
	if r.Currency != nil {
		c.Currency = *r.Currency
	}
}

// CompanyResponse is the public view of the company profile.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Website   *string   `json:"website,omitempty"`
	TaxID     *string   `json:"taxId,omitempty"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromCompany converts the domain profile.
func FromCompany(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Website:   c.Website,
		TaxID:     c.TaxID,
		Currency:  c.Currency,
		UpdatedAt: c.UpdatedAt,
	}
}
