package handlers

import (
	"github.com/gin-gonic/gin"

	"fifostock/internal/domain/catalogs/company"
	"fifostock/internal/infrastructure/http/v1/dto"
)

// CompanyHandler handles the company profile endpoints.
type CompanyHandler struct {
	*BaseHandler
	service *company.Service
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(base *BaseHandler, service *company.Service) *CompanyHandler {
	return &CompanyHandler{BaseHandler: base, service: service}
}

// Get handles GET /api/v1/company.
func (h *CompanyHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCompany(profile))
}

// Update handles PUT /api/v1/company. Admin only.
func (h *CompanyHandler) Update(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	profile, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(profile)

	if err := h.service.Update(c.Request.Context(), profile); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCompany(profile))
}
