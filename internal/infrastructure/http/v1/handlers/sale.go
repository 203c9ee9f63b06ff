package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles sale endpoints.
type SaleHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *ledger.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Create handles POST /api/v1/sales. The response carries the realized
// FIFO cost computed during allocation.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	sale, err := h.service.RecordSale(c.Request.Context(), ledger.SaleInput{
		ProductID:    productID,
		Quantity:     req.Quantity,
		SellingPrice: req.SellingPrice,
		OccurredAt:   occurredAt,
		Actor:        h.Username(c),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromSale(sale))
}

// Get handles GET /api/v1/sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(sale))
}

// Reverse handles DELETE /api/v1/sales/:id. Restores exactly the lot
// quantities this sale consumed, driven by its movement trail.
func (h *SaleHandler) Reverse(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.ReverseSale(c.Request.Context(), saleID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "sale reversed")
}
