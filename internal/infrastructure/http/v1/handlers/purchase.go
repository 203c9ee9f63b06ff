package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles purchase lot endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *ledger.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// Create handles POST /api/v1/purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.RecordPurchaseRequest
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

	lot, err := h.service.RecordPurchase(c.Request.Context(), ledger.PurchaseInput{
		ProductID:  productID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		OccurredAt: occurredAt,
		Actor:      h.Username(c),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromPurchaseLot(lot))
}

// Get handles GET /api/v1/purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	lot, err := h.service.GetPurchase(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseLot(lot))
}

// ListByProduct handles GET /api/v1/products/:id/purchases.
func (h *PurchaseHandler) ListByProduct(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	lots, err := h.service.ListPurchases(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := dto.FromPurchaseLots(lots)
	h.OK(c, dto.ListResponse{Items: out, Count: len(out)})
}

// Reverse handles DELETE /api/v1/purchases/:id. Rejected when sales already
// consumed part of the lot.
func (h *PurchaseHandler) Reverse(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.ReversePurchase(c.Request.Context(), purchaseID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "purchase reversed")
}
