package handlers

import (
	"github.com/gin-gonic/gin"

	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
	ledger  *ledger.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, ledgerSvc *ledger.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service, ledger: ledgerSvc}
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToDomain()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromProduct(p))
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	out := dto.FromProducts(items)
	h.OK(c, dto.ListResponse{Items: out, Count: len(out)})
}

// Update handles PUT /api/v1/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Delete handles DELETE /api/v1/products/:id. Admin only; blocked while the
// product has ledger history.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "product deleted")
}

// Movements handles GET /api/v1/products/:id/movements.
func (h *ProductHandler) Movements(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 100)
	movements, err := h.ledger.MovementHistory(c.Request.Context(), productID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := dto.FromMovements(movements)
	h.OK(c, dto.ListResponse{Items: out, Count: len(out)})
}

// Reconcile handles GET /api/v1/products/:id/reconcile. Reports drift
// between cached stock and lot remainders without modifying either.
func (h *ProductHandler) Reconcile(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.ledger.Reconcile(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rec)
}
