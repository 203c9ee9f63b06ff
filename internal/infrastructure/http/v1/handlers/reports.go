package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fifostock/internal/core/apperror"
	"fifostock/internal/domain/reports"
	"fifostock/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles valuation, profit and dashboard endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// StockValue handles GET /api/v1/reports/stock-value/:id.
func (h *ReportsHandler) StockValue(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	valuation, err := h.service.StockValue(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, valuation)
}

// AveragePrice handles GET /api/v1/reports/average-price/:id.
func (h *ReportsHandler) AveragePrice(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	avg, err := h.service.AveragePurchasePrice(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"productId":    productID.String(),
		"averagePrice": avg,
	})
}

// Profit handles GET /api/v1/reports/profit?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportsHandler) Profit(c *gin.Context) {
	from, ok := h.parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseDateQuery(c, "to")
	if !ok {
		return
	}

	// Include the whole closing day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	result, err := h.service.ProfitForPeriod(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Summary handles GET /api/v1/dashboard/summary.
func (h *ReportsHandler) Summary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// RecentActivity handles GET /api/v1/dashboard/recent.
func (h *ReportsHandler) RecentActivity(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 10)

	activity, err := h.service.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.RecentActivityResponse{
		Purchases: dto.FromPurchaseLots(activity.Purchases),
		Sales:     dto.FromSales(activity.Sales),
		LowStock:  dto.FromProducts(activity.LowStock),
	})
}

func (h *ReportsHandler) parseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		h.Error(c, apperror.NewValidation(key+" query parameter is required"))
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key+" date, expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}
