// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fifostock/internal/domain/auth"
	"fifostock/internal/domain/catalogs/company"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/domain/reports"
	"fifostock/internal/infrastructure/http/v1/handlers"
	"fifostock/internal/infrastructure/http/v1/middleware"
	"fifostock/internal/infrastructure/storage/postgres"
	"fifostock/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService    *auth.Service
	ProductService *product.Service
	CompanyService *company.Service
	LedgerService  *ledger.Service
	ReportsService *reports.Service

	// Pool and Snapshots are nil in memory-store mode.
	Pool      *postgres.Pool
	Snapshots *postgres.SnapshotService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	productHandler := handlers.NewProductHandler(base, cfg.ProductService, cfg.LedgerService)
	companyHandler := handlers.NewCompanyHandler(base, cfg.CompanyService)
	purchaseHandler := handlers.NewPurchaseHandler(base, cfg.LedgerService)
	saleHandler := handlers.NewSaleHandler(base, cfg.LedgerService)
	reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)
	adminHandler := handlers.NewAdminHandler(base, cfg.Snapshots)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// Product catalog
		protected.POST("/products", productHandler.Create)
		protected.GET("/products", productHandler.List)
		protected.GET("/products/:id", productHandler.Get)
		protected.PUT("/products/:id", productHandler.Update)
		protected.GET("/products/:id/purchases", purchaseHandler.ListByProduct)
		protected.GET("/products/:id/movements", productHandler.Movements)
		protected.GET("/products/:id/reconcile", productHandler.Reconcile)

		// Ledger
		protected.POST("/purchases", purchaseHandler.Create)
		protected.GET("/purchases/:id", purchaseHandler.Get)
		protected.DELETE("/purchases/:id", purchaseHandler.Reverse)
		protected.POST("/sales", saleHandler.Create)
		protected.GET("/sales/:id", saleHandler.Get)
		protected.DELETE("/sales/:id", saleHandler.Reverse)

		// Reports and dashboard
		protected.GET("/reports/stock-value/:id", reportsHandler.StockValue)
		protected.GET("/reports/average-price/:id", reportsHandler.AveragePrice)
		protected.GET("/reports/profit", reportsHandler.Profit)
		protected.GET("/dashboard/summary", reportsHandler.Summary)
		protected.GET("/dashboard/recent", reportsHandler.RecentActivity)

		// Company profile
		protected.GET("/company", companyHandler.Get)

		// Admin surface
		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		admin.DELETE("/products/:id", productHandler.Delete)
		admin.PUT("/company", companyHandler.Update)
		admin.POST("/users", authHandler.Register)
		admin.GET("/users", authHandler.List)
		admin.GET("/admin/snapshot", adminHandler.ExportSnapshot)
	}

	return router
}
