// Package main is the entry point for the fifostock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fifostock/internal/core/tx"
	"fifostock/internal/domain/auth"
	"fifostock/internal/domain/catalogs/company"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
	"fifostock/internal/domain/reports"
	v1 "fifostock/internal/infrastructure/http/v1"
	"fifostock/internal/infrastructure/storage/memory"
	"fifostock/internal/infrastructure/storage/postgres"
	"fifostock/internal/infrastructure/storage/postgres/auth_repo"
	"fifostock/internal/infrastructure/storage/postgres/catalog_repo"
	"fifostock/internal/infrastructure/storage/postgres/ledger_repo"
	"fifostock/internal/infrastructure/storage/postgres/report_repo"
	"fifostock/pkg/logger"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting fifostock server")

	// --- Storage ---
	var (
		pool      *postgres.Pool
		snapshots *postgres.SnapshotService

		txManager   tx.Manager
		productRepo product.Repository
		lotRepo     ledger.LotRepository
		saleRepo    ledger.SaleRepository
		moveRepo    ledger.MovementRepository
		userRepo    auth.UserRepository
		companyRepo company.Repository
		reportRepo  reports.Repository
	)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		poolCfg := postgres.DefaultPoolConfig(dsn)
		if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
			poolCfg.MaxConns = int32(maxConns)
		}

		pool, err = postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		pgTxManager := postgres.NewTxManager(pool)
		snapshots, err = postgres.NewSnapshotService(pgTxManager)
		if err != nil {
			log.Fatalw("failed to initialize snapshot service", "error", err)
		}

		txManager = pgTxManager
		productRepo = catalog_repo.NewProductRepo(pgTxManager)
		lotRepo = ledger_repo.NewLotRepo(pgTxManager)
		saleRepo = ledger_repo.NewSaleRepo(pgTxManager)
		moveRepo = ledger_repo.NewMovementRepo(pgTxManager)
		userRepo = auth_repo.NewUserRepo(pgTxManager)
		companyRepo = catalog_repo.NewCompanyRepo(pgTxManager)
		reportRepo = report_repo.NewReportRepo(pgTxManager)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store (state is lost on restart)")

		store := memory.NewStore()
		txManager = memory.NewTxManager(store)
		productRepo = store.Products()
		lotRepo = store.Lots()
		saleRepo = store.Sales()
		moveRepo = store.Movements()
		userRepo = store.Users()
		companyRepo = store.Companies()
		reportRepo = store.Reports()
	}

	// --- Services ---
	jwtSecret := getEnv("JWT_SECRET", "dev-secret-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	ledgerService := ledger.NewService(productRepo, lotRepo, saleRepo, moveRepo, txManager)
	productService := product.NewService(productRepo, ledgerService, txManager)
	companyService := company.NewService(companyRepo)
	reportsService := reports.NewService(reportRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		JWTValidator:   jwtService,
		AuthService:    authService,
		ProductService: productService,
		CompanyService: companyService,
		LedgerService:  ledgerService,
		ReportsService: reportsService,
		Pool:           pool,
		Snapshots:      snapshots,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
