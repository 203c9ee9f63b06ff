// Package main seeds the initial admin account and company profile.
// Safe to run repeatedly: existing records are left untouched.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fifostock/internal/core/apperror"
	"fifostock/internal/domain/auth"
	"fifostock/internal/domain/catalogs/company"
	"fifostock/internal/infrastructure/storage/postgres"
	"fifostock/internal/infrastructure/storage/postgres/auth_repo"
	"fifostock/internal/infrastructure/storage/postgres/catalog_repo"
	"fifostock/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	userRepo := auth_repo.NewUserRepo(txManager)
	companyRepo := catalog_repo.NewCompanyRepo(txManager)

	// --- Admin account ---
	adminUser := getEnv("SEED_ADMIN_USERNAME", "admin")
	adminPass := getEnv("SEED_ADMIN_PASSWORD", "admin123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" {
		log.Warn("SEED_ADMIN_PASSWORD not set, using default dev password")
	}

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(getEnv("JWT_SECRET", "dev-secret-change-in-production")))
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	_, err = authService.Register(ctx, auth.RegisterRequest{
		Username: adminUser,
		Password: adminPass,
		IsAdmin:  true,
	})
	switch {
	case err == nil:
		log.Infow("admin account created", "username", adminUser)
	case apperror.HasCode(err, apperror.CodeDuplicate):
		log.Infow("admin account already exists", "username", adminUser)
	default:
		log.Fatalw("failed to create admin account", "error", err)
	}

	// --- Company profile ---
	companyService := company.NewService(companyRepo)
	profile, err := companyService.Get(ctx)
	if err != nil {
		log.Fatalw("failed to ensure company profile", "error", err)
	}
	log.Infow("company profile ready", "name", profile.Name, "currency", profile.Currency)

	log.Info("seed complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
