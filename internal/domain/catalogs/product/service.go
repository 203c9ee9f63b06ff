package product

import (
	"context"
	"fmt"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/core/tx"
	"fifostock/pkg/logger"
)

// Service provides business logic for the Product catalog.
type Service struct {
	repo      Repository
	usage     UsageChecker
	txManager tx.Manager
}

// NewService creates a new Product service.
func NewService(repo Repository, usage UsageChecker, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		usage:     usage,
		txManager: txManager,
	}
}

// Create adds a new product after checking code uniqueness.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByCode(ctx, p.Code)
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("check code: %w", err)
	}
	if existing != nil {
		return apperror.NewDuplicate("product", "code", p.Code)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "id", p.ID, "code", p.Code)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List retrieves all products ordered by name.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

// Update modifies product reference data. The cached stock aggregate is owned
// by the ledger and is never written through this path.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.Code != p.Code {
		existing, err := s.repo.GetByCode(ctx, p.Code)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("check code: %w", err)
		}
		if existing != nil && existing.ID != p.ID {
			return apperror.NewDuplicate("product", "code", p.Code)
		}
	}
	p.Stock = current.Stock

	return s.repo.Update(ctx, p)
}

// Delete removes a product. Blocked while the product owns purchase lots or
// sales (referential guard).
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, productID); err != nil {
			return err
		}

		inUse, err := s.usage.ProductInUse(ctx, productID)
		if err != nil {
			return fmt.Errorf("check usage: %w", err)
		}
		if inUse {
			return apperror.NewReferencedEntity("product", productID, "purchase lots or sales exist")
		}

		if err := s.repo.Delete(ctx, productID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}

		logger.Info(ctx, "product deleted", "id", productID)
		return nil
	})
}
