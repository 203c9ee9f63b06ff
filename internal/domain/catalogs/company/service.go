package company

import (
	"context"
	"fmt"

	"fifostock/internal/core/apperror"
	"fifostock/pkg/logger"
)

// Repository defines persistence for the single company profile.
type Repository interface {
	// Get returns the profile; NotFound when none has been created yet.
	Get(ctx context.Context) (*Company, error)

	Create(ctx context.Context, c *Company) error

	Update(ctx context.Context, c *Company) error
}

// Service provides the company profile operations.
type Service struct {
	repo Repository
}

// NewService creates a new company service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the profile, creating the default one on first access.
func (s *Service) Get(ctx context.Context) (*Company, error) {
	c, err := s.repo.Get(ctx)
	if err == nil {
		return c, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("get company: %w", err)
	}

	c = NewCompany("")
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create default company: %w", err)
	}
	logger.Info(ctx, "default company profile created", "id", c.ID)
	return c, nil
}

// Update saves profile changes.
func (s *Service) Update(ctx context.Context, c *Company) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}

	current, err := s.Get(ctx)
	if err != nil {
		return err
	}
	c.ID = current.ID
	c.Version = current.Version
	c.CreatedAt = current.CreatedAt

	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update company: %w", err)
	}

	logger.Info(ctx, "company profile updated", "id", c.ID)
	return nil
}
