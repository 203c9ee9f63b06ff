package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fifostock/internal/core/apperror"
	"fifostock/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 8,
	}
}

// Service provides authentication logic.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     config,
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Username == "" {
		return nil, apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	exists, err := s.userRepo.Exists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "username", req.Username)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Username, req.IsAdmin)
	user.PasswordHash = string(passwordHash)
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid username or password")
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds if the timestamp write fails.
		logger.Warn(ctx, "update last login failed", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.Username, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	return &LoginResult{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// ListUsers returns all user accounts.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.userRepo.List(ctx)
}
