// Package auth provides the identity/session provider that gates calls into
// the ledger: password login, JWT sessions and the admin access level.
package auth

import (
	"context"
	"time"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/entity"
)

// User is an operator account.
type User struct {
	entity.BaseEntity

	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Email        *string    `db:"email" json:"email,omitempty"`
	IsAdmin      bool       `db:"is_admin" json:"isAdmin"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// NewUser creates a user; the password hash is set by the service.
func NewUser(username string, isAdmin bool) *User {
	return &User{
		BaseEntity: entity.NewBaseEntity(),
		Username:   username,
		IsAdmin:    isAdmin,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (u *User) Validate(ctx context.Context) error {
	if u.Username == "" {
		return apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	return nil
}

// RegisterRequest carries a new user registration.
type RegisterRequest struct {
	Username string
	Password string
	Email    string
	IsAdmin  bool
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string
	Password string
}

// LoginResult is a successful authentication.
type LoginResult struct {
	User        *User     `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
