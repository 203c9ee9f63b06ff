package dto

import (
	"time"

	"fifostock/internal/domain/auth"
)

// RegisterRequest for creating a new user.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

// ToDomain converts the request to the service input.
func (r *RegisterRequest) ToDomain() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
		IsAdmin:  r.IsAdmin,
	}
}

// LoginRequest for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     *string    `json:"email,omitempty"`
	IsAdmin   bool       `json:"isAdmin"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FromUser converts a domain user.
func FromUser(u *auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}
