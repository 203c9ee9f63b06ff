package auth

import (
	"context"
	"time"

	"fifostock/internal/core/id"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, userID id.ID) (*User, error)

	GetByUsername(ctx context.Context, username string) (*User, error)

	Exists(ctx context.Context, username string) (bool, error)

	List(ctx context.Context) ([]*User, error)

	UpdateLastLogin(ctx context.Context, userID id.ID, at time.Time) error
}
