// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
// The ledger records UserID as the actor on purchases and sales.
type UserContext struct {
	UserID   string
	Username string
	IsAdmin  bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// IsAdmin reports whether the context carries an admin user.
func IsAdmin(ctx context.Context) bool {
	if u := GetUser(ctx); u != nil {
		return u.IsAdmin
	}
	return false
}
