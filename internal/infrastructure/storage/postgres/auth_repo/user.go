// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/domain/auth"
	"fifostock/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

var userColumns = []string{
	"id", "version", "username", "password_hash", "email",
	"is_admin", "last_login", "created_at",
}

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID, user.Version, user.Username, user.PasswordHash, user.Email,
			user.IsAdmin, user.LastLogin, user.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"id": userID}).
		Limit(1)

	return r.getOne(ctx, q, userID.String())
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"username": username}).
		Limit(1)

	return r.getOne(ctx, q, username)
}

// Exists reports whether a username is taken.
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	sql := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}

	return exists, nil
}

// List returns all users ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		OrderBy("username ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var users []*auth.User
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &users, sql, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// UpdateLastLogin records the login time.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID id.ID, at time.Time) error {
	q := r.builder.Update(usersTable).
		Set("last_login", at).
		Where(squirrel.Eq{"id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}

func (r *UserRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*auth.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var user auth.User
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
