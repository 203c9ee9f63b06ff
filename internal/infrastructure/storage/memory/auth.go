package memory

import (
	"context"
	"sort"
	"time"

	"fifostock/internal/core/apperror"
	"fifostock/internal/core/id"
	"fifostock/internal/domain/auth"
)

// UserRepo implements auth.UserRepository over the shared store.
type UserRepo struct {
	store *Store
}

var _ auth.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return &user, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, user := range r.store.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, user := range r.store.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*auth.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*auth.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		u := user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID id.ID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return apperror.NewNotFound("user", userID.String())
	}
	user.LastLogin = &at
	r.store.users[userID] = user
	return nil
}
