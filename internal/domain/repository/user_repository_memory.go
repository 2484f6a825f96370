package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"freecode/internal/common"
	"freecode/internal/domain/model"
)

// memoryUserRepository keeps users in process. Used by tests and by
// STORE_DRIVER=memory for local runs.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{byEmail: make(map[string]model.User)}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	user.Email = model.NormalizeEmail(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("user with email %s already exists: %w", user.Email, common.ErrDuplicateEmail)
	}
	r.byEmail[user.Email] = *user
	return nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}
