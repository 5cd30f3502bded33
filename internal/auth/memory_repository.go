package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for local development and
// tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	users       map[string]*User
	resetTokens map[string]*ResetToken
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[string]*User),
		resetTokens: make(map[string]*ResetToken),
	}
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) GetUser(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryRepository) CreateUser(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) SaveResetToken(_ context.Context, token *ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *token
	r.resetTokens[token.Token] = &copied
	return nil
}

func (r *MemoryRepository) GetResetToken(_ context.Context, token string) (*ResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.resetTokens[token]
	if !ok {
		return nil, ErrInvalidResetToken
	}
	copied := *t
	return &copied, nil
}

func (r *MemoryRepository) ConsumeResetToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.resetTokens[token]
	if !ok {
		return ErrInvalidResetToken
	}
	now := time.Now()
	t.UsedAt = &now
	return nil
}
