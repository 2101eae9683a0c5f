package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"cfohelper/internal/domain"
)

// MemoryAccountRepository keeps accounts in process memory. Data is lost on exit.
type MemoryAccountRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.UserAccount
}

// NewMemoryAccountRepository creates an empty in-memory store
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{users: make(map[string]*domain.UserAccount)}
}

// Create creates a new user
func (r *MemoryAccountRepository) Create(_ context.Context, user *domain.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return domain.ErrUserExists
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt

	stored := *user
	stored.History = nil
	r.users[user.Username] = &stored
	return nil
}

// GetByUsername retrieves a user by username
func (r *MemoryAccountRepository) GetByUsername(_ context.Context, username string) (*domain.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	out.History = nil
	return &out, nil
}

// PrependHistory inserts an entry at the head of a user's history
func (r *MemoryAccountRepository) PrependHistory(_ context.Context, username string, entry *domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	// Entry ids are always server-assigned; a replayed client id must not collide.
	entry.ID = uuid.New()

	u.History = append([]domain.HistoryEntry{*entry}, u.History...)
	u.UpdatedAt = time.Now()
	return nil
}

// ListHistory returns a user's history newest first
func (r *MemoryAccountRepository) ListHistory(_ context.Context, username string) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := make([]domain.HistoryEntry, len(u.History))
	copy(out, u.History)
	return out, nil
}

// Stats counts users and history entries
func (r *MemoryAccountRepository) Stats(_ context.Context) (domain.AccountStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.AccountStats{Users: int64(len(r.users))}
	for _, u := range r.users {
		stats.Entries += int64(len(u.History))
	}
	return stats, nil
}

// Ping always succeeds
func (r *MemoryAccountRepository) Ping(context.Context) error { return nil }

// Close is a no-op
func (r *MemoryAccountRepository) Close() error { return nil }
