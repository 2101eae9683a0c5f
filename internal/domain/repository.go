package domain

import (
	"context"
)

// AccountStats summarises the contents of an account store
type AccountStats struct {
	Users   int64 `json:"users"`
	Entries int64 `json:"entries"`
}

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	// Create creates a new user. Returns ErrUserExists when the username is taken.
	Create(ctx context.Context, user *UserAccount) error

	// GetByUsername retrieves a user without history. Returns ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*UserAccount, error)

	// PrependHistory inserts an entry at the head of the user's history.
	// A nil entry ID is replaced by a new one. Returns ErrUserNotFound.
	PrependHistory(ctx context.Context, username string, entry *HistoryEntry) error

	// ListHistory returns the user's history newest first. Returns ErrUserNotFound.
	ListHistory(ctx context.Context, username string) ([]HistoryEntry, error)

	// Stats counts users and history entries
	Stats(ctx context.Context) (AccountStats, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error

	// Close releases the store
	Close() error
}
