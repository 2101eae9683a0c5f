package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cfohelper/internal/domain"
)

// AccountService implements signup, login and per-user history
type AccountService struct {
	repo       domain.AccountRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewAccountService creates a new AccountService.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewAccountService(repo domain.AccountRepository, bcryptCost int, logger *zap.Logger) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup creates an account with a hashed password and an empty history
func (s *AccountService) Signup(ctx context.Context, username, password string) error {
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.UserAccount{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User signed up", zap.String("username", username))
	return nil
}

// Login verifies a password. Unknown users and wrong passwords fail identically.
func (s *AccountService) Login(ctx context.Context, username, password string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}

	return nil
}

// AppendHistory inserts entry at the head of the user's history.
// The caller's identity is not verified.
func (s *AccountService) AppendHistory(ctx context.Context, username string, entry *domain.HistoryEntry) error {
	if err := s.repo.PrependHistory(ctx, username, entry); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// GetHistory returns the user's history newest first
func (s *AccountService) GetHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	history, err := s.repo.ListHistory(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return history, nil
}

// Ping reports whether the account store is reachable
func (s *AccountService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Stats returns store counts
func (s *AccountService) Stats(ctx context.Context) (domain.AccountStats, error) {
	return s.repo.Stats(ctx)
}
