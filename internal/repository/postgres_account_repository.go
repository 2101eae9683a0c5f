package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cfohelper/internal/domain"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// PostgresAccountRepository implements domain.AccountRepository on PostgreSQL
type PostgresAccountRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository
func NewPostgresAccountRepository(db *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Create creates a new user
func (r *PostgresAccountRepository) Create(ctx context.Context, user *domain.UserAccount) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt

	query := `
		INSERT INTO users (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username
func (r *PostgresAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	query := `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	user := &domain.UserAccount{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// PrependHistory inserts an entry at the head of a user's history
func (r *PostgresAccountRepository) PrependHistory(ctx context.Context, username string, entry *domain.HistoryEntry) error {
	// Entry ids are always server-assigned; a replayed client id must not collide.
	entry.ID = uuid.New()

	query := `
		INSERT INTO history_entries (
			id, user_id, simulation_type, hiring, marketing, price_increase,
			revenue, expenses, profit, runway, suggestion, entry_date, entry_date_raw
		)
		SELECT $1, u.id, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		FROM users u
		WHERE u.username = $2
	`

	tag, err := r.db.Exec(ctx, query,
		entry.ID,
		username,
		string(entry.SimulationType),
		entry.Hiring,
		entry.Marketing,
		entry.PriceIncrease,
		entry.Revenue,
		entry.Expenses,
		entry.Profit,
		float64(entry.Runway),
		entry.Suggestion,
		entry.Date.Time,
		entry.Date.Raw,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// ListHistory returns a user's history newest first
func (r *PostgresAccountRepository) ListHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, simulation_type, hiring, marketing, price_increase,
		       revenue, expenses, profit, runway, suggestion, entry_date, entry_date_raw
		FROM history_entries
		WHERE user_id = $1
		ORDER BY seq DESC
	`

	rows, err := r.db.Query(ctx, query, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	history := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e      domain.HistoryEntry
			kind   string
			runway float64
		)
		err := rows.Scan(
			&e.ID,
			&kind,
			&e.Hiring,
			&e.Marketing,
			&e.PriceIncrease,
			&e.Revenue,
			&e.Expenses,
			&e.Profit,
			&runway,
			&e.Suggestion,
			&e.Date.Time,
			&e.Date.Raw,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.SimulationType = domain.SimulationType(kind)
		e.Runway = domain.Months(runway)
		e.Date.Time = e.Date.Time.UTC()
		history = append(history, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return history, nil
}

// Stats counts users and history entries
func (r *PostgresAccountRepository) Stats(ctx context.Context) (domain.AccountStats, error) {
	var stats domain.AccountStats
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM users), (SELECT COUNT(*) FROM history_entries)
	`).Scan(&stats.Users, &stats.Entries)
	if err != nil {
		return stats, fmt.Errorf("failed to count accounts: %w", err)
	}
	return stats, nil
}

// Ping checks the database is reachable
func (r *PostgresAccountRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close closes the connection pool
func (r *PostgresAccountRepository) Close() error {
	r.db.Close()
	return nil
}
