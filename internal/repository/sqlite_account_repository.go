package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cfohelper/internal/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS history_entries (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    id              TEXT NOT NULL UNIQUE,
    user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    simulation_type TEXT NOT NULL,
    hiring          INTEGER NOT NULL DEFAULT 0,
    marketing       REAL NOT NULL DEFAULT 0,
    price_increase  REAL NOT NULL DEFAULT 0,
    revenue         REAL NOT NULL DEFAULT 0,
    expenses        REAL NOT NULL DEFAULT 0,
    profit          REAL NOT NULL DEFAULT 0,
    runway          REAL NOT NULL DEFAULT 0,
    suggestion      TEXT NOT NULL DEFAULT '',
    entry_date      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_entries_user_seq ON history_entries(user_id, seq);
`

// SQLiteAccountRepository implements domain.AccountRepository on a local SQLite file
type SQLiteAccountRepository struct {
	db *sql.DB
}

// OpenSQLiteAccountRepository opens or creates the database at the given path
func OpenSQLiteAccountRepository(dbPath string) (*SQLiteAccountRepository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One writer at a time avoids SQLITE_BUSY on concurrent appends
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteAccountRepository{db: db}, nil
}

// Create creates a new user
func (r *SQLiteAccountRepository) Create(ctx context.Context, user *domain.UserAccount) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		user.ID.String(),
		user.Username,
		user.PasswordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username
func (r *SQLiteAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	var id, createdAt, updatedAt string
	user := &domain.UserAccount{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE username = ?
	`, username).Scan(&id, &user.Username, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	if user.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", id, err)
	}
	user.CreatedAt = parseTime(createdAt)
	user.UpdatedAt = parseTime(updatedAt)

	return user, nil
}

// PrependHistory inserts an entry at the head of a user's history
func (r *SQLiteAccountRepository) PrependHistory(ctx context.Context, username string, entry *domain.HistoryEntry) error {
	// Entry ids are always server-assigned; a replayed client id must not collide.
	entry.ID = uuid.New()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO history_entries (
			id, user_id, simulation_type, hiring, marketing, price_increase,
			revenue, expenses, profit, runway, suggestion, entry_date
		)
		SELECT ?, u.id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM users u
		WHERE u.username = ?
	`,
		entry.ID.String(),
		string(entry.SimulationType),
		entry.Hiring,
		entry.Marketing,
		entry.PriceIncrease,
		entry.Revenue,
		entry.Expenses,
		entry.Profit,
		float64(entry.Runway),
		entry.Suggestion,
		entryDate(entry.Date),
		username,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// ListHistory returns a user's history newest first
func (r *SQLiteAccountRepository) ListHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, simulation_type, hiring, marketing, price_increase,
		       revenue, expenses, profit, runway, suggestion, entry_date
		FROM history_entries
		WHERE user_id = ?
		ORDER BY seq DESC
	`, user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	history := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e                 domain.HistoryEntry
			id, kind, entryAt string
			runway            float64
		)
		err := rows.Scan(
			&id,
			&kind,
			&e.Hiring,
			&e.Marketing,
			&e.PriceIncrease,
			&e.Revenue,
			&e.Expenses,
			&e.Profit,
			&runway,
			&e.Suggestion,
			&entryAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt entry id %q: %w", id, err)
		}
		e.SimulationType = domain.SimulationType(kind)
		e.Runway = domain.Months(runway)
		e.Date = domain.ParseEntryTime(entryAt)
		history = append(history, e)
	}

	return history, rows.Err()
}

// Stats counts users and history entries
func (r *SQLiteAccountRepository) Stats(ctx context.Context) (domain.AccountStats, error) {
	var stats domain.AccountStats
	err := r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM users), (SELECT COUNT(*) FROM history_entries)
	`).Scan(&stats.Users, &stats.Entries)
	if err != nil {
		return stats, fmt.Errorf("failed to count accounts: %w", err)
	}
	return stats, nil
}

// Ping checks the database is reachable
func (r *SQLiteAccountRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database
func (r *SQLiteAccountRepository) Close() error {
	return r.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// entryDate stores unparsed client dates verbatim
func entryDate(t domain.EntryTime) string {
	if t.Raw != "" {
		return t.Raw
	}
	return formatTime(t.Time)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
