// Package sqlite persists audit log entries and user credentials.
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kailas-cloud/docqa/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	email    TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS logs (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant    TEXT NOT NULL,
	question  TEXT NOT NULL,
	answer    TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	latency   REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_logs_tenant ON logs(tenant);
`

// Store is a SQLite-backed audit log and user credential store.
// *sql.DB is safe for concurrent use; WAL mode keeps concurrent readers
// off the writers' backs.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and applies the schema.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database availability.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Record appends one audit log entry. Append-only; entries are never updated
// or deleted.
func (s *Store) Record(ctx context.Context, e domain.LogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logs (tenant, question, answer, timestamp, latency) VALUES (?, ?, ?, ?, ?)`,
		e.Tenant, e.Question, e.Answer, e.Timestamp.UTC().Format(time.RFC3339), e.Latency,
	)
	if err != nil {
		return fmt.Errorf("insert log for %s: %w: %w", e.Tenant, domain.ErrLogWrite, err)
	}
	return nil
}

// ListFor returns the tenant's log entries in insertion order. A tenant with
// no entries gets an empty slice, not an error.
func (s *Store) ListFor(ctx context.Context, tenant string) ([]domain.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant, question, answer, timestamp, latency FROM logs WHERE tenant = ? ORDER BY id`,
		tenant,
	)
	if err != nil {
		return nil, fmt.Errorf("query logs for %s: %w", tenant, err)
	}
	defer rows.Close()

	entries := []domain.LogEntry{}
	for rows.Next() {
		var e domain.LogEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.Tenant, &e.Question, &e.Answer, &ts, &e.Latency); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Timestamp = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log rows: %w", err)
	}

	return entries, nil
}

// EnsureUser inserts a user if absent. Idempotent; used for startup seeding.
func (s *Store) EnsureUser(ctx context.Context, email, password string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (email, password) VALUES (?, ?)`,
		email, hashPassword(password),
	)
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", email, err)
	}
	return nil
}

// Authenticate verifies the email/password pair and returns the tenant
// identity (the email) on success.
func (s *Store) Authenticate(ctx context.Context, email, password string) (string, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT password FROM users WHERE email = ?`, email,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup user %s: %w", email, err)
	}

	if stored != hashPassword(password) {
		return "", domain.ErrInvalidCredentials
	}
	return email, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
