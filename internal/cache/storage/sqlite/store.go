// Package sqlite provides the SQLite-backed cache store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache/storage"
	"github.com/nikoko107/mcp-datagouv-ign/internal/cache/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides SQLite-backed persistence for cache entries. All writes go
// through single-statement transactions, so readers never observe a partially
// written payload.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite cache store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	// Pragmas use the modernc driver's _pragma syntax; the mattn-style
	// _journal_mode parameters are silently ignored by this driver.
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put persists a cache entry and its payload.
func (s *Store) Put(ctx context.Context, entry storage.Entry, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(entry.Handle) == "" {
		return fmt.Errorf("entry handle is required")
	}
	if !entry.ExpiresAt.After(entry.CreatedAt) {
		return fmt.Errorf("entry expires_at must be after created_at")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO cache_entries (handle, producer, payload, size_bytes, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Handle,
		entry.Producer,
		payload,
		entry.SizeBytes,
		toMillis(entry.CreatedAt),
		toMillis(entry.ExpiresAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrHandleExists
		}
		return fmt.Errorf("insert cache entry: %w", err)
	}
	return nil
}

// GetMetadata returns the metadata of a live entry.
func (s *Store) GetMetadata(ctx context.Context, handle string, now time.Time) (storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return storage.Entry{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT handle, producer, size_bytes, created_at, expires_at
FROM cache_entries
WHERE handle = ? AND expires_at > ?`,
		handle, toMillis(now),
	)
	return scanEntry(row)
}

// GetFull returns a live entry and its exact payload bytes.
func (s *Store) GetFull(ctx context.Context, handle string, now time.Time) (storage.Entry, []byte, error) {
	if err := ctx.Err(); err != nil {
		return storage.Entry{}, nil, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT handle, producer, size_bytes, created_at, expires_at, payload
FROM cache_entries
WHERE handle = ? AND expires_at > ?`,
		handle, toMillis(now),
	)

	var (
		entry     storage.Entry
		createdAt int64
		expiresAt int64
		payload   []byte
	)
	err := row.Scan(&entry.Handle, &entry.Producer, &entry.SizeBytes, &createdAt, &expiresAt, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Entry{}, nil, storage.ErrNotFound
		}
		return storage.Entry{}, nil, fmt.Errorf("scan cache entry: %w", err)
	}
	entry.CreatedAt = fromMillis(createdAt)
	entry.ExpiresAt = fromMillis(expiresAt)
	return entry, payload, nil
}

// ListLive enumerates all live entries ordered by creation time.
func (s *Store) ListLive(ctx context.Context, now time.Time) ([]storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT handle, producer, size_bytes, created_at, expires_at
FROM cache_entries
WHERE expires_at > ?
ORDER BY created_at`,
		toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.Entry
	for rows.Next() {
		var (
			entry     storage.Entry
			createdAt int64
			expiresAt int64
		)
		if err := rows.Scan(&entry.Handle, &entry.Producer, &entry.SizeBytes, &createdAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entry.CreatedAt = fromMillis(createdAt)
		entry.ExpiresAt = fromMillis(expiresAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache entries: %w", err)
	}
	return entries, nil
}

// EvictExpired removes all entries past their expiry.
func (s *Store) EvictExpired(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at <= ?`, toMillis(now),
	); err != nil {
		return fmt.Errorf("evict expired cache entries: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("clear cache entries: %w", err)
	}
	return nil
}

func scanEntry(row *sql.Row) (storage.Entry, error) {
	var (
		entry     storage.Entry
		createdAt int64
		expiresAt int64
	)
	err := row.Scan(&entry.Handle, &entry.Producer, &entry.SizeBytes, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Entry{}, storage.ErrNotFound
		}
		return storage.Entry{}, fmt.Errorf("scan cache entry: %w", err)
	}
	entry.CreatedAt = fromMillis(createdAt)
	entry.ExpiresAt = fromMillis(expiresAt)
	return entry, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
