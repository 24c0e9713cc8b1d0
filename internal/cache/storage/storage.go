// Package storage defines the persistence contract for cached API responses.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the handle is unknown or the entry has expired.
// Callers cannot distinguish the two cases.
var ErrNotFound = errors.New("cache entry not found")

// ErrHandleExists indicates a put collided with an existing handle. Handles
// are create-once: the store never overwrites an entry in place.
var ErrHandleExists = errors.New("cache handle already exists")

// Entry is the metadata of one cached payload. The payload itself travels
// separately so listings stay lightweight.
type Entry struct {
	Handle    string
	Producer  string
	SizeBytes int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Live reports whether the entry has not expired at the given instant.
// Liveness is computed, never stored.
func (e Entry) Live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Store persists cache entries keyed by handle. Implementations must write
// each entry atomically: a concurrent reader sees either the whole entry or
// ErrNotFound, never a partial payload.
type Store interface {
	// Put persists the entry and its payload. Fails with ErrHandleExists
	// when the handle is already taken.
	Put(ctx context.Context, entry Entry, payload []byte) error

	// GetMetadata returns the entry metadata without its payload. Expired
	// entries yield ErrNotFound.
	GetMetadata(ctx context.Context, handle string, now time.Time) (Entry, error)

	// GetFull returns the entry and the exact payload bytes that were
	// stored. Expired entries yield ErrNotFound.
	GetFull(ctx context.Context, handle string, now time.Time) (Entry, []byte, error)

	// ListLive enumerates all entries that are live at the given instant.
	ListLive(ctx context.Context, now time.Time) ([]Entry, error)

	// EvictExpired removes entries past their expiry. Idempotent and safe
	// to run concurrently with reads.
	EvictExpired(ctx context.Context, now time.Time) error

	// Clear removes every entry regardless of liveness.
	Clear(ctx context.Context) error

	Close() error
}
