// Package cache intercepts oversized tool responses and swaps them for
// compact envelopes backed by a durable store. Callers retrieve the full
// payload later through the handle carried in the envelope.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache/storage"
	"github.com/nikoko107/mcp-datagouv-ign/internal/cache/storage/sqlite"
)

const (
	defaultTTL              = 24 * time.Hour
	defaultFeatureThreshold = 50
	defaultByteThreshold    = 10 * 1024

	// handleAttempts bounds retries when a generated handle collides.
	handleAttempts = 3
)

// Config tunes the interception policy and the backing store location.
type Config struct {
	// Dir is the directory holding the store. Empty selects a per-user
	// default under the OS cache directory.
	Dir string `env:"DATAGOUV_MCP_CACHE_DIR"`
	// TTL is how long entries stay retrievable.
	TTL time.Duration `env:"DATAGOUV_MCP_CACHE_TTL" envDefault:"24h"`
	// FeatureThreshold caches feature collections carrying more features
	// than this.
	FeatureThreshold int `env:"DATAGOUV_MCP_CACHE_FEATURE_THRESHOLD" envDefault:"50"`
	// ByteThreshold caches serialized payloads at or over this size.
	ByteThreshold int `env:"DATAGOUV_MCP_CACHE_BYTE_THRESHOLD" envDefault:"10240"`
}

// DefaultConfig returns the stock policy: 24h retention, 50 features,
// 10 KiB.
func DefaultConfig() Config {
	return Config{
		TTL:              defaultTTL,
		FeatureThreshold: defaultFeatureThreshold,
		ByteThreshold:    defaultByteThreshold,
	}
}

// Cache pairs the classification policy with a store.
type Cache struct {
	store  storage.Store
	cfg    Config
	now    func() time.Time
	logger *log.Logger
	tracer trace.Tracer
}

// Open creates the cache directory if needed and opens the SQLite store
// inside it.
func Open(cfg Config) (*Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user cache dir: %w", err)
		}
		dir = filepath.Join(base, "mcp-datagouv-ign")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	store, err := sqlite.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, err
	}
	return NewWithStore(store, cfg), nil
}

// NewWithStore wires the cache over an existing store. Tests use it with
// in-memory or fake stores.
func NewWithStore(store storage.Store, cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.FeatureThreshold <= 0 {
		cfg.FeatureThreshold = defaultFeatureThreshold
	}
	if cfg.ByteThreshold <= 0 {
		cfg.ByteThreshold = defaultByteThreshold
	}
	return &Cache{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: log.New(os.Stderr, "cache: ", log.LstdFlags),
		tracer: otel.Tracer("cache"),
	}
}

// Intercept decides whether a tool response should be stored and replaced by
// an envelope. It returns (nil, nil) when the payload should go back inline,
// an envelope when it was stored, and an error when the payload was
// cache-worthy but could not be stored. Callers treat errors as a signal to
// fall back to the inline payload.
func (c *Cache) Intercept(ctx context.Context, producer string, payload any) (*Envelope, error) {
	ctx, span := c.tracer.Start(ctx, "cache.Intercept",
		trace.WithAttributes(attribute.String("cache.producer", producer)))
	defer span.End()

	// A payload that cannot be serialized cannot be persisted either, so this
	// returns early and the caller's fallback keeps it inline. ShouldCache
	// therefore never sees nil raw from here; its nil rule covers direct
	// callers.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize %s response: %w", producer, err)
	}
	if !c.cfg.ShouldCache(producer, raw) {
		span.SetAttributes(attribute.Bool("cache.stored", false))
		return nil, nil
	}

	now := c.now()
	if err := c.store.EvictExpired(ctx, now); err != nil {
		c.logger.Printf("evict expired entries: %v", err)
	}

	entry := storage.Entry{
		Producer:  producer,
		SizeBytes: int64(len(raw)),
		CreatedAt: now,
		ExpiresAt: now.Add(c.cfg.TTL),
	}
	entry.Handle = newHandle(producer, now, raw)

	for attempt := 0; ; attempt++ {
		err = c.store.Put(ctx, entry, raw)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrHandleExists) || attempt >= handleAttempts {
			return nil, fmt.Errorf("store %s response: %w", producer, err)
		}
		entry.Handle, err = randomHandle(producer, now)
		if err != nil {
			return nil, fmt.Errorf("store %s response: %w", producer, err)
		}
	}

	span.SetAttributes(
		attribute.Bool("cache.stored", true),
		attribute.String("cache.handle", entry.Handle),
		attribute.Int64("cache.size_bytes", entry.SizeBytes),
	)
	return buildEnvelope(entry, Summarize(producer, raw), raw, c.cfg.ByteThreshold)
}

// Retrieved is the answer to a handle lookup. Payload is populated only when
// the full response was requested.
type Retrieved struct {
	Entry   storage.Entry
	Summary any
	Payload json.RawMessage
}

// Retrieve looks up a live entry by handle. The summary is recomputed from
// the stored payload. Unknown and expired handles are indistinguishable and
// both surface storage.ErrNotFound.
func (c *Cache) Retrieve(ctx context.Context, handle string, includeFull bool) (Retrieved, error) {
	ctx, span := c.tracer.Start(ctx, "cache.Retrieve",
		trace.WithAttributes(attribute.String("cache.handle", handle)))
	defer span.End()

	entry, payload, err := c.store.GetFull(ctx, handle, c.now())
	if err != nil {
		return Retrieved{}, err
	}

	retrieved := Retrieved{
		Entry:   entry,
		Summary: Summarize(entry.Producer, payload),
	}
	if includeFull {
		retrieved.Payload = payload
	}
	return retrieved, nil
}

// Payload returns the raw stored payload for a live handle.
func (c *Cache) Payload(ctx context.Context, handle string) (storage.Entry, []byte, error) {
	return c.store.GetFull(ctx, handle, c.now())
}

// List returns metadata for every live entry, oldest first.
func (c *Cache) List(ctx context.Context) ([]storage.Entry, error) {
	return c.store.ListLive(ctx, c.now())
}

// Clear drops every entry, live or expired.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Close releases the backing store.
func (c *Cache) Close() error {
	return c.store.Close()
}
