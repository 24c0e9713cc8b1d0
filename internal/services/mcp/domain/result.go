package domain

import (
	"context"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
)

// CachedPayload is the uniform result of every upstream-facing tool: either
// the response inline in Data, or a cache envelope standing in for it.
type CachedPayload struct {
	Cached   bool            `json:"cached" jsonschema:"whether the response was stored in the cache and replaced by an envelope"`
	Envelope *cache.Envelope `json:"envelope,omitempty" jsonschema:"cache envelope with handle and summary, present when cached"`
	Data     any             `json:"data,omitempty" jsonschema:"full response, present when not cached"`
	Warning  string          `json:"warning,omitempty" jsonschema:"set when the response was cache-worthy but caching failed"`
}

// intercepted routes a tool response through the cache. Caching never fails
// the tool call: if the store rejects a cache-worthy payload the response
// goes back inline with a warning.
func intercepted(ctx context.Context, store *cache.Cache, producer string, payload any) (CachedPayload, error) {
	envelope, err := store.Intercept(ctx, producer, payload)
	if envelope != nil {
		return CachedPayload{Cached: true, Envelope: envelope}, nil
	}
	result := CachedPayload{Data: payload}
	if err != nil {
		result.Warning = "response caching failed; full payload returned inline"
	}
	return result, nil
}
