package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
)

// HandleInput names a cached entry.
type HandleInput struct {
	Handle string `json:"handle" jsonschema:"cache handle returned by a previous tool call"`
}

type GetCachedDataInput struct {
	Handle          string `json:"handle" jsonschema:"cache handle returned by a previous tool call"`
	IncludeFullData bool   `json:"include_full_data,omitempty" jsonschema:"return the complete stored payload instead of a summary"`
}

type ExportCachedDataInput struct {
	Handle string `json:"handle" jsonschema:"cache handle returned by a previous tool call"`
	Path   string `json:"path" jsonschema:"destination file path, ~ expands to the home directory"`
}

type ExtractGeometryInput struct {
	Handle    string `json:"handle" jsonschema:"cache handle returned by a previous tool call"`
	MaxPoints int    `json:"max_points,omitempty" jsonschema:"thin the geometry to at most this many points, 0 keeps everything"`
}

// CachedItem describes a live cache entry.
type CachedItem struct {
	Handle    string    `json:"cache_handle"`
	Producer  string    `json:"tool"`
	SizeBytes int64     `json:"data_size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CachedDataResult struct {
	Handle    string          `json:"cache_handle"`
	Producer  string          `json:"tool"`
	SizeBytes int64           `json:"data_size_bytes"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Summary   any             `json:"summary,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type CacheListResult struct {
	Count int          `json:"count"`
	Items []CachedItem `json:"items"`
}

type ExportResult struct {
	Path      string `json:"path"`
	SizeBytes int    `json:"size_bytes"`
}

// ExtractedGeometryResult carries the thinned geometry as raw GeoJSON. A
// typed geometry field would make the output schema self-referential.
type ExtractedGeometryResult struct {
	Geometry       json.RawMessage `json:"geometry"`
	TotalPoints    int             `json:"total_points"`
	ReturnedPoints int             `json:"returned_points"`
}

type ClearCacheResult struct {
	Cleared bool `json:"cleared"`
}

func GetCachedDataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_cached_data",
		Description: "Retrieve a cached response by handle, as a summary or as the full payload",
	}
}

func GetCachedDataHandler(store *cache.Cache) mcp.ToolHandlerFor[GetCachedDataInput, CachedDataResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCachedDataInput) (*mcp.CallToolResult, CachedDataResult, error) {
		retrieved, err := store.Retrieve(ctx, input.Handle, input.IncludeFullData)
		if err != nil {
			return nil, CachedDataResult{}, fmt.Errorf("get cached data %s: %w", input.Handle, err)
		}

		result := CachedDataResult{
			Handle:    retrieved.Entry.Handle,
			Producer:  retrieved.Entry.Producer,
			SizeBytes: retrieved.Entry.SizeBytes,
			CreatedAt: retrieved.Entry.CreatedAt,
			ExpiresAt: retrieved.Entry.ExpiresAt,
		}
		if input.IncludeFullData {
			result.Data = retrieved.Payload
		} else {
			result.Summary = retrieved.Summary
		}
		return nil, result, nil
	}
}

func ListCachedItemsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_cached_items",
		Description: "List every live cache entry with its handle, producing tool, size and expiry",
	}
}

func ListCachedItemsHandler(store *cache.Cache) mcp.ToolHandlerFor[NoArgsInput, CacheListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgsInput) (*mcp.CallToolResult, CacheListResult, error) {
		entries, err := store.List(ctx)
		if err != nil {
			return nil, CacheListResult{}, fmt.Errorf("list cached items: %w", err)
		}

		items := make([]CachedItem, len(entries))
		for i, entry := range entries {
			items[i] = CachedItem{
				Handle:    entry.Handle,
				Producer:  entry.Producer,
				SizeBytes: entry.SizeBytes,
				CreatedAt: entry.CreatedAt,
				ExpiresAt: entry.ExpiresAt,
			}
		}
		return nil, CacheListResult{Count: len(items), Items: items}, nil
	}
}

func ExportCachedDataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "export_cached_data",
		Description: "Write a cached payload to a file on disk",
	}
}

func ExportCachedDataHandler(store *cache.Cache) mcp.ToolHandlerFor[ExportCachedDataInput, ExportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ExportCachedDataInput) (*mcp.CallToolResult, ExportResult, error) {
		path, size, err := store.Export(ctx, input.Handle, input.Path)
		if err != nil {
			return nil, ExportResult{}, fmt.Errorf("export cached data %s: %w", input.Handle, err)
		}
		return nil, ExportResult{Path: path, SizeBytes: size}, nil
	}
}

func ExtractGeometryCoordinatesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "extract_geometry_coordinates",
		Description: "Extract the geometry of a cached payload, optionally thinned to a point budget",
	}
}

func ExtractGeometryCoordinatesHandler(store *cache.Cache) mcp.ToolHandlerFor[ExtractGeometryInput, ExtractedGeometryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ExtractGeometryInput) (*mcp.CallToolResult, ExtractedGeometryResult, error) {
		extracted, err := store.ExtractGeometry(ctx, input.Handle, input.MaxPoints)
		if err != nil {
			return nil, ExtractedGeometryResult{}, fmt.Errorf("extract geometry coordinates: %w", err)
		}
		geometry, err := json.Marshal(extracted.Geometry)
		if err != nil {
			return nil, ExtractedGeometryResult{}, fmt.Errorf("encode extracted geometry: %w", err)
		}
		return nil, ExtractedGeometryResult{
			Geometry:       geometry,
			TotalPoints:    extracted.TotalPoints,
			ReturnedPoints: extracted.KeptPoints,
		}, nil
	}
}

func ClearCacheTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clear_cache",
		Description: "Delete every cache entry",
	}
}

func ClearCacheHandler(store *cache.Cache) mcp.ToolHandlerFor[NoArgsInput, ClearCacheResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgsInput) (*mcp.CallToolResult, ClearCacheResult, error) {
		if err := store.Clear(ctx); err != nil {
			return nil, ClearCacheResult{}, fmt.Errorf("clear cache: %w", err)
		}
		return nil, ClearCacheResult{Cleared: true}, nil
	}
}
