package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/paulmach/orb/geojson"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geoproc"
)

// GeodataInput carries a GeoJSON document for the vector processing tools. A
// feature collection, a single feature or a bare geometry are all accepted.
type GeodataInput struct {
	Geodata json.RawMessage `json:"geodata" jsonschema:"GeoJSON feature collection, feature or geometry"`
}

type BBoxInput struct {
	Geodata json.RawMessage `json:"geodata" jsonschema:"GeoJSON feature collection, feature or geometry"`
	CRS     string          `json:"crs,omitempty" jsonschema:"coordinate reference system of the data, default EPSG:4326"`
}

type ReprojectInput struct {
	Geodata   json.RawMessage `json:"geodata" jsonschema:"GeoJSON feature collection, feature or geometry"`
	SourceCRS string          `json:"source_crs,omitempty" jsonschema:"source system, EPSG:4326 or EPSG:3857, default EPSG:4326"`
	TargetCRS string          `json:"target_crs" jsonschema:"target system, EPSG:4326 or EPSG:3857"`
}

type SimplifyInput struct {
	Geodata   json.RawMessage `json:"geodata" jsonschema:"GeoJSON feature collection, feature or geometry"`
	Tolerance float64         `json:"tolerance" jsonschema:"Douglas-Peucker tolerance in coordinate units"`
}

func GetGeodataBBoxTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_geodata_bbox",
		Description: "Compute the bounding box of a GeoJSON document",
	}
}

func GetGeodataBBoxHandler(runner *geoproc.Runner, store *cache.Cache) mcp.ToolHandlerFor[BBoxInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BBoxInput) (*mcp.CallToolResult, CachedPayload, error) {
		result, err := geoproc.Run(ctx, runner, func() (geoproc.BBoxResult, error) {
			return geoproc.BBox(input.Geodata, input.CRS)
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get geodata bbox: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_geodata_bbox", result)
		return nil, payload, err
	}
}

func ExplodeGeodataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "explode_geodata",
		Description: "Split multipart geometries into single-part features, duplicating properties",
	}
}

func ExplodeGeodataHandler(runner *geoproc.Runner, store *cache.Cache) mcp.ToolHandlerFor[GeodataInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GeodataInput) (*mcp.CallToolResult, CachedPayload, error) {
		result, err := geoproc.Run(ctx, runner, func() (*geojson.FeatureCollection, error) {
			return geoproc.Explode(input.Geodata)
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("explode geodata: %w", err)
		}
		payload, err := intercepted(ctx, store, "explode_geodata", result)
		return nil, payload, err
	}
}

func ReprojectGeodataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reproject_geodata",
		Description: "Reproject a GeoJSON document between WGS84 (EPSG:4326) and Web Mercator (EPSG:3857)",
	}
}

func ReprojectGeodataHandler(runner *geoproc.Runner, store *cache.Cache) mcp.ToolHandlerFor[ReprojectInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReprojectInput) (*mcp.CallToolResult, CachedPayload, error) {
		result, err := geoproc.Run(ctx, runner, func() (*geojson.FeatureCollection, error) {
			return geoproc.Reproject(input.Geodata, input.SourceCRS, input.TargetCRS)
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("reproject geodata: %w", err)
		}
		payload, err := intercepted(ctx, store, "reproject_geodata", result)
		return nil, payload, err
	}
}

func SimplifyGeodataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simplify_geodata",
		Description: "Simplify geometries with the Douglas-Peucker algorithm at a given tolerance",
	}
}

func SimplifyGeodataHandler(runner *geoproc.Runner, store *cache.Cache) mcp.ToolHandlerFor[SimplifyInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SimplifyInput) (*mcp.CallToolResult, CachedPayload, error) {
		result, err := geoproc.Run(ctx, runner, func() (*geojson.FeatureCollection, error) {
			return geoproc.Simplify(input.Geodata, input.Tolerance)
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("simplify geodata: %w", err)
		}
		payload, err := intercepted(ctx, store, "simplify_geodata", result)
		return nil, payload, err
	}
}
