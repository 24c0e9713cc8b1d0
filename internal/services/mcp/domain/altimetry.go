package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geopf"
)

// GetElevationInput defines the input schema for point altitude lookup. Lon
// and Lat are delimiter-separated lists so several points can be resolved in
// one call.
type GetElevationInput struct {
	Lon       string `json:"lon" jsonschema:"longitude or delimiter-separated longitudes"`
	Lat       string `json:"lat" jsonschema:"latitude or delimiter-separated latitudes"`
	Resource  string `json:"resource,omitempty" jsonschema:"elevation source, default ign_rge_alti_wld"`
	Delimiter string `json:"delimiter,omitempty" jsonschema:"coordinate list delimiter, default |"`
	ZOnly     bool   `json:"zonly,omitempty" jsonschema:"return altitudes only, without coordinates"`
	Measures  bool   `json:"measures,omitempty" jsonschema:"include source measures for each point"`
}

// GetElevationLineInput defines the input schema for elevation profiles.
type GetElevationLineInput struct {
	Lon         string `json:"lon" jsonschema:"delimiter-separated longitudes of the line vertices"`
	Lat         string `json:"lat" jsonschema:"delimiter-separated latitudes of the line vertices"`
	Resource    string `json:"resource,omitempty" jsonschema:"elevation source, default ign_rge_alti_wld"`
	Delimiter   string `json:"delimiter,omitempty" jsonschema:"coordinate list delimiter, default |"`
	ProfileMode string `json:"profile_mode,omitempty" jsonschema:"simple or accurate, default simple"`
	Sampling    int    `json:"sampling,omitempty" jsonschema:"number of sample points along the line, default 50"`
	ZOnly       bool   `json:"zonly,omitempty" jsonschema:"return altitudes only"`
}

func GetAltimetryResourcesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_altimetry_resources",
		Description: "List the available elevation sources (MNT, MNS)",
	}
}

func GetAltimetryResourcesHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[NoArgsInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgsInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		resources, err := client.AltimetryResources(callCtx)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get altimetry resources: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_altimetry_resources", resources)
		return nil, payload, err
	}
}

func GetElevationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_elevation",
		Description: "Get the altitude of one or more geographic points",
	}
}

func GetElevationHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[GetElevationInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetElevationInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		elevations, err := client.GetElevation(callCtx, geopf.ElevationRequest{
			Lon:       input.Lon,
			Lat:       input.Lat,
			Resource:  input.Resource,
			Delimiter: input.Delimiter,
			ZOnly:     input.ZOnly,
			Measures:  input.Measures,
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get elevation: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_elevation", elevations)
		return nil, payload, err
	}
}

func GetElevationLineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_elevation_line",
		Description: "Compute an elevation profile along a line with cumulative height gain and loss",
	}
}

func GetElevationLineHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[GetElevationLineInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetElevationLineInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		profile, err := client.GetElevationLine(callCtx, geopf.ElevationLineRequest{
			Lon:         input.Lon,
			Lat:         input.Lat,
			Resource:    input.Resource,
			Delimiter:   input.Delimiter,
			ProfileMode: input.ProfileMode,
			Sampling:    input.Sampling,
			ZOnly:       input.ZOnly,
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get elevation line: %w", err)
		}
		payload, err := intercepted(ctx, store, cache.ProducerElevationLine, profile)
		return nil, payload, err
	}
}
