package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geopf"
)

// CalculateRouteInput defines the input schema for itinerary computation.
type CalculateRouteInput struct {
	Start         string           `json:"start" jsonschema:"start point as longitude,latitude"`
	End           string           `json:"end" jsonschema:"end point as longitude,latitude"`
	Resource      string           `json:"resource,omitempty" jsonschema:"navigation graph: bdtopo-osrm, bdtopo-valhalla or bdtopo-pgr, default bdtopo-osrm"`
	Profile       string           `json:"profile,omitempty" jsonschema:"transport mode: car or pedestrian"`
	Optimization  string           `json:"optimization,omitempty" jsonschema:"fastest or shortest, default fastest"`
	Intermediates []string         `json:"intermediates,omitempty" jsonschema:"intermediate points as longitude,latitude"`
	GetSteps      *bool            `json:"get_steps,omitempty" jsonschema:"include detailed steps, default true"`
	GetBBox       *bool            `json:"get_bbox,omitempty" jsonschema:"include the route bounding box, default true"`
	Constraints   []map[string]any `json:"constraints,omitempty" jsonschema:"routing constraints (banned, preferred, unpreferred)"`
	DistanceUnit  string           `json:"distance_unit,omitempty" jsonschema:"meter, kilometer or mile, default kilometer"`
	TimeUnit      string           `json:"time_unit,omitempty" jsonschema:"second, minute or hour, default hour"`
}

// CalculateIsochroneInput defines the input schema for isochrone computation.
type CalculateIsochroneInput struct {
	Point        string           `json:"point" jsonschema:"center point as longitude,latitude"`
	CostValue    float64          `json:"cost_value" jsonschema:"time or distance budget"`
	CostType     string           `json:"cost_type,omitempty" jsonschema:"time or distance, default time"`
	Resource     string           `json:"resource,omitempty" jsonschema:"navigation graph: bdtopo-valhalla or bdtopo-pgr, default bdtopo-valhalla"`
	Profile      string           `json:"profile,omitempty" jsonschema:"transport mode: car or pedestrian"`
	Direction    string           `json:"direction,omitempty" jsonschema:"departure or arrival, default departure"`
	Constraints  []map[string]any `json:"constraints,omitempty" jsonschema:"routing constraints (banned only)"`
	DistanceUnit string           `json:"distance_unit,omitempty" jsonschema:"meter, kilometer or mile, default kilometer"`
	TimeUnit     string           `json:"time_unit,omitempty" jsonschema:"second, minute or hour, default hour"`
}

func GetRouteCapabilitiesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_route_capabilities",
		Description: "List the navigation service capabilities: graphs, profiles and optimizations",
	}
}

func GetRouteCapabilitiesHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[NoArgsInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgsInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		caps, err := client.RouteCapabilities(callCtx)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get route capabilities: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_route_capabilities", caps)
		return nil, payload, err
	}
}

func CalculateRouteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calculate_route",
		Description: "Compute an itinerary between two points on the IGN navigation graphs",
	}
}

func CalculateRouteHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[CalculateRouteInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CalculateRouteInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		route, err := client.CalculateRoute(callCtx, geopf.RouteRequest{
			Start:         input.Start,
			End:           input.End,
			Resource:      input.Resource,
			Profile:       input.Profile,
			Optimization:  input.Optimization,
			Intermediates: input.Intermediates,
			GetSteps:      input.GetSteps,
			GetBBox:       input.GetBBox,
			Constraints:   input.Constraints,
			DistanceUnit:  input.DistanceUnit,
			TimeUnit:      input.TimeUnit,
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("calculate route: %w", err)
		}
		payload, err := intercepted(ctx, store, cache.ProducerRoute, route)
		return nil, payload, err
	}
}

func CalculateIsochroneTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calculate_isochrone",
		Description: "Compute an isochrone (time) or isodistance (distance) area around a point",
	}
}

func CalculateIsochroneHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[CalculateIsochroneInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CalculateIsochroneInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		isochrone, err := client.CalculateIsochrone(callCtx, geopf.IsochroneRequest{
			Point:        input.Point,
			CostValue:    input.CostValue,
			CostType:     input.CostType,
			Resource:     input.Resource,
			Profile:      input.Profile,
			Direction:    input.Direction,
			Constraints:  input.Constraints,
			DistanceUnit: input.DistanceUnit,
			TimeUnit:     input.TimeUnit,
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("calculate isochrone: %w", err)
		}
		payload, err := intercepted(ctx, store, cache.ProducerIsochrone, isochrone)
		return nil, payload, err
	}
}
