package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/adresse"
	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
)

// GeocodeAddressInput defines the input schema for forward geocoding.
type GeocodeAddressInput struct {
	Address string `json:"address" jsonschema:"free-form address to geocode"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 5"`
}

// ReverseGeocodeInput defines the input schema for reverse geocoding.
type ReverseGeocodeInput struct {
	Lat float64 `json:"lat" jsonschema:"latitude in WGS84"`
	Lon float64 `json:"lon" jsonschema:"longitude in WGS84"`
}

// SearchAddressesInput defines the input schema for address autocompletion.
type SearchAddressesInput struct {
	Query string `json:"q" jsonschema:"partial address"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 5"`
}

func GeocodeAddressTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "geocode_address",
		Description: "Geocode a French address to WGS84 coordinates via the Base Adresse Nationale",
	}
}

func GeocodeAddressHandler(client *adresse.Client, store *cache.Cache) mcp.ToolHandlerFor[GeocodeAddressInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GeocodeAddressInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		results, err := client.Geocode(callCtx, input.Address, input.Limit)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("geocode address: %w", err)
		}
		payload, err := intercepted(ctx, store, "geocode_address", results)
		return nil, payload, err
	}
}

func ReverseGeocodeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reverse_geocode",
		Description: "Find the addresses nearest to WGS84 coordinates",
	}
}

func ReverseGeocodeHandler(client *adresse.Client, store *cache.Cache) mcp.ToolHandlerFor[ReverseGeocodeInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReverseGeocodeInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		results, err := client.ReverseGeocode(callCtx, input.Lat, input.Lon)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("reverse geocode: %w", err)
		}
		payload, err := intercepted(ctx, store, "reverse_geocode", results)
		return nil, payload, err
	}
}

func SearchAddressesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_addresses",
		Description: "Autocomplete a partial French address",
	}
}

func SearchAddressesHandler(client *adresse.Client, store *cache.Cache) mcp.ToolHandlerFor[SearchAddressesInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchAddressesInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		results, err := client.Search(callCtx, input.Query, input.Limit)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search addresses: %w", err)
		}
		payload, err := intercepted(ctx, store, "search_addresses", results)
		return nil, payload, err
	}
}
