package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geoapi"
)

// SearchCommunesInput defines the input schema for commune search.
type SearchCommunesInput struct {
	Nom        string `json:"nom,omitempty" jsonschema:"commune name"`
	CodePostal string `json:"code_postal,omitempty" jsonschema:"postal code"`
	Fields     string `json:"fields,omitempty" jsonschema:"comma-separated attribute list to include"`
}

// CommuneCodeInput identifies a commune or departement by INSEE code.
type CommuneCodeInput struct {
	Code string `json:"code" jsonschema:"INSEE code"`
}

// NameQueryInput filters by name.
type NameQueryInput struct {
	Nom string `json:"nom,omitempty" jsonschema:"name to search for"`
}

func SearchCommunesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_communes",
		Description: "Search French communes by name or postal code",
	}
}

func SearchCommunesHandler(client *geoapi.Client, store *cache.Cache) mcp.ToolHandlerFor[SearchCommunesInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchCommunesInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		raw, err := client.SearchCommunes(callCtx, geoapi.CommuneQuery{
			Nom:        input.Nom,
			CodePostal: input.CodePostal,
			Fields:     input.Fields,
		})
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search communes: %w", err)
		}
		payload, err := intercepted(ctx, store, "search_communes", raw)
		return nil, payload, err
	}
}

func GetCommuneInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_commune_info",
		Description: "Get one commune by INSEE code: name, postal codes, population, departement and region",
	}
}

func GetCommuneInfoHandler(client *geoapi.Client, store *cache.Cache) mcp.ToolHandlerFor[CommuneCodeInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommuneCodeInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		raw, err := client.GetCommune(callCtx, input.Code)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get commune info: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_commune_info", raw)
		return nil, payload, err
	}
}

func GetDepartementCommunesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_departement_communes",
		Description: "List every commune of a departement",
	}
}

func GetDepartementCommunesHandler(client *geoapi.Client, store *cache.Cache) mcp.ToolHandlerFor[CommuneCodeInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommuneCodeInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		raw, err := client.GetDepartementCommunes(callCtx, input.Code)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get departement communes: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_departement_communes", raw)
		return nil, payload, err
	}
}

func SearchDepartementsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_departements",
		Description: "Search French departements, optionally by name",
	}
}

func SearchDepartementsHandler(client *geoapi.Client, store *cache.Cache) mcp.ToolHandlerFor[NameQueryInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NameQueryInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		raw, err := client.SearchDepartements(callCtx, input.Nom)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search departements: %w", err)
		}
		payload, err := intercepted(ctx, store, "search_departements", raw)
		return nil, payload, err
	}
}

func SearchRegionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_regions",
		Description: "Search French regions, optionally by name",
	}
}

func SearchRegionsHandler(client *geoapi.Client, store *cache.Cache) mcp.ToolHandlerFor[NameQueryInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NameQueryInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		raw, err := client.SearchRegions(callCtx, input.Nom)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search regions: %w", err)
		}
		payload, err := intercepted(ctx, store, "search_regions", raw)
		return nil, payload, err
	}
}

func GetRegionInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_region_info",
		Description: "Get one region by code",
	}
}

func GetRegionInfoHandler(client *geoapi.Client, store *cache.Cache) mcp.ToolHandlerFor[CommuneCodeInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommuneCodeInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		raw, err := client.GetRegion(callCtx, input.Code)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get region info: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_region_info", raw)
		return nil, payload, err
	}
}
