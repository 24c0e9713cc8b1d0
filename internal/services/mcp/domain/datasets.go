package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/datagouv"
)

// SearchDatasetsInput defines the input schema for dataset search.
type SearchDatasetsInput struct {
	Query        string `json:"q" jsonschema:"search keywords"`
	Organization string `json:"organization,omitempty" jsonschema:"filter by organization id or slug"`
	Tag          string `json:"tag,omitempty" jsonschema:"filter by tag"`
	PageSize     int    `json:"page_size,omitempty" jsonschema:"number of results per page, default 20"`
}

// GetDatasetInput identifies one dataset.
type GetDatasetInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"dataset id or slug"`
}

// SearchOrganizationsInput defines the input schema for organization search.
type SearchOrganizationsInput struct {
	Query    string `json:"q" jsonschema:"search keywords"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"number of results per page, default 20"`
}

// GetOrganizationInput identifies one organization.
type GetOrganizationInput struct {
	OrgID string `json:"org_id" jsonschema:"organization id or slug"`
}

// SearchReusesInput defines the input schema for reuse search.
type SearchReusesInput struct {
	Query    string `json:"q" jsonschema:"search keywords"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"number of results per page, default 20"`
}

func SearchDatasetsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_datasets",
		Description: "Search open datasets on data.gouv.fr by keywords, organization or tag",
	}
}

func SearchDatasetsHandler(client *datagouv.Client, store *cache.Cache) mcp.ToolHandlerFor[SearchDatasetsInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchDatasetsInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		result, err := client.SearchDatasets(callCtx, input.Query, input.Organization, input.Tag, input.PageSize)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search datasets: %w", err)
		}
		payload, err := intercepted(ctx, store, "search_datasets", result)
		return nil, payload, err
	}
}

func GetDatasetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_dataset",
		Description: "Get the details of one data.gouv.fr dataset",
	}
}

func GetDatasetHandler(client *datagouv.Client, store *cache.Cache) mcp.ToolHandlerFor[GetDatasetInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetDatasetInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		result, err := client.GetDataset(callCtx, input.DatasetID)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get dataset: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_dataset", result)
		return nil, payload, err
	}
}

func GetDatasetResourcesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_dataset_resources",
		Description: "List the downloadable resources of a data.gouv.fr dataset",
	}
}

func GetDatasetResourcesHandler(client *datagouv.Client, store *cache.Cache) mcp.ToolHandlerFor[GetDatasetInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetDatasetInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		resources, err := client.GetDatasetResources(callCtx, input.DatasetID)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get dataset resources: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_dataset_resources", resources)
		return nil, payload, err
	}
}

func SearchOrganizationsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_organizations",
		Description: "Search publishing organizations on data.gouv.fr",
	}
}

func SearchOrganizationsHandler(client *datagouv.Client, store *cache.Cache) mcp.ToolHandlerFor[SearchOrganizationsInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchOrganizationsInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		orgs, err := client.SearchOrganizations(callCtx, input.Query, input.PageSize)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search organizations: %w", err)
		}
		payload, err := intercepted(ctx, store, "search_organizations", orgs)
		return nil, payload, err
	}
}

func GetOrganizationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_organization",
		Description: "Get the details of one data.gouv.fr organization",
	}
}

func GetOrganizationHandler(client *datagouv.Client, store *cache.Cache) mcp.ToolHandlerFor[GetOrganizationInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetOrganizationInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		org, err := client.GetOrganization(callCtx, input.OrgID)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get organization: %w", err)
		}
		payload, err := intercepted(ctx, store, "get_organization", org)
		return nil, payload, err
	}
}

func SearchReusesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_reuses",
		Description: "Search published reuses of open data on data.gouv.fr",
	}
}

func SearchReusesHandler(client *datagouv.Client, store *cache.Cache) mcp.ToolHandlerFor[SearchReusesInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchReusesInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		reuses, err := client.SearchReuses(callCtx, input.Query, input.PageSize)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search reuses: %w", err)
		}
		payload, err := intercepted(ctx, store, "search_reuses", reuses)
		return nil, payload, err
	}
}
