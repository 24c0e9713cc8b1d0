package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geopf"
)

// NoArgsInput is the input schema for tools that take no arguments.
type NoArgsInput struct{}

// LayerQueryInput filters layers by keyword.
type LayerQueryInput struct {
	Query string `json:"query" jsonschema:"keyword to match against layer names, titles and abstracts"`
}

// WMTSTileURLInput identifies one tile in the PM tile matrix set.
type WMTSTileURLInput struct {
	Layer string `json:"layer" jsonschema:"WMTS layer identifier"`
	Z     int    `json:"z" jsonschema:"zoom level"`
	X     int    `json:"x" jsonschema:"tile column"`
	Y     int    `json:"y" jsonschema:"tile row"`
}

// WMSMapURLInput describes a WMS GetMap request.
type WMSMapURLInput struct {
	Layers string `json:"layers" jsonschema:"comma-separated WMS layer names"`
	BBox   string `json:"bbox" jsonschema:"bounding box as min_lat,min_lon,max_lat,max_lon (EPSG:4326 axis order)"`
	Width  int    `json:"width,omitempty" jsonschema:"image width in pixels, default 800"`
	Height int    `json:"height,omitempty" jsonschema:"image height in pixels, default 600"`
	Format string `json:"format,omitempty" jsonschema:"image format, default image/png"`
}

// WFSFeaturesInput describes a WFS GetFeature request.
type WFSFeaturesInput struct {
	TypeName    string `json:"typename" jsonschema:"WFS feature type, for example BDTOPO_V3:batiment"`
	BBox        string `json:"bbox,omitempty" jsonschema:"bounding box as min_lon,min_lat,max_lon,max_lat"`
	MaxFeatures int    `json:"max_features,omitempty" jsonschema:"maximum number of features, default 100"`
}

// DescribeLayerInput identifies one curated layer.
type DescribeLayerInput struct {
	LayerID string `json:"layer_id" jsonschema:"layer identifier, for example ORTHOIMAGERY.ORTHOPHOTOS"`
}

// CatalogInput filters the curated layer catalog.
type CatalogInput struct {
	Query       string `json:"query,omitempty" jsonschema:"keyword filter"`
	Category    string `json:"category,omitempty" jsonschema:"category filter, for example Cadastre"`
	ServiceType string `json:"service_type,omitempty" jsonschema:"wmts, wms, wfs or all"`
}

// URLResult carries a generated service URL.
type URLResult struct {
	URL string `json:"url"`
}

// CatalogResult lists curated layers plus the available categories.
type CatalogResult struct {
	Count      int                  `json:"count"`
	Layers     []geopf.CatalogEntry `json:"layers"`
	Categories []string             `json:"categories,omitempty"`
}

func ListWMTSLayersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_wmts_layers",
		Description: "List every WMTS tile layer published by the IGN Géoplateforme",
	}
}

func ListWMTSLayersHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[NoArgsInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgsInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		layers, err := client.ListWMTSLayers(callCtx)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("list wmts layers: %w", err)
		}
		payload, err := intercepted(ctx, store, "list_wmts_layers", layers)
		return nil, payload, err
	}
}

func SearchWMTSLayersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_wmts_layers",
		Description: "Search WMTS tile layers by keyword",
	}
}

func SearchWMTSLayersHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[LayerQueryInput, CachedPayload] {
	return searchLayersHandler(client, store, "wmts", "search_wmts_layers")
}

func GetWMTSTileURLTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_wmts_tile_url",
		Description: "Build the URL of one WMTS tile (PM tile matrix set)",
	}
}

func GetWMTSTileURLHandler(client *geopf.Client) mcp.ToolHandlerFor[WMTSTileURLInput, URLResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input WMTSTileURLInput) (*mcp.CallToolResult, URLResult, error) {
		return nil, URLResult{URL: client.WMTSTileURL(input.Layer, input.Z, input.X, input.Y)}, nil
	}
}

func ListWMSLayersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_wms_layers",
		Description: "List every WMS map layer published by the IGN Géoplateforme",
	}
}

func ListWMSLayersHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[NoArgsInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgsInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		layers, err := client.ListWMSLayers(callCtx)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("list wms layers: %w", err)
		}
		payload, err := intercepted(ctx, store, "list_wms_layers", layers)
		return nil, payload, err
	}
}

func SearchWMSLayersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_wms_layers",
		Description: "Search WMS map layers by keyword",
	}
}

func SearchWMSLayersHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[LayerQueryInput, CachedPayload] {
	return searchLayersHandler(client, store, "wms", "search_wms_layers")
}

func GetWMSMapURLTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_wms_map_url",
		Description: "Build the URL of a WMS map image over a bounding box",
	}
}

func GetWMSMapURLHandler(client *geopf.Client) mcp.ToolHandlerFor[WMSMapURLInput, URLResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input WMSMapURLInput) (*mcp.CallToolResult, URLResult, error) {
		url := client.WMSMapURL(input.Layers, input.BBox, input.Width, input.Height, input.Format)
		return nil, URLResult{URL: url}, nil
	}
}

func ListWFSFeaturesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_wfs_features",
		Description: "List every WFS feature type published by the IGN Géoplateforme",
	}
}

func ListWFSFeaturesHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[NoArgsInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgsInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		features, err := client.ListWFSFeatureTypes(callCtx)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("list wfs features: %w", err)
		}
		payload, err := intercepted(ctx, store, "list_wfs_features", features)
		return nil, payload, err
	}
}

func SearchWFSFeaturesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_wfs_features",
		Description: "Search WFS feature types by keyword",
	}
}

func SearchWFSFeaturesHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[LayerQueryInput, CachedPayload] {
	return searchLayersHandler(client, store, "wfs", "search_wfs_features")
}

func GetWFSFeaturesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_wfs_features",
		Description: "Fetch vector features of one WFS type as GeoJSON, optionally bounded by a bbox",
	}
}

func GetWFSFeaturesHandler(client *geopf.Client, store *cache.Cache) mcp.ToolHandlerFor[WFSFeaturesInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WFSFeaturesInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		raw, err := client.GetWFSFeatures(callCtx, input.TypeName, input.BBox, input.MaxFeatures)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("get wfs features: %w", err)
		}
		payload, err := intercepted(ctx, store, cache.ProducerWFSFeatures, raw)
		return nil, payload, err
	}
}

func searchLayersHandler(client *geopf.Client, store *cache.Cache, service, producer string) mcp.ToolHandlerFor[LayerQueryInput, CachedPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LayerQueryInput) (*mcp.CallToolResult, CachedPayload, error) {
		callCtx, cancel := context.WithTimeout(ctx, upstreamCallTimeout)
		defer cancel()

		layers, err := client.SearchLayers(callCtx, service, input.Query)
		if err != nil {
			return nil, CachedPayload{}, fmt.Errorf("search %s layers: %w", service, err)
		}
		payload, err := intercepted(ctx, store, producer, layers)
		return nil, payload, err
	}
}

func DescribeLayerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "describe_layer",
		Description: "Describe one curated Géoplateforme layer: formats, zoom range, attributes and recommended usage",
	}
}

func DescribeLayerHandler() mcp.ToolHandlerFor[DescribeLayerInput, geopf.CatalogEntry] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DescribeLayerInput) (*mcp.CallToolResult, geopf.CatalogEntry, error) {
		entry, ok := geopf.DescribeLayer(input.LayerID)
		if !ok {
			return nil, geopf.CatalogEntry{}, fmt.Errorf("layer %q is not in the curated catalog", input.LayerID)
		}
		return nil, entry, nil
	}
}

func ListCatalogLayersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_catalog_layers",
		Description: "Browse the curated catalog of the main Géoplateforme layers, by keyword or category",
	}
}

func ListCatalogLayersHandler() mcp.ToolHandlerFor[CatalogInput, CatalogResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CatalogInput) (*mcp.CallToolResult, CatalogResult, error) {
		serviceType := input.ServiceType
		if serviceType == "" {
			serviceType = "all"
		}

		var layers []geopf.CatalogEntry
		switch {
		case input.Category != "":
			layers = geopf.LayersByCategory(input.Category, serviceType)
		default:
			layers = geopf.SearchCatalog(input.Query, serviceType)
		}

		return nil, CatalogResult{
			Count:      len(layers),
			Layers:     layers,
			Categories: geopf.Categories(),
		}, nil
	}
}
