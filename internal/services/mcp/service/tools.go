package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/adresse"
	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/datagouv"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geoapi"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geopf"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geoproc"
	"github.com/nikoko107/mcp-datagouv-ign/internal/services/mcp/domain"
)

func registerDatasetTools(mcpServer *mcp.Server, client *datagouv.Client, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.SearchDatasetsTool(), domain.SearchDatasetsHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetDatasetTool(), domain.GetDatasetHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetDatasetResourcesTool(), domain.GetDatasetResourcesHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchOrganizationsTool(), domain.SearchOrganizationsHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetOrganizationTool(), domain.GetOrganizationHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchReusesTool(), domain.SearchReusesHandler(client, store))
}

func registerGeocodingTools(mcpServer *mcp.Server, client *adresse.Client, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.GeocodeAddressTool(), domain.GeocodeAddressHandler(client, store))
	mcp.AddTool(mcpServer, domain.ReverseGeocodeTool(), domain.ReverseGeocodeHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchAddressesTool(), domain.SearchAddressesHandler(client, store))
}

func registerAdminTools(mcpServer *mcp.Server, client *geoapi.Client, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.SearchCommunesTool(), domain.SearchCommunesHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetCommuneInfoTool(), domain.GetCommuneInfoHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetDepartementCommunesTool(), domain.GetDepartementCommunesHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchDepartementsTool(), domain.SearchDepartementsHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchRegionsTool(), domain.SearchRegionsHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetRegionInfoTool(), domain.GetRegionInfoHandler(client, store))
}

func registerLayerTools(mcpServer *mcp.Server, client *geopf.Client, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.ListWMTSLayersTool(), domain.ListWMTSLayersHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchWMTSLayersTool(), domain.SearchWMTSLayersHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetWMTSTileURLTool(), domain.GetWMTSTileURLHandler(client))
	mcp.AddTool(mcpServer, domain.ListWMSLayersTool(), domain.ListWMSLayersHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchWMSLayersTool(), domain.SearchWMSLayersHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetWMSMapURLTool(), domain.GetWMSMapURLHandler(client))
	mcp.AddTool(mcpServer, domain.ListWFSFeaturesTool(), domain.ListWFSFeaturesHandler(client, store))
	mcp.AddTool(mcpServer, domain.SearchWFSFeaturesTool(), domain.SearchWFSFeaturesHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetWFSFeaturesTool(), domain.GetWFSFeaturesHandler(client, store))
	mcp.AddTool(mcpServer, domain.DescribeLayerTool(), domain.DescribeLayerHandler())
	mcp.AddTool(mcpServer, domain.ListCatalogLayersTool(), domain.ListCatalogLayersHandler())
}

func registerNavigationTools(mcpServer *mcp.Server, client *geopf.Client, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.GetRouteCapabilitiesTool(), domain.GetRouteCapabilitiesHandler(client, store))
	mcp.AddTool(mcpServer, domain.CalculateRouteTool(), domain.CalculateRouteHandler(client, store))
	mcp.AddTool(mcpServer, domain.CalculateIsochroneTool(), domain.CalculateIsochroneHandler(client, store))
}

func registerAltimetryTools(mcpServer *mcp.Server, client *geopf.Client, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.GetAltimetryResourcesTool(), domain.GetAltimetryResourcesHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetElevationTool(), domain.GetElevationHandler(client, store))
	mcp.AddTool(mcpServer, domain.GetElevationLineTool(), domain.GetElevationLineHandler(client, store))
}

func registerGeoprocTools(mcpServer *mcp.Server, runner *geoproc.Runner, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.GetGeodataBBoxTool(), domain.GetGeodataBBoxHandler(runner, store))
	mcp.AddTool(mcpServer, domain.ExplodeGeodataTool(), domain.ExplodeGeodataHandler(runner, store))
	mcp.AddTool(mcpServer, domain.ReprojectGeodataTool(), domain.ReprojectGeodataHandler(runner, store))
	mcp.AddTool(mcpServer, domain.SimplifyGeodataTool(), domain.SimplifyGeodataHandler(runner, store))
}

func registerCacheTools(mcpServer *mcp.Server, store *cache.Cache) {
	mcp.AddTool(mcpServer, domain.GetCachedDataTool(), domain.GetCachedDataHandler(store))
	mcp.AddTool(mcpServer, domain.ListCachedItemsTool(), domain.ListCachedItemsHandler(store))
	mcp.AddTool(mcpServer, domain.ExportCachedDataTool(), domain.ExportCachedDataHandler(store))
	mcp.AddTool(mcpServer, domain.ExtractGeometryCoordinatesTool(), domain.ExtractGeometryCoordinatesHandler(store))
	mcp.AddTool(mcpServer, domain.ClearCacheTool(), domain.ClearCacheHandler(store))
}
