// Package geopf is a client for the IGN Géoplateforme services: WMTS, WMS
// and WFS capabilities, itinerary and isochrone computation, and altimetry.
package geopf

import (
	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

const (
	defaultWMTSURL         = "https://data.geopf.fr/wmts"
	defaultWMSURL          = "https://data.geopf.fr/wms-r"
	defaultWFSURL          = "https://data.geopf.fr/wfs"
	defaultRouteURL        = "https://data.geopf.fr/navigation/itineraire"
	defaultIsochroneURL    = "https://data.geopf.fr/navigation/isochrone"
	defaultNavCapsURL      = "https://data.geopf.fr/navigation/getcapabilities"
	defaultAltiResourceURL = "https://data.geopf.fr/altimetrie/resources"
	defaultElevationURL    = "https://data.geopf.fr/altimetrie/1.0/calcul/alti/rest/elevation.json"
	defaultElevationLine   = "https://data.geopf.fr/altimetrie/1.0/calcul/alti/rest/elevationLine.json"
)

// Client talks to the Géoplateforme endpoints. Each endpoint URL is a field
// so tests can point at fixtures.
type Client struct {
	http *httpclient.Client

	wmtsURL          string
	wmsURL           string
	wfsURL           string
	routeURL         string
	isochroneURL     string
	navCapsURL       string
	altiResourcesURL string
	elevationURL     string
	elevationLineURL string
}

func New(http *httpclient.Client) *Client {
	return &Client{
		http:             http,
		wmtsURL:          defaultWMTSURL,
		wmsURL:           defaultWMSURL,
		wfsURL:           defaultWFSURL,
		routeURL:         defaultRouteURL,
		isochroneURL:     defaultIsochroneURL,
		navCapsURL:       defaultNavCapsURL,
		altiResourcesURL: defaultAltiResourceURL,
		elevationURL:     defaultElevationURL,
		elevationLineURL: defaultElevationLine,
	}
}
