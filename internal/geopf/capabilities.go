package geopf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Layer identifies a published layer or feature type.
type Layer struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

type wmtsCapabilities struct {
	Layers []struct {
		Identifier string `xml:"Identifier"`
		Title      string `xml:"Title"`
		Abstract   string `xml:"Abstract"`
	} `xml:"Contents>Layer"`
}

type wmsCapabilities struct {
	Layers []struct {
		Name     string `xml:"Name"`
		Title    string `xml:"Title"`
		Abstract string `xml:"Abstract"`
	} `xml:"Capability>Layer>Layer"`
}

type wfsCapabilities struct {
	FeatureTypes []struct {
		Name     string `xml:"Name"`
		Title    string `xml:"Title"`
		Abstract string `xml:"Abstract"`
	} `xml:"FeatureTypeList>FeatureType"`
}

// ListWMTSLayers fetches the WMTS capabilities document and returns every
// published tile layer.
func (c *Client) ListWMTSLayers(ctx context.Context) ([]Layer, error) {
	params := url.Values{
		"SERVICE": {"WMTS"},
		"VERSION": {"1.0.0"},
		"REQUEST": {"GetCapabilities"},
	}

	var caps wmtsCapabilities
	if err := c.http.GetXML(ctx, c.wmtsURL, params, &caps); err != nil {
		return nil, fmt.Errorf("list wmts layers: %w", err)
	}

	layers := make([]Layer, 0, len(caps.Layers))
	for _, layer := range caps.Layers {
		if layer.Identifier == "" {
			continue
		}
		layers = append(layers, Layer{Name: layer.Identifier, Title: layer.Title, Abstract: layer.Abstract})
	}
	return layers, nil
}

// ListWMSLayers fetches the WMS capabilities document and returns every
// published map layer.
func (c *Client) ListWMSLayers(ctx context.Context) ([]Layer, error) {
	params := url.Values{
		"SERVICE": {"WMS"},
		"VERSION": {"1.3.0"},
		"REQUEST": {"GetCapabilities"},
	}

	var caps wmsCapabilities
	if err := c.http.GetXML(ctx, c.wmsURL, params, &caps); err != nil {
		return nil, fmt.Errorf("list wms layers: %w", err)
	}

	layers := make([]Layer, 0, len(caps.Layers))
	for _, layer := range caps.Layers {
		if layer.Name == "" {
			continue
		}
		layers = append(layers, Layer{Name: layer.Name, Title: layer.Title, Abstract: layer.Abstract})
	}
	return layers, nil
}

// ListWFSFeatureTypes fetches the WFS capabilities document and returns
// every published feature type.
func (c *Client) ListWFSFeatureTypes(ctx context.Context) ([]Layer, error) {
	params := url.Values{
		"SERVICE": {"WFS"},
		"VERSION": {"2.0.0"},
		"REQUEST": {"GetCapabilities"},
	}

	var caps wfsCapabilities
	if err := c.http.GetXML(ctx, c.wfsURL, params, &caps); err != nil {
		return nil, fmt.Errorf("list wfs feature types: %w", err)
	}

	layers := make([]Layer, 0, len(caps.FeatureTypes))
	for _, ft := range caps.FeatureTypes {
		if ft.Name == "" {
			continue
		}
		layers = append(layers, Layer{Name: ft.Name, Title: ft.Title, Abstract: ft.Abstract})
	}
	return layers, nil
}

// SearchLayers filters the capabilities of one service by a case-insensitive
// keyword over name, title and abstract.
func (c *Client) SearchLayers(ctx context.Context, service, query string) ([]Layer, error) {
	var (
		layers []Layer
		err    error
	)
	switch service {
	case "wmts":
		layers, err = c.ListWMTSLayers(ctx)
	case "wms":
		layers, err = c.ListWMSLayers(ctx)
	case "wfs":
		layers, err = c.ListWFSFeatureTypes(ctx)
	default:
		return nil, fmt.Errorf("unknown service %q", service)
	}
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]Layer, 0)
	for _, layer := range layers {
		if strings.Contains(strings.ToLower(layer.Name), needle) ||
			strings.Contains(strings.ToLower(layer.Title), needle) ||
			strings.Contains(strings.ToLower(layer.Abstract), needle) {
			matches = append(matches, layer)
		}
	}
	return matches, nil
}

// GetWFSFeatures fetches features of one type as GeoJSON, optionally bounded
// by a bbox. The body is returned verbatim for caching.
func (c *Client) GetWFSFeatures(ctx context.Context, typename, bbox string, maxFeatures int) (json.RawMessage, error) {
	if maxFeatures <= 0 {
		maxFeatures = 100
	}
	params := url.Values{
		"service":      {"WFS"},
		"version":      {"2.0.0"},
		"request":      {"GetFeature"},
		"typename":     {typename},
		"outputFormat": {"application/json"},
		"count":        {strconv.Itoa(maxFeatures)},
	}
	if bbox != "" {
		params.Set("bbox", bbox)
	}

	raw, err := c.http.GetRawJSON(ctx, c.wfsURL, params)
	if err != nil {
		return nil, fmt.Errorf("get wfs features %s: %w", typename, err)
	}
	return raw, nil
}

// WMTSTileURL builds the GetTile URL for a layer at z/x/y in the PM tile
// matrix set.
func (c *Client) WMTSTileURL(layer string, z, x, y int) string {
	return fmt.Sprintf(
		"%s?SERVICE=WMTS&VERSION=1.0.0&REQUEST=GetTile&LAYER=%s&STYLE=normal&FORMAT=image/png&TILEMATRIXSET=PM&TILEMATRIX=%d&TILEROW=%d&TILECOL=%d",
		c.wmtsURL, layer, z, y, x,
	)
}

// WMSMapURL builds the GetMap URL for one or more layers over a bbox.
func (c *Client) WMSMapURL(layers, bbox string, width, height int, format string) string {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if format == "" {
		format = "image/png"
	}
	return fmt.Sprintf(
		"%s?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetMap&LAYERS=%s&STYLES=&FORMAT=%s&CRS=EPSG:4326&BBOX=%s&WIDTH=%d&HEIGHT=%d",
		c.wmsURL, layers, format, bbox, width, height,
	)
}
