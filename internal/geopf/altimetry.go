package geopf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

const defaultAltiResource = "ign_rge_alti_wld"

// ElevationRequest asks for the altitude of one or more points. Lon and Lat
// are delimiter-separated coordinate lists.
type ElevationRequest struct {
	Lon       string
	Lat       string
	Resource  string
	Delimiter string
	ZOnly     bool
	Measures  bool
}

// ElevationLineRequest asks for an elevation profile along a polyline.
type ElevationLineRequest struct {
	Lon         string
	Lat         string
	Resource    string
	Delimiter   string
	ProfileMode string
	Sampling    int
	ZOnly       bool
}

// AltimetryResources lists the available elevation sources (MNT, MNS).
func (c *Client) AltimetryResources(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.http.GetRawJSON(ctx, c.altiResourcesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("get altimetry resources: %w", err)
	}
	return raw, nil
}

// GetElevation fetches point altitudes.
func (c *Client) GetElevation(ctx context.Context, req ElevationRequest) (json.RawMessage, error) {
	params := c.altiParams(req.Lon, req.Lat, req.Resource, req.Delimiter, req.ZOnly)
	params.Set("measures", strconv.FormatBool(req.Measures))

	raw, err := c.http.GetRawJSON(ctx, c.elevationURL, params)
	if err != nil {
		return nil, fmt.Errorf("get elevation: %w", err)
	}
	return raw, nil
}

// GetElevationLine fetches an elevation profile with cumulative height
// differences along the line.
func (c *Client) GetElevationLine(ctx context.Context, req ElevationLineRequest) (json.RawMessage, error) {
	if req.ProfileMode == "" {
		req.ProfileMode = "simple"
	}
	if req.Sampling <= 0 {
		req.Sampling = 50
	}

	params := c.altiParams(req.Lon, req.Lat, req.Resource, req.Delimiter, req.ZOnly)
	params.Set("profile_mode", req.ProfileMode)
	params.Set("sampling", strconv.Itoa(req.Sampling))

	raw, err := c.http.GetRawJSON(ctx, c.elevationLineURL, params)
	if err != nil {
		return nil, fmt.Errorf("get elevation line: %w", err)
	}
	return raw, nil
}

func (c *Client) altiParams(lon, lat, resource, delimiter string, zonly bool) url.Values {
	if resource == "" {
		resource = defaultAltiResource
	}
	if delimiter == "" {
		delimiter = "|"
	}
	return url.Values{
		"lon":       {lon},
		"lat":       {lat},
		"resource":  {resource},
		"delimiter": {delimiter},
		"zonly":     {strconv.FormatBool(zonly)},
	}
}
