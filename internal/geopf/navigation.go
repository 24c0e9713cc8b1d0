package geopf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// RouteRequest describes an itinerary computation. Start and End are
// "longitude,latitude" strings, the format the navigation service expects.
type RouteRequest struct {
	Start         string
	End           string
	Resource      string
	Profile       string
	Optimization  string
	Intermediates []string
	GetSteps      *bool
	GetBBox       *bool
	Constraints   []map[string]any
	DistanceUnit  string
	TimeUnit      string
}

// RouteResult is the itinerary reduced to the fields worth relaying. Values
// are kept as raw JSON so the payload survives caching byte-for-byte.
type RouteResult struct {
	Distance json.RawMessage `json:"distance"`
	Duration json.RawMessage `json:"duration"`
	Geometry json.RawMessage `json:"geometry,omitempty"`
	BBox     json.RawMessage `json:"bbox,omitempty"`
	Portions json.RawMessage `json:"portions,omitempty"`
}

// IsochroneRequest describes an isochrone or isodistance computation around
// Point ("longitude,latitude").
type IsochroneRequest struct {
	Point        string
	CostValue    float64
	CostType     string
	Resource     string
	Profile      string
	Direction    string
	Constraints  []map[string]any
	DistanceUnit string
	TimeUnit     string
}

// RouteCapabilities fetches the navigation service capabilities: available
// graphs, profiles and optimizations.
func (c *Client) RouteCapabilities(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.http.GetRawJSON(ctx, c.navCapsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("get route capabilities: %w", err)
	}
	return raw, nil
}

// CalculateRoute computes an itinerary between two points.
func (c *Client) CalculateRoute(ctx context.Context, req RouteRequest) (RouteResult, error) {
	if req.Resource == "" {
		req.Resource = "bdtopo-osrm"
	}
	if req.Optimization == "" {
		req.Optimization = "fastest"
	}
	if req.DistanceUnit == "" {
		req.DistanceUnit = "kilometer"
	}
	if req.TimeUnit == "" {
		req.TimeUnit = "hour"
	}

	params := url.Values{
		"resource":       {req.Resource},
		"start":          {req.Start},
		"end":            {req.End},
		"optimization":   {req.Optimization},
		"geometryFormat": {"geojson"},
		"getSteps":       {strconv.FormatBool(boolOrDefault(req.GetSteps, true))},
		"getBbox":        {strconv.FormatBool(boolOrDefault(req.GetBBox, true))},
		"distanceUnit":   {req.DistanceUnit},
		"timeUnit":       {req.TimeUnit},
	}
	if req.Profile != "" {
		params.Set("profile", req.Profile)
	}
	if len(req.Intermediates) > 0 {
		params.Set("intermediates", strings.Join(req.Intermediates, "|"))
	}
	if len(req.Constraints) > 0 {
		encoded, err := json.Marshal(req.Constraints)
		if err != nil {
			return RouteResult{}, fmt.Errorf("encode route constraints: %w", err)
		}
		params.Set("constraints", string(encoded))
	}

	var result RouteResult
	if err := c.http.GetJSON(ctx, c.routeURL, params, &result); err != nil {
		return RouteResult{}, fmt.Errorf("calculate route: %w", err)
	}
	return result, nil
}

// CalculateIsochrone computes an isochrone (time cost) or isodistance
// (distance cost) around a point. The upstream response is returned whole.
func (c *Client) CalculateIsochrone(ctx context.Context, req IsochroneRequest) (json.RawMessage, error) {
	if req.CostType == "" {
		req.CostType = "time"
	}
	if req.Resource == "" {
		req.Resource = "bdtopo-valhalla"
	}
	if req.Direction == "" {
		req.Direction = "departure"
	}
	if req.DistanceUnit == "" {
		req.DistanceUnit = "kilometer"
	}
	if req.TimeUnit == "" {
		req.TimeUnit = "hour"
	}

	params := url.Values{
		"resource":       {req.Resource},
		"point":          {req.Point},
		"costValue":      {strconv.FormatFloat(req.CostValue, 'f', -1, 64)},
		"costType":       {req.CostType},
		"direction":      {req.Direction},
		"geometryFormat": {"geojson"},
		"distanceUnit":   {req.DistanceUnit},
		"timeUnit":       {req.TimeUnit},
	}
	if req.Profile != "" {
		params.Set("profile", req.Profile)
	}
	if len(req.Constraints) > 0 {
		encoded, err := json.Marshal(req.Constraints)
		if err != nil {
			return nil, fmt.Errorf("encode isochrone constraints: %w", err)
		}
		params.Set("constraints", string(encoded))
	}

	raw, err := c.http.GetRawJSON(ctx, c.isochroneURL, params)
	if err != nil {
		return nil, fmt.Errorf("calculate isochrone: %w", err)
	}
	return raw, nil
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
