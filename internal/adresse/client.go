// Package adresse is a client for the Base Adresse Nationale geocoding API
// (api-adresse.data.gouv.fr).
package adresse

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

const defaultBaseURL = "https://api-adresse.data.gouv.fr"

// Client talks to the BAN geocoding API.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client) *Client {
	return &Client{http: http, baseURL: defaultBaseURL}
}

// Address is a geocoding result reduced to the useful properties.
type Address struct {
	Label     string   `json:"label"`
	Score     float64  `json:"score,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Type      string   `json:"type,omitempty"`
	City      string   `json:"city,omitempty"`
	Postcode  string   `json:"postcode,omitempty"`
}

type banResponse struct {
	Features []struct {
		Properties struct {
			Label    string  `json:"label"`
			Score    float64 `json:"score"`
			Type     string  `json:"type"`
			City     string  `json:"city"`
			Postcode string  `json:"postcode"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (r banResponse) addresses(withCoords bool) []Address {
	results := make([]Address, 0, len(r.Features))
	for _, feature := range r.Features {
		props := feature.Properties
		address := Address{
			Label:    props.Label,
			Score:    props.Score,
			Type:     props.Type,
			City:     props.City,
			Postcode: props.Postcode,
		}
		if withCoords && len(feature.Geometry.Coordinates) >= 2 {
			lon, lat := feature.Geometry.Coordinates[0], feature.Geometry.Coordinates[1]
			address.Longitude, address.Latitude = &lon, &lat
		}
		results = append(results, address)
	}
	return results
}

// Geocode resolves a free-form address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string, limit int) ([]Address, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"q":     {address},
		"limit": {strconv.Itoa(limit)},
	}

	var resp banResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search/", params, &resp); err != nil {
		return nil, fmt.Errorf("geocode address: %w", err)
	}
	return resp.addresses(true), nil
}

// ReverseGeocode resolves coordinates to the nearest addresses.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) ([]Address, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}

	var resp banResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/reverse/", params, &resp); err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}
	return resp.addresses(false), nil
}

// Search autocompletes a partial address.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Address, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"q":            {query},
		"limit":        {strconv.Itoa(limit)},
		"autocomplete": {"1"},
	}

	var resp banResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search/", params, &resp); err != nil {
		return nil, fmt.Errorf("search addresses: %w", err)
	}
	return resp.addresses(false), nil
}
