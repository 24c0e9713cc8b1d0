// Package geoapi is a client for the Découpage Administratif API
// (geo.api.gouv.fr): communes, départements and régions. Responses are
// passed through as the upstream returns them; the API already answers with
// compact records.
package geoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

const defaultBaseURL = "https://geo.api.gouv.fr"

// communeInfoFields is the field set requested for single-commune lookups.
const communeInfoFields = "nom,code,codesPostaux,population,departement,region"

// Client talks to the Découpage Administratif API.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client) *Client {
	return &Client{http: http, baseURL: defaultBaseURL}
}

// CommuneQuery filters a commune search. All fields are optional; Fields
// selects which attributes the upstream includes.
type CommuneQuery struct {
	Nom        string
	CodePostal string
	Fields     string
}

// SearchCommunes queries communes by name or postal code.
func (c *Client) SearchCommunes(ctx context.Context, query CommuneQuery) (json.RawMessage, error) {
	params := url.Values{}
	if query.Nom != "" {
		params.Set("nom", query.Nom)
	}
	if query.CodePostal != "" {
		params.Set("codePostal", query.CodePostal)
	}
	if query.Fields != "" {
		params.Set("fields", query.Fields)
	}

	raw, err := c.http.GetRawJSON(ctx, c.baseURL+"/communes", params)
	if err != nil {
		return nil, fmt.Errorf("search communes: %w", err)
	}
	return raw, nil
}

// GetCommune fetches one commune by INSEE code with the standard field set.
func (c *Client) GetCommune(ctx context.Context, code string) (json.RawMessage, error) {
	params := url.Values{"fields": {communeInfoFields}}
	raw, err := c.http.GetRawJSON(ctx, c.baseURL+"/communes/"+url.PathEscape(code), params)
	if err != nil {
		return nil, fmt.Errorf("get commune %s: %w", code, err)
	}
	return raw, nil
}

// GetDepartementCommunes lists every commune of a département.
func (c *Client) GetDepartementCommunes(ctx context.Context, code string) (json.RawMessage, error) {
	raw, err := c.http.GetRawJSON(ctx, c.baseURL+"/departements/"+url.PathEscape(code)+"/communes", nil)
	if err != nil {
		return nil, fmt.Errorf("get departement %s communes: %w", code, err)
	}
	return raw, nil
}

// SearchDepartements queries départements, optionally by name.
func (c *Client) SearchDepartements(ctx context.Context, nom string) (json.RawMessage, error) {
	params := url.Values{}
	if nom != "" {
		params.Set("nom", nom)
	}
	raw, err := c.http.GetRawJSON(ctx, c.baseURL+"/departements", params)
	if err != nil {
		return nil, fmt.Errorf("search departements: %w", err)
	}
	return raw, nil
}

// SearchRegions queries régions, optionally by name.
func (c *Client) SearchRegions(ctx context.Context, nom string) (json.RawMessage, error) {
	params := url.Values{}
	if nom != "" {
		params.Set("nom", nom)
	}
	raw, err := c.http.GetRawJSON(ctx, c.baseURL+"/regions", params)
	if err != nil {
		return nil, fmt.Errorf("search regions: %w", err)
	}
	return raw, nil
}

// GetRegion fetches one région by code.
func (c *Client) GetRegion(ctx context.Context, code string) (json.RawMessage, error) {
	raw, err := c.http.GetRawJSON(ctx, c.baseURL+"/regions/"+url.PathEscape(code), nil)
	if err != nil {
		return nil, fmt.Errorf("get region %s: %w", code, err)
	}
	return raw, nil
}
