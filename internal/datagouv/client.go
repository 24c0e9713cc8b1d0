// Package datagouv is a client for the data.gouv.fr open-data catalog API.
// Responses are reduced to the fields an assistant needs: full catalog
// records carry editorial payloads that would drown the conversation.
package datagouv

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

const defaultBaseURL = "https://www.data.gouv.fr/api/1"

// descriptionPreview bounds dataset descriptions in search results.
const descriptionPreview = 200

// Client talks to the data.gouv.fr API v1.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

func New(http *httpclient.Client) *Client {
	return NewWithBaseURL(http, defaultBaseURL)
}

// NewWithBaseURL creates a client against an explicit API root. Tests point
// it at a local server.
func NewWithBaseURL(http *httpclient.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: baseURL}
}

// DatasetSummary is a search hit, with the description truncated to a
// preview.
type DatasetSummary struct {
	Title        string `json:"title"`
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Organization string `json:"organization,omitempty"`
	URL          string `json:"url"`
}

// DatasetSearchResult carries the upstream total alongside the reduced hits.
type DatasetSearchResult struct {
	Total   int              `json:"total"`
	Results []DatasetSummary `json:"results"`
}

// Dataset is the detail view of a single dataset.
type Dataset struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Organization   string   `json:"organization,omitempty"`
	Tags           []string `json:"tags"`
	License        string   `json:"license,omitempty"`
	Frequency      string   `json:"frequency,omitempty"`
	ResourcesCount int      `json:"resources_count"`
}

// Resource is a downloadable file attached to a dataset.
type Resource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Format   string `json:"format,omitempty"`
	Filesize *int64 `json:"filesize,omitempty"`
}

// OrganizationSummary is a search hit for a publishing organization.
type OrganizationSummary struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

// Organization is the detail view of a publishing organization.
type Organization struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	DatasetsCount int    `json:"datasets_count"`
}

// Reuse is a published reuse of open data.
type Reuse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
}

// upstream wire shapes

type datasetRecord struct {
	Title        string `json:"title"`
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Organization *struct {
		Name string `json:"name"`
	} `json:"organization"`
	Tags      []string `json:"tags"`
	License   string   `json:"license"`
	Frequency string   `json:"frequency"`
	Resources []struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		Format   string `json:"format"`
		Filesize *int64 `json:"filesize"`
	} `json:"resources"`
}

// SearchDatasets queries the dataset catalog. organization and tag are
// optional filters.
func (c *Client) SearchDatasets(ctx context.Context, query, organization, tag string, pageSize int) (DatasetSearchResult, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	params := url.Values{
		"q":         {query},
		"page_size": {strconv.Itoa(pageSize)},
	}
	if organization != "" {
		params.Set("organization", organization)
	}
	if tag != "" {
		params.Set("tag", tag)
	}

	var page struct {
		Total int             `json:"total"`
		Data  []datasetRecord `json:"data"`
	}
	if err := c.http.GetJSON(ctx, c.baseURL+"/datasets/", params, &page); err != nil {
		return DatasetSearchResult{}, fmt.Errorf("search datasets: %w", err)
	}

	result := DatasetSearchResult{Total: page.Total, Results: make([]DatasetSummary, 0, len(page.Data))}
	for _, record := range page.Data {
		summary := DatasetSummary{
			Title:       record.Title,
			ID:          record.ID,
			Slug:        record.Slug,
			Description: truncate(record.Description, descriptionPreview),
			URL:         datasetURL(record.Slug),
		}
		if record.Organization != nil {
			summary.Organization = record.Organization.Name
		}
		result.Results = append(result.Results, summary)
	}
	return result, nil
}

// GetDataset fetches one dataset by ID or slug.
func (c *Client) GetDataset(ctx context.Context, datasetID string) (Dataset, error) {
	record, err := c.fetchDataset(ctx, datasetID)
	if err != nil {
		return Dataset{}, err
	}

	dataset := Dataset{
		Title:          record.Title,
		Description:    record.Description,
		URL:            datasetURL(record.Slug),
		Tags:           record.Tags,
		License:        record.License,
		Frequency:      record.Frequency,
		ResourcesCount: len(record.Resources),
	}
	if record.Organization != nil {
		dataset.Organization = record.Organization.Name
	}
	return dataset, nil
}

// GetDatasetResources lists the downloadable resources of a dataset.
func (c *Client) GetDatasetResources(ctx context.Context, datasetID string) ([]Resource, error) {
	record, err := c.fetchDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(record.Resources))
	for _, res := range record.Resources {
		resources = append(resources, Resource{
			Title:    res.Title,
			URL:      res.URL,
			Format:   res.Format,
			Filesize: res.Filesize,
		})
	}
	return resources, nil
}

func (c *Client) fetchDataset(ctx context.Context, datasetID string) (datasetRecord, error) {
	var record datasetRecord
	target := fmt.Sprintf("%s/datasets/%s/", c.baseURL, url.PathEscape(datasetID))
	if err := c.http.GetJSON(ctx, target, nil, &record); err != nil {
		return datasetRecord{}, fmt.Errorf("get dataset %s: %w", datasetID, err)
	}
	return record, nil
}

// SearchOrganizations queries the publishing organizations.
func (c *Client) SearchOrganizations(ctx context.Context, query string, pageSize int) ([]OrganizationSummary, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	params := url.Values{
		"q":         {query},
		"page_size": {strconv.Itoa(pageSize)},
	}

	var page struct {
		Data []struct {
			Name string `json:"name"`
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"data"`
	}
	if err := c.http.GetJSON(ctx, c.baseURL+"/organizations/", params, &page); err != nil {
		return nil, fmt.Errorf("search organizations: %w", err)
	}

	results := make([]OrganizationSummary, 0, len(page.Data))
	for _, org := range page.Data {
		results = append(results, OrganizationSummary{
			Name: org.Name,
			ID:   org.ID,
			Slug: org.Slug,
			URL:  "https://www.data.gouv.fr/fr/organizations/" + org.Slug + "/",
		})
	}
	return results, nil
}

// GetOrganization fetches one organization by ID or slug.
func (c *Client) GetOrganization(ctx context.Context, orgID string) (Organization, error) {
	var record struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Slug        string `json:"slug"`
		Metrics     struct {
			Datasets int `json:"datasets"`
		} `json:"metrics"`
	}
	target := fmt.Sprintf("%s/organizations/%s/", c.baseURL, url.PathEscape(orgID))
	if err := c.http.GetJSON(ctx, target, nil, &record); err != nil {
		return Organization{}, fmt.Errorf("get organization %s: %w", orgID, err)
	}

	return Organization{
		Name:          record.Name,
		Description:   record.Description,
		URL:           "https://www.data.gouv.fr/fr/organizations/" + record.Slug + "/",
		DatasetsCount: record.Metrics.Datasets,
	}, nil
}

// SearchReuses queries published reuses of open data.
func (c *Client) SearchReuses(ctx context.Context, query string, pageSize int) ([]Reuse, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	params := url.Values{
		"q":         {query},
		"page_size": {strconv.Itoa(pageSize)},
	}

	var page struct {
		Data []Reuse `json:"data"`
	}
	if err := c.http.GetJSON(ctx, c.baseURL+"/reuses/", params, &page); err != nil {
		return nil, fmt.Errorf("search reuses: %w", err)
	}
	return page.Data, nil
}

func datasetURL(slug string) string {
	return "https://www.data.gouv.fr/fr/datasets/" + slug + "/"
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
