package datagouv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(httpclient.New(0))
	c.baseURL = srv.URL
	return c
}

func TestSearchDatasets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/datasets/" {
			t.Errorf("path = %q, want /datasets/", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "transport" {
			t.Errorf("q = %q, want transport", got)
		}
		if got := r.URL.Query().Get("tag"); got != "mobilite" {
			t.Errorf("tag = %q, want mobilite", got)
		}
		w.Write([]byte(`{
			"total": 2,
			"data": [
				{
					"title": "Horaires des lignes",
					"id": "abc123",
					"slug": "horaires-des-lignes",
					"description": "` + strings.Repeat("x", 300) + `",
					"organization": {"name": "SNCF"}
				},
				{"title": "Arrets", "id": "def456", "slug": "arrets", "description": "court"}
			]
		}`))
	})

	got, err := c.SearchDatasets(context.Background(), "transport", "", "mobilite", 20)
	if err != nil {
		t.Fatalf("SearchDatasets() error = %v", err)
	}
	if got.Total != 2 {
		t.Errorf("Total = %d, want 2", got.Total)
	}
	if len(got.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(got.Results))
	}
	if got.Results[0].Organization != "SNCF" {
		t.Errorf("Organization = %q, want SNCF", got.Results[0].Organization)
	}
	if len(got.Results[0].Description) != 200 {
		t.Errorf("description length = %d, want 200", len(got.Results[0].Description))
	}
	if want := "https://www.data.gouv.fr/fr/datasets/horaires-des-lignes/"; got.Results[0].URL != want {
		t.Errorf("URL = %q, want %q", got.Results[0].URL, want)
	}
	if got.Results[1].Description != "court" {
		t.Errorf("short description modified: %q", got.Results[1].Description)
	}
}

func TestGetDataset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/datasets/abc123/" {
			t.Errorf("path = %q, want /datasets/abc123/", r.URL.Path)
		}
		w.Write([]byte(`{
			"title": "Horaires",
			"slug": "horaires",
			"description": "Tous les horaires",
			"organization": {"name": "SNCF"},
			"tags": ["transport"],
			"license": "lov2",
			"frequency": "daily",
			"resources": [{"title": "export", "url": "https://example.test/h.csv", "format": "csv", "filesize": 1024}]
		}`))
	})

	got, err := c.GetDataset(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetDataset() error = %v", err)
	}
	if got.ResourcesCount != 1 {
		t.Errorf("ResourcesCount = %d, want 1", got.ResourcesCount)
	}
	if got.License != "lov2" {
		t.Errorf("License = %q, want lov2", got.License)
	}
}

func TestGetDatasetResources(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"title": "Horaires",
			"resources": [
				{"title": "export", "url": "https://example.test/h.csv", "format": "csv", "filesize": 1024},
				{"title": "doc", "url": "https://example.test/doc.pdf", "format": "pdf"}
			]
		}`))
	})

	got, err := c.GetDatasetResources(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetDatasetResources() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(resources) = %d, want 2", len(got))
	}
	if got[0].Filesize == nil || *got[0].Filesize != 1024 {
		t.Errorf("Filesize = %v, want 1024", got[0].Filesize)
	}
	if got[1].Filesize != nil {
		t.Errorf("missing filesize decoded as %v, want nil", *got[1].Filesize)
	}
}

func TestGetOrganization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "SNCF",
			"description": "Operateur ferroviaire",
			"slug": "sncf",
			"metrics": {"datasets": 42}
		}`))
	})

	got, err := c.GetOrganization(context.Background(), "sncf")
	if err != nil {
		t.Fatalf("GetOrganization() error = %v", err)
	}
	if got.DatasetsCount != 42 {
		t.Errorf("DatasetsCount = %d, want 42", got.DatasetsCount)
	}
}

func TestSearchReuses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reuses/" {
			t.Errorf("path = %q, want /reuses/", r.URL.Path)
		}
		w.Write([]byte(`{"data": [{"title": "Carte interactive", "url": "https://example.test", "type": "visualization"}]}`))
	})

	got, err := c.SearchReuses(context.Background(), "carte", 0)
	if err != nil {
		t.Fatalf("SearchReuses() error = %v", err)
	}
	if len(got) != 1 || got[0].Type != "visualization" {
		t.Errorf("reuses = %+v", got)
	}
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	if _, err := c.GetDataset(context.Background(), "missing"); err == nil {
		t.Fatal("GetDataset() succeeded on a 404")
	}
}
