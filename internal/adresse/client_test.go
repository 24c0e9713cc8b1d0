package adresse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

const banFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {
				"label": "8 Boulevard du Port 80000 Amiens",
				"score": 0.97,
				"type": "housenumber",
				"city": "Amiens",
				"postcode": "80000"
			},
			"geometry": {"type": "Point", "coordinates": [2.29009, 49.897443]}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(httpclient.New(0))
	c.baseURL = srv.URL
	return c
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/" {
			t.Errorf("path = %q, want /search/", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "8 bd du port" {
			t.Errorf("q = %q, want %q", got, "8 bd du port")
		}
		w.Write([]byte(banFixture))
	})

	got, err := c.Geocode(context.Background(), "8 bd du port", 5)
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(got))
	}
	if got[0].Longitude == nil || *got[0].Longitude != 2.29009 {
		t.Errorf("Longitude = %v, want 2.29009", got[0].Longitude)
	}
	if got[0].City != "Amiens" {
		t.Errorf("City = %q, want Amiens", got[0].City)
	}
}

func TestReverseGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse/" {
			t.Errorf("path = %q, want /reverse/", r.URL.Path)
		}
		if got := r.URL.Query().Get("lat"); got != "49.897443" {
			t.Errorf("lat = %q, want 49.897443", got)
		}
		w.Write([]byte(banFixture))
	})

	got, err := c.ReverseGeocode(context.Background(), 49.897443, 2.29009)
	if err != nil {
		t.Fatalf("ReverseGeocode() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(got))
	}
	if got[0].Longitude != nil {
		t.Error("reverse result carries coordinates, want properties only")
	}
}

func TestSearchSetsAutocomplete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("autocomplete"); got != "1" {
			t.Errorf("autocomplete = %q, want 1", got)
		}
		w.Write([]byte(`{"features": []}`))
	})

	got, err := c.Search(context.Background(), "8 bd", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(results) = %d, want 0", len(got))
	}
}
