package geoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func TestSearchCommunes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/communes" {
			t.Errorf("path = %q, want /communes", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("nom") != "Grenoble" {
			t.Errorf("nom = %q, want Grenoble", q.Get("nom"))
		}
		if q.Get("codePostal") != "38000" {
			t.Errorf("codePostal = %q, want 38000", q.Get("codePostal"))
		}
		w.Write([]byte(`[{"nom": "Grenoble", "code": "38185"}]`))
	})

	raw, err := c.SearchCommunes(context.Background(), CommuneQuery{Nom: "Grenoble", CodePostal: "38000"})
	if err != nil {
		t.Fatalf("SearchCommunes() error = %v", err)
	}

	var communes []struct {
		Nom  string `json:"nom"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(raw, &communes); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(communes) != 1 || communes[0].Code != "38185" {
		t.Errorf("communes = %+v", communes)
	}
}

func TestGetCommuneRequestsStandardFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/communes/38185" {
			t.Errorf("path = %q, want /communes/38185", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != communeInfoFields {
			t.Errorf("fields = %q, want %q", got, communeInfoFields)
		}
		w.Write([]byte(`{"nom": "Grenoble", "code": "38185", "population": 158454}`))
	})

	if _, err := c.GetCommune(context.Background(), "38185"); err != nil {
		t.Fatalf("GetCommune() error = %v", err)
	}
}

func TestGetDepartementCommunes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/departements/38/communes" {
			t.Errorf("path = %q, want /departements/38/communes", r.URL.Path)
		}
		w.Write([]byte(`[]`))
	})

	if _, err := c.GetDepartementCommunes(context.Background(), "38"); err != nil {
		t.Fatalf("GetDepartementCommunes() error = %v", err)
	}
}

func TestSearchRegionsOmitsEmptyName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		w.Write([]byte(`[]`))
	})

	if _, err := c.SearchRegions(context.Background(), ""); err != nil {
		t.Fatalf("SearchRegions() error = %v", err)
	}
}
