package geopf

import (
	"context"
	"net/http"
	"testing"
)

func TestCalculateRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("resource") != "bdtopo-osrm" {
			t.Errorf("resource = %q, want bdtopo-osrm", q.Get("resource"))
		}
		if q.Get("start") != "5.7,45.1" {
			t.Errorf("start = %q", q.Get("start"))
		}
		if q.Get("geometryFormat") != "geojson" {
			t.Errorf("geometryFormat = %q, want geojson", q.Get("geometryFormat"))
		}
		if q.Get("getSteps") != "true" {
			t.Errorf("getSteps = %q, want true", q.Get("getSteps"))
		}
		if q.Get("intermediates") != "5.75,45.15|5.76,45.16" {
			t.Errorf("intermediates = %q", q.Get("intermediates"))
		}
		w.Write([]byte(`{
			"distance": 465.2,
			"duration": 4.5,
			"geometry": {"type": "LineString", "coordinates": [[5.7,45.1],[5.8,45.2]]},
			"bbox": [5.7,45.1,5.8,45.2],
			"portions": [],
			"constraints": "ignored extra field"
		}`))
	})

	got, err := c.CalculateRoute(context.Background(), RouteRequest{
		Start:         "5.7,45.1",
		End:           "5.8,45.2",
		Intermediates: []string{"5.75,45.15", "5.76,45.16"},
	})
	if err != nil {
		t.Fatalf("CalculateRoute() error = %v", err)
	}
	if string(got.Distance) != "465.2" {
		t.Errorf("Distance = %s, want 465.2", got.Distance)
	}
	if string(got.Duration) != "4.5" {
		t.Errorf("Duration = %s, want 4.5", got.Duration)
	}
	if got.Geometry == nil {
		t.Error("Geometry missing")
	}
}

func TestCalculateIsochrone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("resource") != "bdtopo-valhalla" {
			t.Errorf("resource = %q, want bdtopo-valhalla", q.Get("resource"))
		}
		if q.Get("costValue") != "300" {
			t.Errorf("costValue = %q, want 300", q.Get("costValue"))
		}
		if q.Get("costType") != "time" {
			t.Errorf("costType = %q, want time", q.Get("costType"))
		}
		if q.Get("direction") != "departure" {
			t.Errorf("direction = %q, want departure", q.Get("direction"))
		}
		w.Write([]byte(`{"point": "5.7,45.1", "geometry": {"type": "MultiPolygon", "coordinates": []}}`))
	})

	raw, err := c.CalculateIsochrone(context.Background(), IsochroneRequest{
		Point:     "5.7,45.1",
		CostValue: 300,
	})
	if err != nil {
		t.Fatalf("CalculateIsochrone() error = %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("empty isochrone payload")
	}
}

func TestGetElevationLine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("resource") != "ign_rge_alti_wld" {
			t.Errorf("resource = %q, want ign_rge_alti_wld", q.Get("resource"))
		}
		if q.Get("sampling") != "50" {
			t.Errorf("sampling = %q, want 50", q.Get("sampling"))
		}
		if q.Get("profile_mode") != "simple" {
			t.Errorf("profile_mode = %q, want simple", q.Get("profile_mode"))
		}
		w.Write([]byte(`{"elevations": [{"lon": 5.7, "lat": 45.1, "z": 212.5}], "height_differences": {"positive": 0, "negative": 0}}`))
	})

	raw, err := c.GetElevationLine(context.Background(), ElevationLineRequest{
		Lon: "5.7|5.8",
		Lat: "45.1|45.2",
	})
	if err != nil {
		t.Fatalf("GetElevationLine() error = %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("empty elevation payload")
	}
}

func TestGetElevation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("zonly") != "true" {
			t.Errorf("zonly = %q, want true", q.Get("zonly"))
		}
		if q.Get("measures") != "false" {
			t.Errorf("measures = %q, want false", q.Get("measures"))
		}
		w.Write([]byte(`{"elevations": [{"z": 125.9}]}`))
	})

	if _, err := c.GetElevation(context.Background(), ElevationRequest{Lon: "5.7", Lat: "45.1", ZOnly: true}); err != nil {
		t.Fatalf("GetElevation() error = %v", err)
	}
}
