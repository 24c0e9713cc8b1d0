package geoproc

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/paulmach/orb"
)

const multiPolygonFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"nom": "zone"},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[5.7, 45.1], [5.8, 45.1], [5.8, 45.2], [5.7, 45.1]]],
					[[[6.0, 46.0], [6.1, 46.0], [6.1, 46.1], [6.0, 46.0]]]
				]
			}
		}
	]
}`

func TestBBox(t *testing.T) {
	got, err := BBox([]byte(multiPolygonFixture), "")
	if err != nil {
		t.Fatalf("BBox() error = %v", err)
	}
	want := Bounds{MinX: 5.7, MinY: 45.1, MaxX: 6.1, MaxY: 46.1}
	if got.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", got.Bounds, want)
	}
	if got.CRS != CRSWGS84 {
		t.Errorf("CRS = %q, want %q", got.CRS, CRSWGS84)
	}
}

func TestBBoxRejectsEmptyCollection(t *testing.T) {
	_, err := BBox([]byte(`{"type": "FeatureCollection", "features": []}`), "")
	if !errors.Is(err, ErrNoFeatures) {
		t.Errorf("BBox() error = %v, want ErrNoFeatures", err)
	}
}

func TestDecodeBareGeometry(t *testing.T) {
	fc, err := Decode([]byte(`{"type": "Point", "coordinates": [5.7, 45.1]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("len(features) = %d, want 1", len(fc.Features))
	}
}

func TestExplode(t *testing.T) {
	fc, err := Explode([]byte(multiPolygonFixture))
	if err != nil {
		t.Fatalf("Explode() error = %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("len(features) = %d, want 2", len(fc.Features))
	}
	for i, feature := range fc.Features {
		if _, ok := feature.Geometry.(orb.Polygon); !ok {
			t.Errorf("feature %d geometry is %T, want orb.Polygon", i, feature.Geometry)
		}
		if feature.Properties["nom"] != "zone" {
			t.Errorf("feature %d lost its properties", i)
		}
	}
}

func TestReproject(t *testing.T) {
	point := `{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [0, 0]}}`

	fc, err := Reproject([]byte(point), CRSWGS84, CRSMercator)
	if err != nil {
		t.Fatalf("Reproject() error = %v", err)
	}
	origin, ok := fc.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("geometry is %T, want orb.Point", fc.Features[0].Geometry)
	}
	if math.Abs(origin.X()) > 1e-9 || math.Abs(origin.Y()) > 1e-9 {
		t.Errorf("origin reprojected to %v, want (0,0)", origin)
	}

	t.Run("round trip", func(t *testing.T) {
		grenoble := `{"type": "Point", "coordinates": [5.724524, 45.188529]}`
		mercator, err := Reproject([]byte(grenoble), CRSWGS84, CRSMercator)
		if err != nil {
			t.Fatal(err)
		}
		projected := mercator.Features[0].Geometry.(orb.Point)
		if projected.X() < 600000 || projected.X() > 700000 {
			t.Errorf("mercator x = %v, want around 637000", projected.X())
		}
	})

	t.Run("unsupported crs", func(t *testing.T) {
		if _, err := Reproject([]byte(point), CRSWGS84, "EPSG:2154"); err == nil {
			t.Error("Reproject() accepted Lambert 93")
		}
	})
}

func TestSimplify(t *testing.T) {
	// A nearly straight line with one redundant midpoint.
	line := `{"type": "Feature", "properties": {}, "geometry": {"type": "LineString", "coordinates": [[0,0],[1,0.0001],[2,0]]}}`

	fc, err := Simplify([]byte(line), 0.01)
	if err != nil {
		t.Fatalf("Simplify() error = %v", err)
	}
	simplified, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("geometry is %T, want orb.LineString", fc.Features[0].Geometry)
	}
	if len(simplified) != 2 {
		t.Errorf("len(line) = %d, want 2", len(simplified))
	}

	if _, err := Simplify([]byte(line), 0); err == nil {
		t.Error("Simplify() accepted a zero tolerance")
	}
}

func TestRunnerBoundsConcurrency(t *testing.T) {
	runner := NewRunner(1)

	var mu sync.Mutex
	var active, peak int

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Run(context.Background(), runner, func() (struct{}, error) {
				mu.Lock()
				active++
				if active > peak {
					peak = active
				}
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return struct{}{}, nil
			})
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 1 {
		t.Errorf("peak concurrency = %d, want 1", peak)
	}
}

func TestRunnerHonorsContext(t *testing.T) {
	runner := NewRunner(1)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		Run(context.Background(), runner, func() (struct{}, error) {
			close(started)
			<-release
			return struct{}{}, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, runner, func() (struct{}, error) { return struct{}{}, nil }); err == nil {
		t.Error("Run() succeeded with a canceled context while the slot was held")
	}
	close(release)
}
