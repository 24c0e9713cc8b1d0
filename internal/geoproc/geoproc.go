// Package geoproc implements vector operations on GeoJSON data: bounding
// box, multipart explosion, reprojection between WGS84 and Web Mercator, and
// geometry simplification.
package geoproc

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/orb/simplify"
)

const (
	// EPSG codes of the two supported reference systems.
	CRSWGS84    = "EPSG:4326"
	CRSMercator = "EPSG:3857"
)

var ErrNoFeatures = errors.New("geodata contains no features")

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"minx"`
	MinY float64 `json:"miny"`
	MaxX float64 `json:"maxx"`
	MaxY float64 `json:"maxy"`
}

// BBoxResult reports the bounding box of a dataset and the CRS it is
// expressed in.
type BBoxResult struct {
	Format string `json:"format"`
	CRS    string `json:"crs"`
	Bounds Bounds `json:"bounds"`
}

// Decode parses GeoJSON input as a feature collection. A single feature or a
// bare geometry is wrapped into a collection of one.
func Decode(data []byte) (*geojson.FeatureCollection, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no geodata provided")
	}

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		if len(fc.Features) == 0 {
			return nil, ErrNoFeatures
		}
		return fc, nil
	}
	if feature, err := geojson.UnmarshalFeature(data); err == nil {
		fc := geojson.NewFeatureCollection()
		fc.Append(feature)
		return fc, nil
	}
	if geometry, err := geojson.UnmarshalGeometry(data); err == nil {
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(geometry.Geometry()))
		return fc, nil
	}
	return nil, fmt.Errorf("decode geojson: unrecognized document")
}

// BBox computes the bounding box over every feature.
func BBox(data []byte, crs string) (BBoxResult, error) {
	fc, err := Decode(data)
	if err != nil {
		return BBoxResult{}, err
	}
	if crs == "" {
		crs = CRSWGS84
	}

	bound := fc.Features[0].Geometry.Bound()
	for _, feature := range fc.Features[1:] {
		bound = bound.Union(feature.Geometry.Bound())
	}

	return BBoxResult{
		Format: "bbox",
		CRS:    crs,
		Bounds: Bounds{
			MinX: bound.Min.X(),
			MinY: bound.Min.Y(),
			MaxX: bound.Max.X(),
			MaxY: bound.Max.Y(),
		},
	}, nil
}

// Explode splits every multipart geometry into single-part features,
// duplicating properties onto each part.
func Explode(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	out := geojson.NewFeatureCollection()
	for _, feature := range fc.Features {
		for _, part := range explodeGeometry(feature.Geometry) {
			single := geojson.NewFeature(part)
			single.Properties = feature.Properties.Clone()
			out.Append(single)
		}
	}
	return out, nil
}

func explodeGeometry(geometry orb.Geometry) []orb.Geometry {
	switch g := geometry.(type) {
	case orb.MultiPoint:
		parts := make([]orb.Geometry, len(g))
		for i, point := range g {
			parts[i] = point
		}
		return parts
	case orb.MultiLineString:
		parts := make([]orb.Geometry, len(g))
		for i, line := range g {
			parts[i] = line
		}
		return parts
	case orb.MultiPolygon:
		parts := make([]orb.Geometry, len(g))
		for i, polygon := range g {
			parts[i] = polygon
		}
		return parts
	case orb.Collection:
		var parts []orb.Geometry
		for _, member := range g {
			parts = append(parts, explodeGeometry(member)...)
		}
		return parts
	}
	return []orb.Geometry{geometry}
}

// Reproject transforms every geometry between WGS84 and Web Mercator. Only
// those two systems are supported; anything else is an error.
func Reproject(data []byte, sourceCRS, targetCRS string) (*geojson.FeatureCollection, error) {
	if sourceCRS == "" {
		sourceCRS = CRSWGS84
	}
	if sourceCRS == targetCRS {
		return Decode(data)
	}

	var transform orb.Projection
	switch {
	case sourceCRS == CRSWGS84 && targetCRS == CRSMercator:
		transform = project.WGS84.ToMercator
	case sourceCRS == CRSMercator && targetCRS == CRSWGS84:
		transform = project.Mercator.ToWGS84
	default:
		return nil, fmt.Errorf("unsupported reprojection %s to %s", sourceCRS, targetCRS)
	}

	fc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	for _, feature := range fc.Features {
		feature.Geometry = project.Geometry(feature.Geometry, transform)
	}
	return fc, nil
}

// Simplify reduces geometry detail with Douglas-Peucker at the given
// tolerance, expressed in the coordinate units of the data.
func Simplify(data []byte, tolerance float64) (*geojson.FeatureCollection, error) {
	if tolerance <= 0 {
		return nil, fmt.Errorf("tolerance must be positive, got %v", tolerance)
	}

	fc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	simplifier := simplify.DouglasPeucker(tolerance)
	for _, feature := range fc.Features {
		feature.Geometry = simplifier.Simplify(orb.Clone(feature.Geometry))
	}
	return fc, nil
}
