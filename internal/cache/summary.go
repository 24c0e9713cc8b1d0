package cache

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// maxGenericKeys bounds the shallow key listing of the generic digest.
const maxGenericKeys = 64

// RouteDigest summarizes a routing payload.
type RouteDigest struct {
	Distance            float64           `json:"distance"`
	Duration            float64           `json:"duration"`
	BBox                []float64         `json:"bbox,omitempty"`
	Start               json.RawMessage   `json:"start,omitempty"`
	End                 json.RawMessage   `json:"end,omitempty"`
	Profile             string            `json:"profile,omitempty"`
	Resource            string            `json:"resource,omitempty"`
	GeometryPointsCount int               `json:"geometry_points_count"`
	GeometrySample      *geojson.Geometry `json:"geometry_sample,omitempty"`
	StepsCount          int               `json:"steps_count"`
}

// IsochroneDigest summarizes an isochrone or isodistance payload.
type IsochroneDigest struct {
	Point               json.RawMessage `json:"point,omitempty"`
	CostValue           json.RawMessage `json:"cost_value,omitempty"`
	CostType            string          `json:"cost_type,omitempty"`
	Direction           string          `json:"direction,omitempty"`
	Profile             string          `json:"profile,omitempty"`
	Resource            string          `json:"resource,omitempty"`
	BBox                []float64       `json:"bbox,omitempty"`
	GeometryPointsCount int             `json:"geometry_points_count"`
	PolygonsCount       int             `json:"polygons_count,omitempty"`
}

// FeatureCollectionDigest summarizes a vector feature collection. The first
// feature is carried verbatim as a shape sample.
type FeatureCollectionDigest struct {
	Type            string          `json:"type"`
	FeaturesCount   int             `json:"features_count"`
	SampleFeature   json.RawMessage `json:"sample_feature,omitempty"`
	SampleTruncated bool            `json:"sample_truncated,omitempty"`
}

// ElevationDigest summarizes an elevation profile. Gains and losses are read
// from the payload, never recomputed.
type ElevationDigest struct {
	PointsCount   int               `json:"points_count"`
	AltitudeMin   float64           `json:"altitude_min"`
	AltitudeMax   float64           `json:"altitude_max"`
	AltitudeRange float64           `json:"altitude_range"`
	ElevationGain float64           `json:"elevation_gain,omitempty"`
	ElevationLoss float64           `json:"elevation_loss,omitempty"`
	Sample        []json.RawMessage `json:"elevations_sample,omitempty"`
}

// GenericDigest is the fallback summary for any payload: byte size plus a
// shallow listing of top-level keys. It never fails.
type GenericDigest struct {
	SizeBytes int      `json:"data_size_bytes"`
	Keys      []string `json:"keys,omitempty"`
}

// Summarize produces the digest for a serialized payload. The digest schema
// follows the producer's shape family; any extraction failure falls back to
// the generic digest so a summary is always available.
func Summarize(producer string, raw []byte) any {
	var (
		digest any
		err    error
	)
	switch familyFor(producer) {
	case familyRoute:
		digest, err = summarizeRoute(raw)
	case familyIsochrone:
		digest, err = summarizeIsochrone(raw)
	case familyFeatureCollection:
		digest, err = summarizeFeatureCollection(raw)
	case familyElevationProfile:
		digest, err = summarizeElevation(raw)
	default:
		return summarizeGeneric(raw)
	}
	if err != nil {
		return summarizeGeneric(raw)
	}
	return digest
}

type routePayload struct {
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
	BBox     []float64         `json:"bbox"`
	Start    json.RawMessage   `json:"start"`
	End      json.RawMessage   `json:"end"`
	Profile  string            `json:"profile"`
	Resource string            `json:"resource"`
	Geometry *geojson.Geometry `json:"geometry"`
	Portions []struct {
		Steps []json.RawMessage `json:"steps"`
	} `json:"portions"`
}

func summarizeRoute(raw []byte) (RouteDigest, error) {
	var payload routePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return RouteDigest{}, fmt.Errorf("decode route payload: %w", err)
	}

	digest := RouteDigest{
		Distance: payload.Distance,
		Duration: payload.Duration,
		BBox:     payload.BBox,
		Start:    payload.Start,
		End:      payload.End,
		Profile:  payload.Profile,
		Resource: payload.Resource,
	}
	for _, portion := range payload.Portions {
		digest.StepsCount += len(portion.Steps)
	}

	if payload.Geometry != nil {
		geometry := payload.Geometry.Geometry()
		digest.GeometryPointsCount = vertexCount(geometry)
		if line, ok := geometry.(orb.LineString); ok && len(line) >= 2 {
			digest.GeometrySample = geojson.NewGeometry(orb.LineString{line[0], line[len(line)-1]})
		}
	}
	return digest, nil
}

type isochronePayload struct {
	Point     json.RawMessage   `json:"point"`
	CostValue json.RawMessage   `json:"costValue"`
	CostType  string            `json:"costType"`
	Direction string            `json:"direction"`
	Profile   string            `json:"profile"`
	Resource  string            `json:"resource"`
	BBox      []float64         `json:"bbox"`
	Geometry  *geojson.Geometry `json:"geometry"`
}

func summarizeIsochrone(raw []byte) (IsochroneDigest, error) {
	var payload isochronePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return IsochroneDigest{}, fmt.Errorf("decode isochrone payload: %w", err)
	}

	digest := IsochroneDigest{
		Point:     payload.Point,
		CostValue: payload.CostValue,
		CostType:  payload.CostType,
		Direction: payload.Direction,
		Profile:   payload.Profile,
		Resource:  payload.Resource,
		BBox:      payload.BBox,
	}
	if payload.Geometry != nil {
		geometry := payload.Geometry.Geometry()
		digest.GeometryPointsCount = vertexCount(geometry)
		if multi, ok := geometry.(orb.MultiPolygon); ok {
			digest.PolygonsCount = len(multi)
		}
	}
	return digest, nil
}

func summarizeFeatureCollection(raw []byte) (FeatureCollectionDigest, error) {
	var payload struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return FeatureCollectionDigest{}, fmt.Errorf("decode feature collection: %w", err)
	}

	digest := FeatureCollectionDigest{
		Type:          "FeatureCollection",
		FeaturesCount: len(payload.Features),
	}
	if payload.Type != "" {
		digest.Type = payload.Type
	}
	if len(payload.Features) > 0 {
		digest.SampleFeature = payload.Features[0]
	}
	return digest, nil
}

type elevationPayload struct {
	Elevations        []json.RawMessage `json:"elevations"`
	HeightDifferences *struct {
		Positive float64 `json:"positive"`
		Negative float64 `json:"negative"`
	} `json:"height_differences"`
}

func summarizeElevation(raw []byte) (ElevationDigest, error) {
	var payload elevationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ElevationDigest{}, fmt.Errorf("decode elevation payload: %w", err)
	}

	digest := ElevationDigest{PointsCount: len(payload.Elevations)}

	first := true
	for _, rawPoint := range payload.Elevations {
		var point struct {
			Z *float64 `json:"z"`
		}
		if err := json.Unmarshal(rawPoint, &point); err != nil || point.Z == nil {
			continue
		}
		z := *point.Z
		if first {
			digest.AltitudeMin, digest.AltitudeMax = z, z
			first = false
			continue
		}
		if z < digest.AltitudeMin {
			digest.AltitudeMin = z
		}
		if z > digest.AltitudeMax {
			digest.AltitudeMax = z
		}
	}
	digest.AltitudeRange = digest.AltitudeMax - digest.AltitudeMin

	if payload.HeightDifferences != nil {
		digest.ElevationGain = payload.HeightDifferences.Positive
		digest.ElevationLoss = payload.HeightDifferences.Negative
	}

	if len(payload.Elevations) > 4 {
		digest.Sample = append(digest.Sample, payload.Elevations[:2]...)
		digest.Sample = append(digest.Sample, payload.Elevations[len(payload.Elevations)-2:]...)
	} else {
		digest.Sample = payload.Elevations
	}
	return digest, nil
}

func summarizeGeneric(raw []byte) GenericDigest {
	digest := GenericDigest{SizeBytes: len(raw)}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err == nil {
		for key := range keyed {
			digest.Keys = append(digest.Keys, key)
		}
		sort.Strings(digest.Keys)
		if len(digest.Keys) > maxGenericKeys {
			digest.Keys = digest.Keys[:maxGenericKeys]
		}
	}
	return digest
}

// vertexCount returns the total number of coordinate pairs in a geometry.
func vertexCount(geometry orb.Geometry) int {
	switch g := geometry.(type) {
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(g)
	case orb.LineString:
		return len(g)
	case orb.MultiLineString:
		total := 0
		for _, line := range g {
			total += len(line)
		}
		return total
	case orb.Ring:
		return len(g)
	case orb.Polygon:
		total := 0
		for _, ring := range g {
			total += len(ring)
		}
		return total
	case orb.MultiPolygon:
		total := 0
		for _, polygon := range g {
			total += vertexCount(polygon)
		}
		return total
	case orb.Collection:
		total := 0
		for _, member := range g {
			total += vertexCount(member)
		}
		return total
	}
	return 0
}
