package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ExtractedGeometry is a downsampled geometry pulled out of a cached payload.
type ExtractedGeometry struct {
	Geometry    *geojson.Geometry
	TotalPoints int
	KeptPoints  int
}

// ExtractGeometry decodes the geometry of a cached payload and thins it to at
// most maxPoints coordinates. maxPoints <= 0 keeps everything. Payloads
// without a recognizable geometry return an error naming the handle.
func (c *Cache) ExtractGeometry(ctx context.Context, handle string, maxPoints int) (ExtractedGeometry, error) {
	entry, payload, err := c.store.GetFull(ctx, handle, c.now())
	if err != nil {
		return ExtractedGeometry{}, err
	}

	geometry, err := decodeGeometry(payload)
	if err != nil {
		return ExtractedGeometry{}, fmt.Errorf("extract geometry from %s: %w", entry.Handle, err)
	}

	extracted := ExtractedGeometry{TotalPoints: vertexCount(geometry)}
	if maxPoints > 0 && extracted.TotalPoints > maxPoints {
		geometry = sampleGeometry(geometry, maxPoints)
	}
	extracted.KeptPoints = vertexCount(geometry)
	extracted.Geometry = geojson.NewGeometry(geometry)
	return extracted, nil
}

// decodeGeometry finds the geometry inside a payload: a top-level geometry
// member, a bare GeoJSON geometry, or the union of a feature collection's
// geometries.
func decodeGeometry(payload []byte) (orb.Geometry, error) {
	var wrapper struct {
		Type     string            `json:"type"`
		Geometry *geojson.Geometry `json:"geometry"`
	}
	if err := json.Unmarshal(payload, &wrapper); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	if wrapper.Geometry != nil {
		return wrapper.Geometry.Geometry(), nil
	}

	switch wrapper.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(payload)
		if err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		collection := make(orb.Collection, 0, len(fc.Features))
		for _, feature := range fc.Features {
			if feature.Geometry != nil {
				collection = append(collection, feature.Geometry)
			}
		}
		if len(collection) == 0 {
			return nil, fmt.Errorf("feature collection has no geometries")
		}
		if len(collection) == 1 {
			return collection[0], nil
		}
		return collection, nil
	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon", "GeometryCollection":
		g, err := geojson.UnmarshalGeometry(payload)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		return g.Geometry(), nil
	}
	return nil, fmt.Errorf("payload carries no geometry")
}

// sampleGeometry thins line work by uniform stride so the result stays under
// budget. Endpoints are always kept; point sets and polygon rings keep their
// shape by sampling each part proportionally.
func sampleGeometry(geometry orb.Geometry, budget int) orb.Geometry {
	total := vertexCount(geometry)
	if total <= budget || budget <= 0 {
		return geometry
	}

	switch g := geometry.(type) {
	case orb.LineString:
		return sampleLine(g, budget)
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, line := range g {
			out[i] = sampleLine(line, partBudget(len(line), total, budget))
		}
		return out
	case orb.MultiPoint:
		return orb.MultiPoint(sampleLine(orb.LineString(g), budget))
	case orb.Ring:
		return orb.Ring(sampleLine(orb.LineString(g), budget))
	case orb.Polygon:
		out := make(orb.Polygon, len(g))
		for i, ring := range g {
			out[i] = orb.Ring(sampleLine(orb.LineString(ring), partBudget(len(ring), total, budget)))
		}
		return out
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, polygon := range g {
			out[i] = sampleGeometry(polygon, partBudget(vertexCount(polygon), total, budget)).(orb.Polygon)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, member := range g {
			out[i] = sampleGeometry(member, partBudget(vertexCount(member), total, budget))
		}
		return out
	}
	return geometry
}

// partBudget splits the point budget across parts proportionally to their
// size, keeping at least a segment per part.
func partBudget(partSize, total, budget int) int {
	if total == 0 {
		return partSize
	}
	share := budget * partSize / total
	if share < 2 {
		share = 2
	}
	return share
}

func sampleLine(line orb.LineString, budget int) orb.LineString {
	if len(line) <= budget || budget < 2 {
		return line
	}
	out := make(orb.LineString, 0, budget)
	step := float64(len(line)-1) / float64(budget-1)
	for i := 0; i < budget-1; i++ {
		out = append(out, line[int(float64(i)*step)])
	}
	return append(out, line[len(line)-1])
}
