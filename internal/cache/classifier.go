package cache

import "encoding/json"

// Producers whose payloads carry dense geometries and always go through the
// cache regardless of size.
const (
	ProducerRoute         = "calculate_route"
	ProducerIsochrone     = "calculate_isochrone"
	ProducerElevationLine = "get_elevation_line"
	ProducerWFSFeatures   = "get_wfs_features"
)

// shapeFamily selects the digest schema for a payload.
type shapeFamily int

const (
	familyGeneric shapeFamily = iota
	familyRoute
	familyIsochrone
	familyFeatureCollection
	familyElevationProfile
)

// producerFamilies maps producer identifiers to their payload shape. Unknown
// producers map to the generic family.
var producerFamilies = map[string]shapeFamily{
	ProducerRoute:         familyRoute,
	ProducerIsochrone:     familyIsochrone,
	ProducerElevationLine: familyElevationProfile,
	ProducerWFSFeatures:   familyFeatureCollection,
}

func familyFor(producer string) shapeFamily {
	if family, ok := producerFamilies[producer]; ok {
		return family
	}
	return familyGeneric
}

var alwaysCacheProducers = map[string]struct{}{
	ProducerRoute:         {},
	ProducerIsochrone:     {},
	ProducerElevationLine: {},
}

// featureCollectionShape is the minimal decode needed to count features.
type featureCollectionShape struct {
	Features []json.RawMessage `json:"features"`
}

// ShouldCache decides whether a serialized payload must be cached instead of
// returned inline. Rules are evaluated in order, first match wins:
// always-cache producers, feature count over threshold, byte size at or over
// the threshold. A payload that could not be serialized (nil raw) is treated as
// cache-worthy so the decision fails toward caching, never toward losing data.
func (cfg Config) ShouldCache(producer string, raw []byte) bool {
	if raw == nil {
		return true
	}
	if _, ok := alwaysCacheProducers[producer]; ok {
		return true
	}

	var fc featureCollectionShape
	if err := json.Unmarshal(raw, &fc); err == nil && len(fc.Features) > cfg.FeatureThreshold {
		return true
	}

	return len(raw) >= cfg.ByteThreshold
}
