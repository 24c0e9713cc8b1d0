package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// wfsFixture builds a feature collection with the given feature count. The
// first feature carries a properties blob of blobBytes so tests can inflate
// the digest's sample.
func wfsFixture(t *testing.T, features, blobBytes int) []byte {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(`{"type":"FeatureCollection","features":[`)
	for i := 0; i < features; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		blob := ""
		if i == 0 {
			blob = strings.Repeat("x", blobBytes)
		}
		fmt.Fprintf(&sb,
			`{"type":"Feature","properties":{"name":"f%d","blob":%q},"geometry":{"type":"Point","coordinates":[%d.0,48.0]}}`,
			i, blob, i%10)
	}
	sb.WriteString(`]}`)
	return []byte(sb.String())
}

func TestEnvelopeKeepsSmallSample(t *testing.T) {
	c := newTestCache(t)
	envelope := interceptRaw(t, c, ProducerWFSFeatures, wfsFixture(t, 60, 16))

	digest, ok := envelope.Summary.(FeatureCollectionDigest)
	if !ok {
		t.Fatalf("envelope.Summary is %T, want FeatureCollectionDigest", envelope.Summary)
	}
	if digest.SampleFeature == nil {
		t.Error("SampleFeature dropped from a small digest")
	}
	if digest.SampleTruncated {
		t.Error("SampleTruncated = true for a small digest")
	}
}

func TestEnvelopeTruncatesOversizedSample(t *testing.T) {
	c := newTestCache(t)
	envelope := interceptRaw(t, c, ProducerWFSFeatures, wfsFixture(t, 60, 15_000))

	digest, ok := envelope.Summary.(FeatureCollectionDigest)
	if !ok {
		t.Fatalf("envelope.Summary is %T, want FeatureCollectionDigest", envelope.Summary)
	}
	if digest.SampleFeature != nil {
		t.Error("SampleFeature kept in an oversized digest")
	}
	if !digest.SampleTruncated {
		t.Error("SampleTruncated = false after truncation")
	}
	if digest.FeaturesCount != 60 {
		t.Errorf("FeaturesCount = %d, want 60", digest.FeaturesCount)
	}

	encoded, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if len(encoded) >= DefaultConfig().ByteThreshold {
		t.Errorf("envelope is %d bytes, want under %d", len(encoded), DefaultConfig().ByteThreshold)
	}
}
