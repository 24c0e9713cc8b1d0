package cache

import (
	"fmt"
	"strings"
	"testing"
)

func collectionWithFeatures(n int) []byte {
	features := make([]string, n)
	for i := range features {
		features[i] = `{"type":"Feature","geometry":null,"properties":{}}`
	}
	return []byte(`{"type":"FeatureCollection","features":[` + strings.Join(features, ",") + `]}`)
}

func TestShouldCache(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		producer string
		raw      []byte
		want     bool
	}{
		{
			name:     "route always cached even when tiny",
			producer: ProducerRoute,
			raw:      []byte(`{"distance":1}`),
			want:     true,
		},
		{
			name:     "isochrone always cached",
			producer: ProducerIsochrone,
			raw:      []byte(`{}`),
			want:     true,
		},
		{
			name:     "elevation line always cached",
			producer: ProducerElevationLine,
			raw:      []byte(`{}`),
			want:     true,
		},
		{
			name:     "serialization failure cached by policy",
			producer: "search_datasets",
			raw:      nil,
			want:     true,
		},
		{
			name:     "small payload passes through",
			producer: "search_datasets",
			raw:      []byte(`{"total":3}`),
			want:     false,
		},
		{
			name:     "exactly at feature threshold passes through",
			producer: ProducerWFSFeatures,
			raw:      collectionWithFeatures(cfg.FeatureThreshold),
			want:     false,
		},
		{
			name:     "one over feature threshold cached",
			producer: ProducerWFSFeatures,
			raw:      collectionWithFeatures(cfg.FeatureThreshold + 1),
			want:     true,
		},
		{
			name:     "one under byte threshold passes through",
			producer: "get_dataset",
			raw:      []byte(fmt.Sprintf(`{"pad":%q}`, strings.Repeat("x", cfg.ByteThreshold-11))),
			want:     false,
		},
		{
			name:     "exactly at byte threshold cached",
			producer: "get_dataset",
			raw:      []byte(fmt.Sprintf(`{"pad":%q}`, strings.Repeat("x", cfg.ByteThreshold-10))),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.raw != nil {
				switch tt.name {
				case "one under byte threshold passes through":
					if len(tt.raw) != cfg.ByteThreshold-1 {
						t.Fatalf("fixture size = %d, want %d", len(tt.raw), cfg.ByteThreshold-1)
					}
				case "exactly at byte threshold cached":
					if len(tt.raw) != cfg.ByteThreshold {
						t.Fatalf("fixture size = %d, want %d", len(tt.raw), cfg.ByteThreshold)
					}
				}
			}
			if got := cfg.ShouldCache(tt.producer, tt.raw); got != tt.want {
				t.Errorf("ShouldCache(%s) = %v, want %v", tt.producer, got, tt.want)
			}
		})
	}
}
