package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache/storage"
)

// retrievalHint tells the caller how to get the stored payload back.
const retrievalHint = "full response cached; call get_cached_data with this handle to retrieve it"

// Envelope is the compact stand-in returned instead of a large payload. It
// carries the retrieval handle, a shape-aware summary and enough metadata to
// decide whether a follow-up retrieval is worth it.
type Envelope struct {
	Cached       bool      `json:"cached"`
	Handle       string    `json:"cache_handle"`
	Producer     string    `json:"tool"`
	SizeBytes    int64     `json:"data_size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Summary      any       `json:"summary"`
	Instructions string    `json:"instructions"`
}

// buildEnvelope assembles the envelope for a stored entry. An envelope that
// crosses the byte threshold is shrunk in two steps: first the digest's
// representative sample is dropped, then the whole digest is degraded to the
// generic form, which is bounded by construction.
func buildEnvelope(entry storage.Entry, summary any, payload []byte, byteThreshold int) (*Envelope, error) {
	envelope := &Envelope{
		Cached:       true,
		Handle:       entry.Handle,
		Producer:     entry.Producer,
		SizeBytes:    entry.SizeBytes,
		CreatedAt:    entry.CreatedAt,
		ExpiresAt:    entry.ExpiresAt,
		Summary:      summary,
		Instructions: retrievalHint,
	}

	size, err := envelopeSize(envelope)
	if err != nil {
		return nil, err
	}
	if size < byteThreshold {
		return envelope, nil
	}

	if truncated, ok := truncateSample(envelope.Summary); ok {
		envelope.Summary = truncated
		size, err = envelopeSize(envelope)
		if err != nil {
			return nil, err
		}
		if size < byteThreshold {
			return envelope, nil
		}
	}

	envelope.Summary = summarizeGeneric(payload)
	return envelope, nil
}

func envelopeSize(envelope *Envelope) (int, error) {
	encoded, err := json.Marshal(envelope)
	if err != nil {
		return 0, fmt.Errorf("encode envelope: %w", err)
	}
	return len(encoded), nil
}

// truncateSample drops the bulky sample field of a digest, reporting whether
// anything was removed.
func truncateSample(summary any) (any, bool) {
	switch digest := summary.(type) {
	case FeatureCollectionDigest:
		if digest.SampleFeature == nil {
			return summary, false
		}
		digest.SampleFeature = nil
		digest.SampleTruncated = true
		return digest, true
	case RouteDigest:
		if digest.GeometrySample == nil {
			return summary, false
		}
		digest.GeometrySample = nil
		return digest, true
	case ElevationDigest:
		if digest.Sample == nil {
			return summary, false
		}
		digest.Sample = nil
		return digest, true
	}
	return summary, false
}
