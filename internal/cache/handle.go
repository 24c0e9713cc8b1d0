package cache

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"
)

// newHandle derives an opaque retrieval handle for a payload. Handles embed
// the producer so listings stay readable, the creation second for ordering,
// and a short content fingerprint salted with nanoseconds so identical
// payloads stored in the same second still diverge.
func newHandle(producer string, created time.Time, payload []byte) string {
	hasher := sha256.New()
	hasher.Write(payload)

	var nanos [8]byte
	binary.BigEndian.PutUint64(nanos[:], uint64(created.UnixNano()))
	hasher.Write(nanos[:])

	return fmt.Sprintf("%s_%d_%x", producer, created.Unix(), hasher.Sum(nil)[:4])
}

// randomHandle is the collision fallback: same shape as newHandle but with a
// random fingerprint instead of a content hash.
func randomHandle(producer string, created time.Time) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate handle disambiguator: %w", err)
	}
	return fmt.Sprintf("%s_%d_%x", producer, created.Unix(), buf), nil
}
