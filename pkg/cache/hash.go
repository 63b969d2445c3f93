package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// ArtifactKey generates the cache key for the rendering of dot in format.
func ArtifactKey(dot, format string) string {
	return "artifact:" + format + ":" + Hash([]byte(dot))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
