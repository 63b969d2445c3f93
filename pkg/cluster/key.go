package cluster

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"path/filepath"
)

// keyHexLen is the number of hex digits kept from the directory hash.
const keyHexLen = 8

// Key returns the cluster key for a directory path relative to the walk
// root. Separators are normalized first, so the same directory yields the
// same key on every platform.
func Key(relDir string) string {
	rel := normalizeDir(relDir)
	sum := sha256.Sum256([]byte(rel))
	return "cluster_" + path.Base(rel) + "_" + hex.EncodeToString(sum[:])[:keyHexLen]
}

func normalizeDir(relDir string) string {
	if relDir == "" {
		return "."
	}
	return path.Clean(filepath.ToSlash(relDir))
}
