// Package checksum fingerprints dataset documents.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong HTTP entity tag derived from a Sum value.
func ETag(sum string) string {
	if len(sum) > 16 {
		sum = sum[:16]
	}
	return `"` + sum + `"`
}
