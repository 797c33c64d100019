package util

import (
	"crypto/sha256"
	"encoding/hex"
)

func HashSHA256(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// HashFingerprint turns a raw browser fingerprint into the identity stored on
// rows and compared by the renderer. Empty stays empty so anonymous posts
// never match each other.
func HashFingerprint(fingerprint string) string {
	if fingerprint == "" {
		return ""
	}
	return HashSHA256(fingerprint)
}
