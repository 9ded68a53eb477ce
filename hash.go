package epublate

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a text hash and target language.
// Identical source text and target language always produce the same
// key, so a cached translation is returned without a network call.
func CacheKey(hash, targetLang string) string {
	return hash + ":" + targetLang
}
