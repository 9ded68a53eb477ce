package epublate

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Cores are joined into one payload per request to keep the request
// count low; the joined payload is split back after translation. The
// delimiter is random per block so it cannot collide with source text.

// newDelimiter returns a fresh batch delimiter.
func newDelimiter() string {
	u := uuid.New()
	return fmt.Sprintf("␞%x␞", u[:]) // ␞<hex>␞
}

// encodeBatches greedily groups cores into batches whose joined length
// stays under maxPayloadChars. The budget is a soft target: a single
// core larger than the budget still becomes its own batch, so progress
// is always possible. Concatenating the batches in order reproduces
// the original core list.
func encodeBatches(cores []string, delim string, maxPayloadChars int) [][]string {
	var batches [][]string
	var current []string
	currentLen := 0
	delimLen := utf8.RuneCountInString(delim)

	for _, core := range cores {
		addLen := utf8.RuneCountInString(core)
		if len(current) > 0 {
			addLen += delimLen
		}
		if len(current) > 0 && currentLen+addLen > maxPayloadChars {
			batches = append(batches, current)
			current = []string{core}
			currentLen = utf8.RuneCountInString(core)
		} else {
			current = append(current, core)
			currentLen += addLen
		}
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}

// decodeBatch splits a translated payload back into per-core strings,
// tolerating whitespace the translation introduced around the
// delimiter. ok is false when the part count does not match want; the
// caller then falls back to per-core translation.
func decodeBatch(translated, delim string, want int) ([]string, bool) {
	re := regexp.MustCompile(`\s*` + regexp.QuoteMeta(delim) + `\s*`)
	parts := re.Split(translated, -1)
	if len(parts) != want {
		return nil, false
	}
	return parts, true
}
