package epublate

import (
	"fmt"
	"regexp"
	"strings"
)

// Chess literature mixes prose with move notation, and a translation
// service treats notation letters as natural-language words ("Nf3"
// becomes garbage). NotationGuard keeps notation out of the provider's
// reach in two ways: whole lines that are almost entirely notation are
// skipped outright, and notation embedded in prose is replaced by
// opaque markers before translation and restored afterwards.

// Move-token grammar: castling, piece moves, pawn moves with optional
// capture/promotion/check/mate suffixes, move numbers, game results.
const (
	castlingPat = `O-O(?:-O)?`
	piecePat    = `[KQRBN][a-h]?[1-8]?x?[a-h][1-8]`
	pawnPat     = `(?:[a-h]x)?[a-h][1-8](?:=[QRBN])?`
	numberPat   = `\d+\.(?:\.\.)?`
	resultPat   = `1-0|0-1|1/2-1/2`
)

var (
	movePat = `(?:` + castlingPat + `|` + piecePat + `|` + pawnPat + `)[+#]?`

	// A whole whitespace-separated token, for line classification.
	lineTokenRe = regexp.MustCompile(`^(?:` + numberPat + `(?:` + movePat + `)?|` + movePat + `|` + resultPat + `|\*)$`)

	// A notation substring inside prose, for masking. A move number
	// and its move ("12. e4", "12...Nf6") mask as one token.
	maskRe = regexp.MustCompile(
		`\b(?:` + numberPat + `\s?)?(?:` + castlingPat + `|` + piecePat + `|` + pawnPat + `)(?:[+#]|\b)` +
			`|\b(?:` + resultPat + `)\b`)
)

const (
	markerOpen  = "⟬"
	markerClose = "⟭"
)

// NotationGuard detects and masks chess notation so it survives
// translation byte-identical. The zero value is not usable; call
// NewNotationGuard.
type NotationGuard struct {
	// LineThreshold is the minimum fraction of notation tokens for a
	// line to be classified as pure notation. The 0.60 default is
	// heuristic; ambiguous prose with algebraic-looking abbreviations
	// may need a higher value.
	LineThreshold float64

	// MinLineTokens is the minimum token count before line
	// classification applies at all.
	MinLineTokens int
}

// NewNotationGuard returns a guard with the default thresholds.
func NewNotationGuard() *NotationGuard {
	return &NotationGuard{
		LineThreshold: 0.60,
		MinLineTokens: 3,
	}
}

// IsNotationLine reports whether text is almost entirely chess
// notation: at least MinLineTokens whitespace-separated tokens, of
// which at least LineThreshold match the move-token grammar.
func (g *NotationGuard) IsNotationLine(text string) bool {
	tokens := strings.Fields(text)
	if len(tokens) < g.MinLineTokens {
		return false
	}

	matched := 0
	for _, tok := range tokens {
		if lineTokenRe.MatchString(tok) {
			matched++
		}
	}

	return float64(matched)/float64(len(tokens)) >= g.LineThreshold
}

// Mask replaces every notation substring with a unique ⟬MVn⟭ marker
// (n is the 0-based occurrence index within this call) and returns the
// masked text with the marker-to-original mapping.
func (g *NotationGuard) Mask(text string) (string, map[string]string) {
	mapping := make(map[string]string)
	n := 0

	masked := maskRe.ReplaceAllStringFunc(text, func(match string) string {
		marker := fmt.Sprintf("%sMV%d%s", markerOpen, n, markerClose)
		mapping[marker] = match
		n++
		return marker
	})

	return masked, mapping
}

// Unmask restores every marker in text to its original substring.
// Translation services sometimes shift whitespace into or around a
// marker; Unmask tolerates that.
func (g *NotationGuard) Unmask(text string, mapping map[string]string) string {
	for marker, original := range mapping {
		if strings.Contains(text, marker) {
			text = strings.Replace(text, marker, original, 1)
			continue
		}

		index := strings.TrimSuffix(strings.TrimPrefix(marker, markerOpen+"MV"), markerClose)
		loose := regexp.MustCompile(markerOpen + `\s*MV\s*` + regexp.QuoteMeta(index) + `\s*` + markerClose)
		text = loose.ReplaceAllString(text, original)
	}
	return text
}
