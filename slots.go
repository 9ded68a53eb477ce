package epublate

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// slotRole identifies which text position of the target element a slot
// refers to.
type slotRole int

const (
	// leadingText is the text immediately inside the element, before
	// its first child element.
	leadingText slotRole = iota
	// trailingText is the text immediately after the element, before
	// its next sibling element.
	trailingText
)

// slot is one writable text location inside a block's subtree. The
// element structure is never touched; only the text node's data is
// replaced, exactly once, at write-back.
type slot struct {
	target *html.Node
	role   slotRole
}

func (s slot) text() string {
	switch s.role {
	case leadingText:
		return s.target.FirstChild.Data
	default:
		return s.target.NextSibling.Data
	}
}

func (s slot) setText(v string) {
	switch s.role {
	case leadingText:
		setLeadingText(s.target, v)
	default:
		setTrailingText(s.target, v)
	}
}

func setLeadingText(el *html.Node, v string) {
	el.FirstChild.Data = v
}

func setTrailingText(el *html.Node, v string) {
	el.NextSibling.Data = v
}

var letterRe = regexp.MustCompile(`[A-Za-zÀ-ÖØ-öø-ÿ]`)

func hasLetters(s string) bool {
	return letterRe.MatchString(s)
}

// translatable reports whether a text run is worth a slot: it must
// contain at least one letter and a non-empty trimmed core.
func translatable(s string) bool {
	return strings.TrimSpace(s) != "" && hasLetters(s)
}

// collectSlots walks the subtree rooted at block depth-first and
// returns the writable text locations in rendering order. Elements
// with a skip tag are opaque: their subtree contributes no slots and
// no trailing-text slot is emitted after them. Both constraints keep
// batched translations mapping back to the right positions.
func collectSlots(block *html.Node) []slot {
	var slots []slot

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if SkipTags[strings.ToLower(n.Data)] {
			return
		}

		if first := n.FirstChild; first != nil && first.Type == html.TextNode && translatable(first.Data) {
			slots = append(slots, slot{target: n, role: leadingText})
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			walk(child)
			if SkipTags[strings.ToLower(child.Data)] {
				continue
			}
			if next := child.NextSibling; next != nil && next.Type == html.TextNode && translatable(next.Data) {
				slots = append(slots, slot{target: child, role: trailingText})
			}
		}
	}

	walk(block)
	return slots
}

// splitWhitespace splits a text run into its leading whitespace, core,
// and trailing whitespace. Write-back restores the surrounding
// whitespace around the translated core.
func splitWhitespace(s string) (prefix, core, suffix string) {
	core = strings.TrimSpace(s)
	if core == "" {
		return s, "", ""
	}
	start := strings.Index(s, core)
	return s[:start], core, s[start+len(core):]
}
