package epub

import (
	"fmt"
	"html"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Merge combines all spine documents into one HTML document: external
// stylesheet links are collected (deduplicated) into the head, inline
// styles are carried over, relative src/href references are rebased
// against each chapter's directory, and chapter bodies are joined with
// <hr> separators.
func (b *Book) Merge() (string, error) {
	var cssLinks []string
	var inlineStyles []string
	var bodyParts []string
	seenCSS := make(map[string]bool)

	for _, chapter := range b.spine {
		r, ok := b.chapterReader(chapter)
		if !ok {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", chapter, err)
		}

		base := path.Dir(chapter)

		doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
			href, exists := s.Attr("href")
			if !exists || href == "" {
				return
			}
			href = rebase(base, href)
			if !seenCSS[href] {
				seenCSS[href] = true
				cssLinks = append(cssLinks, href)
			}
		})

		doc.Find("style").Each(func(_ int, s *goquery.Selection) {
			if css := strings.TrimSpace(s.Text()); css != "" {
				inlineStyles = append(inlineStyles, css)
			}
		})

		rebaseAttr(doc, base, "src")
		rebaseAttr(doc, base, "href")

		inner, err := doc.Find("body").Html()
		if err != nil {
			return "", fmt.Errorf("extracting body of %s: %w", chapter, err)
		}
		if strings.TrimSpace(inner) != "" {
			bodyParts = append(bodyParts, inner)
		}
	}

	var head strings.Builder
	for _, href := range cssLinks {
		fmt.Fprintf(&head, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(href))
	}
	if len(inlineStyles) > 0 {
		head.WriteString("<style>\n" + strings.Join(inlineStyles, "\n\n") + "\n</style>\n")
	}

	title := b.Title
	if title == "" {
		title = "EPUB (merged)"
	}

	return fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
%s</head>
<body>
%s
</body>
</html>
`, html.EscapeString(title), head.String(), strings.Join(bodyParts, "\n<hr>\n")), nil
}

// SampleText returns up to maxRunes of visible text from the first
// chapters, for language detection.
func (b *Book) SampleText(maxRunes int) string {
	var sample strings.Builder

	for _, chapter := range b.spine {
		if utf8.RuneCountInString(sample.String()) >= maxRunes {
			break
		}
		r, ok := b.chapterReader(chapter)
		if !ok {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			continue
		}
		text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
		if text != "" {
			sample.WriteString(text)
			sample.WriteString(" ")
		}
	}

	runes := []rune(sample.String())
	if len(runes) > maxRunes {
		runes = runes[:maxRunes]
	}
	return strings.TrimSpace(string(runes))
}

// isRelative reports whether a reference needs rebasing against the
// chapter directory.
func isRelative(ref string) bool {
	if ref == "" {
		return false
	}
	v := strings.ToLower(strings.TrimSpace(ref))
	for _, prefix := range []string{"http://", "https://", "mailto:", "tel:", "data:", "#", "/"} {
		if strings.HasPrefix(v, prefix) {
			return false
		}
	}
	return true
}

func rebase(base, ref string) string {
	if !isRelative(ref) {
		return ref
	}
	return path.Clean(path.Join(base, ref))
}

func rebaseAttr(doc *goquery.Document, base, attr string) {
	doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
		if val, exists := s.Attr(attr); exists && isRelative(val) {
			s.SetAttr(attr, rebase(base, val))
		}
	})
}
