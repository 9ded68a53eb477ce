package epublate

import "strings"

// BlockCategories selects which tag categories count as translatable
// blocks. The zero value selects nothing, which Selector treats as
// paragraphs only, so a selector never matches nothing by accident.
type BlockCategories struct {
	Paragraphs  bool // <p>
	ListItems   bool // <li>
	Headings    bool // <h1>..<h6>
	TableCells  bool // <td>, <th>
	Captions    bool // <figcaption>
	Blockquotes bool // <blockquote>
}

// DefaultBlockCategories mirrors the defaults a reader usually wants:
// paragraphs, list items, and headings.
func DefaultBlockCategories() BlockCategories {
	return BlockCategories{
		Paragraphs: true,
		ListItems:  true,
		Headings:   true,
	}
}

// Selector builds the CSS selector matching the chosen categories
// inside the document body, in document order.
func (b BlockCategories) Selector() string {
	var tags []string
	if b.Paragraphs {
		tags = append(tags, "p")
	}
	if b.ListItems {
		tags = append(tags, "li")
	}
	if b.Headings {
		tags = append(tags, "h1", "h2", "h3", "h4", "h5", "h6")
	}
	if b.TableCells {
		tags = append(tags, "td", "th")
	}
	if b.Captions {
		tags = append(tags, "figcaption")
	}
	if b.Blockquotes {
		tags = append(tags, "blockquote")
	}

	if len(tags) == 0 {
		tags = []string{"p"}
	}

	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = "body " + tag
	}
	return strings.Join(parts, ", ")
}
