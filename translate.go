package epublate

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxPayload is the default per-request payload budget in
// characters.
const DefaultMaxPayload = 3500

// Translator is the document translation driver. It iterates the
// blocks matched by the configured selector in document order,
// translates each one with markup preserved, reports progress, honors
// cancellation, and applies inter-request throttling. Blocks are
// processed strictly sequentially: one block, one batch, one network
// call at a time.
type Translator struct {
	targetLang string
	sourceLang string
	client     *Client
	cache      TranslationCache
	retry      RetryConfig
	guard      *NotationGuard
	blocks     BlockCategories
	maxPayload int
	throttle   time.Duration
	progress   ProgressFunc
}

// NewTranslator creates a Translator for the given target language and
// provider. The notation guard is on by default; disable it with
// WithGuard(nil).
func NewTranslator(targetLang string, provider Provider, opts ...Option) *Translator {
	t := &Translator{
		targetLang: targetLang,
		sourceLang: "en",
		retry:      DefaultRetryConfig(),
		guard:      NewNotationGuard(),
		blocks:     DefaultBlockCategories(),
		maxPayload: DefaultMaxPayload,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.client = NewClient(provider, t.cache, t.retry)
	return t
}

// TargetLang returns the target language.
func (t *Translator) TargetLang() string {
	return t.targetLang
}

// SourceLang returns the source language.
func (t *Translator) SourceLang() string {
	return t.sourceLang
}

// IsSourceLang reports whether the target language matches the source
// language, in which case translation can be bypassed.
func (t *Translator) IsSourceLang() bool {
	return baseLang(t.targetLang) == baseLang(t.sourceLang)
}

// TranslateDocument translates all matched blocks of an HTML document
// and returns the transformed document with identical structure and
// attributes. On cancellation the error satisfies
// errors.Is(err, context.Canceled) and no output is produced.
func (t *Translator) TranslateDocument(ctx context.Context, src string) (*DocumentResult, error) {
	if t.IsSourceLang() {
		return &DocumentResult{Content: src}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, &ProcessorError{Message: "failed to parse HTML", Cause: err}
	}

	sel := doc.Find(t.blocks.Selector())
	total := sel.Length()
	done := 0
	translated := 0
	skipped := 0

	var aborted error
	sel.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if err := ctx.Err(); err != nil {
			aborted = err
			return false
		}

		node := s.Nodes[0]
		tag := strings.ToLower(node.Data)

		if SkipTags[tag] {
			done++
			skipped++
			t.report(done, total, "Skip <"+tag+">")
			return true
		}

		if err := t.translateBlock(ctx, node); err != nil {
			aborted = err
			return false
		}

		done++
		translated++
		t.report(done, total, "Translate <"+tag+">")

		if t.throttle > 0 {
			select {
			case <-ctx.Done():
				aborted = ctx.Err()
				return false
			case <-time.After(t.throttle):
			}
		}
		return true
	})

	if aborted != nil {
		return nil, aborted
	}

	setDocumentLanguage(doc, t.targetLang)

	out, err := doc.Html()
	if err != nil {
		return nil, &ProcessorError{Message: "failed to serialize HTML", Cause: err}
	}

	requests, hits := t.client.Stats()
	return &DocumentResult{
		Content:          "<!doctype html>\n" + stripDoctype(out),
		Blocks:           total,
		TranslatedBlocks: translated,
		SkippedBlocks:    skipped,
		Requests:         requests,
		CacheHits:        hits,
	}, nil
}

func (t *Translator) report(done, total int, label string) {
	if t.progress != nil {
		t.progress(done, total, label)
	}
}

// stripDoctype drops a leading doctype declaration from serialized
// HTML so the output carries exactly one.
func stripDoctype(s string) string {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") {
		if end := strings.Index(trimmed, ">"); end >= 0 {
			return strings.TrimLeft(trimmed[end+1:], "\r\n")
		}
	}
	return s
}

// setDocumentLanguage stamps lang and dir attributes on the <html>
// element of a translated document.
func setDocumentLanguage(doc *goquery.Document, targetLang string) {
	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(targetLang))
		htmlTag.SetAttr("dir", GetDirection(targetLang))
	}
}
