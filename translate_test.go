package epublate

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

// dictProvider translates word by word from a fixed dictionary,
// leaving everything else (delimiters, markers, punctuation) alone.
type dictProvider struct {
	stubProvider
	dict map[string]string
}

func newDictProvider(dict map[string]string) *dictProvider {
	p := &dictProvider{dict: dict}
	p.fn = func(text, targetLang string) (string, error) {
		for from, to := range p.dict {
			text = strings.ReplaceAll(text, from, to)
		}
		return text, nil
	}
	return p
}

func TestTranslateDocument_PreservesMarkup(t *testing.T) {
	p := newDictProvider(map[string]string{"Hello": "Ciao", "world": "mondo"})
	tr := NewTranslator("it", p)

	src := `<html><body><p>Hello <b class="x">world</b></p></body></html>`
	result, err := tr.TranslateDocument(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Content, `<b class="x">mondo</b>`) {
		t.Errorf("inline markup and attributes must survive, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, "Ciao ") {
		t.Errorf("leading text not translated, got: %s", result.Content)
	}
	if strings.Contains(result.Content, "Hello") {
		t.Errorf("source text left behind, got: %s", result.Content)
	}
}

func TestTranslateDocument_DoctypePrefix(t *testing.T) {
	p := newDictProvider(nil)
	tr := NewTranslator("it", p)

	for _, src := range []string{
		`<html><body><p>Hi</p></body></html>`,
		"<!DOCTYPE html>\n<html><body><p>Hi</p></body></html>",
	} {
		result, err := tr.TranslateDocument(context.Background(), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(result.Content, "<!doctype html>\n") {
			t.Errorf("output must start with a doctype, got: %.40q", result.Content)
		}
		if strings.Count(strings.ToLower(result.Content), "<!doctype") != 1 {
			t.Errorf("output must carry exactly one doctype, got: %.80q", result.Content)
		}
	}
}

func TestTranslateDocument_LangAndDir(t *testing.T) {
	p := newDictProvider(nil)

	tr := NewTranslator("it", p)
	result, err := tr.TranslateDocument(context.Background(), `<html><body><p>Hi</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, `lang="it"`) || !strings.Contains(result.Content, `dir="ltr"`) {
		t.Errorf("expected lang/dir stamped on <html>, got: %s", result.Content)
	}

	tr = NewTranslator("ar", p)
	result, err = tr.TranslateDocument(context.Background(), `<html><body><p>Hi</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, `dir="rtl"`) {
		t.Errorf("expected rtl direction for Arabic, got: %s", result.Content)
	}
}

func TestTranslateDocument_SourceLanguageBypass(t *testing.T) {
	p := &stubProvider{}
	tr := NewTranslator("en", p, WithSourceLang("en_US"))

	src := `<html><body><p>Untouched</p></body></html>`
	result, err := tr.TranslateDocument(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if result.Content != src {
		t.Errorf("bypass must return the source verbatim, got: %s", result.Content)
	}
	if p.callCount() != 0 {
		t.Errorf("bypass must not call the provider, got %d calls", p.callCount())
	}
}

func TestTranslateDocument_SkipTagBlocks(t *testing.T) {
	p := newDictProvider(map[string]string{"Hello": "Ciao"})
	tr := NewTranslator("it", p, WithBlocks(BlockCategories{Paragraphs: true, TableCells: true}))

	src := `<html><body>
		<p>Hello</p>
		<pre>raw 1. e4 listing</pre>
		<p><code>keep(this)</code> Hello</p>
	</body></html>`

	result, err := tr.TranslateDocument(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(result.Content, "raw 1. e4 listing") {
		t.Errorf("<pre> content must be untouched, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, "keep(this)") {
		t.Errorf("<code> content must be untouched, got: %s", result.Content)
	}
	if result.Blocks != 2 {
		t.Errorf("expected 2 matched blocks, got %d", result.Blocks)
	}
	if result.TranslatedBlocks != 2 {
		t.Errorf("expected 2 translated blocks, got %d", result.TranslatedBlocks)
	}
}

func TestTranslateDocument_NotationLineUntouched(t *testing.T) {
	p := newDictProvider(map[string]string{"answered": "rispose"})
	tr := NewTranslator("it", p)

	src := `<html><body>
		<p>1. e4 e5 2. Nf3 Nc6 3. Bb5 a6</p>
		<p>Black answered 3...a6 at once.</p>
	</body></html>`

	result, err := tr.TranslateDocument(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(result.Content, "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6") {
		t.Errorf("pure notation line must come back byte-identical, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, "rispose") {
		t.Errorf("prose line should be translated, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, "3...a6") {
		t.Errorf("embedded notation must be restored, got: %s", result.Content)
	}
	if strings.Contains(result.Content, "MV") {
		t.Errorf("marker residue in output: %s", result.Content)
	}
}

func TestTranslateDocument_GuardDisabled(t *testing.T) {
	p := newDictProvider(nil)
	var seen []string
	p.fn = func(text, targetLang string) (string, error) {
		seen = append(seen, text)
		return text, nil
	}
	tr := NewTranslator("it", p, WithGuard(nil))

	src := `<html><body><p>1. e4 e5 2. Nf3 Nc6 3. Bb5 a6</p></body></html>`
	if _, err := tr.TranslateDocument(context.Background(), src); err != nil {
		t.Fatal(err)
	}

	if len(seen) != 1 || !strings.Contains(seen[0], "Nf3") {
		t.Errorf("with the guard off, notation must reach the provider, got: %q", seen)
	}
}

func TestTranslateDocument_Progress(t *testing.T) {
	p := newDictProvider(nil)

	type event struct {
		done, total int
		label       string
	}
	var events []event
	tr := NewTranslator("it", p, WithProgress(func(done, total int, label string) {
		events = append(events, event{done, total, label})
	}))

	src := `<html><body><p>One</p><p>Two</p><p>Three</p></body></html>`
	if _, err := tr.TranslateDocument(context.Background(), src); err != nil {
		t.Fatal(err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 progress events, got %d", len(events))
	}
	for i, e := range events {
		if e.done != i+1 || e.total != 3 {
			t.Errorf("event %d = %d/%d, want %d/3", i, e.done, e.total, i+1)
		}
		if !strings.Contains(e.label, "<p>") {
			t.Errorf("event %d label = %q, want tag name", i, e.label)
		}
	}
}

func TestTranslateDocument_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stubProvider{}
	tr := NewTranslator("it", p)

	result, err := tr.TranslateDocument(ctx, `<html><body><p>Hello</p></body></html>`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if result != nil {
		t.Error("no output on cancellation")
	}
	if p.callCount() != 0 {
		t.Errorf("expected 0 provider calls, got %d", p.callCount())
	}
}

func TestTranslateDocument_CancelMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := &stubProvider{}
	calls := 0
	p.fn = func(text, targetLang string) (string, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return text, nil
	}
	tr := NewTranslator("it", p)

	src := `<html><body><p>One</p><p>Two</p><p>Three</p><p>Four</p></body></html>`
	_, err := tr.TranslateDocument(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if calls >= 4 {
		t.Errorf("translation should stop after cancellation, got %d calls", calls)
	}
}

func TestTranslateDocument_BatchDecodeFallback(t *testing.T) {
	delimRe := regexp.MustCompile(`␞[0-9a-f]+␞`)

	p := &stubProvider{}
	p.fn = func(text, targetLang string) (string, error) {
		// A provider that swallows delimiters forces the per-core
		// fallback.
		return delimRe.ReplaceAllString(text, " "), nil
	}
	tr := NewTranslator("it", p)

	src := `<html><body><p>Alpha <b>beta</b> gamma</p></body></html>`
	result, err := tr.TranslateDocument(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(result.Content, "<b>beta</b>") {
		t.Errorf("fallback must still map texts to the right slots, got: %s", result.Content)
	}
	// 1 failed batch request + 3 per-core requests.
	if result.Requests != 4 {
		t.Errorf("expected 4 requests, got %d", result.Requests)
	}
}

func TestTranslateDocument_EmptyBlocks(t *testing.T) {
	p := &stubProvider{}
	tr := NewTranslator("it", p)

	src := `<html><body><p></p><p>   </p><p>42</p></body></html>`
	result, err := tr.TranslateDocument(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if p.callCount() != 0 {
		t.Errorf("blocks without letters must not trigger requests, got %d", p.callCount())
	}
	if result.Blocks != 3 {
		t.Errorf("expected 3 matched blocks, got %d", result.Blocks)
	}
}

func TestTranslateDocument_ProviderErrorAborts(t *testing.T) {
	p := &stubProvider{}
	p.fn = func(text, targetLang string) (string, error) {
		return "", &ProviderError{Message: "service down", Retryable: false}
	}
	tr := NewTranslator("it", p)

	_, err := tr.TranslateDocument(context.Background(), `<html><body><p>Hello</p></body></html>`)
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Errorf("expected the provider error to surface, got: %v", err)
	}
}

func TestBlockCategories_Selector(t *testing.T) {
	tests := []struct {
		name string
		cats BlockCategories
		want string
	}{
		{"default", DefaultBlockCategories(),
			"body p, body li, body h1, body h2, body h3, body h4, body h5, body h6"},
		{"zero value falls back to p", BlockCategories{}, "body p"},
		{"tables and quotes", BlockCategories{TableCells: true, Blockquotes: true},
			"body td, body th, body blockquote"},
		{"captions", BlockCategories{Captions: true}, "body figcaption"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cats.Selector(); got != tt.want {
				t.Errorf("Selector() = %q, want %q", got, tt.want)
			}
		})
	}
}
