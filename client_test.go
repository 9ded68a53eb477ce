package epublate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// stubProvider is a minimal in-package Provider for client tests.
type stubProvider struct {
	mu    sync.Mutex
	calls int
	fn    func(text, targetLang string) (string, error)
}

func (s *stubProvider) Translate(_ context.Context, text, targetLang string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fn != nil {
		return s.fn(text, targetLang)
	}
	return "[" + targetLang + "]" + text, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// mapCache is a plain map cache for client tests.
type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string]string)} }

func (c *mapCache) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(key, value string) error {
	c.entries[key] = value
	return nil
}

func TestClient_Translate(t *testing.T) {
	p := &stubProvider{}
	client := NewClient(p, nil, fastRetry(2))

	got, err := client.Translate(context.Background(), "Hello", "it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[it]Hello" {
		t.Errorf("expected translated text, got %q", got)
	}
}

func TestClient_EmptyInputSkipsProvider(t *testing.T) {
	p := &stubProvider{}
	client := NewClient(p, nil, fastRetry(2))

	for _, text := range []string{"", "   ", "\n\t"} {
		got, err := client.Translate(context.Background(), text, "it")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", text, err)
		}
		if got != "" {
			t.Errorf("whitespace-only input should come back empty, got %q", got)
		}
	}
	if p.callCount() != 0 {
		t.Errorf("provider should not be called for empty input, got %d calls", p.callCount())
	}
}

func TestClient_CacheHit(t *testing.T) {
	p := &stubProvider{}
	client := NewClient(p, newMapCache(), fastRetry(2))

	first, err := client.Translate(context.Background(), "Hello", "it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.Translate(context.Background(), "Hello", "it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("cached result differs: %q vs %q", first, second)
	}
	if p.callCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", p.callCount())
	}

	requests, hits := client.Stats()
	if requests != 1 || hits != 1 {
		t.Errorf("expected 1 request and 1 hit, got %d and %d", requests, hits)
	}
}

func TestClient_CacheKeyedByLanguage(t *testing.T) {
	p := &stubProvider{}
	client := NewClient(p, newMapCache(), fastRetry(2))

	if _, err := client.Translate(context.Background(), "Hello", "it"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Translate(context.Background(), "Hello", "fr"); err != nil {
		t.Fatal(err)
	}

	if p.callCount() != 2 {
		t.Errorf("different target languages must not share cache entries, got %d calls", p.callCount())
	}
}

func TestClient_TrimmedInputSharesCacheEntry(t *testing.T) {
	p := &stubProvider{}
	client := NewClient(p, newMapCache(), fastRetry(2))

	if _, err := client.Translate(context.Background(), "Hello", "it"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Translate(context.Background(), "  Hello \n", "it"); err != nil {
		t.Fatal(err)
	}

	if p.callCount() != 1 {
		t.Errorf("trimmed variants should share one cache entry, got %d calls", p.callCount())
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	p := &stubProvider{fn: func(text, targetLang string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &ProviderError{Message: "503", Retryable: true}
		}
		return "ciao", nil
	}}
	client := NewClient(p, nil, fastRetry(3))

	got, err := client.Translate(context.Background(), "hello", "it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ciao" {
		t.Errorf("expected 'ciao', got %q", got)
	}

	requests, _ := client.Stats()
	if requests != 3 {
		t.Errorf("every attempt should count as a request, got %d", requests)
	}
}

func TestClient_ExhaustedRetriesReturnLastError(t *testing.T) {
	p := &stubProvider{fn: func(text, targetLang string) (string, error) {
		return "", &ProviderError{Message: "timeout", Retryable: true}
	}}
	client := NewClient(p, nil, fastRetry(2))

	_, err := client.Translate(context.Background(), "hello", "it")
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Errorf("expected a ProviderError, got: %v", err)
	}
	if p.callCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", p.callCount())
	}
}

func TestClient_FailedTranslationNotCached(t *testing.T) {
	c := newMapCache()
	p := &stubProvider{fn: func(text, targetLang string) (string, error) {
		return "", &ProviderError{Message: "down", Retryable: false}
	}}
	client := NewClient(p, c, fastRetry(2))

	if _, err := client.Translate(context.Background(), "hello", "it"); err == nil {
		t.Fatal("expected an error")
	}
	if len(c.entries) != 0 {
		t.Errorf("failed translations must not be cached, got %d entries", len(c.entries))
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stubProvider{}
	client := NewClient(p, nil, fastRetry(2))

	_, err := client.Translate(ctx, "hello", "it")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if p.callCount() != 0 {
		t.Errorf("expected 0 provider calls, got %d", p.callCount())
	}
}

func TestClient_PayloadPassedVerbatim(t *testing.T) {
	var seen string
	p := &stubProvider{fn: func(text, targetLang string) (string, error) {
		seen = text
		return text, nil
	}}
	client := NewClient(p, nil, fastRetry(1))

	payload := "one␞abc␞two ⟬MV0⟭ three"
	if _, err := client.Translate(context.Background(), payload, "it"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(seen, "␞abc␞") || !strings.Contains(seen, "⟬MV0⟭") {
		t.Errorf("delimiters and markers must reach the provider intact, got: %q", seen)
	}
}
