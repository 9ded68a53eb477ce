package epublate

import (
	"context"
	"strings"
	"sync"
)

// Provider is the interface for translation backends. Translate
// receives one payload string and must return its translation with
// every delimiter and marker sequence preserved verbatim.
type Provider interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Client issues single translation requests with memoized results and
// retry/backoff. It is the only component that talks to a provider.
type Client struct {
	provider Provider
	cache    TranslationCache
	retry    RetryConfig

	mu       sync.Mutex
	requests int
	hits     int
}

// NewClient creates a translation client. cache may be nil to disable
// memoization.
func NewClient(p Provider, cache TranslationCache, retry RetryConfig) *Client {
	return &Client{
		provider: p,
		cache:    cache,
		retry:    retry,
	}
}

// Translate translates text into targetLang. Input is trimmed first;
// text that is empty after trimming is returned unchanged without a
// network call. Results are cached by (trimmed text, target language);
// a hit never reaches the provider. On a miss the provider is called
// with exponential backoff retry, and the final attempt's error is
// returned when retries are exhausted.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed, nil
	}

	key := CacheKey(HashText(trimmed), targetLang)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.mu.Lock()
			c.hits++
			c.mu.Unlock()
			return cached, nil
		}
	}

	out, err := WithRetry(ctx, c.retry, func() (string, error) {
		c.mu.Lock()
		c.requests++
		c.mu.Unlock()
		return c.provider.Translate(ctx, trimmed, targetLang)
	})
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, out) // Ignore cache set errors
	}

	return out, nil
}

// Stats returns the number of outbound provider requests issued and
// the number of cache hits so far.
func (c *Client) Stats() (requests, hits int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests, c.hits
}
