package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZaguanLabs/epublate"
)

const defaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleProvider translates through the free Google Translate web
// endpoint (client=gtx). No API key is required, which also means the
// endpoint is rate-limited aggressively; pair it with throttling.
type GoogleProvider struct {
	httpClient *http.Client
	endpoint   string
	sourceLang string
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	SourceLang string        // Source language code (default: "auto")
	Endpoint   string        // Override endpoint, used in tests
	Timeout    time.Duration // Per-request timeout (default: 30s)
}

// NewGoogleProvider creates a new Google web-endpoint provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}

	sourceLang := cfg.SourceLang
	if sourceLang == "" {
		sourceLang = "auto"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &GoogleProvider{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		sourceLang: sourceLang,
	}
}

// Translate translates one payload string.
func (p *GoogleProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", p.sourceLang)
	query.Set("tl", targetLang)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", &epublate.ProviderError{Message: "building request", Cause: err, Retryable: false}
	}
	req.Header.Set("User-Agent", epublate.UserAgent())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &epublate.ProviderError{Message: "request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &epublate.ProviderError{Message: "reading response", Cause: err, Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &epublate.ProviderError{
			Message:   fmt.Sprintf("endpoint returned %d", resp.StatusCode),
			Retryable: true,
		}
	}

	translated, err := parseGoogleResponse(body)
	if err != nil {
		return "", err
	}
	return translated, nil
}

// parseGoogleResponse extracts the translation from the endpoint's
// nested-array response: the first element is a list of
// [translatedSentence, sourceSentence, ...] tuples.
func parseGoogleResponse(body []byte) (string, error) {
	var root []interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return "", &epublate.ProviderError{Message: "invalid response format", Cause: err, Retryable: true}
	}

	if len(root) == 0 {
		return "", &epublate.ProviderError{Message: "empty response", Retryable: true}
	}

	sentences, ok := root[0].([]interface{})
	if !ok {
		return "", &epublate.ProviderError{Message: "unexpected response shape", Retryable: true}
	}

	var b strings.Builder
	for _, item := range sentences {
		tuple, ok := item.([]interface{})
		if !ok || len(tuple) == 0 {
			continue
		}
		if sentence, ok := tuple[0].(string); ok {
			b.WriteString(sentence)
		}
	}

	return b.String(), nil
}

// Verify GoogleProvider implements Provider
var _ Provider = (*GoogleProvider)(nil)
