package provider

import (
	"context"
	"strings"
	"sync"
)

// MockProvider is a mock translation backend for testing. Its default
// behavior applies Replacements as plain substring substitutions over
// the whole payload, which leaves delimiters and markers intact the
// way a well-behaved translation service would.
type MockProvider struct {
	Replacements map[string]string // Source substring to translation
	Func         func(ctx context.Context, text, targetLang string) (string, error)
	Err          error // Returned by every call when set

	mu        sync.Mutex
	callCount int
	lastText  string
	lastLang  string
}

// NewMockProvider creates a mock provider with a few default
// replacements.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Replacements: map[string]string{
			"Hello": "Ciao",
			"world": "mondo",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastText = text
	m.lastLang = targetLang
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.Func != nil {
		return m.Func(ctx, text, targetLang)
	}

	out := text
	for from, to := range m.Replacements {
		out = strings.ReplaceAll(out, from, to)
	}
	return out, nil
}

// CallCount returns how many times Translate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastText returns the payload of the most recent call.
func (m *MockProvider) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}

// LastLang returns the target language of the most recent call.
func (m *MockProvider) LastLang() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLang
}

// Reset clears the recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastText = ""
	m.lastLang = ""
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
