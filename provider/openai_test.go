package provider

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt("it")

	if !strings.Contains(prompt, "Italian") {
		t.Errorf("prompt should name the target language, got: %s", prompt)
	}
	if !strings.Contains(prompt, "␞") {
		t.Errorf("prompt should explain the separator sequence, got: %s", prompt)
	}
	if !strings.Contains(prompt, "⟬MV0⟭") {
		t.Errorf("prompt should explain the marker sequence, got: %s", prompt)
	}
}

func TestBuildSystemPrompt_UnknownLanguage(t *testing.T) {
	prompt := buildSystemPrompt("xx")

	// Unknown codes fall back to the code itself.
	if !strings.Contains(prompt, "xx") {
		t.Errorf("prompt should carry the raw code for unknown languages, got: %s", prompt)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"timeout", errors.New("request timeout"), true},
		{"503", errors.New("error, status code: 503"), true},
		{"429", errors.New("error, status code: 429"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"invalid key", errors.New("error, status code: 401, invalid api key"), false},
		{"bad request", errors.New("error, status code: 400"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewOpenAIProvider_Defaults(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key"})

	if p.model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %q", p.model)
	}
	if p.temperature != 0.3 {
		t.Errorf("expected default temperature 0.3, got %v", p.temperature)
	}
}
