package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/epublate"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider translates through OpenAI's chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates one payload string.
func (p *OpenAIProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &epublate.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &epublate.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// buildSystemPrompt instructs the model to behave like a plain
// translation endpoint: the payload may contain delimiter and marker
// sequences that must come back byte-identical, in place.
func buildSystemPrompt(targetLang string) string {
	targetName := epublate.GetLanguageName(targetLang)

	return fmt.Sprintf(`You are a translation engine. Translate the user's text into %s.

Rules:
- Return ONLY the translated text, nothing else. No quotes, no commentary, no Markdown.
- The text may contain separator sequences like %s...%s and markers like %sMV0%s. Copy every such sequence to your output EXACTLY as it appears, in the same relative position. Never translate, reorder, merge, or drop them.
- Preserve leading/trailing whitespace and punctuation style of the source.
- Translate each separated segment independently; do not let one segment's content bleed into another.`,
		targetName,
		"␞", "␞",
		"⟬", "⟭")
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
