package epublate

import "time"

// Option is a functional option for configuring the Translator.
type Option func(*Translator)

// WithSourceLang sets the source language (default "en"). When it
// matches the target language, translation is bypassed entirely.
func WithSourceLang(lang string) Option {
	return func(t *Translator) {
		t.sourceLang = lang
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) Option {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithRetryConfig overrides the client retry behavior.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(t *Translator) {
		t.retry = cfg
	}
}

// WithGuard sets the notation guard. Pass nil to translate chess
// notation like any other text.
func WithGuard(guard *NotationGuard) Option {
	return func(t *Translator) {
		t.guard = guard
	}
}

// WithBlocks sets which tag categories count as translatable blocks.
func WithBlocks(blocks BlockCategories) Option {
	return func(t *Translator) {
		t.blocks = blocks
	}
}

// WithMaxPayload sets the maximum payload size in characters per
// translation request. The practical range is about 1200 to 6500;
// higher means fewer requests.
func WithMaxPayload(chars int) Option {
	return func(t *Translator) {
		if chars > 0 {
			t.maxPayload = chars
		}
	}
}

// WithThrottle sets a pause after each translated block, to stay under
// provider rate limits.
func WithThrottle(d time.Duration) Option {
	return func(t *Translator) {
		t.throttle = d
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(t *Translator) {
		t.progress = fn
	}
}
