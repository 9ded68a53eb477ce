package epublate

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLanguage guesses the ISO 639-1 code of a text sample. It
// returns false for samples too small to classify reliably. Used to
// fill in the source language when the book does not declare one, so
// a book already in the target language is not round-tripped through
// the provider.
func DetectLanguage(text string) (string, bool) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return "", false
	}

	letters := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 6 {
		return "", false
	}

	language, ok := getDetector().DetectLanguageOf(sample)
	if !ok {
		return "", false
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return "", false
	}
	return code, true
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
