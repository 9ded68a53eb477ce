package epublate

import "strings"

// LanguageNames maps language codes to human-readable names, used in
// prompts and progress output. Codes follow ISO 639-1 with an optional
// region suffix ("it", "pt_BR").
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sv": "Swedish",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// RTLLanguages contains language codes that use right-to-left text
// direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// GetLanguageName returns the human-readable name for a language code,
// falling back to the code itself.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[baseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr"
// otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[baseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// ToHTMLLang converts a language code to HTML lang attribute format
// ("pt_BR" → "pt-BR").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}

// baseLang extracts the lowercased base language code ("pt" from
// "pt_BR" or "pt-BR").
func baseLang(lang string) string {
	lang = strings.ReplaceAll(lang, "-", "_")
	if i := strings.IndexByte(lang, '_'); i >= 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}
