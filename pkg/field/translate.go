package field

import "strings"

// TextDomain is the translation namespace for built-in strings.
const TextDomain = "meta-box"

// Translator resolves a message key within a text domain for a locale.
type Translator interface {
	Translate(locale, domain, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, domain, key string, args ...any) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(locale, domain, key string, args ...any) (string, error) {
	return fn(locale, domain, key, args...)
}

// Translate looks key up in TextDomain through t and falls back to fallback when there is
// no translator, the lookup fails or returns an empty string.
func Translate(t Translator, locale, key, fallback string) string {
	if t == nil || strings.TrimSpace(key) == "" {
		return fallback
	}
	out, err := t.Translate(locale, TextDomain, key)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return out
}
