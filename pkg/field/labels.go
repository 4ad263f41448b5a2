package field

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var wordSeparators = regexp.MustCompile(`[_\-\s\[\]]+`)

// Humanize turns a field id such as "footer_sidebar" or "footerSidebar" into
// "Footer Sidebar".
func Humanize(id string) string {
	if id == "" {
		return ""
	}
	var words []string
	for _, part := range wordSeparators.Split(id, -1) {
		if part == "" {
			continue
		}
		for _, word := range strings.Fields(splitCamelCase(part)) {
			words = append(words, capitalize(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamelCase(input string) string {
	var out strings.Builder
	prev := utf8.RuneError
	for i, r := range input {
		if i > 0 && wordBoundary(prev, r) {
			out.WriteByte(' ')
		}
		out.WriteRune(r)
		prev = r
	}
	return out.String()
}

func wordBoundary(prev, r rune) bool {
	letter, digit := unicode.IsLetter, unicode.IsDigit
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) || (letter(prev) && digit(r)) || (digit(prev) && letter(r))
}

func capitalize(word string) string {
	lower := strings.ToLower(word)
	first, size := utf8.DecodeRuneInString(lower)
	if first == utf8.RuneError {
		return lower
	}
	return string(unicode.ToUpper(first)) + lower[size:]
}
