package format

import (
	"strings"
)

// Humanize converts a machine-readable key into a display label by
// replacing separators with spaces and capitalizing each word.
// e.g., "taxa_conversao" → "Taxa Conversao"
func Humanize(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.ReplaceAll(key, "-", " ")

	words := strings.Fields(key)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// Fallback returns s, or the literal "N/A" when s is blank.
func Fallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
