package strcase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToLowerCamel converts an underscore separated identifier to lowerCamelCase.
//
// Identifiers without an underscore are returned unchanged, which makes the
// conversion a no-op on values that are already camel cased. Empty segments
// produced by leading, trailing or repeated underscores are dropped.
func ToLowerCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	words := splitWords(s)
	// identifier made only of underscores
	if len(words) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if i == 0 {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		b.WriteString(word[size:])
	}

	return b.String()
}
