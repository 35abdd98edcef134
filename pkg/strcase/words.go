package strcase

import "unicode"

// splitWords breaks an identifier into words. Underscores separate words and
// are dropped. A case change also starts a word: "userID" splits after the
// lower case run and "HTTPServer" splits before the last capital of the
// acronym.
func splitWords(s string) []string {
	var (
		words []string
		start = -1
		runes = []rune(s)
	)

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if r == '_' {
			flush(i)
			continue
		}

		if start >= 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush(i)
			}
		}

		if start < 0 {
			start = i
		}
	}
	flush(len(runes))

	return words
}
