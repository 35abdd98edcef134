package strcase

import "strings"

// ToLowerSnake converts an identifier or a field path to snake_case.
//
// Paths are converted per segment: "Attributes[Name].DataType" becomes
// "attributes[Name].data_type" and "Tags.0" becomes "tags.0". Text between
// brackets is a map key or an index and is kept as is.
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	segments := strings.Split(s, ".")
	for i, seg := range segments {
		name, index, found := strings.Cut(seg, "[")
		if found {
			index = "[" + index
		}
		segments[i] = snakeWord(name) + index
	}

	return strings.Join(segments, ".")
}

func snakeWord(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}
