// Package words splits identifiers into the sub-words a reader perceives.
// Boundaries sit at lower-to-upper case transitions and at underscores;
// underscores stay attached to the word they prefix, so "create_all" splits
// into "create" and "_all", and "__init" stays a single word.
package words

import "unicode"

// Split returns the sub-words of text in source order. Empty input yields nil.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, curr := runes[i-1], runes[i]
		boundary := (curr == '_' && prev != '_') ||
			(unicode.IsLower(prev) && unicode.IsUpper(curr))
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

// StartsAnyWord reports whether some word of text begins with first,
// compared case-sensitively or with simple folding.
func StartsAnyWord(text string, first rune, caseSensitive bool) bool {
	for _, w := range Split(text) {
		for _, r := range w {
			if caseSensitive {
				if r == first {
					return true
				}
			} else if unicode.ToLower(r) == unicode.ToLower(first) {
				return true
			}
			break
		}
	}
	return false
}
