package utils

import "strings"

// stopPunctuation is the character set stripped from stop names before
// comparison. Covers the punctuation that shows up in catalog data entry.
const stopPunctuation = ".,/#!$%^&*;:{}=-_`~()"

// NormalizeStop canonicalizes a stop name for comparison: lowercase,
// punctuation stripped, surrounding whitespace trimmed. Inner whitespace is
// preserved so multi-word names stay distinguishable. Idempotent.
func NormalizeStop(name string) string {
	name = strings.ToLower(name)
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(stopPunctuation, r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}
