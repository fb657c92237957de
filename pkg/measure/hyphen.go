package measure

import "strings"

// MinHyphenRunes is the shortest word that [Hyphenate] splits.
const MinHyphenRunes = 6

// Hyphenate inserts a hyphen at the rune midpoint of every word of at least
// MinHyphenRunes runes that does not already contain one. Whitespace is
// collapsed to single spaces. Words that already carry a hyphen can wrap at
// it and are left alone, which keeps Hyphenate idempotent.
//
//	Hyphenate("Authentication Service") == "Authent-ication Ser-vice"
func Hyphenate(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		if strings.Contains(w, "-") {
			continue
		}
		r := []rune(w)
		if len(r) < MinHyphenRunes {
			continue
		}
		mid := len(r) / 2
		words[i] = string(r[:mid]) + "-" + string(r[mid:])
	}
	return strings.Join(words, " ")
}
