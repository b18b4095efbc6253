// apps/daily-server/internal/game/normalize.go
//
// Word normalization shared by targets and guesses, plus the letters-only
// check that decides whether a word is playable.

package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a word into the form the evaluator compares:
// NFKD decomposition with combining marks dropped ("pêche" -> "peche"),
// recomposed, trimmed and lower-cased.
//
// It must be applied to target and guess alike.
func Normalize(word string) string {
	// transform.Chain keeps state, so build a fresh one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, word)
	if err != nil {
		folded = word
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// isLetters reports whether s is non-empty and made of letters only.
func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Playable reports whether word can be used as a target: letters only once
// normalized.
func Playable(word string) bool {
	return isLetters(Normalize(word))
}
