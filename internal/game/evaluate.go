// apps/daily-server/internal/game/evaluate.go
//
// Guess evaluation using the two-pass algorithm.
//
// Pass 1 reserves exact matches before anything else, otherwise an early
// present match could claim a target letter that a later position needs
// for an exact match (target "speed", guess "erase").
// Pass 2 resolves the remaining positions left to right, each one consuming
// the leftmost unconsumed occurrence of its letter in the target.
//
// Inputs are compared as runes. Normalization (case and accent folding) is
// not done here; see Normalize.

package game

import (
	"fmt"
	"unicode/utf8"
)

// consumed marks a target slot that has already been claimed.
// utf8.RuneError never survives Normalize, so it cannot equal a guess letter.
const consumed = utf8.RuneError

// Evaluate scores guess against target and returns one mark per letter.
// It fails with ErrInvalidGuessLength when the rune lengths differ.
func Evaluate(target, guess string) (Verdict, error) {
	available := []rune(target)
	letters := []rune(guess)
	if len(letters) != len(available) {
		return "", fmt.Errorf("%w: got %d letters, want %d", ErrInvalidGuessLength, len(letters), len(available))
	}

	res := make([]byte, len(letters))
	for i := range res {
		res[i] = byte(MarkAbsent)
	}

	// First pass: exact matches.
	for i, r := range letters {
		if r == available[i] {
			res[i] = byte(MarkExact)
			available[i] = consumed
		}
	}

	// Second pass: leftmost unconsumed occurrence wins.
	for i, r := range letters {
		if Mark(res[i]) != MarkAbsent {
			continue
		}
		for j, a := range available {
			if a == r && a != consumed {
				res[i] = byte(MarkPresent)
				available[j] = consumed
				break
			}
		}
	}
	return Verdict(res), nil
}
