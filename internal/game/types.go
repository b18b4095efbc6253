// apps/daily-server/internal/game/types.go
//
// Core type definitions for the daily word game.
// Defines:
//   - Mark: per-letter result of a guess (exact/present/absent).
//   - Verdict: one mark per letter of a guess, in a fixed one-byte encoding.
//   - WordSource: the read-only word list a game is played against.
//   - Sentinel errors shared by the evaluator and the state machine.

package game

import "errors"

// Mark represents the evaluation result for a single letter in a guess.
// The byte values are the wire encoding used in verdicts and cookies:
//   - 'x': letter is correct and in the correct position.
//   - 'c': letter exists in the target at another, unclaimed position.
//   - '_': letter has no remaining unclaimed occurrence in the target.
type Mark byte

const (
	MarkExact   Mark = 'x'
	MarkPresent Mark = 'c'
	MarkAbsent  Mark = '_'
)

// Valid reports whether m is one of the three known marks.
func (m Mark) Valid() bool {
	return m == MarkExact || m == MarkPresent || m == MarkAbsent
}

// Verdict is the encoded result of one attempt, e.g. "_xxcx".
type Verdict string

// Marks decodes v into its per-letter marks.
func (v Verdict) Marks() []Mark {
	out := make([]Mark, len(v))
	for i := 0; i < len(v); i++ {
		out[i] = Mark(v[i])
	}
	return out
}

// Solved reports whether every letter is an exact match.
// An empty verdict is never solved.
func (v Verdict) Solved() bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		if Mark(v[i]) != MarkExact {
			return false
		}
	}
	return true
}

// valid reports whether v has exactly n known marks.
func (v Verdict) valid(n int) bool {
	if len(v) != n {
		return false
	}
	for i := 0; i < len(v); i++ {
		if !Mark(v[i]).Valid() {
			return false
		}
	}
	return true
}

// WordSource is the puzzle a game is played against.
// Implementations must be safe for concurrent reads.
type WordSource interface {
	// Len is the number of words in the puzzle.
	Len() int
	// Word returns the word at index i, or false if there is none.
	Word(i int) (string, bool)
	// Theme is the puzzle's display theme (may be empty).
	Theme() string
}

var (
	ErrInvalidGuessLength  = errors.New("invalid guess length")
	ErrInvalidGuess        = errors.New("guess must contain letters only")
	ErrGameAlreadyComplete = errors.New("game already complete")
	ErrUnknownWordIndex    = errors.New("unknown word index")
	ErrMalformedState      = errors.New("malformed state")
)
