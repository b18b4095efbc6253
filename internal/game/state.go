// apps/daily-server/internal/game/state.go
//
// Game state for a single session of the daily puzzle.
// Responsibilities:
//   - Create states for a word index of the puzzle (6 attempts per word).
//   - Validate and apply guesses (length, letters only).
//   - Track the lifecycle: playing → solved/exhausted, then next word or reset.
//
// Notes:
//   - State is a value. Every operation returns a new State and leaves the
//     receiver untouched, so a caller can keep the previous one around.
//   - Target is the normalized word; Original keeps the display form.
package game

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// DefaultMaxAttempts is the number of guesses allowed per word.
const DefaultMaxAttempts = 6

// State holds one session of the game.
type State struct {
	WordIndex   int       // index into the word source
	TotalWords  int       // word count of the source when the state was created
	Theme       string    // puzzle theme
	Original    string    // target as listed in the source (accents kept)
	Target      string    // normalized target compared against guesses
	MaxAttempts int       // guesses allowed for this word
	Guesses     []string  // MaxAttempts slots; "" until attempted
	Verdicts    []Verdict // one per submitted guess, in order
}

// Create builds a fresh state for the word at index.
// It fails with ErrUnknownWordIndex if the source has no usable word there.
func Create(src WordSource, index int) (State, error) {
	if index < 0 || index >= src.Len() {
		return State{}, fmt.Errorf("%w: %d (have %d words)", ErrUnknownWordIndex, index, src.Len())
	}
	word, ok := src.Word(index)
	if !ok {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownWordIndex, index)
	}
	target := Normalize(word)
	if !isLetters(target) {
		return State{}, fmt.Errorf("%w: %d is not a letters-only word", ErrUnknownWordIndex, index)
	}

	log.Debug().Int("wordIndex", index).Int("wordLength", utf8.RuneCountInString(target)).Msg("new game")
	return State{
		WordIndex:   index,
		TotalWords:  src.Len(),
		Theme:       src.Theme(),
		Original:    word,
		Target:      target,
		MaxAttempts: DefaultMaxAttempts,
		Guesses:     make([]string, DefaultMaxAttempts),
		Verdicts:    []Verdict{},
	}, nil
}

// Reset is Create at index 0.
func Reset(src WordSource) (State, error) {
	return Create(src, 0)
}

// WordLength is the number of letters in the target.
func (s State) WordLength() int { return utf8.RuneCountInString(s.Target) }

// Attempt is the zero-based index of the next attempt.
func (s State) Attempt() int { return len(s.Verdicts) }

// Submit validates and scores guess as the next attempt.
//
// Validation rules:
//   - The game must not be complete (ErrGameAlreadyComplete).
//   - The normalized guess must have WordLength letters (ErrInvalidGuessLength).
//   - The normalized guess must be letters only (ErrInvalidGuess).
//
// On error the returned state is the receiver, unchanged.
func (s State) Submit(guess string) (State, error) {
	i := len(s.Verdicts)
	if i >= s.MaxAttempts || s.IsSolved() {
		return s, ErrGameAlreadyComplete
	}
	guess = Normalize(guess)
	if utf8.RuneCountInString(guess) != s.WordLength() {
		return s, fmt.Errorf("%w: got %d letters, want %d", ErrInvalidGuessLength, utf8.RuneCountInString(guess), s.WordLength())
	}
	if !isLetters(guess) {
		return s, ErrInvalidGuess
	}

	verdict, err := Evaluate(s.Target, guess)
	if err != nil {
		return s, err
	}

	next := s.clone()
	next.Guesses[i] = guess
	next.Verdicts = append(next.Verdicts, verdict)
	return next, nil
}

// IsSolved reports whether the last verdict is all exact.
func (s State) IsSolved() bool {
	n := len(s.Verdicts)
	return n > 0 && s.Verdicts[n-1].Solved()
}

// IsExhausted reports whether every attempt was used without solving.
func (s State) IsExhausted() bool {
	return len(s.Verdicts) == s.MaxAttempts && !s.IsSolved()
}

// IsComplete reports whether no further guess can be submitted.
func (s State) IsComplete() bool {
	return s.IsSolved() || len(s.Verdicts) >= s.MaxAttempts
}

// Status is a coarse string form: "playing", "won" or "lost".
func (s State) Status() string {
	switch {
	case s.IsSolved():
		return "won"
	case s.IsExhausted():
		return "lost"
	default:
		return "playing"
	}
}

// Next returns a fresh state for the following word, wrapping to 0 after the
// last one.
func (s State) Next(src WordSource) (State, error) {
	total := src.Len()
	if total <= 0 {
		return State{}, fmt.Errorf("%w: empty word source", ErrUnknownWordIndex)
	}
	return Create(src, (s.WordIndex+1)%total)
}

// clone copies the slices so the result can be modified independently.
func (s State) clone() State {
	c := s
	c.Guesses = slices.Clone(s.Guesses)
	if len(c.Guesses) < s.MaxAttempts {
		c.Guesses = append(c.Guesses, make([]string, s.MaxAttempts-len(c.Guesses))...)
	}
	c.Verdicts = slices.Clone(s.Verdicts)
	if c.Verdicts == nil {
		c.Verdicts = []Verdict{}
	}
	return c
}
