// apps/daily-server/internal/words/words.go
//
// Provides the word source for the game engine: the puzzle of the day.
//
// Responsibilities:
//   - Load the puzzle from an env-provided file or fall back to the embedded default.
//   - Expose it as a game.WordSource (Len, Word, Theme).
//
// Puzzle file (JSON, written by cmd/updater):
//
//	{"theme": "Fruits", "words": ["pomme", "poire", "pêche"]}
//
// Initialization behavior (Init):
//  1. If a path is given (PUZZLE_FILE), load the puzzle from it.
//  2. Otherwise use the embedded assets/puzzle.json.
//
// Constraints:
//   - Words keep their display form (case, accents); the game normalizes them.
//   - Blank entries are dropped, entries that are not letters-only are skipped.
//   - Initialization is run once (sync.Once).

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/daily-server/assets"
	"github.com/robalobadob/wordle/apps/daily-server/internal/game"
)

// ErrEmptyPuzzle is returned when a puzzle has no playable word.
var ErrEmptyPuzzle = errors.New("words: puzzle has no playable word")

// Puzzle is one day's theme and its ordered words.
type Puzzle struct {
	Theme string   `json:"theme"`
	Words []string `json:"words"`
}

// Clean trims the words, drops unusable ones and fails if nothing is left.
func (p Puzzle) Clean() (Puzzle, error) {
	out := Puzzle{Theme: strings.TrimSpace(p.Theme), Words: make([]string, 0, len(p.Words))}
	for _, w := range p.Words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if !game.Playable(w) {
			log.Warn().Str("word", w).Msg("skipping word that is not letters-only")
			continue
		}
		out.Words = append(out.Words, w)
	}
	if len(out.Words) == 0 {
		return Puzzle{}, ErrEmptyPuzzle
	}
	return out, nil
}

// ParsePuzzle decodes and cleans a puzzle file.
func ParsePuzzle(b []byte) (Puzzle, error) {
	var p Puzzle
	if err := json.Unmarshal(b, &p); err != nil {
		return Puzzle{}, fmt.Errorf("words: decode puzzle: %w", err)
	}
	return p.Clean()
}

// Source is a read-only game.WordSource over a Puzzle.
type Source struct {
	puzzle Puzzle
}

var _ game.WordSource = (*Source)(nil)

// NewSource cleans p and wraps it.
func NewSource(p Puzzle) (*Source, error) {
	clean, err := p.Clean()
	if err != nil {
		return nil, err
	}
	return &Source{puzzle: clean}, nil
}

// Load reads a puzzle file from path.
func Load(path string) (*Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParsePuzzle(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Source{puzzle: p}, nil
}

// Len is the number of words.
func (s *Source) Len() int { return len(s.puzzle.Words) }

// Word returns the word at i in its display form.
func (s *Source) Word(i int) (string, bool) {
	if i < 0 || i >= len(s.puzzle.Words) {
		return "", false
	}
	return s.puzzle.Words[i], true
}

// Theme is the puzzle theme.
func (s *Source) Theme() string { return s.puzzle.Theme }

// Puzzle returns a copy of the underlying puzzle.
func (s *Source) Puzzle() Puzzle {
	return Puzzle{Theme: s.puzzle.Theme, Words: append([]string(nil), s.puzzle.Words...)}
}

var (
	initOnce   sync.Once
	current    *Source
	initialErr error
)

// Init loads the puzzle exactly once, from path if set, else from the
// embedded default.
func Init(path string) error {
	initOnce.Do(func() {
		if path != "" {
			current, initialErr = Load(path)
		} else {
			var p Puzzle
			p, initialErr = ParsePuzzle(assets.DefaultPuzzle())
			if initialErr == nil {
				current = &Source{puzzle: p}
			}
		}
		if initialErr != nil {
			current = nil
			return
		}
		log.Info().Str("theme", current.Theme()).Int("words", current.Len()).Msg("puzzle loaded")
	})
	return initialErr
}

// Current returns the source loaded by Init, or nil before a successful Init.
func Current() *Source {
	return current
}
