// apps/daily-server/internal/game/codec.go
//
// Compact string form of a State, used for cookies and persistence:
//
//	<wordIndex>-<guess1 guess2 ...>-<verdict1 verdict2 ...>
//
// Guesses are all MaxAttempts slots joined by a single space, so a fresh
// state serializes as "0-     -". Verdicts are joined the same way.
// Guesses are letters only and verdicts use x/c/_, so neither separator can
// appear inside a slot.

package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	fieldSep = "-"
	slotSep  = " "
)

// Serialize encodes s. Deserialize(src, s.Serialize()) yields s again.
func (s State) Serialize() string {
	verdicts := make([]string, len(s.Verdicts))
	for i, v := range s.Verdicts {
		verdicts[i] = string(v)
	}
	return strconv.Itoa(s.WordIndex) + fieldSep +
		strings.Join(s.Guesses, slotSep) + fieldSep +
		strings.Join(verdicts, slotSep)
}

// Deserialize decodes a string produced by Serialize.
//
// Missing trailing fields are treated as empty, and fewer guess slots than
// MaxAttempts are padded. Anything inconsistent (non-numeric or negative
// index, too many slots, verdicts that do not match their guesses, guesses
// after a solved attempt) fails with ErrMalformedState. An index the source
// does not have fails with both ErrMalformedState and ErrUnknownWordIndex.
func Deserialize(src WordSource, raw string) (State, error) {
	fields := strings.Split(raw, fieldSep)
	if len(fields) > 3 {
		return State{}, fmt.Errorf("%w: %d fields", ErrMalformedState, len(fields))
	}
	idx, err := strconv.ParseUint(fields[0], 10, 31)
	if err != nil {
		return State{}, fmt.Errorf("%w: word index %q", ErrMalformedState, fields[0])
	}
	st, err := Create(src, int(idx))
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}

	if len(fields) > 1 && fields[1] != "" {
		slots := strings.Split(fields[1], slotSep)
		if len(slots) > st.MaxAttempts {
			return State{}, fmt.Errorf("%w: %d guess slots", ErrMalformedState, len(slots))
		}
		for i, g := range slots {
			if g != "" && (Normalize(g) != g || !isLetters(g)) {
				return State{}, fmt.Errorf("%w: guess %d %q", ErrMalformedState, i, g)
			}
			st.Guesses[i] = g
		}
	}

	if len(fields) > 2 && fields[2] != "" {
		list := strings.Split(fields[2], slotSep)
		if len(list) > st.MaxAttempts {
			return State{}, fmt.Errorf("%w: %d verdicts", ErrMalformedState, len(list))
		}
		for i, raw := range list {
			v := Verdict(raw)
			if !v.valid(st.WordLength()) {
				return State{}, fmt.Errorf("%w: verdict %d %q", ErrMalformedState, i, raw)
			}
			if i > 0 && st.Verdicts[i-1].Solved() {
				return State{}, fmt.Errorf("%w: attempt %d after a solved one", ErrMalformedState, i)
			}
			want, err := Evaluate(st.Target, st.Guesses[i])
			if err != nil || want != v {
				return State{}, fmt.Errorf("%w: verdict %d does not match guess %q", ErrMalformedState, i, st.Guesses[i])
			}
			st.Verdicts = append(st.Verdicts, v)
		}
	}
	return st, nil
}

// Restore decodes raw and falls back to a fresh state on any decoding error,
// so a tampered or truncated cookie starts a new session instead of failing.
// An empty raw string is a fresh state. The error is non-nil only when the
// source cannot produce a fresh state either.
func Restore(src WordSource, raw string) (State, error) {
	if raw != "" {
		st, err := Deserialize(src, raw)
		if err == nil {
			return st, nil
		}
		log.Warn().Err(err).Msg("discarding session state")
	}
	return Reset(src)
}
