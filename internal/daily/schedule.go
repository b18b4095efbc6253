// apps/daily-server/internal/daily/schedule.go
//
// Puzzle schedule and the daily pick.
// A schedule file is either a JSON array of puzzles indexed by day of year,
// or a JSON object keyed by "month-day". Pick writes the puzzle for a given
// day to the file the server loads (see cmd/updater).

package daily

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robalobadob/wordle/apps/daily-server/internal/words"
)

// ErrNoPuzzle is returned when the schedule has nothing for a day.
var ErrNoPuzzle = errors.New("daily: no puzzle scheduled")

// Schedule is the full list of puzzles, addressed either by day of year
// (a JSON array, entry 0 is 1 January) or by "month-day" key (a JSON object).
type Schedule struct {
	byDay  []*words.Puzzle
	byDate map[string]words.Puzzle
}

// ParseSchedule decodes either schedule form.
func ParseSchedule(b []byte) (*Schedule, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("daily: empty schedule")
	}
	var s Schedule
	switch b[0] {
	case '[':
		if err := json.Unmarshal(b, &s.byDay); err != nil {
			return nil, fmt.Errorf("daily: decode schedule: %w", err)
		}
	case '{':
		if err := json.Unmarshal(b, &s.byDate); err != nil {
			return nil, fmt.Errorf("daily: decode schedule: %w", err)
		}
	default:
		return nil, errors.New("daily: schedule must be a JSON array or object")
	}
	return &s, nil
}

// LoadSchedule reads a schedule file.
func LoadSchedule(path string) (*Schedule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseSchedule(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Keyed reports whether the schedule is addressed by "month-day".
func (s *Schedule) Keyed() bool { return s.byDate != nil }

// For returns the cleaned puzzle for the day containing t.
func (s *Schedule) For(cal Calendar, t time.Time) (words.Puzzle, error) {
	var (
		p   words.Puzzle
		key string
	)
	if s.Keyed() {
		key = cal.MonthDayKey(t)
		var ok bool
		if p, ok = s.byDate[key]; !ok {
			return words.Puzzle{}, fmt.Errorf("%w for %s", ErrNoPuzzle, key)
		}
	} else {
		i := cal.DayIndex(t)
		key = fmt.Sprintf("day %d", i)
		if i >= len(s.byDay) || s.byDay[i] == nil {
			return words.Puzzle{}, fmt.Errorf("%w for %s", ErrNoPuzzle, key)
		}
		p = *s.byDay[i]
	}
	clean, err := p.Clean()
	if err != nil {
		return words.Puzzle{}, fmt.Errorf("%s: %w", key, err)
	}
	return clean, nil
}

// Pick writes the puzzle scheduled for now to outPath and returns it.
// The file is replaced atomically so a server reading it never sees a
// partial write.
func Pick(cal Calendar, s *Schedule, outPath string, now time.Time) (words.Puzzle, error) {
	p, err := s.For(cal, now)
	if err != nil {
		return words.Puzzle{}, err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return words.Puzzle{}, err
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return words.Puzzle{}, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".puzzle-*.json")
	if err != nil {
		return words.Puzzle{}, err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return words.Puzzle{}, err
	}
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return words.Puzzle{}, err
	}
	if err := tmp.Close(); err != nil {
		return words.Puzzle{}, err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return words.Puzzle{}, fmt.Errorf("rename %s: %w", outPath, err)
	}
	return p, nil
}
