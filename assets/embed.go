// Package assets embeds the default puzzle and schedule so the server and
// the updater run without any data files configured.
package assets

import (
	"embed"
)

//go:embed puzzle.json schedule.json
var FS embed.FS

func mustRead(name string) []byte {
	b, err := FS.ReadFile(name)
	if err != nil {
		// Embedded at build time; a missing file is a build error.
		panic(err)
	}
	return b
}

// DefaultPuzzle is the puzzle served when no PUZZLE_FILE is configured.
func DefaultPuzzle() []byte {
	return mustRead("puzzle.json")
}

// DefaultSchedule is the schedule used by the updater when no SCHEDULE_FILE
// is configured. It is keyed by "month-day".
func DefaultSchedule() []byte {
	return mustRead("schedule.json")
}
