// Command updater writes today's puzzle from the schedule to PUZZLE_FILE.
// Run it once a day, shortly after midnight in the puzzle time zone, and
// restart the server so it picks up the new file.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/daily-server/assets"
	"github.com/robalobadob/wordle/apps/daily-server/internal/config"
	"github.com/robalobadob/wordle/apps/daily-server/internal/daily"
)

func main() {
	cfg, err := config.Load("updater", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if cfg.PuzzleFile == "" {
		log.Fatal().Msg("PUZZLE_FILE (or -puzzle) is required")
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = daily.DefaultTimezone
	}
	cal, err := daily.NewCalendar(tz)
	if err != nil {
		log.Fatal().Err(err).Str("tz", tz).Msg("bad timezone")
	}

	var sched *daily.Schedule
	if cfg.ScheduleFile != "" {
		sched, err = daily.LoadSchedule(cfg.ScheduleFile)
	} else {
		sched, err = daily.ParseSchedule(assets.DefaultSchedule())
	}
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.ScheduleFile).Msg("load schedule")
	}

	now := time.Now()
	p, err := daily.Pick(cal, sched, cfg.PuzzleFile, now)
	if err != nil {
		log.Fatal().Err(err).Str("date", cal.DateKey(now)).Msg("pick puzzle")
	}
	log.Info().
		Str("date", cal.DateKey(now)).
		Str("theme", p.Theme).
		Int("words", len(p.Words)).
		Str("out", cfg.PuzzleFile).
		Msg("puzzle updated")
}
