// Command daily-server serves the daily word game over HTTP.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/daily-server/internal/config"
	"github.com/robalobadob/wordle/apps/daily-server/internal/daily"
	"github.com/robalobadob/wordle/apps/daily-server/internal/db"
	"github.com/robalobadob/wordle/apps/daily-server/internal/httpserver"
	"github.com/robalobadob/wordle/apps/daily-server/internal/store"
	"github.com/robalobadob/wordle/apps/daily-server/internal/words"
)

func main() {
	cfg, err := config.Load("daily-server", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg)

	if cfg.InsecureSecret() {
		log.Warn().Msg("SESSION_SECRET not set, state cookies use the development secret")
	}

	if err := words.Init(cfg.PuzzleFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzle")
	}
	src := words.Current()

	tz := cfg.Timezone
	if tz == "" {
		tz = daily.DefaultTimezone
	}
	cal, err := daily.NewCalendar(tz)
	if err != nil {
		log.Fatal().Err(err).Str("tz", tz).Msg("bad timezone")
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.DatabaseType).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	sessions := store.NewMemoryStore(src)
	go sweepSessions(sessions, cfg.SessionIdle)

	srv, err := httpserver.New(httpserver.Options{
		Source:       src,
		Store:        sessions,
		Results:      daily.NewStore(conn),
		Calendar:     cal,
		Secret:       cfg.SessionSecret,
		ClientOrigin: cfg.ClientOrigin,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	log.Info().
		Int("port", cfg.Port).
		Str("theme", src.Theme()).
		Int("words", src.Len()).
		Str("tz", tz).
		Msg("starting daily-server")
	if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// sweepSessions periodically forgets sessions unused for idle. Players coming
// back later are restored from their state cookie.
func sweepSessions(st store.Store, idle time.Duration) {
	every := idle / 4
	switch {
	case every > 15*time.Minute:
		every = 15 * time.Minute
	case every < time.Second:
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		if n := st.Sweep(now.Add(-idle)); n > 0 {
			log.Info().Int("evicted", n).Int("live", st.Len()).Msg("swept idle sessions")
		}
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
