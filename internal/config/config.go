// apps/daily-server/internal/config/config.go
//
// Package config parses server and updater settings from flags, falling back
// to environment variables (a .env file in the working directory is loaded
// first, without overriding variables already set).
package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devSecret signs state cookies when SESSION_SECRET is unset.
const devSecret = "dev_secret_change_me"

type Config struct {
	Port          int
	DatabaseURL   string // SQLite path or Postgres URL
	DatabaseType  string // "sqlite" or "postgres"
	SessionSecret string
	ClientOrigin  string
	CookieSecure  bool
	PuzzleFile    string // empty means the embedded puzzle
	ScheduleFile  string // empty means the embedded schedule
	Timezone      string
	LogLevel      string
	LogPretty     bool
	SessionIdle   time.Duration // in-memory sessions unused this long are swept
}

// Load reads .env, then parses args with env fallbacks.
func Load(name string, args []string) (Config, error) {
	_ = godotenv.Load()
	return Parse(name, args)
}

// Parse parses args, falling back to the environment for anything not given.
func Parse(name string, args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PuzzleFile, "puzzle", "", "Puzzle file (default: embedded)")
	fs.StringVar(&cfg.ScheduleFile, "schedule", "", "Schedule file (default: embedded)")
	fs.StringVar(&cfg.Timezone, "tz", "", "Time zone the puzzle rolls over in")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5175
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = getEnv("DATABASE_TYPE", "sqlite")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = getEnv("DATABASE_URL", "./data/app.db")
	}

	cfg.PuzzleFile = orEnv(cfg.PuzzleFile, "PUZZLE_FILE")
	cfg.ScheduleFile = orEnv(cfg.ScheduleFile, "SCHEDULE_FILE")
	cfg.Timezone = orEnv(cfg.Timezone, "TIMEZONE")

	cfg.SessionSecret = getEnv("SESSION_SECRET", devSecret)
	cfg.ClientOrigin = getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	cfg.CookieSecure = envBool("COOKIE_SECURE")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogPretty = envBool("LOG_PRETTY")

	cfg.SessionIdle = 24 * time.Hour
	if v := os.Getenv("SESSION_IDLE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid SESSION_IDLE env variable")
		}
		cfg.SessionIdle = d
	}

	return cfg, nil
}

// InsecureSecret reports whether cookies are signed with the built-in
// development secret.
func (c Config) InsecureSecret() bool { return c.SessionSecret == devSecret }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func orEnv(v, k string) string {
	if v != "" {
		return v
	}
	return os.Getenv(k)
}

func envBool(k string) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
