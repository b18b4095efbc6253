package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "SESSION_SECRET", "CLIENT_ORIGIN",
		"COOKIE_SECURE", "PUZZLE_FILE", "SCHEDULE_FILE", "TIMEZONE", "LOG_LEVEL", "LOG_PRETTY", "SESSION_IDLE"} {
		t.Setenv(k, "")
	}

	cfg, err := Parse("test", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 5175 || cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != "./data/app.db" {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.InsecureSecret() {
		t.Error("expected dev secret by default")
	}
	if cfg.CookieSecure || cfg.LogPretty || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.SessionIdle != 24*time.Hour {
		t.Errorf("SessionIdle = %v, want 24h", cfg.SessionIdle)
	}
}

func TestParseEnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("PUZZLE_FILE", "/tmp/puzzle.json")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SESSION_IDLE", "90m")

	cfg, err := Parse("test", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 || cfg.DatabaseType != "postgres" || cfg.DatabaseURL != "postgres://test" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.InsecureSecret() || !cfg.CookieSecure {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PuzzleFile != "/tmp/puzzle.json" || cfg.Timezone != "UTC" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SessionIdle != 90*time.Minute {
		t.Errorf("SessionIdle = %v, want 90m", cfg.SessionIdle)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PUZZLE_FILE", "/env/puzzle.json")

	cfg, err := Parse("test", []string{"-p", "8080", "-puzzle", "/flag/puzzle.json", "-tz", "Europe/Paris"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.PuzzleFile != "/flag/puzzle.json" {
		t.Errorf("PuzzleFile = %q", cfg.PuzzleFile)
	}
	if cfg.Timezone != "Europe/Paris" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
}

func TestParseErrors(t *testing.T) {
	t.Setenv("PORT", "abc")
	if _, err := Parse("test", nil); err == nil {
		t.Error("expected error for bad PORT")
	}
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "mysql")
	if _, err := Parse("test", nil); err == nil {
		t.Error("expected error for unknown DATABASE_TYPE")
	}
	t.Setenv("DATABASE_TYPE", "")
	for _, v := range []string{"soon", "-1h"} {
		t.Setenv("SESSION_IDLE", v)
		if _, err := Parse("test", nil); err == nil {
			t.Errorf("expected error for SESSION_IDLE=%q", v)
		}
	}
	t.Setenv("SESSION_IDLE", "")
	if _, err := Parse("test", []string{"-nope"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
