// apps/daily-server/internal/db/db.go
//
// Database helpers for the daily server.
// Responsibilities:
//   - Opening SQLite (default) with safe defaults (WAL, busy timeout, foreign keys),
//     or Postgres when configured.
//   - Applying the embedded migrations in migrations/*.sql (idempotent, recorded in _migrations).

package db

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Driver names accepted by Open.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Open connects to the database of the given type.
//
// SQLite:
//   - Ensures the parent directory exists for file DSNs (e.g. ./data/app.db).
//   - Configures busy timeout and WAL journaling, enforces foreign keys.
//   - In-memory DSNs are pinned to one connection so every query sees the same database.
func Open(kind, dsn string) (*sqlx.DB, error) {
	switch kind {
	case Postgres:
		db, err := sqlx.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return db, nil
	case SQLite, "":
		return openSQLite(dsn)
	default:
		return nil, fmt.Errorf("unknown database type %q", kind)
	}
}

func openSQLite(dsn string) (*sqlx.DB, error) {
	memory := strings.Contains(dsn, ":memory:")
	if !memory {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sqlx.Open("sqlite3", dsn+sep+"_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations in lexical order.
//
//   - Uses a _migrations table to track applied files.
//   - Each file runs in its own transaction, unless it manages its own
//     (BEGIN TRANSACTION) or toggles foreign keys, in which case it runs as-is.
func Migrate(db *sqlx.DB) error {
	return migrate(db, migrations)
}

func migrate(db *sqlx.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.Get(&done, db.Rebind(`SELECT COUNT(1) FROM _migrations WHERE name=?`), f)
		if err != nil {
			return fmt.Errorf("query _migrations: %w", err)
		}
		if done > 0 {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		sqlText := string(sqlBytes)

		upper := strings.ToUpper(sqlText)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			if _, err := db.Exec(sqlText); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
			if _, err := db.Exec(db.Rebind(`INSERT INTO _migrations(name) VALUES (?)`), f); err != nil {
				return fmt.Errorf("record %s: %w", f, err)
			}
			log.Info().Str("migration", f).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(tx.Rebind(`INSERT INTO _migrations(name) VALUES (?)`), f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
