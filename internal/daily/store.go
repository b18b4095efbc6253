// apps/daily-server/internal/daily/store.go
//
// Results of finished games, one row per (session, date, word index), and
// the per-day leaderboard built from them.
//
// Queries are written with ? placeholders and rebound for the driver, so the
// same store runs on SQLite (default) and Postgres.

package daily

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Result is one finished game.
type Result struct {
	SessionID string `db:"session_id" json:"sessionId"`
	Date      string `db:"date" json:"date"`
	WordIndex int    `db:"word_index" json:"wordIndex"`
	Attempts  int    `db:"attempts" json:"attempts"`
	Solved    bool   `db:"solved" json:"solved"`
	ElapsedMs int64  `db:"elapsed_ms" json:"elapsedMs"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	SessionID string `db:"session_id" json:"sessionId"`
	WordIndex int    `db:"word_index" json:"wordIndex"`
	Attempts  int    `db:"attempts" json:"attempts"`
	Solved    bool   `db:"solved" json:"solved"`
	ElapsedMs int64  `db:"elapsed_ms" json:"elapsedMs"`
}

type Store struct{ db *sqlx.DB }

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

// AlreadyRecorded reports whether a result exists for this game.
func (s *Store) AlreadyRecorded(ctx context.Context, sessionID, date string, wordIndex int) (bool, error) {
	var cnt int
	err := s.db.GetContext(ctx, &cnt, s.db.Rebind(
		`SELECT COUNT(1) FROM daily_results WHERE session_id=? AND date=? AND word_index=?`),
		sessionID, date, wordIndex,
	)
	return cnt > 0, err
}

// InsertResult stores r. A second result for the same game is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.NamedExecContext(ctx, `
        INSERT INTO daily_results (session_id, date, word_index, attempts, solved, elapsed_ms)
        VALUES (:session_id, :date, :word_index, :attempts, :solved, :elapsed_ms)
        ON CONFLICT (session_id, date, word_index) DO NOTHING`, r)
	return err
}

// Leaderboard returns the best results for date: solved first, then fewest
// attempts, then fastest, then earliest. A non-positive limit means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	out := make([]LBRow, 0, limit)
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`
        SELECT session_id, word_index, attempts, solved, elapsed_ms
        FROM daily_results
        WHERE date=?
        ORDER BY solved DESC, attempts ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`), date, limit,
	)
	return out, err
}
