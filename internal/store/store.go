// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/keytrace/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			words INTEGER NOT NULL,
			wordlist_path TEXT NOT NULL,
			wpm REAL NOT NULL,
			raw REAL NOT NULL,
			accuracy REAL NOT NULL,
			consistency REAL NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			afk_seconds INTEGER NOT NULL,
			spacing_mean REAL NOT NULL,
			spacing_sd REAL NOT NULL,
			hold_mean REAL NOT NULL,
			hold_sd REAL NOT NULL,
			overlap_ms REAL NOT NULL,
			timings_overflowed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_seconds (
			session_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			count INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			words TEXT NOT NULL,
			afk INTEGER NOT NULL,
			PRIMARY KEY (session_id, idx)
		);`,
		`CREATE TABLE IF NOT EXISTS session_missed_words (
			session_id TEXT NOT NULL,
			word TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (session_id, word)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_missed_words_word ON session_missed_words(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session with its per-second buckets and
// missed words.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (err error) {
	if rec.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, lang, words, wordlist_path, wpm, raw, accuracy, consistency,
			correct, incorrect, duration_ms, afk_seconds, spacing_mean, spacing_sd, hold_mean, hold_sd, overlap_ms, timings_overflowed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.Lang,
		rec.Words,
		rec.WordListPath,
		rec.WPM,
		rec.Raw,
		rec.Accuracy,
		rec.Consistency,
		rec.Correct,
		rec.Incorrect,
		rec.DurationMs,
		rec.AFKSeconds,
		rec.SpacingMean,
		rec.SpacingStdDev,
		rec.HoldMean,
		rec.HoldStdDev,
		rec.OverlapMs,
		boolToInt(rec.TimingsOverflowed),
	)
	if err != nil {
		return err
	}

	for _, sec := range rec.Seconds {
		words, merr := json.Marshal(sec.Words)
		if merr != nil {
			err = fmt.Errorf("encode second %d words: %w", sec.Index, merr)
			return err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO session_seconds (session_id, idx, count, errors, words, afk) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, sec.Index, sec.Count, sec.Errors, string(words), boolToInt(sec.AFK)); err != nil {
			return err
		}
	}
	for _, wc := range rec.MissedWords {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO session_missed_words (session_id, word, count) VALUES (?, ?, ?)`,
			rec.ID, wc.Word, wc.Count); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, wpm, raw, accuracy, consistency, correct, incorrect, duration_ms,
			spacing_mean, hold_mean, overlap_ms, timings_overflowed
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		var overflowed int
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.WPM, &agg.Raw, &agg.Accuracy, &agg.Consistency,
			&agg.Correct, &agg.Incorrect, &agg.DurationMs, &agg.SpacingMean, &agg.HoldMean, &agg.OverlapMs, &overflowed); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.TimingsOverflowed = overflowed != 0
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListMissedWords sums missed word counts across the given sessions.
func (s *Store) ListMissedWords(ctx context.Context, sessionIDs []string) ([]model.WordCount, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT word, SUM(count) AS total
		FROM session_missed_words
		WHERE session_id IN (%s)
		GROUP BY word
		ORDER BY total DESC, word ASC`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordCount
	for rows.Next() {
		var wc model.WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, err
		}
		result = append(result, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSeconds returns the per-second buckets of one session in order.
func (s *Store) ListSeconds(ctx context.Context, sessionID string) ([]model.SecondRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, count, errors, words, afk FROM session_seconds WHERE session_id = ? ORDER BY idx ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SecondRecord
	for rows.Next() {
		var sec model.SecondRecord
		var words string
		var afk int
		if err := rows.Scan(&sec.Index, &sec.Count, &sec.Errors, &words, &afk); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(words), &sec.Words); err != nil {
			return nil, fmt.Errorf("decode second %d words: %w", sec.Index, err)
		}
		sec.AFK = afk != 0
		result = append(result, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

// timeLayout is fixed width so stored timestamps compare and sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
