// Package store handles SQLite persistence of typing attempts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aldenmoor/typeforge/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for attempt data.
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
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			segment_index INTEGER NOT NULL,
			segment_start_line INTEGER NOT NULL,
			segment_end_line INTEGER NOT NULL,
			lines_per_segment INTEGER NOT NULL,
			tab_width INTEGER NOT NULL,
			slack_n INTEGER NOT NULL,
			typeable_chars INTEGER NOT NULL,
			typed_keystrokes INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			collateral INTEGER NOT NULL,
			backspaces INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			started_at_ms INTEGER NOT NULL,
			ended_at_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_char_stats (
			attempt_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at_ms);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_file_path ON attempts(file_path);`,
		`CREATE INDEX IF NOT EXISTS idx_attempt_char_stats_char ON attempt_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores a completed attempt and its per-character stats.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt, chars []model.CharStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (
			file_path, file_name, segment_index, segment_start_line, segment_end_line,
			lines_per_segment, tab_width, slack_n, typeable_chars, typed_keystrokes,
			incorrect, collateral, backspaces, correct_chars,
			started_at_ms, ended_at_ms, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.FilePath, a.FileName, a.SegmentIndex, a.SegmentStartLine, a.SegmentEndLine,
		a.LinesPerSegment, a.TabWidth, a.SlackN, a.TypeableChars, a.TypedKeystrokes,
		a.Incorrect, a.Collateral, a.Backspaces, a.CorrectChars,
		a.StartAtMs, a.EndAtMs, a.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(chars) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO attempt_char_stats (attempt_id, char, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err := stmt.ExecContext(ctx, id, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakChars aggregates character stats over the most recent attempts
// against filePath (or all files when filePath is empty).
func (s *Store) GetWeakChars(ctx context.Context, window int, filePath string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_attempts AS (
		SELECT id FROM attempts
		WHERE (? = '' OR file_path = ?)
		ORDER BY ended_at_ms DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect,
		SUM(cs.latency_sum_ms) AS latency_sum_ms, SUM(cs.latency_count) AS latency_count
	FROM attempt_char_stats cs
	JOIN recent_attempts r ON r.id = cs.attempt_id
	GROUP BY cs.char`

	rows, err := s.db.QueryContext(ctx, query, filePath, filePath, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAttempts returns attempt aggregates filtered by stats config.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.FilePath != "" {
		clauses = append(clauses, "file_path = ?")
		args = append(args, cfg.FilePath)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at_ms >= ?")
		args = append(args, cfg.Since.UnixMilli())
	}
	query := fmt.Sprintf(`SELECT id, ended_at_ms, correct_chars, incorrect, collateral, backspaces, typed_keystrokes, duration_ms
		FROM attempts
		WHERE %s
		ORDER BY ended_at_ms ASC`, strings.Join(clauses, " AND "))
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

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAtMs int64
		if err := rows.Scan(&agg.AttemptID, &endedAtMs, &agg.Correct, &agg.Incorrect, &agg.Collateral, &agg.Backspaces, &agg.TypedKeystrokes, &agg.DurationMs); err != nil {
			return nil, err
		}
		agg.EndedAt = time.UnixMilli(endedAtMs)
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ListCharAggregatesForAttempts aggregates per-character stats across attempts.
func (s *Store) ListCharAggregatesForAttempts(ctx context.Context, attemptIDs []int64) ([]model.CharAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, len(attemptIDs))
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM attempt_char_stats
		WHERE attempt_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
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

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCharStatsForAttempts returns per-attempt stats for selected characters.
func (s *Store) ListCharStatsForAttempts(ctx context.Context, attemptIDs []int64, chars []string) (map[int64]map[string]model.CharAggregate, error) {
	if len(attemptIDs) == 0 || len(chars) == 0 {
		return map[int64]map[string]model.CharAggregate{}, nil
	}
	idPlaceholders := make([]string, len(attemptIDs))
	args := make([]any, 0, len(attemptIDs)+len(chars))
	for i, id := range attemptIDs {
		idPlaceholders[i] = "?"
		args = append(args, id)
	}
	charPlaceholders := make([]string, len(chars))
	for i, ch := range chars {
		charPlaceholders[i] = "?"
		args = append(args, ch)
	}

	query := fmt.Sprintf(`SELECT attempt_id, char, correct, incorrect, latency_sum_ms, latency_count
		FROM attempt_char_stats
		WHERE attempt_id IN (%s) AND char IN (%s)`, strings.Join(idPlaceholders, ","), strings.Join(charPlaceholders, ","))

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

	result := map[int64]map[string]model.CharAggregate{}
	for rows.Next() {
		var attemptID int64
		var agg model.CharAggregate
		if err := rows.Scan(&attemptID, &agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		if _, ok := result[attemptID]; !ok {
			result[attemptID] = map[string]model.CharAggregate{}
		}
		result[attemptID][agg.Char] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListFilePaths returns the distinct file paths that have recorded attempts,
// most recently practiced first.
func (s *Store) ListFilePaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_path FROM attempts GROUP BY file_path ORDER BY MAX(ended_at_ms) DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}
