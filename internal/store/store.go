// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/gazegrid/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = errors.New("session not found")

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
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			screen_width INTEGER NOT NULL,
			screen_height INTEGER NOT NULL,
			grid_rows INTEGER NOT NULL,
			grid_cols INTEGER NOT NULL,
			attribution TEXT NOT NULL,
			source TEXT NOT NULL,
			sample_count INTEGER NOT NULL,
			span_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_segments (
			session_id INTEGER NOT NULL,
			segment INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			samples INTEGER NOT NULL,
			PRIMARY KEY (session_id, segment)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_segments_segment ON session_segments(segment);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its per-segment totals.
// An empty UUID is replaced by a fresh one.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, segments []model.SegmentStats) (id int64, err error) {
	if stats.UUID == "" {
		stats.UUID = uuid.New().String()
	}
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
		`INSERT INTO sessions (uuid, started_at, ended_at, screen_width, screen_height, grid_rows, grid_cols, attribution, source, sample_count, span_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.UUID,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Width,
		stats.Height,
		stats.Rows,
		stats.Cols,
		stats.Attribution,
		stats.Source,
		stats.SampleCount,
		stats.SpanMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(segments) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_segments (session_id, segment, duration_ms, samples)
			 VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, seg := range segments {
			if _, err = stmt.ExecContext(ctx, id, int(seg.Segment), seg.DurationMs, seg.Samples); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, uuid, ended_at, grid_rows, grid_cols, sample_count, span_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
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
		if err := rows.Scan(&agg.SessionID, &agg.UUID, &endedAt, &agg.Rows, &agg.Cols, &agg.SampleCount, &agg.SpanMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

// GetSession loads one session and its segments ordered by segment id.
func (s *Store) GetSession(ctx context.Context, id int64) (model.SessionStats, []model.SegmentStats, error) {
	var stats model.SessionStats
	var startedAt, endedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, started_at, ended_at, screen_width, screen_height, grid_rows, grid_cols, attribution, source, sample_count, span_ms
		 FROM sessions WHERE id = ?`, id).
		Scan(&stats.UUID, &startedAt, &endedAt, &stats.Width, &stats.Height, &stats.Rows, &stats.Cols,
			&stats.Attribution, &stats.Source, &stats.SampleCount, &stats.SpanMs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionStats{}, nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return model.SessionStats{}, nil, err
	}
	if stats.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.SessionStats{}, nil, err
	}
	if stats.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return model.SessionStats{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT segment, duration_ms, samples FROM session_segments
		 WHERE session_id = ? ORDER BY segment ASC`, id)
	if err != nil {
		return model.SessionStats{}, nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var segments []model.SegmentStats
	for rows.Next() {
		var seg model.SegmentStats
		var segment int
		if err := rows.Scan(&segment, &seg.DurationMs, &seg.Samples); err != nil {
			return model.SessionStats{}, nil, err
		}
		seg.Segment = model.SegmentID(segment)
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return model.SessionStats{}, nil, err
	}
	return stats, segments, nil
}

// ListSegmentAggregatesForSessions aggregates per-segment totals across sessions.
func (s *Store) ListSegmentAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.SegmentAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT segment, SUM(duration_ms) AS duration_ms, SUM(samples) AS samples,
		COUNT(DISTINCT session_id) AS sessions
		FROM session_segments
		WHERE session_id IN (%s)
		GROUP BY segment
		ORDER BY segment ASC`, strings.Join(placeholders, ","))
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

	var result []model.SegmentAggregate
	for rows.Next() {
		var agg model.SegmentAggregate
		var segment int
		if err := rows.Scan(&segment, &agg.DurationMs, &agg.Samples, &agg.Sessions); err != nil {
			return nil, err
		}
		agg.Segment = model.SegmentID(segment)
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
