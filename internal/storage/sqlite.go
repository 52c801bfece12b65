// Package storage provides the SQLite trace journal: one row per game
// session and one per trace event. It is diagnostics only; no game state is
// ever read back into a game.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-match3/internal/trace"
)

// timeLayout matches SQLite's CURRENT_TIMESTAMP text.
const timeLayout = "2006-01-02 15:04:05"

// Journal manages the SQLite database connection for trace recording.
type Journal struct {
	db *sql.DB
}

// Session describes one recorded game session.
type Session struct {
	ID        int64
	Variant   string
	User      string
	BoardSize int
	Colors    int
	Seed      int64
	StartedAt time.Time
	Events    int // Filled by Sessions and Session
}

// EventRecord is a stored trace event.
type EventRecord struct {
	ID        int64
	SessionID int64
	Kind      string
	State     string
	Pass      int
	Count     int
	Detail    string
	CreatedAt time.Time
}

// Event converts the record back into a trace event.
func (r EventRecord) Event() trace.Event {
	return trace.Event{
		Kind:   trace.Kind(r.Kind),
		State:  r.State,
		Pass:   r.Pass,
		Count:  r.Count,
		Detail: r.Detail,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Journal, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Foreign keys are per connection in SQLite, so the pragma rides on the DSN.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; SSH sessions share the journal.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	j := &Journal{db: db}

	// Run migrations
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return j, nil
}

// migrate creates the database schema if it doesn't exist.
func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant TEXT NOT NULL,
			user TEXT NOT NULL DEFAULT '',
			board_size INTEGER NOT NULL,
			colors INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS trace_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			state TEXT NOT NULL DEFAULT '',
			pass INTEGER NOT NULL DEFAULT 0,
			count INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_trace_events_session ON trace_events(session_id, id);
		CREATE INDEX IF NOT EXISTS idx_trace_events_kind ON trace_events(session_id, kind);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// BeginSession records a new game session and returns its ID. A zero
// StartedAt is stamped with the current time; times are stored in UTC at
// second precision.
func (j *Journal) BeginSession(s Session) (int64, error) {
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	result, err := j.db.Exec(
		"INSERT INTO sessions (variant, user, board_size, colors, seed, started_at) VALUES (?, ?, ?, ?, ?, ?)",
		s.Variant, s.User, s.BoardSize, s.Colors, s.Seed, s.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordEvent appends a trace event to a session.
func (j *Journal) RecordEvent(sessionID int64, e trace.Event) error {
	_, err := j.db.Exec(
		`INSERT INTO trace_events (session_id, kind, state, pass, count, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, string(e.Kind), e.State, e.Pass, e.Count, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record event: %w", err)
	}
	return nil
}

var _ trace.EventRecorder = (*Journal)(nil)

const sessionColumns = `s.id, s.variant, s.user, s.board_size, s.colors, s.seed, s.started_at,
		        (SELECT COUNT(*) FROM trace_events e WHERE e.session_id = s.id)`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var s Session
	var startedAt any
	err := row.Scan(&s.ID, &s.Variant, &s.User, &s.BoardSize, &s.Colors, &s.Seed, &startedAt, &s.Events)
	s.StartedAt = parseTime(startedAt)
	return s, err
}

// Sessions retrieves the most recent sessions, newest first.
func (j *Journal) Sessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions s
		 ORDER BY s.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// Session retrieves one session by ID. Returns nil if it does not exist.
func (j *Journal) Session(id int64) (*Session, error) {
	s, err := scanSession(j.db.QueryRow(
		`SELECT `+sessionColumns+`
		 FROM sessions s
		 WHERE s.id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &s, nil
}

// Events retrieves every event of a session in recording order.
func (j *Journal) Events(sessionID int64) ([]EventRecord, error) {
	rows, err := j.db.Query(
		`SELECT id, session_id, kind, state, pass, count, detail, created_at
		 FROM trace_events
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.State, &e.Pass, &e.Count, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return events, nil
}

// DeleteSession removes a session and its events in one transaction.
func (j *Journal) DeleteSession(id int64) error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM trace_events WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete events: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// SessionStats contains aggregated trace counts for a session.
type SessionStats struct {
	SessionID     int64
	Events        int
	SwapsAccepted int
	SwapsRejected int
	Cascades      int // Settled cascades
	Destroyed     int
	Replenished   int
	Warnings      int
	MaxPass       int
}

// Stats aggregates the events of one session.
func (j *Journal) Stats(sessionID int64) (*SessionStats, error) {
	stats := &SessionStats{SessionID: sessionID}

	err := j.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(kind = ?), 0),
		        COALESCE(SUM(kind = ?), 0),
		        COALESCE(SUM(kind = ?), 0),
		        COALESCE(SUM(CASE WHEN kind = ? THEN count ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = ? THEN count ELSE 0 END), 0),
		        COALESCE(SUM(kind = ?), 0),
		        COALESCE(MAX(pass), 0)
		 FROM trace_events WHERE session_id = ?`,
		string(trace.KindSwapAccepted),
		string(trace.KindSwapRejected),
		string(trace.KindSettled),
		string(trace.KindDestroyed),
		string(trace.KindReplenished),
		string(trace.KindWarning),
		sessionID,
	).Scan(
		&stats.Events,
		&stats.SwapsAccepted,
		&stats.SwapsRejected,
		&stats.Cascades,
		&stats.Destroyed,
		&stats.Replenished,
		&stats.Warnings,
		&stats.MaxPass,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
