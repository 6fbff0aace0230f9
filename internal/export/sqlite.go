package export

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Archive is a SQLite file holding exported sessions. A single archive can
// accumulate sessions over time; each WriteSession call adds one.
//
// SQLite allows one writer at a time, so the connection pool is pinned to a
// single connection.
type Archive struct {
	db *sql.DB
}

// OpenArchive creates or opens a session archive at the given path.
// The schema is applied idempotently.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect archive: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the archive file.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// WriteSession stores a payload under the given session id. The whole
// session is written in one transaction; a failure leaves the archive
// untouched. Writing the same session id twice is a no-op for rows that
// already exist.
func (a *Archive) WriteSession(ctx context.Context, sessionID string, p Payload) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions
		(id, exported_at, session_start, session_duration_ms, total_logs, component_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sessionID,
		p.Metadata.ExportedAt.Format(time.RFC3339Nano),
		p.Metadata.SessionStart.Format(time.RFC3339Nano),
		p.Metadata.SessionDurationMS,
		p.Metadata.TotalLogs,
		p.Metadata.ComponentCount,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(id, session_id, time, component_id, component_name, event_kind, level, message, event)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer stmt.Close()

	for _, e := range p.Logs {
		eventJSON, err := json.Marshal(e.Event)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", e.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			e.ID,
			sessionID,
			e.Time.Format(time.RFC3339Nano),
			e.ComponentID,
			e.ComponentName,
			string(e.Event.Kind),
			e.Level.String(),
			e.Message,
			string(eventJSON),
		)
		if err != nil {
			return fmt.Errorf("write entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// SessionIDs lists the sessions stored in the archive, oldest export first.
func (a *Archive) SessionIDs(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY exported_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}

// EntryCount returns how many entries a stored session holds.
func (a *Archive) EntryCount(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM entries WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
