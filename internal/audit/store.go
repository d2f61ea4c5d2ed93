// Package audit persists the trust-boundary decisions taken by the warden
// CLI in a local SQLite decision log. The library itself never writes audit
// records; persistence is a calling-application concern and this package is
// that application's sink.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/warden/internal/redact"
)

// Event kinds recorded by the CLI.
const (
	KindPathCheck  = "path_check"
	KindCommandRun = "command_run"
)

// Decisions an event can record.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// eventTimeLayout is RFC 3339 with a fixed nine-digit fractional second.
// RFC3339Nano trims trailing zeros, and the trimmed text sorts wrong
// ("Z" ranks above a digit); the fixed width keeps ORDER BY occurred_at
// chronological.
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Event is one recorded trust-boundary decision. Subject and Detail are
// stored sanitized: truncated to a fixed budget with control bytes
// escaped, so a hostile candidate cannot smuggle raw bytes into the log.
type Event struct {
	EventID    string
	OccurredAt time.Time
	Kind       string
	Decision   string
	Subject    string
	Detail     string
}

// Store is a SQLite-backed decision log.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its parent directory) if needed,
// applies the schema, and returns a ready Store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	if _, err := db.Exec(createEvents); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying audit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record inserts one decision. The subject and detail are sanitized before
// they touch the database. Returns the stored event.
func (s *Store) Record(kind, decision, subject, detail string) (Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Event{}, fmt.Errorf("generating event ID: %w", err)
	}

	ev := Event{
		EventID:    id.String(),
		OccurredAt: time.Now().UTC(),
		Kind:       kind,
		Decision:   decision,
		Subject:    redact.Sanitize(subject),
		Detail:     redact.Sanitize(detail),
	}

	_, err = s.db.Exec(
		"INSERT INTO events (event_id, occurred_at, kind, decision, subject, detail) VALUES (?, ?, ?, ?, ?, ?)",
		ev.EventID,
		ev.OccurredAt.Format(eventTimeLayout),
		ev.Kind,
		ev.Decision,
		ev.Subject,
		ev.Detail,
	)
	if err != nil {
		return Event{}, fmt.Errorf("recording audit event: %w", err)
	}
	return ev, nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		"SELECT event_id, occurred_at, kind, decision, subject, detail FROM events ORDER BY occurred_at DESC, event_id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var occurredAt string
		if err := rows.Scan(&ev.EventID, &occurredAt, &ev.Kind, &ev.Decision, &ev.Subject, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		ev.OccurredAt, err = time.Parse(eventTimeLayout, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing event timestamp: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}
	return events, nil
}
