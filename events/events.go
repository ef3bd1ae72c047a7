// Package events records business events (customer created, purchase
// recorded, import completed) in the analytics database. Writes are
// non-blocking for callers: a failing event log never fails the operation
// that triggered it.
package events

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Schema contains the DDL for the event log. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS business_events (
    event_id TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    entity_type TEXT,
    entity_id TEXT,
    action TEXT NOT NULL,
    details TEXT,
    success INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_business_events_time ON business_events(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_business_events_type ON business_events(event_type, created_at DESC);
`

// Event is a domain-level occurrence to record.
type Event struct {
	Type       string
	EntityType string
	EntityID   string
	Action     string
	Details    string // optional JSON
	Success    bool
}

// Logger writes business events and manages retention cleanup.
type Logger struct {
	db    *sql.DB
	newID func() string
}

// Option configures a Logger.
type Option func(*Logger)

// WithIDGenerator sets a custom ID generator for event IDs. Tests use this
// for stable identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(l *Logger) { l.newID = gen }
}

// New creates a Logger backed by the given database. The Schema must have
// been applied.
func New(db *sql.DB, opts ...Option) *Logger {
	l := &Logger{
		db:    db,
		newID: func() string { return "evt_" + uuid.NewString() },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Log records a business event. Errors are logged via slog but never
// propagate, so a failing event store never blocks the app.
func (l *Logger) Log(ctx context.Context, event Event) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO business_events (event_id, event_type, entity_type, entity_id, action, details, success, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		l.newID(), event.Type, event.EntityType, event.EntityID,
		event.Action, event.Details, event.Success, time.Now().Unix())
	if err != nil {
		slog.Error("business event log failed", "error", err, "event_type", event.Type)
	}
}

// Cleanup deletes events older than the retention window. Zero or negative
// days means no cleanup.
func Cleanup(ctx context.Context, db *sql.DB, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(retentionDays)*86400
	_, err := db.ExecContext(ctx,
		`DELETE FROM business_events WHERE created_at < ?`, cutoff)
	return err
}
