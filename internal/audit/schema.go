package audit

// Schema DDL for the decision log.
const createEvents = `CREATE TABLE IF NOT EXISTS events (
    event_id TEXT PRIMARY KEY,
    occurred_at TEXT NOT NULL,
    kind TEXT NOT NULL,
    decision TEXT NOT NULL,
    subject TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    CHECK (kind IN ('path_check', 'command_run')),
    CHECK (decision IN ('allow', 'deny'))
);

CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at);`
