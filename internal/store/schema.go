package store

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    mode TEXT NOT NULL,
    status TEXT NOT NULL,
    package_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS step_results (
    run_id INTEGER NOT NULL,
    step TEXT NOT NULL,
    status TEXT NOT NULL,
    detail TEXT,
    recorded_at TIMESTAMP NOT NULL,
    PRIMARY KEY (run_id, step),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS backups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    reason TEXT,
    source TEXT NOT NULL,
    path TEXT NOT NULL,
    file_count INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS service_results (
    run_id INTEGER NOT NULL,
    service TEXT NOT NULL,
    outcome TEXT NOT NULL,
    detail TEXT,
    PRIMARY KEY (run_id, service),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_steps_run ON step_results(run_id);
CREATE INDEX IF NOT EXISTS idx_services_run ON service_results(run_id);
CREATE INDEX IF NOT EXISTS idx_backups_created ON backups(created_at);
`

// CreateSchema creates all tables and indexes if they do not exist.
func (s *Store) CreateSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
