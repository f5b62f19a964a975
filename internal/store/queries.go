package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Run operations

// CreateRun inserts a new running run and returns its ID.
func (s *Store) CreateRun(mode string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (started_at, mode, status) VALUES (?, ?, ?)`,
		time.Now().Format(time.RFC3339), mode, RunStatusRunning,
	)
	if err != nil {
		return 0, wrapNotInitialized(fmt.Errorf("failed to create run: %w", err))
	}
	return res.LastInsertId()
}

// FinishRun marks a run finished with the given status and package count.
func (s *Store) FinishRun(id int64, status string, packageCount int) error {
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, package_count = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339), status, packageCount, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", id, err)
	}
	return nil
}

// LatestRun returns the most recent run, or nil if none exist.
func (s *Store) LatestRun() (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, finished_at, mode, status, package_count
		 FROM runs ORDER BY id DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapNotInitialized(fmt.Errorf("failed to get latest run: %w", err))
	}
	return run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	if err := row.Scan(&run.ID, &started, &finished, &run.Mode, &run.Status, &run.PackageCount); err != nil {
		return nil, err
	}
	var err error
	run.StartedAt, err = time.Parse(time.RFC3339, started)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finished.Valid && finished.String != "" {
		run.FinishedAt, err = time.Parse(time.RFC3339, finished.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
	}
	return &run, nil
}

// Step operations

// RecordStep inserts or replaces a step result for a run.
func (s *Store) RecordStep(runID int64, step, status, detail string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO step_results (run_id, step, status, detail, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, step, status, detail, time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record step %s: %w", step, err)
	}
	return nil
}

// ListSteps returns all step results for a run in recorded order.
func (s *Store) ListSteps(runID int64) ([]*StepResult, error) {
	rows, err := s.db.Query(
		`SELECT run_id, step, status, detail, recorded_at
		 FROM step_results WHERE run_id = ? ORDER BY recorded_at, step`,
		runID,
	)
	if err != nil {
		return nil, wrapNotInitialized(fmt.Errorf("failed to list steps: %w", err))
	}
	defer rows.Close()

	var steps []*StepResult
	for rows.Next() {
		var st StepResult
		var recorded string
		if err := rows.Scan(&st.RunID, &st.Step, &st.Status, &st.Detail, &recorded); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		st.RecordedAt, err = time.Parse(time.RFC3339, recorded)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		steps = append(steps, &st)
	}
	return steps, rows.Err()
}

// Backup operations

// InsertBackup records a created backup and returns its ID.
func (s *Store) InsertBackup(b *Backup) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO backups (created_at, reason, source, path, file_count, size_bytes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.CreatedAt.Format(time.RFC3339), b.Reason, b.Source, b.Path, b.FileCount, b.SizeBytes,
	)
	if err != nil {
		return 0, wrapNotInitialized(fmt.Errorf("failed to insert backup: %w", err))
	}
	return res.LastInsertId()
}

// GetBackup returns the backup with the given ID.
func (s *Store) GetBackup(id int64) (*Backup, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, reason, source, path, file_count, size_bytes
		 FROM backups WHERE id = ?`, id,
	)
	b, err := scanBackup(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("backup %d not found", id)
	}
	if err != nil {
		return nil, wrapNotInitialized(fmt.Errorf("failed to get backup %d: %w", id, err))
	}
	return b, nil
}

// ListBackups returns all backups, newest first.
func (s *Store) ListBackups() ([]*Backup, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, reason, source, path, file_count, size_bytes
		 FROM backups ORDER BY id DESC`,
	)
	if err != nil {
		return nil, wrapNotInitialized(fmt.Errorf("failed to list backups: %w", err))
	}
	defer rows.Close()

	var backups []*Backup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

func scanBackup(row rowScanner) (*Backup, error) {
	var b Backup
	var created string
	if err := row.Scan(&b.ID, &created, &b.Reason, &b.Source, &b.Path, &b.FileCount, &b.SizeBytes); err != nil {
		return nil, err
	}
	var err error
	b.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return &b, nil
}

// Service operations

// RecordServiceResult inserts or replaces a service outcome for a run.
func (s *Store) RecordServiceResult(runID int64, service, outcome, detail string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO service_results (run_id, service, outcome, detail)
		 VALUES (?, ?, ?, ?)`,
		runID, service, outcome, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record service result for %s: %w", service, err)
	}
	return nil
}

// ListServiceResults returns the service outcomes for a run.
func (s *Store) ListServiceResults(runID int64) ([]*ServiceResult, error) {
	rows, err := s.db.Query(
		`SELECT run_id, service, outcome, detail FROM service_results
		 WHERE run_id = ? ORDER BY service`,
		runID,
	)
	if err != nil {
		return nil, wrapNotInitialized(fmt.Errorf("failed to list service results: %w", err))
	}
	defer rows.Close()

	var results []*ServiceResult
	for rows.Next() {
		var r ServiceResult
		if err := rows.Scan(&r.RunID, &r.Service, &r.Outcome, &r.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan service result: %w", err)
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}
