// Package journal records scaffold runs and their step outcomes in SQLite.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
	StatusFailed    = "failed"
)

// Step statuses.
const (
	StepOK     = "ok"
	StepFailed = "failed"
)

// Journal handles persistent run history using SQLite.
type Journal struct {
	db *sql.DB
}

// Run is one invocation of setup or patterns against a target directory.
type Run struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Kind       string
	Target     string
	Status     string
	ID         int64
}

// StepRecord is the outcome of one step within a run.
type StepRecord struct {
	Name     string
	Status   string
	Duration time.Duration
	RunID    int64
	Ordinal  int
	ExitCode int
}

// Open opens (creating if necessary) the journal database at dbPath.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure WAL mode and other pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	ctx := context.Background()
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := runSchemaMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run schema migration: %w", err)
	}

	return &Journal{db: db}, nil
}

// runSchemaMigration ensures the journal tables exist
func runSchemaMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			target TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at INTEGER NOT NULL DEFAULT (unixepoch()),
			finished_at INTEGER
		);
		CREATE TABLE IF NOT EXISTS steps (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			ordinal INTEGER NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, ordinal)
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create journal tables: %w", err)
	}
	return nil
}

// Close closes the journal
func (j *Journal) Close() error {
	if j.db != nil {
		if err := j.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a run and returns its id.
func (j *Journal) BeginRun(ctx context.Context, kind, target string) (int64, error) {
	result, err := j.db.ExecContext(ctx,
		"INSERT INTO runs (kind, target, status) VALUES (?, ?, ?)",
		kind, target, StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to begin run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// RecordStep records the outcome of one step.
func (j *Journal) RecordStep(ctx context.Context, rec StepRecord) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO steps (run_id, ordinal, name, status, exit_code, duration_ms) VALUES (?, ?, ?, ?, ?, ?)",
		rec.RunID, rec.Ordinal, rec.Name, rec.Status, rec.ExitCode, rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record step: %w", err)
	}
	return nil
}

// FinishRun marks a run finished with the given status.
func (j *Journal) FinishRun(ctx context.Context, runID int64, status string) error {
	_, err := j.db.ExecContext(ctx,
		"UPDATE runs SET status = ?, finished_at = unixepoch() WHERE id = ?",
		status, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run and its steps. A journal with no runs
// returns (nil, nil, nil).
func (j *Journal) LastRun(ctx context.Context) (*Run, []StepRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, kind, target, status, started_at, COALESCE(finished_at, 0)
		FROM runs ORDER BY id DESC LIMIT 1`)

	var run Run
	var startedAt, finishedAt int64
	err := row.Scan(&run.ID, &run.Kind, &run.Target, &run.Status, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query last run: %w", err)
	}

	run.StartedAt = time.Unix(startedAt, 0)
	if finishedAt != 0 {
		run.FinishedAt = time.Unix(finishedAt, 0)
	}

	steps, err := j.runSteps(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return &run, steps, nil
}

func (j *Journal) runSteps(ctx context.Context, runID int64) ([]StepRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, ordinal, name, status, exit_code, duration_ms
		FROM steps WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var steps []StepRecord
	for rows.Next() {
		var rec StepRecord
		var durationMS int64
		if err := rows.Scan(&rec.RunID, &rec.Ordinal, &rec.Name, &rec.Status, &rec.ExitCode, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate steps: %w", err)
	}
	return steps, nil
}
