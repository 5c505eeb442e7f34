package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run statuses.
const (
	StatusRunning     = "running"
	StatusSuccess     = "success"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded command invocation.
type Run struct {
	RunID              int64
	Command            string
	InputPath          string
	OutputPath         string
	CheckpointPath     string
	TotalRecords       int
	ResumedFrom        int
	Processed          int
	CheckpointFailures int
	Status             string
	ErrorMessage       string
	StartedAt          time.Time
	FinishedAt         sql.NullTime
}

// Duration returns how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if !r.FinishedAt.Valid {
		return 0
	}
	return r.FinishedAt.Time.Sub(r.StartedAt)
}

// RunStart holds the fields known when a run begins.
type RunStart struct {
	Command        string
	InputPath      string
	OutputPath     string
	CheckpointPath string
	TotalRecords   int
	ResumedFrom    int
}

// RunFinish holds the outcome of a run.
type RunFinish struct {
	Status             string
	Processed          int
	CheckpointFailures int
	ErrorMessage       string
}

// Artifact is a file written by a run.
type Artifact struct {
	ArtifactID  int64
	RunID       int64
	Kind        string
	FilePath    string
	RecordCount int
	JobCount    int
	SizeBytes   int64
	ContentHash string
}

// StartRun inserts a run in the running state and returns its ID.
func (db *DB) StartRun(s RunStart) (int64, error) {
	if s.Command == "" {
		return 0, fmt.Errorf("failed to start run: command is required")
	}
	result, err := db.Exec(`
		INSERT INTO runs (command, input_path, output_path, checkpoint_path, total_records, resumed_from, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.Command, s.InputPath, NewNullString(s.OutputPath), NewNullString(s.CheckpointPath),
		s.TotalRecords, s.ResumedFrom, StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// UpdateRunProgress records the resume offset and total once they are known.
func (db *DB) UpdateRunProgress(runID int64, total, resumedFrom int) error {
	_, err := db.Exec(`
		UPDATE runs SET total_records = ?, resumed_from = ? WHERE run_id = ?
	`, total, resumedFrom, runID)
	if err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}
	return nil
}

// FinishRun stores the outcome and stamps finished_at.
func (db *DB) FinishRun(runID int64, f RunFinish) error {
	res, err := db.Exec(`
		UPDATE runs
		SET status = ?, processed = ?, checkpoint_failures = ?, error_message = ?, finished_at = CURRENT_TIMESTAMP
		WHERE run_id = ?
	`, f.Status, f.Processed, f.CheckpointFailures, NewNullString(f.ErrorMessage), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return nil
}

// InsertArtifact records a file written by a run.
func (db *DB) InsertArtifact(a Artifact) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO run_artifacts (run_id, kind, file_path, record_count, job_count, size_bytes, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.RunID, a.Kind, a.FilePath, a.RecordCount, a.JobCount, a.SizeBytes, NewNullString(a.ContentHash))
	if err != nil {
		return 0, fmt.Errorf("failed to insert artifact: %w", err)
	}
	return result.LastInsertId()
}

const runColumns = `
	run_id, command, input_path, COALESCE(output_path, ''), COALESCE(checkpoint_path, ''),
	total_records, resumed_from, processed, checkpoint_failures, status,
	COALESCE(error_message, ''), started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(&r.RunID, &r.Command, &r.InputPath, &r.OutputPath, &r.CheckpointPath,
		&r.TotalRecords, &r.ResumedFrom, &r.Processed, &r.CheckpointFailures, &r.Status,
		&r.ErrorMessage, &r.StartedAt, &r.FinishedAt)
	return r, err
}

// GetRun returns a run by ID.
func (db *DB) GetRun(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY run_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunArtifacts returns the artifacts of a run in insertion order.
func (db *DB) GetRunArtifacts(runID int64) ([]Artifact, error) {
	rows, err := db.Query(`
		SELECT artifact_id, run_id, kind, file_path, record_count, job_count, size_bytes, COALESCE(content_hash, '')
		FROM run_artifacts
		WHERE run_id = ?
		ORDER BY artifact_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ArtifactID, &a.RunID, &a.Kind, &a.FilePath,
			&a.RecordCount, &a.JobCount, &a.SizeBytes, &a.ContentHash); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// NewNullString returns a NULL for the empty string.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
