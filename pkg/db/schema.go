package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per pipeline command invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    command TEXT NOT NULL,          -- split, summarize, transform, clean, stats
    input_path TEXT NOT NULL,
    output_path TEXT,
    checkpoint_path TEXT,
    total_records INTEGER DEFAULT 0,
    resumed_from INTEGER DEFAULT 0, -- checkpoint length at start
    processed INTEGER DEFAULT 0,    -- records processed by this run
    checkpoint_failures INTEGER DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running', -- running, success, failed, interrupted
    error_message TEXT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_command ON runs(command);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Run artifacts: files written by a run
CREATE TABLE IF NOT EXISTS run_artifacts (
    artifact_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    kind TEXT NOT NULL,             -- output, chunk, manifest, report
    file_path TEXT NOT NULL,
    record_count INTEGER DEFAULT 0,
    job_count INTEGER DEFAULT 0,
    size_bytes INTEGER DEFAULT 0,
    content_hash TEXT,              -- SHA256
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_artifacts_run ON run_artifacts(run_id);
CREATE INDEX IF NOT EXISTS idx_run_artifacts_kind ON run_artifacts(kind);
`
