package common

import (
	"context"
	"errors"
	"log/slog"

	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/dtnitsch/jobcorpus/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Recorder writes one run to the ledger. Every method is a no-op when the
// ledger could not be opened, and failures are only logged.
type Recorder struct {
	db     *dbpkg.DB
	runID  int64
	logger *slog.Logger
	store  *storage.Storage
}

// OpenRecorder opens the ledger named by the global --db flag and starts a
// run in it.
func OpenRecorder(c *cli.Context, logger *slog.Logger, start dbpkg.RunStart) *Recorder {
	if c.Bool("no-ledger") {
		return &Recorder{logger: logger}
	}
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		logger.Warn("Run ledger unavailable", "error", err)
		return &Recorder{logger: logger}
	}
	return NewRecorder(database, logger, start)
}

// NewRecorder starts a run in database. The recorder owns database and
// closes it in Finish.
func NewRecorder(database *dbpkg.DB, logger *slog.Logger, start dbpkg.RunStart) *Recorder {
	r := &Recorder{logger: logger, store: &storage.Storage{}}
	if database == nil {
		return r
	}
	runID, err := database.StartRun(start)
	if err != nil {
		logger.Warn("Failed to record run start", "error", err)
		_ = database.Close()
		return r
	}
	r.db, r.runID = database, runID
	logger.Debug("Run recorded", "run_id", runID, "ledger", database.Path())
	return r
}

// RunID returns the ledger ID, or 0 when nothing is recorded.
func (r *Recorder) RunID() int64 {
	if r == nil {
		return 0
	}
	return r.runID
}

// Progress stores the input size and resume offset.
func (r *Recorder) Progress(total, resumedFrom int) {
	if r == nil || r.db == nil {
		return
	}
	if err := r.db.UpdateRunProgress(r.runID, total, resumedFrom); err != nil {
		r.logger.Warn("Failed to record run progress", "error", err)
	}
}

// Artifact records a written file with its size and content hash.
func (r *Recorder) Artifact(kind, path string, records, jobs int) {
	if r == nil || r.db == nil {
		return
	}
	a := dbpkg.Artifact{
		RunID:       r.runID,
		Kind:        kind,
		FilePath:    path,
		RecordCount: records,
		JobCount:    jobs,
	}
	if data, err := r.store.ReadFile(path); err == nil {
		a.SizeBytes = int64(len(data))
		a.ContentHash = ContentHash(data)
	} else {
		r.logger.Warn("Failed to hash artifact", "path", path, "error", err)
	}
	if _, err := r.db.InsertArtifact(a); err != nil {
		r.logger.Warn("Failed to record artifact", "path", path, "error", err)
	}
}

// Finish stores the outcome derived from runErr and closes the ledger.
func (r *Recorder) Finish(processed, checkpointFailures int, runErr error) {
	if r == nil || r.db == nil {
		return
	}
	defer func() {
		_ = r.db.Close()
		r.db = nil
	}()

	f := dbpkg.RunFinish{
		Status:             dbpkg.StatusSuccess,
		Processed:          processed,
		CheckpointFailures: checkpointFailures,
	}
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		f.Status = dbpkg.StatusInterrupted
		f.ErrorMessage = runErr.Error()
	default:
		f.Status = dbpkg.StatusFailed
		f.ErrorMessage = runErr.Error()
	}
	if err := r.db.FinishRun(r.runID, f); err != nil {
		r.logger.Warn("Failed to record run result", "error", err)
	}
}
