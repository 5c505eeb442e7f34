// Package clean implements the clean command, which fills job
// descriptions from the raw HTML the crawlers stored.
package clean

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/jobcorpus/internal/common"
	"github.com/dtnitsch/jobcorpus/internal/pipeline"
	"github.com/dtnitsch/jobcorpus/models"
	"github.com/dtnitsch/jobcorpus/pkg/checkpoint"
	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/dtnitsch/jobcorpus/pkg/htmltext"
	"github.com/dtnitsch/jobcorpus/pkg/storage"
	"github.com/urfave/cli/v2"
)

const DefaultOutput = "cleaned_companies.json"

// Options configures one clean run.
type Options struct {
	Input      string
	Output     string
	Checkpoint string
	// Overwrite replaces descriptions that are already set.
	Overwrite bool
}

// Report totals a clean run.
type Report struct {
	pipeline.Result
	JobsCleaned int
	JobsFailed  int
}

func CleanAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	opts := Options{
		Input:      c.String("input"),
		Output:     c.String("output"),
		Checkpoint: c.String("checkpoint"),
		Overwrite:  c.Bool("overwrite"),
	}
	if opts.Checkpoint == "" {
		opts.Checkpoint = checkpoint.PathFor(opts.Output)
	}

	rec := common.OpenRecorder(c, logger, dbpkg.RunStart{
		Command:        "clean",
		InputPath:      opts.Input,
		OutputPath:     opts.Output,
		CheckpointPath: opts.Checkpoint,
	})

	report, err := Run(c.Context, opts, logger, rec)
	rec.Finish(report.Processed, report.CheckpointFailures, err)
	if err != nil {
		if errors.Is(err, pipeline.ErrInputNotFound) || errors.Is(err, pipeline.ErrInputMalformed) {
			return cli.Exit(err.Error(), 2)
		}
		return err
	}

	fmt.Printf("Cleaned %d job descriptions across %d companies\n", report.JobsCleaned, report.Total)
	if report.JobsFailed > 0 {
		fmt.Printf("Warning: %d descriptions could not be extracted\n", report.JobsFailed)
	}
	fmt.Printf("Output: %s\n", report.OutputPath)
	return nil
}

// CleanJob sets description from the HTML in descriptionRaw. It reports
// whether the job changed.
func CleanJob(job *models.Document, overwrite bool) (bool, error) {
	raw, ok := job.String("descriptionRaw")
	if !ok || !htmltext.LooksLikeHTML(raw) {
		return false, nil
	}
	if current := job.StringOr("description", ""); current != "" && !overwrite {
		return false, nil
	}

	pageURL := job.StringOr("jobUrl", job.StringOr("job_url", ""))
	text, err := htmltext.ExtractFrom(raw, pageURL)
	if err != nil {
		return false, err
	}
	if text == "" {
		return false, nil
	}
	job.SetString("description", text)
	return true, nil
}

// Run cleans every company and writes the output. rec may be nil.
func Run(ctx context.Context, opts Options, logger *slog.Logger, rec *common.Recorder) (Report, error) {
	var report Report
	store := &storage.Storage{}

	companies, err := pipeline.LoadInput[*models.Document](store, opts.Input)
	if err != nil {
		logger.Error("Failed to load input", "input", opts.Input, "error", err)
		return report, err
	}

	step := func(_ context.Context, i int, company *models.Document) (*models.Document, error) {
		log := logger.With("company", i+1, "name", models.CompanyName(company, ""))
		jobs, err := company.Docs("jobs")
		if err != nil {
			log.Warn("Skipping company with unreadable jobs", "error", err)
			return company, nil
		}

		cleaned := 0
		for j, job := range jobs {
			if job == nil {
				continue
			}
			changed, err := CleanJob(job, opts.Overwrite)
			if err != nil {
				report.JobsFailed++
				log.Warn("Failed to extract description", "job", j+1, "error", err)
				continue
			}
			if changed {
				cleaned++
			}
		}
		if cleaned > 0 {
			if err := company.SetDocs("jobs", jobs); err != nil {
				return nil, err
			}
			log.Debug("Descriptions cleaned", "jobs", cleaned)
		}
		report.JobsCleaned += cleaned
		return company, nil
	}

	proc, err := pipeline.New(pipeline.Config[*models.Document, *models.Document]{
		Name:       "clean",
		OutputPath: opts.Output,
		BatchSize:  1,
		Step:       step,
		Checkpoint: checkpoint.NewStore[*models.Document](opts.Checkpoint, store),
		Storage:    store,
		Logger:     logger,
	}, companies)
	if err != nil {
		return report, err
	}

	rec.Progress(len(companies), proc.Resume())
	err = proc.Run(ctx)
	if err == nil {
		err = proc.Finalize()
	}
	report.Result = proc.Result()
	if err != nil {
		return report, err
	}

	jobs := 0
	for _, company := range proc.Records() {
		jobs += models.JobCount(company)
	}
	rec.Artifact("output", opts.Output, len(companies), jobs)
	logger.Info("Clean complete", "companies", report.Total, "jobs_cleaned", report.JobsCleaned)
	return report, nil
}
