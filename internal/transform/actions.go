// Package transform implements the transform command.
package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/jobcorpus/internal/common"
	"github.com/dtnitsch/jobcorpus/internal/pipeline"
	"github.com/dtnitsch/jobcorpus/models"
	"github.com/dtnitsch/jobcorpus/pkg/checkpoint"
	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/dtnitsch/jobcorpus/pkg/schema"
	"github.com/dtnitsch/jobcorpus/pkg/storage"
	"github.com/urfave/cli/v2"
)

const (
	DefaultInput  = "summarized_companies.json"
	DefaultOutput = "transformed_companies.json"
)

// Options configures one transform run.
type Options struct {
	Input      string
	Output     string
	Checkpoint string
	BatchSize  int
	Schema     schema.Options
}

// Report totals a transform run.
type Report struct {
	pipeline.Result
	Jobs   int
	Sample *models.Company
}

func TransformAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("batch-size") {
		cfg.Transform.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("default-source") {
		cfg.Transform.DefaultSource = c.String("default-source")
	}
	if c.IsSet("normalize-dates") {
		cfg.Transform.NormalizeDates = c.Bool("normalize-dates")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	opts := Options{
		Input:      c.String("input"),
		Output:     c.String("output"),
		Checkpoint: c.String("checkpoint"),
		BatchSize:  cfg.Transform.BatchSize,
		Schema: schema.Options{
			DefaultSource:  cfg.Transform.DefaultSource,
			NormalizeDates: cfg.Transform.NormalizeDates,
		},
	}
	if opts.Checkpoint == "" {
		opts.Checkpoint = checkpoint.PathFor(opts.Output)
	}

	rec := common.OpenRecorder(c, logger, dbpkg.RunStart{
		Command:        "transform",
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

	fmt.Printf("Transformed %d companies (%d jobs)\n", report.Total, report.Jobs)
	fmt.Printf("Output: %s\n", report.OutputPath)
	PrintSample(os.Stdout, report.Sample)
	return nil
}

// Run transforms the input in batches, checkpointing after each batch.
// rec may be nil.
func Run(ctx context.Context, opts Options, logger *slog.Logger, rec *common.Recorder) (Report, error) {
	var report Report
	store := &storage.Storage{}

	companies, err := pipeline.LoadInput[*models.Document](store, opts.Input)
	if err != nil {
		logger.Error("Failed to load input", "input", opts.Input, "error", err)
		return report, err
	}
	logger.Info("Starting transform", "companies", len(companies), "batch_size", opts.BatchSize)

	step := func(_ context.Context, i int, src *models.Document) (models.Company, error) {
		if src == nil {
			return models.Company{}, fmt.Errorf("record %d is null", i+1)
		}
		if opts.BatchSize > 0 && i%opts.BatchSize == 0 {
			end := min(i+opts.BatchSize, len(companies))
			logger.Info("Transforming batch", "first", i+1, "last", end, "total", len(companies))
		}
		return schema.TransformCompany(src, opts.Schema)
	}

	proc, err := pipeline.New(pipeline.Config[*models.Document, models.Company]{
		Name:       "transform",
		OutputPath: opts.Output,
		BatchSize:  opts.BatchSize,
		Step:       step,
		Checkpoint: checkpoint.NewStore[models.Company](opts.Checkpoint, store),
		Storage:    store,
		Logger:     logger,
	}, companies)
	if err != nil {
		return report, err
	}

	offset := proc.Resume()
	rec.Progress(len(companies), offset)

	err = proc.Run(ctx)
	if err == nil {
		err = proc.Finalize()
	}
	report.Result = proc.Result()
	if err != nil {
		return report, err
	}

	records := proc.Records()
	for _, company := range records {
		report.Jobs += len(company.Jobs)
	}
	if len(records) > 0 {
		report.Sample = &records[0]
	}
	rec.Artifact("output", opts.Output, len(records), report.Jobs)

	logger.Info("Transform complete", "companies", report.Total, "jobs", report.Jobs, "output", opts.Output)
	return report, nil
}

// PrintSample shows the renamed fields of the first company and its first
// job. Nothing is printed when there is no job to show.
func PrintSample(w io.Writer, company *models.Company) {
	if company == nil || len(company.Jobs) == 0 {
		return
	}
	job := company.Jobs[0]

	fmt.Fprintln(w, "\nSample of transformed structure:")
	fmt.Fprintln(w, "  Company fields:")
	fmt.Fprintf(w, "  - name: %s\n", company.Name)
	fmt.Fprintf(w, "  - website: %s\n", company.Website)
	fmt.Fprintf(w, "  - email: %s\n", company.Email)
	fmt.Fprintf(w, "  - phone: %s\n", company.Phone)
	fmt.Fprintln(w, "  Job fields:")
	fmt.Fprintf(w, "  - workArrangement: %s\n", job.WorkArrangement)
	fmt.Fprintf(w, "  - jobType: %s\n", job.JobType)
	fmt.Fprintf(w, "  - budget: %s\n", job.Budget)
	fmt.Fprintf(w, "  - budgetMin: %s\n", job.BudgetMin)
	fmt.Fprintf(w, "  - budgetMax: %s\n", job.BudgetMax)
	fmt.Fprintf(w, "  - jobUrl: %s\n", job.JobURL)
	fmt.Fprintf(w, "  - applicationDeadline: %s\n", job.ApplicationDeadline)
	fmt.Fprintf(w, "  - postedDate: %s\n", job.PostedDate)
}
