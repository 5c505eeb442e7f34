// Package summarize implements the summarize command: it bounds the long
// text fields of every job in the corpus, checkpointing after each company.
package summarize

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
	"github.com/dtnitsch/jobcorpus/pkg/storage"
	"github.com/urfave/cli/v2"
)

const (
	DefaultInput  = "summarized_companies.json"
	DefaultOutput = "summarized_companies.json"
)

// Options configures one summarize run.
type Options struct {
	Input      string
	Output     string
	Checkpoint string
	Rules      FieldRules
}

// Report totals a summarize run.
type Report struct {
	pipeline.Result
	Jobs          int
	FieldsChanged int
}

func SummarizeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("max-length") {
		cfg.Summarize.MaxLength = c.Int("max-length")
	}
	if c.IsSet("threshold") {
		cfg.Summarize.Threshold = c.Int("threshold")
	}
	if c.IsSet("suffix") {
		cfg.Summarize.Suffix = c.String("suffix")
	}
	if c.IsSet("derive") {
		derived, err := common.ParseDerived(c.StringSlice("derive"))
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		cfg.Summarize.Derived = derived
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	opts := Options{
		Input:      c.String("input"),
		Output:     c.String("output"),
		Checkpoint: c.String("checkpoint"),
		Rules:      RulesFromConfig(cfg.Summarize),
	}
	if opts.Checkpoint == "" {
		opts.Checkpoint = checkpoint.PathFor(opts.Output)
	}

	rec := common.OpenRecorder(c, logger, dbpkg.RunStart{
		Command:        "summarize",
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

	fmt.Printf("Summarized %d companies (%d jobs, %d fields changed)\n", report.Total, report.Jobs, report.FieldsChanged)
	if report.ResumedFrom > 0 {
		fmt.Printf("Resumed from checkpoint at company %d\n", report.ResumedFrom+1)
	}
	if report.CheckpointFailures > 0 {
		fmt.Printf("Warning: %d checkpoint saves failed\n", report.CheckpointFailures)
	}
	fmt.Printf("Output: %s\n", report.OutputPath)
	return nil
}

// Run loads the corpus, summarizes it company by company and writes the
// output. rec may be nil.
func Run(ctx context.Context, opts Options, logger *slog.Logger, rec *common.Recorder) (Report, error) {
	var report Report
	store := &storage.Storage{}

	companies, err := pipeline.LoadInput[*models.Document](store, opts.Input)
	if err != nil {
		logger.Error("Failed to load input", "input", opts.Input, "error", err)
		return report, err
	}
	logger.Info("Starting summarize", "companies", len(companies), "input", opts.Input)

	step := func(_ context.Context, i int, company *models.Document) (*models.Document, error) {
		name := models.CompanyName(company, fmt.Sprintf("Company %d", i+1))
		log := logger.With("company", i+1, "total", len(companies), "name", name)
		log.Info("Processing company", "jobs", models.JobCount(company))

		res, err := SummarizeCompany(company, opts.Rules)
		if err != nil {
			// Left as is so the output still holds every input record.
			log.Warn("Skipping company with unreadable jobs", "error", err)
			return company, nil
		}
		for _, ch := range res.Changes {
			log.Debug("Summarized field",
				"job", ch.Job+1, "field", ch.Field, "source", ch.Source,
				"old_length", ch.OldLength, "new_length", ch.NewLength, "derived", ch.Derived)
		}
		report.Jobs += res.Jobs
		report.FieldsChanged += len(res.Changes)
		log.Info("Company done", "jobs_processed", res.Jobs, "fields_changed", len(res.Changes))
		return company, nil
	}

	proc, err := pipeline.New(pipeline.Config[*models.Document, *models.Document]{
		Name:       "summarize",
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

	offset := proc.Resume()
	rec.Progress(len(companies), offset)

	if err := proc.Run(ctx); err != nil {
		report.Result = proc.Result()
		return report, err
	}
	if err := proc.Finalize(); err != nil {
		report.Result = proc.Result()
		return report, err
	}
	report.Result = proc.Result()

	// Resumed companies were counted in an earlier run.
	report.Jobs = 0
	for _, company := range proc.Records() {
		report.Jobs += models.JobCount(company)
	}
	rec.Artifact("output", opts.Output, len(companies), report.Jobs)

	logger.Info("Summarize complete", "companies", report.Total, "jobs", report.Jobs, "output", opts.Output)
	return report, nil
}
