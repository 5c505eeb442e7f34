// Package stats implements the stats command: a read-only report over a
// company corpus at any stage of the pipeline.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/jobcorpus/internal/common"
	"github.com/dtnitsch/jobcorpus/internal/pipeline"
	"github.com/dtnitsch/jobcorpus/models"
	"github.com/dtnitsch/jobcorpus/pkg/analytics"
	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/dtnitsch/jobcorpus/pkg/langdetect"
	"github.com/dtnitsch/jobcorpus/pkg/mapreduce"
	"github.com/dtnitsch/jobcorpus/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const DefaultTop = 25

// Options configures a stats report.
type Options struct {
	Input     string
	Top       int
	Threshold int
	MaxLength int
	Suffix    string
	Derived   []models.DerivedField
	// Languages disables language detection when false.
	Languages bool
}

// Distribution summarizes jobs per company.
type Distribution struct {
	Min int     `yaml:"min" json:"min"`
	Max int     `yaml:"max" json:"max"`
	Avg float64 `yaml:"avg" json:"avg"`
}

// FieldCoverage describes one summary field across all jobs.
type FieldCoverage struct {
	Field         string `yaml:"field" json:"field"`
	Present       int    `yaml:"present" json:"present"`
	OverMaxLength int    `yaml:"over_max_length" json:"over_max_length"`
}

// Report is the stats output.
type Report struct {
	Input          string              `yaml:"input" json:"input"`
	Companies      int                 `yaml:"companies" json:"companies"`
	Jobs           int                 `yaml:"jobs" json:"jobs"`
	JobsPerCompany Distribution        `yaml:"jobs_per_company" json:"jobs_per_company"`
	SummaryFields  []FieldCoverage     `yaml:"summary_fields" json:"summary_fields"`
	Unsummarized   int                 `yaml:"unsummarized" json:"unsummarized"`
	Languages      map[string]int      `yaml:"languages,omitempty" json:"languages,omitempty"`
	TopKeywords    []mapreduce.Keyword `yaml:"top_keywords" json:"top_keywords"`
}

func StatsAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	opts := Options{
		Input:     c.String("input"),
		Top:       c.Int("top"),
		Threshold: cfg.Summarize.Threshold,
		MaxLength: cfg.Summarize.MaxLength,
		Suffix:    cfg.Summarize.Suffix,
		Derived:   cfg.Summarize.Derived,
		Languages: !c.Bool("no-lang"),
	}
	if c.IsSet("threshold") {
		opts.Threshold = c.Int("threshold")
	}
	if c.IsSet("max-length") {
		opts.MaxLength = c.Int("max-length")
	}

	format := strings.ToLower(c.String("format"))
	if format != "yaml" && format != "json" {
		return cli.Exit(fmt.Sprintf("unknown format %q (want yaml or json)", format), 2)
	}

	rec := common.OpenRecorder(c, logger, dbpkg.RunStart{
		Command:   "stats",
		InputPath: opts.Input,
	})

	report, err := Run(opts, logger)
	rec.Progress(report.Companies, 0)
	rec.Finish(report.Companies, 0, err)
	if err != nil {
		if errors.Is(err, pipeline.ErrInputNotFound) || errors.Is(err, pipeline.ErrInputMalformed) {
			return cli.Exit(err.Error(), 2)
		}
		return err
	}

	return Write(os.Stdout, report, format)
}

// Run loads the corpus and computes its report.
func Run(opts Options, logger *slog.Logger) (Report, error) {
	companies, err := pipeline.LoadInput[*models.Document](&storage.Storage{}, opts.Input)
	if err != nil {
		logger.Error("Failed to load input", "input", opts.Input, "error", err)
		return Report{Input: opts.Input}, err
	}

	var detector *langdetect.Detector
	if opts.Languages {
		detector = langdetect.New()
	}
	report := Compute(companies, opts, detector, logger)
	report.Input = opts.Input

	logger.Info("Stats complete", "companies", report.Companies, "jobs", report.Jobs)
	return report, nil
}

// Compute builds the report for companies. detector may be nil, in which
// case no language distribution is reported.
func Compute(companies []*models.Document, opts Options, detector *langdetect.Detector, logger *slog.Logger) Report {
	report := Report{Companies: len(companies)}
	a := &analytics.Analytics{}
	coverage := make(map[string]*FieldCoverage)
	if detector != nil {
		report.Languages = make(map[string]int)
	}

	var frequencies []map[string]int
	for i, company := range companies {
		jobs, err := company.Docs("jobs")
		if err != nil {
			logger.Warn("Skipping unreadable jobs", "company", i+1, "error", err)
		}

		n := 0
		for _, job := range jobs {
			if job == nil {
				continue
			}
			n++
			countSummaryFields(job, opts, coverage)
			report.Unsummarized += countUnsummarized(job, opts)

			if detector != nil {
				text, _ := job.String("description")
				if strings.TrimSpace(text) == "" {
					text, _ = job.String("descriptionSum")
				}
				code, _ := detector.Detect(text)
				report.Languages[code]++
			}

			text, ok := job.String("descriptionSum")
			if !ok || text == "" {
				text, _ = job.String("description")
			}
			frequencies = append(frequencies, mapreduce.Map(text, a))
		}

		report.Jobs += n
		if i == 0 || n < report.JobsPerCompany.Min {
			report.JobsPerCompany.Min = n
		}
		report.JobsPerCompany.Max = max(report.JobsPerCompany.Max, n)
	}
	if len(companies) > 0 {
		avg := float64(report.Jobs) / float64(len(companies))
		report.JobsPerCompany.Avg = math.Round(avg*100) / 100
	}

	report.SummaryFields = make([]FieldCoverage, 0, len(coverage))
	for _, fc := range coverage {
		report.SummaryFields = append(report.SummaryFields, *fc)
	}
	sort.Slice(report.SummaryFields, func(i, j int) bool {
		return report.SummaryFields[i].Field < report.SummaryFields[j].Field
	})

	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}
	report.TopKeywords = mapreduce.TopN(mapreduce.Reduce(frequencies), top)
	return report
}

// countSummaryFields updates coverage for every string field of job whose
// name carries the summary suffix.
func countSummaryFields(job *models.Document, opts Options, coverage map[string]*FieldCoverage) {
	if opts.Suffix == "" {
		return
	}
	for _, key := range job.Keys() {
		if !strings.HasSuffix(key, opts.Suffix) {
			continue
		}
		text, ok := job.String(key)
		if !ok {
			continue
		}
		fc, ok := coverage[key]
		if !ok {
			fc = &FieldCoverage{Field: key}
			coverage[key] = fc
		}
		fc.Present++
		if utf8.RuneCountInString(text) > opts.MaxLength {
			fc.OverMaxLength++
		}
	}
}

// countUnsummarized counts derived summaries summarize would still create.
func countUnsummarized(job *models.Document, opts Options) int {
	n := 0
	for _, d := range opts.Derived {
		if job.Has(d.Target) {
			continue
		}
		if text, ok := job.String(d.Source); ok && utf8.RuneCountInString(text) > opts.Threshold {
			n++
		}
	}
	return n
}

// Write renders report as yaml or json.
func Write(w io.Writer, report Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
