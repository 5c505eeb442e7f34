// Package split implements the split command.
package split

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/jobcorpus/internal/common"
	"github.com/dtnitsch/jobcorpus/internal/pipeline"
	"github.com/dtnitsch/jobcorpus/models"
	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/dtnitsch/jobcorpus/pkg/manifest"
	"github.com/dtnitsch/jobcorpus/pkg/splitter"
	"github.com/dtnitsch/jobcorpus/pkg/storage"
	"github.com/urfave/cli/v2"
)

// ErrTooFewOutputs is returned when explicit output names cannot hold
// every chunk.
var ErrTooFewOutputs = errors.New("not enough output file names for all chunks")

// Options configures one split run.
type Options struct {
	Input   string
	Size    int
	Pattern string
	Start   int
	// Outputs overrides Pattern when set.
	Outputs []string
	Dir     string
}

// Result lists what a split run wrote.
type Result struct {
	Total        int
	Chunks       []manifest.ChunkResult
	ManifestPath string
}

func SplitAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("size") {
		cfg.Split.Size = c.Int("size")
	}
	if c.IsSet("pattern") {
		cfg.Split.Pattern = c.String("pattern")
	}
	if c.IsSet("start") {
		cfg.Split.Start = c.Int("start")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	opts := Options{
		Input:   c.String("input"),
		Size:    cfg.Split.Size,
		Pattern: cfg.Split.Pattern,
		Start:   cfg.Split.Start,
		Outputs: parseOutputs(c.String("outputs")),
		Dir:     c.String("dir"),
	}

	rec := common.OpenRecorder(c, logger, dbpkg.RunStart{
		Command:    "split",
		InputPath:  opts.Input,
		OutputPath: opts.Dir,
	})

	res, err := Run(opts, logger, rec)
	rec.Finish(res.Total, 0, err)
	if err != nil {
		if errors.Is(err, pipeline.ErrInputNotFound) || errors.Is(err, pipeline.ErrInputMalformed) ||
			errors.Is(err, ErrTooFewOutputs) {
			return cli.Exit(err.Error(), 2)
		}
		return err
	}

	if res.Total == 0 {
		fmt.Println("No companies to split")
		return nil
	}
	for _, ch := range res.Chunks {
		fmt.Printf("  - %s: companies %d-%d (%d companies, %d jobs)\n",
			ch.FilePath, ch.Offset+1, ch.Offset+ch.Companies, ch.Companies, ch.Jobs)
	}
	fmt.Printf("Split %d companies into %d files\n", res.Total, len(res.Chunks))
	fmt.Printf("Manifest: %s\n", res.ManifestPath)
	return nil
}

func parseOutputs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Run splits the input file into chunk files and writes the manifest. An
// empty input writes nothing. rec may be nil.
func Run(opts Options, logger *slog.Logger, rec *common.Recorder) (Result, error) {
	var res Result
	s := &storage.Storage{}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	companies, err := pipeline.LoadInput[*models.Document](s, opts.Input)
	if err != nil {
		logger.Error("Failed to load input", "input", opts.Input, "error", err)
		return res, err
	}
	res.Total = len(companies)
	rec.Progress(res.Total, 0)

	if len(companies) == 0 {
		logger.Warn("No companies to split", "input", opts.Input)
		return res, nil
	}

	chunks, err := splitter.Chunk(companies, opts.Size)
	if err != nil {
		return res, err
	}

	names, err := chunkNames(opts, len(chunks))
	if err != nil {
		return res, err
	}
	if extra := len(opts.Outputs) - len(chunks); len(opts.Outputs) > 0 && extra > 0 {
		logger.Warn("Unused output file names", "unused", opts.Outputs[len(chunks):])
	}
	logger.Info("Splitting companies", "companies", len(companies), "chunk_size", opts.Size, "files", len(chunks))

	offset := 0
	for i, chunk := range chunks {
		path := filepath.Join(opts.Dir, names[i])
		jobs := 0
		for _, company := range chunk {
			jobs += models.JobCount(company)
		}

		n, err := s.WriteJSON(path, chunk)
		if err != nil {
			logger.Error("Failed to save chunk", "file", path, "error", err)
			return res, fmt.Errorf("failed to save chunk %s: %w", path, err)
		}
		logger.Info("Chunk saved", "file", path, "first", offset+1, "last", offset+len(chunk), "companies", len(chunk), "jobs", jobs)

		res.Chunks = append(res.Chunks, manifest.ChunkResult{
			FilePath:     path,
			Offset:       offset,
			Companies:    len(chunk),
			Jobs:         jobs,
			SizeBytes:    n,
			FirstCompany: models.CompanyName(chunk[0], ""),
		})
		rec.Artifact("chunk", path, len(chunk), jobs)
		offset += len(chunk)
	}

	m := manifest.Build(opts.Input, opts.Size, res.Chunks, time.Now())
	res.ManifestPath, err = manifest.Write(opts.Dir, m, s)
	if err != nil {
		// Chunks are complete without it.
		logger.Warn("Failed to write manifest", "error", err)
		return res, nil
	}
	rec.Artifact("manifest", res.ManifestPath, len(res.Chunks), m.TotalJobs)
	return res, nil
}

func chunkNames(opts Options, n int) ([]string, error) {
	if len(opts.Outputs) == 0 {
		return splitter.ChunkNames(opts.Pattern, n, opts.Start), nil
	}
	if len(opts.Outputs) < n {
		return nil, fmt.Errorf("%w: %d chunks, %d names given", ErrTooFewOutputs, n, len(opts.Outputs))
	}
	return opts.Outputs[:n], nil
}
