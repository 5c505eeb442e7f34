// Package pipeline runs a step over an ordered list of records, saving the
// processed prefix to a checkpoint after every batch so an interrupted run
// resumes where it stopped.
//
// Lifecycle: New -> Resume -> Run -> Finalize. Execute does all three.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dtnitsch/jobcorpus/pkg/checkpoint"
	"github.com/dtnitsch/jobcorpus/pkg/storage"
)

var (
	ErrInputNotFound  = errors.New("input file not found")
	ErrInputMalformed = errors.New("input file is not a valid JSON array")
)

// StepFunc processes the record at index. It may mutate and return in.
type StepFunc[In, Out any] func(ctx context.Context, index int, in In) (Out, error)

// Config wires a processor.
type Config[In, Out any] struct {
	// Name labels log lines, e.g. "summarize".
	Name       string
	OutputPath string
	// BatchSize is the number of records processed between checkpoint
	// saves. Values below 1 mean 1.
	BatchSize  int
	Step       StepFunc[In, Out]
	Checkpoint *checkpoint.Store[Out]
	Storage    *storage.Storage
	Logger     *slog.Logger
}

// Result describes a finished or interrupted run.
type Result struct {
	Total              int
	ResumedFrom        int
	Processed          int
	CheckpointStatus   checkpoint.Status
	CheckpointFailures int
	OutputPath         string
	OutputBytes        int64
	Completed          bool
}

// Processor holds the accumulator and progress of one run.
type Processor[In, Out any] struct {
	cfg    Config[In, Out]
	input  []In
	acc    []Out
	offset int
	res    Result
}

// New creates a processor over input.
func New[In, Out any](cfg Config[In, Out], input []In) (*Processor[In, Out], error) {
	if cfg.Step == nil {
		return nil, errors.New("pipeline: step function is required")
	}
	if cfg.Checkpoint == nil {
		return nil, errors.New("pipeline: checkpoint store is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("pipeline: output path is required")
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.Storage == nil {
		cfg.Storage = &storage.Storage{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Name == "" {
		cfg.Name = "pipeline"
	}

	return &Processor[In, Out]{
		cfg:   cfg,
		input: input,
		res: Result{
			Total:      len(input),
			OutputPath: cfg.OutputPath,
		},
	}, nil
}

// Resume loads the checkpoint and sets the resume offset to its length.
// A corrupt checkpoint, or one longer than the input, is discarded and the
// run starts over. It returns the offset.
func (p *Processor[In, Out]) Resume() int {
	log := p.cfg.Logger.With("command", p.cfg.Name, "checkpoint", p.cfg.Checkpoint.Path())

	res := p.cfg.Checkpoint.Load()
	p.res.CheckpointStatus = res.Status

	switch res.Status {
	case checkpoint.StatusLoaded:
		if len(res.Records) > len(p.input) {
			log.Warn("Checkpoint holds more records than the input, starting over",
				"checkpoint_records", len(res.Records), "input_records", len(p.input))
			p.res.CheckpointStatus = checkpoint.StatusCorrupt
			p.acc, p.offset = nil, 0
			break
		}
		p.acc = res.Records
		p.offset = len(res.Records)
		log.Info("Resuming from checkpoint", "processed", p.offset, "next", p.offset+1, "total", len(p.input))
	case checkpoint.StatusCorrupt:
		log.Warn("Could not read checkpoint, starting over", "error", res.Err)
		p.acc, p.offset = nil, 0
	default:
		p.acc, p.offset = nil, 0
	}

	p.res.ResumedFrom = p.offset
	return p.offset
}

// Run processes the remaining records in input order. After each batch
// the whole accumulator is written to the checkpoint; a failed write is
// logged and the run continues. Cancelling ctx stops the run between
// batches, leaving the last checkpoint in place.
func (p *Processor[In, Out]) Run(ctx context.Context) error {
	log := p.cfg.Logger.With("command", p.cfg.Name)
	total := len(p.input)
	if p.acc == nil {
		p.acc = make([]Out, 0, total)
	}

	for start := p.offset; start < total; start += p.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			log.Warn("Run interrupted", "processed", len(p.acc), "total", total)
			return fmt.Errorf("%s interrupted after %d of %d records: %w", p.cfg.Name, len(p.acc), total, err)
		}

		end := min(start+p.cfg.BatchSize, total)
		for i := start; i < end; i++ {
			out, err := p.cfg.Step(ctx, i, p.input[i])
			if err != nil {
				return fmt.Errorf("%s failed at record %d: %w", p.cfg.Name, i+1, err)
			}
			p.acc = append(p.acc, out)
			p.res.Processed++
		}

		if err := p.cfg.Checkpoint.Save(p.acc); err != nil {
			p.res.CheckpointFailures++
			log.Warn("Failed to save checkpoint", "error", err, "processed", len(p.acc), "total", total)
			continue
		}
		log.Info("Progress saved", "processed", len(p.acc), "total", total)
	}
	return nil
}

// Finalize writes the output file and then removes the checkpoint. When
// the output cannot be written the checkpoint is left untouched.
func (p *Processor[In, Out]) Finalize() error {
	log := p.cfg.Logger.With("command", p.cfg.Name)

	if len(p.acc) != len(p.input) {
		return fmt.Errorf("%s: cannot finalize, %d of %d records processed", p.cfg.Name, len(p.acc), len(p.input))
	}

	records := p.acc
	if records == nil {
		records = []Out{}
	}
	n, err := p.cfg.Storage.WriteJSON(p.cfg.OutputPath, records)
	if err != nil {
		log.Error("Failed to save output, checkpoint kept", "output", p.cfg.OutputPath, "error", err)
		return fmt.Errorf("failed to save output %s: %w", p.cfg.OutputPath, err)
	}
	p.res.OutputBytes = n
	p.res.Completed = true
	log.Info("Output saved", "output", p.cfg.OutputPath, "records", len(records))

	if err := p.cfg.Checkpoint.Remove(); err != nil {
		log.Warn("Failed to remove checkpoint", "checkpoint", p.cfg.Checkpoint.Path(), "error", err)
	}
	return nil
}

// Execute resumes, runs and finalizes.
func (p *Processor[In, Out]) Execute(ctx context.Context) (Result, error) {
	p.Resume()
	if err := p.Run(ctx); err != nil {
		return p.res, err
	}
	if err := p.Finalize(); err != nil {
		return p.res, err
	}
	return p.res, nil
}

// Records returns the accumulator.
func (p *Processor[In, Out]) Records() []Out {
	return p.acc
}

// Offset returns the index the run resumed from.
func (p *Processor[In, Out]) Offset() int {
	return p.offset
}

// Result returns the totals of the run so far, including after a failed
// or interrupted Run.
func (p *Processor[In, Out]) Result() Result {
	return p.res
}

// LoadInput reads the input file as a JSON array.
func LoadInput[T any](s *storage.Storage, path string) ([]T, error) {
	if s == nil {
		s = &storage.Storage{}
	}
	var records []T
	if err := s.ReadJSONArray(path, &records); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		case errors.Is(err, storage.ErrMalformed):
			return nil, fmt.Errorf("%w: %w", ErrInputMalformed, err)
		default:
			return nil, err
		}
	}
	return records, nil
}
