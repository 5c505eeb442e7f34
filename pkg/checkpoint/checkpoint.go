// Package checkpoint persists the partially processed output of a batch run
// so an interrupted run can resume where it stopped.
//
// A checkpoint is a JSON array holding a prefix of the final output. It is
// rewritten in full after every step; it is never appended to.
package checkpoint

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/jobcorpus/pkg/storage"
)

// Status is the outcome of loading a checkpoint.
type Status int

const (
	StatusMissing Status = iota
	StatusLoaded
	StatusCorrupt
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusLoaded:
		return "loaded"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// LoadResult carries the records of a loaded checkpoint, or the reason it
// could not be used.
type LoadResult[T any] struct {
	Status  Status
	Records []T
	Err     error
}

// Store reads and writes one checkpoint file.
type Store[T any] struct {
	path    string
	storage *storage.Storage
}

// NewStore binds a store to path.
func NewStore[T any](path string, s *storage.Storage) *Store[T] {
	if s == nil {
		s = &storage.Storage{}
	}
	return &Store[T]{path: path, storage: s}
}

func (s *Store[T]) Path() string {
	return s.path
}

// Load reads the checkpoint. A missing file yields StatusMissing; a file
// that cannot be read or parsed as an array yields StatusCorrupt.
func (s *Store[T]) Load() LoadResult[T] {
	if !s.storage.HasFile(s.path) {
		return LoadResult[T]{Status: StatusMissing}
	}

	var records []T
	if err := s.storage.ReadJSONArray(s.path, &records); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return LoadResult[T]{Status: StatusMissing}
		}
		return LoadResult[T]{Status: StatusCorrupt, Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return LoadResult[T]{Status: StatusLoaded, Records: records}
}

// Save rewrites the checkpoint with records.
func (s *Store[T]) Save(records []T) error {
	if records == nil {
		records = []T{}
	}
	if _, err := s.storage.WriteJSON(s.path, records); err != nil {
		return fmt.Errorf("failed to save checkpoint %s: %w", s.path, err)
	}
	return nil
}

// Remove deletes the checkpoint file if present.
func (s *Store[T]) Remove() error {
	return s.storage.Remove(s.path)
}

// PathFor derives the checkpoint path for an output file:
// out/summarized_companies.json -> out/summarized_companies_temp.json.
func PathFor(outputPath string) string {
	dir, file := filepath.Split(outputPath)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	if ext == "" {
		ext = ".json"
	}
	return filepath.Join(dir, stem+"_temp"+ext)
}
