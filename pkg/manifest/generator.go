package manifest

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dtnitsch/jobcorpus/pkg/storage"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest written next to the chunk files.
const FileName = "split-manifest.yaml"

// ChunkResult is what the split command knows about a chunk it wrote.
type ChunkResult struct {
	FilePath     string
	Offset       int
	Companies    int
	Jobs         int
	SizeBytes    int64
	FirstCompany string
}

// Build assembles the manifest for the given chunks.
func Build(input string, chunkSize int, chunks []ChunkResult, now time.Time) SplitManifest {
	m := SplitManifest{
		GeneratedAt: now.Format(time.RFC3339),
		Input:       input,
		ChunkSize:   chunkSize,
		Chunks:      make([]ChunkSummary, 0, len(chunks)),
	}
	for _, c := range chunks {
		m.TotalCompanies += c.Companies
		m.TotalJobs += c.Jobs
		m.Chunks = append(m.Chunks, ChunkSummary{
			File:         filepath.Base(c.FilePath),
			FirstRecord:  c.Offset + 1,
			LastRecord:   c.Offset + c.Companies,
			Companies:    c.Companies,
			Jobs:         c.Jobs,
			SizeBytes:    c.SizeBytes,
			FirstCompany: c.FirstCompany,
		})
	}
	return m
}

// Write saves the manifest as YAML into dir and returns its path.
func Write(dir string, m SplitManifest, s *storage.Storage) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	manifestPath := filepath.Join(dir, FileName)
	if err := s.SaveFile(manifestPath, data); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}
	return manifestPath, nil
}

// Read loads a manifest written by Write.
func Read(path string, s *storage.Storage) (SplitManifest, error) {
	var m SplitManifest
	data, err := s.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	return m, nil
}
