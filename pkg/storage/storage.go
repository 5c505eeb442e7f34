package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrNotFound is returned when a file to read does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrMalformed is returned when a file exists but is not valid JSON
	// of the expected shape.
	ErrMalformed = errors.New("malformed JSON")
)

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// SaveFile replaces filePath with content. The bytes go to a temporary file
// in the same directory first, so readers never observe a partial file.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error saving file: %w", err)
	}
	_ = os.Chmod(tmpPath, 0644)

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error saving file: %w", err)
	}
	syncDir(dir)
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil || !os.IsNotExist(err)
}

// Remove deletes a file. A file that is already gone is not an error.
func (s *Storage) Remove(filePath string) error {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing file: %w", err)
	}
	return nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// ReadJSON decodes the JSON file at filePath into v. Missing files wrap
// ErrNotFound and decode failures wrap ErrMalformed.
func (s *Storage) ReadJSON(filePath string, v any) error {
	data, err := s.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, filePath, err)
	}
	return nil
}

// ReadJSONArray is ReadJSON for files that must hold a top-level array.
func (s *Storage) ReadJSONArray(filePath string, v any) error {
	data, err := s.ReadFile(filePath)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return fmt.Errorf("%w: %s: expected a JSON array", ErrMalformed, filePath)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, filePath, err)
	}
	return nil
}

// WriteJSON encodes v and saves it to filePath. It returns the number of
// bytes written.
func (s *Storage) WriteJSON(filePath string, v any) (int64, error) {
	data, err := MarshalJSON(v)
	if err != nil {
		return 0, fmt.Errorf("error encoding %s: %w", filePath, err)
	}
	if err := s.SaveFile(filePath, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// MarshalJSON encodes v with two-space indentation and without HTML
// escaping, so non-ASCII text and markup stay readable in the files.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// syncDir flushes directory metadata after a rename. Best effort; some
// platforms cannot fsync directories.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
