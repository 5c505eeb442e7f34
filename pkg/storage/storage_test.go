package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveFileReplacesAndCleansTemp(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{}
	path := filepath.Join(dir, "out.json")

	if err := s.SaveFile(path, []byte("v1")); err != nil {
		t.Fatalf("SaveFile(v1) error = %v", err)
	}
	if err := s.SaveFile(path, []byte("v2")); err != nil {
		t.Fatalf("SaveFile(v2) error = %v", err)
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("ReadFile() = %q, want v2", data)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSaveFileCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{}
	path := filepath.Join(dir, "a", "b", "out.json")

	if err := s.SaveFile(path, []byte("x")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !s.HasFile(path) {
		t.Error("HasFile() = false after SaveFile")
	}
}

func TestSaveFileOntoDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{}
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}

	if err := s.SaveFile(target, []byte("x")); err == nil {
		t.Fatal("SaveFile() onto a directory error = nil, want error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries after failed save, want 1", len(entries))
	}
}

func TestReadJSONErrors(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{}

	var v []int
	err := s.ReadJSON(filepath.Join(dir, "missing.json"), &v)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadJSON(missing) error = %v, want ErrNotFound", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("[1,2"), 0644); err != nil {
		t.Fatal(err)
	}
	err = s.ReadJSON(bad, &v)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("ReadJSON(bad) error = %v, want ErrMalformed", err)
	}
}

func TestReadJSONArray(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{}

	tests := []struct {
		name    string
		content string
		wantErr error
		wantLen int
	}{
		{"array", `[1, 2, 3]`, nil, 3},
		{"leading whitespace", "\n  [1]", nil, 1},
		{"byte order mark", "\ufeff[1, 2]", nil, 2},
		{"object", `{"a": 1}`, ErrMalformed, 0},
		{"null", `null`, ErrMalformed, 0},
		{"empty", ``, ErrMalformed, 0},
		{"truncated", `[1, 2`, ErrMalformed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			var got []int
			err := s.ReadJSONArray(path, &got)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadJSONArray() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadJSONArray() error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestMarshalJSONKeepsTextReadable(t *testing.T) {
	v := map[string]string{"title": "Kỹ sư <Go> & Rust"}
	data, err := MarshalJSON(v)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := "{\n  \"title\": \"Kỹ sư <Go> & Rust\"\n}"
	if string(data) != want {
		t.Errorf("MarshalJSON() = %q, want %q", data, want)
	}
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	s := &Storage{}
	if err := s.Remove(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Errorf("Remove(missing) error = %v, want nil", err)
	}
}

func TestWriteJSONReportsSize(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{}
	path := filepath.Join(dir, "n.json")

	n, err := s.WriteJSON(path, []int{1})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != n {
		t.Errorf("size = %d, WriteJSON reported %d", stats.SizeBytes, n)
	}
}
