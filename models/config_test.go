package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobcorpus.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q) error = %v", path, err)
		}
		if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
			t.Errorf("LoadConfig(%q) mismatch (-want +got):\n%s", path, diff)
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
summarize:
  max_length: 150
  derived:
    - source: requirements
      target: requirementsSum
split:
  size: 50
transform:
  normalize_dates: true
  default_source: topcv
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := DefaultConfig()
	want.Summarize.MaxLength = 150
	want.Summarize.Derived = []DerivedField{{Source: "requirements", Target: "requirementsSum"}}
	want.Split.Size = 50
	want.Transform.NormalizeDates = true
	want.Transform.DefaultSource = "topcv"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"bad yaml", "summarize: [", "failed to parse"},
		{"bad max length", "summarize:\n  max_length: 2\n", "max_length"},
		{"bad split size", "split:\n  size: 0\n", "split.size"},
		{"incomplete derived", "summarize:\n  derived:\n    - source: description\n", "source and target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg.Summarize.Threshold = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative threshold accepted")
	}

	cfg = DefaultConfig()
	cfg.Transform.BatchSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero batch size accepted")
	}
}
