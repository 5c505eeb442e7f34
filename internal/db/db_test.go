package db

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/urfave/cli/v2"
)

func openTestDB(t *testing.T) *dbpkg.DB {
	t.Helper()
	database, err := dbpkg.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestResolveRunID(t *testing.T) {
	database := openTestDB(t)

	_, err := ResolveRunID("", database)
	var exit cli.ExitCoder
	if !errors.As(err, &exit) || exit.ExitCode() != 2 {
		t.Fatalf("ResolveRunID() on empty ledger error = %v, want exit code 2", err)
	}

	first, err := database.StartRun(dbpkg.RunStart{Command: "split"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := database.StartRun(dbpkg.RunStart{Command: "summarize"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{arg: "", want: second},
		{arg: "1", want: first},
		{arg: "abc", wantErr: true},
		{arg: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ResolveRunID(tt.arg, database)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveRunID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveRunID(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	PrintRuns(&buf, nil)
	if !strings.Contains(buf.String(), "No runs found") {
		t.Errorf("empty output = %q", buf.String())
	}

	database := openTestDB(t)
	for _, cmd := range []string{"split", "summarize"} {
		if _, err := database.StartRun(dbpkg.RunStart{Command: cmd, OutputPath: cmd + ".json"}); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := database.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	PrintRuns(&buf, runs)
	out := buf.String()
	for _, want := range []string{"summarize.json", "split.json", "running", "Total: 2 runs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRun(t *testing.T) {
	database := openTestDB(t)
	runID, err := database.StartRun(dbpkg.RunStart{
		Command:        "transform",
		InputPath:      "summarized_companies.json",
		OutputPath:     "transformed_companies.json",
		CheckpointPath: "transformed_companies_temp.json",
		TotalRecords:   25,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := database.InsertArtifact(dbpkg.Artifact{
		RunID:       runID,
		Kind:        "output",
		FilePath:    "transformed_companies.json",
		RecordCount: 25,
		JobCount:    80,
		SizeBytes:   4096,
		ContentHash: "0123456789abcdef0123",
	}); err != nil {
		t.Fatal(err)
	}
	if err := database.FinishRun(runID, dbpkg.RunFinish{
		Status:       dbpkg.StatusFailed,
		Processed:    20,
		ErrorMessage: "disk full",
	}); err != nil {
		t.Fatal(err)
	}

	run, err := database.GetRun(runID)
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := database.GetRunArtifacts(runID)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	PrintRun(&buf, run, artifacts)
	out := buf.String()
	for _, want := range []string{
		"Run 1 (transform)",
		"Status:      failed",
		"Checkpoint:  transformed_companies_temp.json",
		"25 total, 20 processed",
		"Error:       disk full",
		"[output] transformed_companies.json",
		"SHA256: 0123456789ab",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
