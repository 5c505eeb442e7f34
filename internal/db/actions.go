package db

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/urfave/cli/v2"
)

const timeLayout = "2006-01-02 15:04:05"

func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	PrintRuns(os.Stdout, runs)
	return nil
}

// RunAction shows details for one run, the latest when no ID is given.
func RunAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if errors.Is(err, dbpkg.ErrRunNotFound) {
		return cli.Exit(fmt.Sprintf("run %d not found", runID), 2)
	}
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	artifacts, err := database.GetRunArtifacts(runID)
	if err != nil {
		return fmt.Errorf("failed to get run artifacts: %w", err)
	}

	PrintRun(os.Stdout, run, artifacts)
	return nil
}

// PrintRuns writes runs as a table.
func PrintRuns(w io.Writer, runs []dbpkg.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-10s %-12s %-9s %-9s %-30s\n",
		"ID", "Started", "Command", "Status", "Records", "Resumed", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-10s %-12s %-9d %-9d %-30s\n",
			r.RunID,
			r.StartedAt.Local().Format(timeLayout),
			r.Command,
			r.Status,
			r.TotalRecords,
			r.ResumedFrom,
			r.OutputPath,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'jobcorpus db run <id>' to see details\n")
}

// PrintRun writes the details of one run and the files it wrote.
func PrintRun(w io.Writer, run *dbpkg.Run, artifacts []dbpkg.Artifact) {
	fmt.Fprintf(w, "Run %d (%s)\n", run.RunID, run.Command)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Status:      %s\n", run.Status)
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Local().Format(timeLayout))
	if run.FinishedAt.Valid {
		fmt.Fprintf(w, "Finished:    %s (%s)\n", run.FinishedAt.Time.Local().Format(timeLayout), run.Duration().Round(time.Millisecond))
	}
	if run.InputPath != "" {
		fmt.Fprintf(w, "Input:       %s\n", run.InputPath)
	}
	if run.OutputPath != "" {
		fmt.Fprintf(w, "Output:      %s\n", run.OutputPath)
	}
	if run.CheckpointPath != "" {
		fmt.Fprintf(w, "Checkpoint:  %s\n", run.CheckpointPath)
	}
	fmt.Fprintf(w, "Records:     %d total, %d processed, resumed from %d\n",
		run.TotalRecords, run.Processed, run.ResumedFrom)
	if run.CheckpointFailures > 0 {
		fmt.Fprintf(w, "Warnings:    %d checkpoint saves failed\n", run.CheckpointFailures)
	}
	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:       %s\n", run.ErrorMessage)
	}

	if len(artifacts) == 0 {
		return
	}
	fmt.Fprintf(w, "\nArtifacts (%d):\n", len(artifacts))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, a := range artifacts {
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, a.Kind, a.FilePath)
		fmt.Fprintf(w, "    Records: %d | Jobs: %d | Size: %d bytes | SHA256: %s\n",
			a.RecordCount, a.JobCount, a.SizeBytes, shortHash(a.ContentHash))
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
