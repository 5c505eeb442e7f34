package db

import (
	"fmt"
	"strconv"

	dbpkg "github.com/dtnitsch/jobcorpus/pkg/db"
	"github.com/urfave/cli/v2"
)

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	return ResolveRunID(c.Args().First(), database)
}

// ResolveRunID parses arg as a run ID. An empty arg selects the latest run.
func ResolveRunID(arg string, database *dbpkg.DB) (int64, error) {
	if arg == "" {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, cli.Exit("no runs found. Run 'jobcorpus summarize' first", 2)
		}
		return runs[0].RunID, nil
	}

	runID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || runID <= 0 {
		return 0, cli.Exit(fmt.Sprintf("invalid run ID: %s", arg), 2)
	}
	return runID, nil
}
