package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/jobcorpus/internal/clean"
	dbactions "github.com/dtnitsch/jobcorpus/internal/db"
	"github.com/dtnitsch/jobcorpus/internal/split"
	"github.com/dtnitsch/jobcorpus/internal/stats"
	"github.com/dtnitsch/jobcorpus/internal/summarize"
	"github.com/dtnitsch/jobcorpus/internal/transform"
	"github.com/dtnitsch/jobcorpus/models"
	"github.com/dtnitsch/jobcorpus/pkg/help"
	"github.com/urfave/cli/v2"
)

const defaultConfigFile = "jobcorpus.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	defaults := models.DefaultConfig()

	return &cli.App{
		Name:  "jobcorpus",
		Usage: "Split, clean, summarize and reshape crawled job corpora",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every summarized field",
			},
			&cli.StringFlag{
				Name:    "config",
				Value:   defaultConfigFile,
				Usage:   "YAML config file (ignored when missing)",
				EnvVars: []string{"JOBCORPUS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Run ledger database (default: jobcorpus.db next to the binary)",
				EnvVars: []string{"JOBCORPUS_DB"},
			},
			&cli.BoolFlag{
				Name:    "no-ledger",
				Usage:   "Do not record runs in the ledger",
				EnvVars: []string{"JOBCORPUS_NO_LEDGER"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "split",
				Usage:  "Split a company array into fixed-size chunk files",
				Action: split.SplitAction,
				Flags: []cli.Flag{
					inputFlag("ketquafinal.json"),
					&cli.IntFlag{
						Name:    "size",
						Aliases: []string{"n"},
						Value:   defaults.Split.Size,
						Usage:   "Companies per chunk",
					},
					&cli.StringFlag{
						Name:  "pattern",
						Value: defaults.Split.Pattern,
						Usage: "Chunk file name pattern; {n} is the chunk number",
					},
					&cli.IntFlag{
						Name:  "start",
						Value: defaults.Split.Start,
						Usage: "Number of the first chunk",
					},
					&cli.StringFlag{
						Name:  "outputs",
						Usage: "Comma-separated chunk file names (overrides --pattern)",
					},
					&cli.StringFlag{
						Name:  "dir",
						Value: ".",
						Usage: "Directory for chunk files and the manifest",
					},
				},
			},
			{
				Name:   "clean",
				Usage:  "Extract plain text descriptions from descriptionRaw HTML",
				Action: clean.CleanAction,
				Flags: []cli.Flag{
					inputFlag("ketquafinal.json"),
					outputFlag(clean.DefaultOutput),
					checkpointFlag(),
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Replace descriptions that are already set",
					},
				},
			},
			{
				Name:   "summarize",
				Usage:  "Bound long job text fields, resumable after interruption",
				Action: summarize.SummarizeAction,
				Flags: []cli.Flag{
					inputFlag(summarize.DefaultInput),
					outputFlag(summarize.DefaultOutput),
					checkpointFlag(),
					maxLengthFlag(defaults.Summarize.MaxLength),
					thresholdFlag(defaults.Summarize.Threshold),
					&cli.StringFlag{
						Name:  "suffix",
						Value: defaults.Summarize.Suffix,
						Usage: "Fields ending in this suffix are summarized in place",
					},
					&cli.StringSliceFlag{
						Name:  "derive",
						Usage: "source=target summary to create when target is missing (repeatable)",
					},
				},
			},
			{
				Name:   "transform",
				Usage:  "Rewrite companies and jobs into the target schema",
				Action: transform.TransformAction,
				Flags: []cli.Flag{
					inputFlag(transform.DefaultInput),
					outputFlag(transform.DefaultOutput),
					checkpointFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Value: defaults.Transform.BatchSize,
						Usage: "Companies per checkpoint",
					},
					&cli.StringFlag{
						Name:  "default-source",
						Usage: "Job source used when a job has none",
					},
					&cli.BoolFlag{
						Name:  "normalize-dates",
						Usage: "Convert dd/mm/yyyy and yyyy-mm-dd dates to epoch milliseconds",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Report corpus statistics",
				Action: stats.StatsAction,
				Flags: []cli.Flag{
					inputFlag(summarize.DefaultOutput),
					&cli.StringFlag{
						Name:  "format",
						Value: "yaml",
						Usage: "Output format: yaml or json",
					},
					&cli.IntFlag{
						Name:  "top",
						Value: stats.DefaultTop,
						Usage: "Number of top keywords",
					},
					thresholdFlag(defaults.Summarize.Threshold),
					maxLengthFlag(defaults.Summarize.MaxLength),
					&cli.BoolFlag{
						Name:  "no-lang",
						Usage: "Skip language detection",
					},
				},
			},
			{
				Name:  "db",
				Usage: "Inspect the run ledger",
				Subcommands: []*cli.Command{
					{
						Name:   "runs",
						Usage:  "List recent runs",
						Action: dbactions.RunsAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Maximum number of runs",
							},
						},
					},
					{
						Name:      "run",
						Usage:     "Show one run and its output files",
						ArgsUsage: "[run-id]",
						Action:    dbactions.RunAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}
}

func inputFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Value:   value,
		Usage:   "Input JSON array of companies",
		EnvVars: []string{"JOBCORPUS_INPUT"},
	}
}

func outputFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   value,
		Usage:   "Output JSON file",
		EnvVars: []string{"JOBCORPUS_OUTPUT"},
	}
}

func checkpointFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "checkpoint",
		Usage: "Checkpoint file (default: <output>_temp.json)",
	}
}

func maxLengthFlag(value int) cli.Flag {
	return &cli.IntFlag{
		Name:  "max-length",
		Value: value,
		Usage: "Maximum summary length in characters",
	}
}

func thresholdFlag(value int) cli.Flag {
	return &cli.IntFlag{
		Name:  "threshold",
		Value: value,
		Usage: "Only fields longer than this are summarized",
	}
}
