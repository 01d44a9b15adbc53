package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/paragrep-io/paragrep/cli/reader"
	"github.com/paragrep-io/paragrep/cli/render"
)

// StatsFlags returns the flags of the stats invocation.
func StatsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, table, yaml",
		},
		&cli.BoolFlag{
			Name:  "per-worker",
			Usage: "Show per-worker aggregates instead of the run summary",
		},
		&cli.BoolFlag{
			Name:  "rows",
			Usage: "Show every log row instead of the run summary",
		},
	}
}

// StatsAction is the root action of the paragrep-stats binary.
// It parses a scan log and renders a summary, per-worker aggregates, or the
// raw rows.
func StatsAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit(fmt.Sprintf("usage: %s <logfile>", c.App.Name), exitUsage)
	}

	rows, err := reader.ReadLog(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	switch {
	case c.Bool("rows"):
		err = r.Render(rows)
	case c.Bool("per-worker"):
		err = r.Render(reader.ByWorker(rows))
	default:
		err = r.Render(reader.Summarize(rows))
	}
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	return nil
}
