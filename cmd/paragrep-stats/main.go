// Package main provides the paragrep-stats CLI entrypoint.
//
// A read-only inspector over scan log files:
//
//	paragrep-stats <logfile>               # run summary
//	paragrep-stats --per-worker <logfile>  # per-worker aggregates
//	paragrep-stats --rows <logfile>        # every log row
//
// Output format follows --format (json, table, yaml); the default is table
// on a TTY and json otherwise.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/paragrep-io/paragrep/cli/cmd"
	"github.com/paragrep-io/paragrep/types"
)

// commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "paragrep-stats",
		Usage:          "Inspect a paragrep scan log",
		ArgsUsage:      "<logfile>",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		Flags:          cmd.StatsFlags(),
		Action:         cmd.StatsAction,
		ExitErrHandler: exitErrHandler,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
