// Package main provides the paragrep CLI entrypoint.
//
// Usage:
//
//	paragrep <pattern> <file> <num_workers> <logfile>
//
// The scanner prints every paragraph of the file matching the POSIX extended
// regular expression, each followed by a blank line, in file order, and
// appends one CSV row per chunk to the logfile.
//
// Exit codes:
//   - 0: success
//   - 1: scan failure (file, I/O, protocol, regex)
//   - 2: usage error
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
		Name:           "paragrep",
		Usage:          "Scan a file for paragraphs matching a POSIX extended regular expression",
		ArgsUsage:      cmd.ScanUsage,
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		Flags:          cmd.ScanFlags(),
		Action:         cmd.ScanAction,
		ExitErrHandler: exitErrHandler,
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from
// cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	// Check for ExitCoder (from cli.Exit), handles wrapped errors
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// Only print if there's a real message (not just "exit status N")
		// cli.Exit("", N).Error() returns "exit status N", so skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	// Unexpected error - print and exit with code 1
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
