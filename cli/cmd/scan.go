// Package cmd provides the CLI actions for the paragrep binaries.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/paragrep-io/paragrep/cli/config"
	"github.com/paragrep-io/paragrep/iox"
	"github.com/paragrep-io/paragrep/log"
	"github.com/paragrep-io/paragrep/metrics"
	"github.com/paragrep-io/paragrep/scan"
	"github.com/paragrep-io/paragrep/sink"
	"github.com/paragrep-io/paragrep/types"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

// ScanUsage is the positional argument contract of the scanner.
const ScanUsage = "<pattern> <file> <num_workers> <logfile>"

// ScanFlags returns the optional flags of the scan invocation.
// None of them replaces the positional contract.
func ScanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to a paragrep.yaml supplying defaults for omitted trailing arguments",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress diagnostics on stderr",
		},
		&cli.StringFlag{
			Name:  "notify-webhook",
			Usage: "POST a scan_completed event to this URL when the scan succeeds",
		},
		&cli.StringFlag{
			Name:  "notify-redis",
			Usage: "PUBLISH a scan_completed event to this Redis URL when the scan succeeds",
		},
		&cli.StringFlag{
			Name:  "notify-redis-channel",
			Usage: "Channel for --notify-redis (default: paragrep:scan_completed)",
		},
	}
}

// resolveScanArgs merges positional arguments with config-file defaults.
// All four positionals are the primary contract; trailing arguments may be
// omitted only when the config supplies them.
func resolveScanArgs(args []string, cfg *config.Config) (types.ScanMeta, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	meta := types.ScanMeta{
		Workers: cfg.Workers,
		Logfile: cfg.Logfile,
	}

	switch len(args) {
	case 4:
		meta.Logfile = args[3]
		fallthrough
	case 3:
		workers, err := strconv.Atoi(args[2])
		if err != nil {
			return meta, fmt.Errorf("num_workers %q is not an integer", args[2])
		}
		meta.Workers = workers
		fallthrough
	case 2:
		meta.Pattern = args[0]
		meta.File = args[1]
	default:
		return meta, fmt.Errorf("expected %s", ScanUsage)
	}

	if meta.Workers == 0 && len(args) < 3 {
		return meta, fmt.Errorf("num_workers omitted and not set in config")
	}
	if meta.Workers < 1 || meta.Workers > types.MaxWorkers {
		return meta, fmt.Errorf("num_workers must be between 1 and %d", types.MaxWorkers)
	}
	if meta.Logfile == "" {
		return meta, fmt.Errorf("logfile omitted and not set in config")
	}
	return meta, nil
}

// ScanAction is the root action of the paragrep binary.
func ScanAction(c *cli.Context) error {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		cfg = loaded
	}

	meta, err := resolveScanArgs(c.Args().Slice(), cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("usage: %s %s\n%v", c.App.Name, ScanUsage, err), exitUsage)
	}
	meta.RunID = uuid.New().String()

	logger := log.NewLogger(&meta)
	if c.Bool("quiet") {
		logger = logger.WithOutput(io.Discard)
	}

	csvSink, err := sink.NewCSVSink(meta.Logfile)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer iox.DiscardClose(csvSink)

	result, err := scan.Run(scan.Config{
		Meta:      meta,
		Out:       os.Stdout,
		Sink:      csvSink,
		Logger:    logger,
		Collector: metrics.NewCollector(meta.RunID, meta.File, meta.Workers),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: %v", c.App.Name, err), exitFailure)
	}

	notifyScanCompleted(c, cfg, &meta, result, logger, time.Now().UTC())
	return nil
}
