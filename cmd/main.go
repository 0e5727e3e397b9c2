package main

import (
	"LogCheck/internal"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "LogCheck",
		Usage:   "Scan a growing log file for pattern matches and report Nagios-style status",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "logfile",
				Aliases: []string{"l"},
				Usage:   "Path to the monitored log file",
			},
			&cli.StringFlag{
				Name:    "seekfile",
				Aliases: []string{"s"},
				Usage:   "Path to the seek file holding the last-scanned byte offset (one per monitored target)",
			},
			&cli.StringFlag{
				Name:    "pattern",
				Aliases: []string{"p"},
				Usage:   "Regular expression an alertable line must match (optional with -d/-D)",
			},
			&cli.StringFlag{
				Name:    "negpattern",
				Aliases: []string{"n"},
				Usage:   "Regular expression that vetoes an otherwise-matching line",
			},
			&cli.StringFlag{
				Name:    "negpatternfile",
				Aliases: []string{"f"},
				Usage:   "File with one exclusion pattern per line (wins over --negpattern)",
			},
			&cli.BoolFlag{
				Name:    "case-insensitive",
				Aliases: []string{"i"},
				Usage:   "Match patterns case-insensitively",
			},
			&cli.Int64Flag{
				Name:    "warning",
				Aliases: []string{"w"},
				Usage:   "Match count that raises WARNING",
				Value:   1,
			},
			&cli.Int64Flag{
				Name:    "critical",
				Aliases: []string{"c"},
				Usage:   "Match count that raises CRITICAL (0 disables)",
				Value:   0,
			},
			&cli.BoolFlag{
				Name:    "no-growth-warn",
				Aliases: []string{"d"},
				Usage:   "Complain when the file has not grown since the last check",
			},
			&cli.BoolFlag{
				Name:    "no-growth-critical",
				Aliases: []string{"D"},
				Usage:   "Raise CRITICAL when the file has not grown since the last check",
			},
			&cli.StringFlag{
				Name:    "parse",
				Aliases: []string{"e"},
				Usage:   "Per-line eval expression; true or a non-empty string marks the line alertable, a string also replaces the reported text",
			},
			&cli.StringFlag{
				Name:    "parsefile",
				Aliases: []string{"E"},
				Usage:   "File holding the eval expression (wins over --parse)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the scan after this duration (e.g. 30s); the scheduler remains the authoritative limit",
			},
			&cli.StringFlag{
				Name:  "diag-log",
				Usage: "Write diagnostic logs into file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Diagnostic log level: debug, info, warn, error",
				Value: "warn",
			},
		},
		Action: run,
	}

	// Exit-coded errors never reach this point; anything else is a
	// malformed command line.
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("%s: %s\n", internal.SeverityUnknown, err)
		os.Exit(internal.SeverityUnknown.ExitCode())
	}
}

func run(c *cli.Context) error {
	internal.InitLogger(c.String("diag-log"), c.String("log-level"))

	opts := internal.ScanOptions{
		LogFile:         c.String("logfile"),
		SeekFile:        c.String("seekfile"),
		Pattern:         c.String("pattern"),
		Exclusion:       c.String("negpattern"),
		ExclusionFile:   c.String("negpatternfile"),
		CaseInsensitive: c.Bool("case-insensitive"),
		WarningCount:    c.Int64("warning"),
		CriticalCount:   c.Int64("critical"),
		NoGrowthWarn:    c.Bool("no-growth-warn"),
		NoGrowthCrit:    c.Bool("no-growth-critical"),
		EvalExpr:        c.String("parse"),
		EvalFile:        c.String("parsefile"),
	}
	if err := opts.Validate(); err != nil {
		return report(internal.SeverityUnknown, err.Error())
	}

	// Bad patterns and rules fail fast, before any scanning.
	matcher, rule, err := opts.Compile()
	if err != nil {
		return report(internal.SeverityCritical, err.Error())
	}

	offset, err := internal.LoadOffset(opts.SeekFile)
	if err != nil {
		return report(internal.SeverityCritical, err.Error())
	}

	base := context.Background()
	var cancel context.CancelFunc
	if t := c.Duration("timeout"); t > 0 {
		base, cancel = context.WithTimeout(base, t)
	} else {
		base, cancel = context.WithCancel(base)
	}
	defer cancel()

	ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := internal.NewLogScanner(matcher, rule)
	res, newOffset, err := scanner.Scan(ctx, opts.LogFile, offset)
	if err != nil {
		return report(internal.SeverityCritical, err.Error())
	}

	// Persisted exactly once per run, match or not. A write failure is
	// fatal even though the scan succeeded: state must not be lost.
	if err := internal.SaveOffset(opts.SeekFile, newOffset); err != nil {
		return report(internal.SeverityCritical, err.Error())
	}

	sev, msg := internal.Evaluate(res, opts.Thresholds())
	logrus.WithFields(logrus.Fields{
		"severity":  sev.String(),
		"matches":   res.TotalMatches,
		"alertable": res.AlertableMatches,
		"offset":    newOffset,
	}).Debug("Evaluation complete")
	return report(sev, msg)
}

// report prints the status line on stdout and carries the plugin exit
// code out through the cli framework.
func report(sev internal.Severity, msg string) error {
	fmt.Printf("%s: %s\n", sev, msg)
	return cli.Exit("", sev.ExitCode())
}
