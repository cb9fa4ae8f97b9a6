package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/vrclog/layoutgrammar/internal/logfinder"
	"github.com/vrclog/layoutgrammar/pkg/layoutgrammar/preview"
)

// warningRateLimit is the number of read errors printed per second.
const warningRateLimit = 10

type tailOptions struct {
	source       grammarSource
	format       string
	follow       bool
	fromEnd      bool
	poll         bool
	pattern      string
	pollInterval time.Duration
}

var tailOpts tailOptions

var tailCmd = &cobra.Command{
	Use:   "tail [PATH]",
	Short: "Split a log file into records with a generated grammar",
	Long: `Import a layout and run the generated header regex against a log file.

PATH is a log file or a directory; for a directory the newest file matching
--pattern is read. Without PATH the directory in LAYOUTGRAMMAR_LOGDIR is used.

Records are output as JSON Lines by default, which makes it easy to check
the grammar with tools like jq.

Examples:
  # Preview a file
  layoutgrammar tail --layout '${longdate} ${level} ${message}' app.log

  # Follow the newest log of a directory, human-readable
  layoutgrammar tail --config nlog.yaml --follow --format pretty /var/log/app

  # Only errors
  layoutgrammar tail -c nlog.yaml app.log | jq 'select(.severity == "error")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		logger := newLogger(cmd.ErrOrStderr(), verbose)
		return runTail(ctx, tailOpts, path, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
	},
}

func init() {
	tailOpts.source.addFlags(tailCmd)
	tailCmd.Flags().StringVarP(&tailOpts.format, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	tailCmd.Flags().BoolVarP(&tailOpts.follow, "follow", "F", false,
		"Keep reading appended lines and newer files")
	tailCmd.Flags().BoolVar(&tailOpts.fromEnd, "from-end", false,
		"With --follow, skip the existing content")
	tailCmd.Flags().BoolVar(&tailOpts.poll, "poll", false,
		"Poll for file changes instead of using file system notifications")
	tailCmd.Flags().StringVar(&tailOpts.pattern, "pattern", logfinder.DefaultPattern,
		"Glob selecting log files in a directory")
	tailCmd.Flags().DurationVar(&tailOpts.pollInterval, "interval", 2*time.Second,
		"How often to look for newer files and flush the last record")
}

func runTail(ctx context.Context, opts tailOptions, path string, stdout, stderr io.Writer, logger *slog.Logger) error {
	if !ValidFormats[opts.format] {
		return fmt.Errorf("unknown format: %s", opts.format)
	}

	g, log, err := opts.source.load(logger)
	printDiagnostics(stderr, log, verbose)
	if err != nil {
		return err
	}

	w, err := preview.NewWatcher(g,
		preview.WithPath(path),
		preview.WithPattern(opts.pattern),
		preview.WithFollow(opts.follow),
		preview.WithFromStart(!opts.fromEnd),
		preview.WithPolling(opts.poll),
		preview.WithPollInterval(opts.pollInterval),
		preview.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer w.Close()
	logger.Debug("reading log file", "path", w.File())

	records, errs, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	limiter := rate.NewLimiter(warningRateLimit, warningRateLimit)
	dropped := 0

	for {
		select {
		case rec, ok := <-records:
			if !ok {
				return nil
			}
			if err := OutputRecord(opts.format, rec, stdout); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if !limiter.Allow() {
				dropped++
				continue
			}
			if dropped > 0 {
				fmt.Fprintf(stderr, "warning: %d more errors suppressed\n", dropped)
				dropped = 0
			}
			fmt.Fprintf(stderr, "warning: %v\n", err)
		case <-ctx.Done():
			return nil
		}
	}
}
