package preview

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vrclog/layoutgrammar/internal/logfinder"
)

// WatchOption configures a Watcher using the functional options pattern.
type WatchOption func(*watchConfig)

type watchConfig struct {
	path         string
	pattern      string
	follow       bool
	fromStart    bool
	poll         bool
	pollInterval time.Duration
	logger       *slog.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		pattern:      logfinder.DefaultPattern,
		fromStart:    true,
		pollInterval: 2 * time.Second,
		logger:       discardLogger,
	}
}

func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *watchConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	if !c.follow && !c.fromStart {
		return fmt.Errorf("reading from the end requires follow mode")
	}
	return nil
}

// WithPath sets the log file, or a directory whose newest matching file is
// read. If not set, the directory in the LAYOUTGRAMMAR_LOGDIR environment
// variable is used.
func WithPath(path string) WatchOption {
	return func(c *watchConfig) {
		c.path = path
	}
}

// WithPattern sets the glob used to pick files in a directory.
// Default: "*.log".
func WithPattern(pattern string) WatchOption {
	return func(c *watchConfig) {
		c.pattern = pattern
	}
}

// WithFollow keeps watching the file for appended lines, like tail -f.
// When the path is a directory, newer files replacing the current one are
// picked up as well. Default: false (read to EOF and stop).
func WithFollow(follow bool) WatchOption {
	return func(c *watchConfig) {
		c.follow = follow
	}
}

// WithFromStart reads the existing content of the file before following it.
// Default: true. Setting it to false requires WithFollow(true).
func WithFromStart(fromStart bool) WatchOption {
	return func(c *watchConfig) {
		c.fromStart = fromStart
	}
}

// WithPolling detects file changes by polling instead of file system
// notifications.
func WithPolling(poll bool) WatchOption {
	return func(c *watchConfig) {
		c.poll = poll
	}
}

// WithPollInterval sets how often to check for newer files and to flush a
// record that no further line has completed. Default: 2 seconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithLogger sets a logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if logger == nil {
			logger = discardLogger
		}
		c.logger = logger
	}
}
