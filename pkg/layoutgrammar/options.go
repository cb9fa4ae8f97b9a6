package layoutgrammar

import (
	"fmt"
	"io"
	"log/slog"
)

// DefaultMaxLayoutLength is the default limit for a single layout string.
const DefaultMaxLayoutLength = 64 * 1024

// Option configures an import using the functional options pattern.
type Option func(*config)

type config struct {
	logger          *slog.Logger
	maxLayoutLength int
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultConfig() *config {
	return &config{
		logger:          discardLogger,
		maxLayoutLength: DefaultMaxLayoutLength,
	}
}

func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.maxLayoutLength <= 0 {
		return fmt.Errorf("max layout length must be positive, got %d", c.maxLayoutLength)
	}
	return nil
}

// WithLogger sets a logger for debug output of the pipeline stages.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = discardLogger
		}
		c.logger = logger
	}
}

// WithMaxLayoutLength limits the length in bytes of every layout string.
// Longer layouts are reported as BadLayout. Default: 64 KiB.
func WithMaxLayoutLength(n int) Option {
	return func(c *config) {
		c.maxLayoutLength = n
	}
}
