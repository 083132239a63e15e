package hive

import (
	"log/slog"

	"github.com/joshuapare/regfix/internal/metrics"
)

// Option configures Analyze, ApplyFixes and RestoreBackup.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	dryRun  bool
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sends debug output to logger. The default discards it.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records every call in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithDryRun makes ApplyFixes resolve and report the selected fixes without
// creating a backup or writing to the hive.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}
