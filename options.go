package skygo

import (
	"log/slog"

	"github.com/starhaven/skygo/partition"
	"github.com/starhaven/skygo/resource"
)

// Options holds the configuration for catalog construction.
type Options struct {
	// Logger used for structured output. Defaults to a noop logger.
	Logger *Logger

	// Controller bounds worker concurrency and row throughput during
	// Compute. A nil controller applies no limits.
	Controller *resource.Controller

	// Partitioning controls the histogram partitioner.
	Partitioning partition.Options
}

// DefaultOptions returns the default configuration.
var DefaultOptions = Options{
	Logger:       NoopLogger(),
	Controller:   nil,
	Partitioning: partition.DefaultOptions,
}

// Option configures catalog construction.
type Option func(*Options)

// WithLogger sets a custom logger.
func WithLogger(logger *Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithLogLevel enables text logging at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *Options) {
		o.Logger = NewTextLogger(level)
	}
}

// WithResourceController sets the resource controller used to bound
// concurrency during Compute.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *Options) {
		o.Controller = rc
	}
}

// WithHistogramOrder sets the order at which row counts are histogrammed
// before partitioning.
func WithHistogramOrder(order int) Option {
	return func(o *Options) {
		o.Partitioning.HistogramOrder = order
	}
}

// WithLowestOrder sets the coarsest order a partition pixel may take.
func WithLowestOrder(order int) Option {
	return func(o *Options) {
		o.Partitioning.LowestOrder = order
	}
}

// WithThreshold sets the soft per-partition row count threshold.
func WithThreshold(threshold int64) Option {
	return func(o *Options) {
		o.Partitioning.Threshold = threshold
	}
}

func applyOptions(opts ...Option) Options {
	options := DefaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = NoopLogger()
	}
	return options
}
