package rdf

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxDepth bounds blank node nesting when no limit is configured.
	DefaultMaxDepth = 10000
	// DefaultMaxTriples disables the triple count limit.
	DefaultMaxTriples = 0

	safeMaxDepth   = 256
	safeMaxTriples = 1_000_000
)

// Option configures canonicalizer and parser behavior.
type Option func(*Options)

// Options configures canonicalizer and parser behavior.
type Options struct {
	// Context for cancellation of parsing.
	Context context.Context

	// Security limits for untrusted input. Zero or negative MaxTriples disables the limit.
	MaxDepth   int
	MaxTriples int64

	// Workers is the number of goroutines digesting root subtrees. Values below 2 digest inline.
	Workers int

	// Logger receives debug statistics. Nil discards them.
	Logger logrus.FieldLogger
}

// OptContext sets the context for cancellation.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptMaxDepth sets the maximum blank node nesting depth. Zero or negative disables the limit.
func OptMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

// OptMaxTriples sets the maximum number of triples to process.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptSafeLimits applies limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		opts.MaxDepth = safeMaxDepth
		opts.MaxTriples = safeMaxTriples
	}
}

// OptWorkers digests independent root subtrees on n goroutines.
// Output does not depend on n.
func OptWorkers(n int) Option {
	return func(opts *Options) {
		opts.Workers = n
	}
}

// OptLogger sets the logger used for debug statistics.
func OptLogger(logger logrus.FieldLogger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func defaultOptions() Options {
	return Options{
		Context:    context.Background(),
		MaxDepth:   DefaultMaxDepth,
		MaxTriples: DefaultMaxTriples,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		options.Logger = discard
	}
	return options
}
