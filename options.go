package dopego

import (
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/hupe1980/dopego/oracle"
)

type options struct {
	logger        *Logger
	metrics       MetricsCollector
	limiter       *rate.Limiter
	policy        oracle.FailurePolicy
	progressEvery int
}

// Option configures Engine construction behavior.
//
// Options exist to avoid exploding the constructor surface; most callers
// reach them through the fluent Builder instead.
type Option func(*options)

// WithLogger configures structured logging for scan operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithRateLimiter throttles oracle invocations across all workers.
// Nil means unlimited.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithFailurePolicy selects how scoring failures are handled: abort the
// whole batch on the first failure (oracle.FailFast, the default) or
// accumulate per-candidate failures and emit partial results
// (oracle.ContinueOnError).
func WithFailurePolicy(p oracle.FailurePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithProgressEvery sets how many completed evaluations pass between
// progress log lines. Default: 2000.
func WithProgressEvery(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.progressEvery = n
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
		policy:        oracle.FailFast,
		progressEvery: 2000,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
