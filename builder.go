// Package dopego provides the doping-configuration scan engine.
//
// This file implements the fluent builder API for creating and configuring
// Engine instances. The builder is immutable - each method returns a new
// builder with the updated configuration.
package dopego

import (
	"runtime"

	"golang.org/x/time/rate"

	"github.com/hupe1980/dopego/crystal"
	"github.com/hupe1980/dopego/oracle"
	"github.com/hupe1980/dopego/symmetry"
)

// Default knobs for a scan.
const (
	DefaultTopK      = 15
	DefaultTolerance = 1e-3
	DefaultMaxRaw    = 50_000_000
	DefaultMaxUnique = 200_000
)

// New creates a new engine builder for the given base structure.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents accidental
// state sharing.
//
// Example:
//
//	eng, err := dopego.New(base).
//	    Host("Ti").
//	    Spectators("O").
//	    TopK(15).
//	    Analyzer(analyzer).
//	    Oracle(factory).
//	    Build()
func New(base *crystal.Structure) Builder {
	return Builder{
		base:      base,
		topK:      DefaultTopK,
		tolerance: DefaultTolerance,
		maxRaw:    DefaultMaxRaw,
		maxUnique: DefaultMaxUnique,
		workers:   runtime.NumCPU(),
	}
}

// Builder is an immutable fluent builder for creating Engine instances.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	base       *crystal.Structure
	host       string
	spectators []string
	topK       int
	tolerance  float64
	maxRaw     int64
	maxUnique  int
	workers    int
	analyzer   symmetry.Analyzer
	factory    oracle.Factory
	policy     oracle.FailurePolicy
	limiter    *rate.Limiter
	logger     *Logger
	metrics    MetricsCollector
	progress   int
}

// Host sets the host species occupying the undoped sublattice.
func (b Builder) Host(species string) Builder {
	b.host = species
	return b
}

// Spectators sets the spectator species set. Sites carrying a spectator
// species are excluded from the enumeration sublattice (for an oxide
// cation scan this is typically just "O").
func (b Builder) Spectators(species ...string) Builder {
	b.spectators = species
	return b
}

// TopK sets how many lowest-scoring candidates are retained.
// Default: 15.
func (b Builder) TopK(k int) Builder {
	b.topK = k
	return b
}

// Tolerance sets the symmetry analysis tolerance, forwarded to the analyzer
// and used for permutation matching (a transformed site must land within
// 10x this distance of a sublattice site).
// Default: 1e-3.
func (b Builder) Tolerance(tol float64) Builder {
	b.tolerance = tol
	return b
}

// MaxConfigs sets the ceiling on the estimated number of raw configurations.
// Scans whose estimate exceeds it fail before enumeration starts.
// Default: 50,000,000.
func (b Builder) MaxConfigs(n int64) Builder {
	b.maxRaw = n
	return b
}

// MaxUnique sets the ceiling on the number of symmetry-distinct
// configurations. Scans exceeding it fail before any scoring is issued.
// Default: 200,000.
func (b Builder) MaxUnique(n int) Builder {
	b.maxUnique = n
	return b
}

// Workers sets the size of the scoring worker pool.
// Default: runtime.NumCPU().
func (b Builder) Workers(n int) Builder {
	b.workers = n
	return b
}

// Analyzer sets the external space-group analysis collaborator.
// Required; use symmetry.IdentityAnalyzer to disable symmetry reduction
// explicitly.
func (b Builder) Analyzer(a symmetry.Analyzer) Builder {
	b.analyzer = a
	return b
}

// Oracle sets the scoring oracle factory. Required.
func (b Builder) Oracle(f oracle.Factory) Builder {
	b.factory = f
	return b
}

// ContinueOnError switches the failure policy from fail-fast (abort the
// whole batch on the first scoring failure, no partial results) to
// accumulate-and-continue: failures are collected per candidate and the
// scan emits whatever completed, failing only if every candidate failed.
func (b Builder) ContinueOnError() Builder {
	b.policy = oracle.ContinueOnError
	return b
}

// RateLimit throttles oracle invocations across all workers.
func (b Builder) RateLimit(l *rate.Limiter) Builder {
	b.limiter = l
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// ProgressEvery sets how many completed evaluations pass between progress
// log lines. Default: 2000.
func (b Builder) ProgressEvery(n int) Builder {
	b.progress = n
	return b
}

// Build creates the Engine, validating the configuration.
func (b Builder) Build() (*Engine, error) {
	var opts []Option
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	if b.limiter != nil {
		opts = append(opts, WithRateLimiter(b.limiter))
	}
	if b.policy == oracle.ContinueOnError {
		opts = append(opts, WithFailurePolicy(oracle.ContinueOnError))
	}
	if b.progress > 0 {
		opts = append(opts, WithProgressEvery(b.progress))
	}

	return newEngine(engineConfig{
		base:       b.base,
		host:       b.host,
		spectators: b.spectators,
		topK:       b.topK,
		tolerance:  b.tolerance,
		maxRaw:     b.maxRaw,
		maxUnique:  b.maxUnique,
		workers:    b.workers,
		analyzer:   b.analyzer,
		factory:    b.factory,
	}, opts)
}

// MustBuild creates the Engine, panicking on error.
func (b Builder) MustBuild() *Engine {
	eng, err := b.Build()
	if err != nil {
		panic(err)
	}
	return eng
}
