// Package oracle defines the external scoring collaborator interface and a
// fixed-size worker pool that evaluates decorated structures in parallel.
//
// Scoring is assumed expensive, deterministic and side-effect free per call.
// Heavy per-worker resources (an ML potential, a session to a remote code)
// are modeled by the Factory interface: each worker lazily creates exactly
// one Oracle on its first job and closes it when the pool shuts down; the
// instance is never shared across workers.
package oracle

import (
	"context"
	"fmt"

	"github.com/hupe1980/dopego/crystal"
)

// Oracle scores fully decorated structures. Implementations are owned by a
// single worker and need not be safe for concurrent use.
type Oracle interface {
	// Score returns the numeric score of s (lower is better).
	Score(ctx context.Context, s *crystal.Structure) (float64, error)

	// Close releases any resources held by the oracle.
	Close() error
}

// Factory creates one Oracle per worker. Implementations must be safe for
// concurrent use; the returned oracles need not be.
type Factory interface {
	New(ctx context.Context) (Oracle, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context) (Oracle, error)

// New implements Factory.
func (f FactoryFunc) New(ctx context.Context) (Oracle, error) {
	return f(ctx)
}

// Func wraps a stateless scoring function as a Factory. The function must be
// safe for concurrent independent invocation.
func Func(fn func(ctx context.Context, s *crystal.Structure) (float64, error)) Factory {
	return FactoryFunc(func(context.Context) (Oracle, error) {
		return funcOracle(fn), nil
	})
}

type funcOracle func(ctx context.Context, s *crystal.Structure) (float64, error)

func (f funcOracle) Score(ctx context.Context, s *crystal.Structure) (float64, error) {
	return f(ctx, s)
}

func (f funcOracle) Close() error { return nil }

// ScoreError reports the failed scoring of one candidate, identified by its
// discovery index.
type ScoreError struct {
	Index int
	Err   error
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("oracle: scoring candidate %d failed: %v", e.Index, e.Err)
}

func (e *ScoreError) Unwrap() error { return e.Err }
