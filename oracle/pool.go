package oracle

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/dopego/crystal"
)

// FailurePolicy selects how the pool reacts to a failed scoring call.
type FailurePolicy int

const (
	// FailFast aborts the whole batch on the first scoring failure.
	// No partial results survive.
	FailFast FailurePolicy = iota

	// ContinueOnError delivers failures as Outcomes with Err set and keeps
	// scoring the remaining candidates; the caller decides afterwards what
	// to do with the partial results.
	ContinueOnError
)

// Options configures a Pool.
type Options struct {
	// Policy selects the failure policy. Default: FailFast.
	Policy FailurePolicy

	// Limiter optionally throttles oracle invocations across all workers,
	// e.g. when the oracle is a rate-limited remote service. Nil means
	// unlimited.
	Limiter *rate.Limiter
}

// DefaultOptions holds the default pool options.
var DefaultOptions = Options{
	Policy: FailFast,
}

// Job is one unit of work: a label vector with its discovery index.
type Job struct {
	Index  int
	Labels []uint8
}

// Outcome is the result of scoring one job. Err is only ever non-nil under
// ContinueOnError.
type Outcome struct {
	Index  int
	Labels []uint8
	Score  float64
	Err    error
}

// DecorateFunc materializes the fully decorated structure for a label
// vector. It is called from worker goroutines and must be safe for
// concurrent use (the conventional implementation copies a shared read-only
// base structure).
type DecorateFunc func(labels []uint8) *crystal.Structure

// Pool evaluates jobs on a fixed number of stateless workers. Each worker
// owns at most one Oracle, created lazily on its first job and closed when
// the pool run ends.
type Pool struct {
	workers  int
	factory  Factory
	decorate DecorateFunc
	opts     Options
}

// NewPool creates a pool with the given worker count.
func NewPool(workers int, factory Factory, decorate DecorateFunc, optFns ...func(*Options)) *Pool {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		factory:  factory,
		decorate: decorate,
		opts:     opts,
	}
}

// Run scores all jobs and feeds every Outcome to consume from a single
// goroutine (the caller's), in completion order. Submission order follows
// the job slice; completion order is unconstrained, so consumers must not
// depend on it.
//
// Under FailFast the first scoring error cancels all in-flight work and is
// returned. A consume error likewise cancels the run. Oracle construction
// failures are always fatal regardless of policy.
func (p *Pool) Run(ctx context.Context, jobs []Job, consume func(Outcome) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	jobc := make(chan Job)
	g.Go(func() error {
		defer close(jobc)
		for _, j := range jobs {
			select {
			case jobc <- j:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	outc := make(chan Outcome, p.workers)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return p.worker(gctx, jobc, outc)
		})
	}
	go func() {
		wg.Wait()
		close(outc)
	}()

	var consumeErr error
	for out := range outc {
		if consumeErr != nil {
			continue // drain until workers notice the cancellation
		}
		if err := consume(out); err != nil {
			consumeErr = err
			cancel()
		}
	}

	if err := g.Wait(); err != nil && consumeErr == nil {
		return err
	}
	return consumeErr
}

func (p *Pool) worker(ctx context.Context, jobs <-chan Job, out chan<- Outcome) error {
	var o Oracle
	defer func() {
		if o != nil {
			o.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j, ok := <-jobs:
			if !ok {
				return nil
			}

			if o == nil {
				var err error
				if o, err = p.factory.New(ctx); err != nil {
					return fmt.Errorf("oracle: creating worker oracle: %w", err)
				}
			}

			if p.opts.Limiter != nil {
				if err := p.opts.Limiter.Wait(ctx); err != nil {
					return err
				}
			}

			score, err := o.Score(ctx, p.decorate(j.Labels))
			if err != nil {
				if p.opts.Policy == FailFast {
					return &ScoreError{Index: j.Index, Err: err}
				}
				if !send(ctx, out, Outcome{Index: j.Index, Labels: j.Labels, Err: err}) {
					return ctx.Err()
				}
				continue
			}

			if !send(ctx, out, Outcome{Index: j.Index, Labels: j.Labels, Score: score}) {
				return ctx.Err()
			}
		}
	}
}

func send(ctx context.Context, out chan<- Outcome, o Outcome) bool {
	select {
	case out <- o:
		return true
	case <-ctx.Done():
		return false
	}
}
