// Package dopego explores chemical-substitution configurations on a crystal
// sublattice, removes configurations that are equivalent under the
// lattice's symmetry group, scores the surviving distinct configurations in
// parallel with an external oracle, and retains only the K lowest-scoring
// candidates.
package dopego

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/dopego/crystal"
	"github.com/hupe1980/dopego/enumerate"
	"github.com/hupe1980/dopego/oracle"
	"github.com/hupe1980/dopego/symmetry"
	"github.com/hupe1980/dopego/topk"
)

type engineConfig struct {
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
}

// Engine runs symmetry-reduced exhaustive doping scans over one base
// structure. Engines are immutable after Build and safe for concurrent use;
// each Scan call owns its own pipeline state.
type Engine struct {
	cfg  engineConfig
	opts options
}

func newEngine(cfg engineConfig, optFns []Option) (*Engine, error) {
	switch {
	case cfg.base == nil || cfg.base.NumSites() == 0:
		return nil, ErrMissingStructure
	case cfg.host == "":
		return nil, ErrMissingHost
	case len(cfg.spectators) == 0:
		return nil, ErrNoSpectators
	case cfg.topK <= 0:
		return nil, ErrInvalidTopK
	case cfg.tolerance <= 0:
		return nil, ErrInvalidTolerance
	case cfg.maxRaw <= 0 || cfg.maxUnique <= 0:
		return nil, ErrInvalidCeiling
	case cfg.workers <= 0:
		return nil, ErrInvalidWorkers
	case cfg.analyzer == nil:
		return nil, ErrMissingAnalyzer
	case cfg.factory == nil:
		return nil, ErrMissingOracle
	}

	return &Engine{
		cfg:  cfg,
		opts: applyOptions(optFns),
	}, nil
}

// Scan runs the full pipeline: sublattice resolution, sizing guards,
// symmetry action construction, symmetry-unique enumeration, parallel
// scoring and streaming top-K selection. It returns the ranked candidates.
func (e *Engine) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := e.scan(ctx)
	retained := 0
	if res != nil {
		retained = len(res.Candidates)
		res.Stats.Elapsed = time.Since(start)
	}
	e.opts.metrics.RecordScan(retained, time.Since(start), err)
	return res, err
}

func (e *Engine) scan(ctx context.Context) (*Result, error) {
	cfg, log := e.cfg, e.opts.logger

	sub, err := resolveSublattice(cfg.base, cfg.host, cfg.spectators)
	if err != nil {
		return nil, err
	}
	n := sub.size()

	dopantSpecies, counts := sub.dopants()
	labelSpecies := append([]string{cfg.host}, dopantSpecies...)

	log.Info("resolved sublattice",
		"sites", n,
		"host", cfg.host,
		"host_count", sub.hostCount,
		"dopant_counts", sub.dopantCounts,
		"spectators", cfg.spectators,
	)

	estimate, err := enumerate.CheckEstimate(n, counts, cfg.maxRaw)
	if err != nil {
		return nil, err
	}
	log.Info("estimated raw configurations", "estimate", estimate.String(), "ceiling", cfg.maxRaw)

	parent := symmetry.ParentStructure(cfg.base, sub.indices, cfg.host)
	ops, err := cfg.analyzer.Operations(parent, cfg.tolerance)
	if err != nil {
		return nil, fmt.Errorf("symmetry analysis: %w", err)
	}
	perms, err := symmetry.BuildPermutations(parent, sub.indices, ops, cfg.tolerance)
	if err != nil {
		return nil, err
	}
	log.Info("built symmetry action", "operations", len(ops), "unique_permutations", len(perms))

	enumStart := time.Now()
	canon := symmetry.NewCanonicalizer(perms)
	uniques, raw, err := enumerate.Reduce(enumerate.Sequence(n, counts), canon, cfg.maxUnique)
	e.opts.metrics.RecordEnumeration(raw, len(uniques), time.Since(enumStart))
	if err != nil {
		return nil, err
	}
	log.Info("enumeration complete", "raw", raw, "unique", len(uniques), "elapsed", time.Since(enumStart))

	heap, failures, err := e.score(ctx, sub, uniques, labelSpecies)
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 && len(failures) == len(uniques) {
		return nil, &BatchError{Failures: failures}
	}

	res := &Result{
		LabelSpecies: labelSpecies,
		Failures:     failures,
		Stats: Stats{
			SublatticeSize: n,
			HostCount:      sub.hostCount,
			DopantCounts:   sub.dopantCounts,
			Permutations:   len(perms),
			RawEstimate:    estimate,
			RawChecked:     raw,
			Unique:         len(uniques),
		},
	}
	for i, c := range heap.Drain() {
		res.Candidates = append(res.Candidates, Candidate{
			Rank:           i + 1,
			Score:          c.Score,
			DiscoveryIndex: c.Index,
			Labels:         c.Labels,
			Signature:      signatureOf(c.Labels, labelSpecies),
			Structure:      decorate(cfg.base, sub.indices, c.Labels, labelSpecies),
		})
	}
	return res, nil
}

// score dispatches the unique labelings to the worker pool and folds the
// completions, in arbitrary arrival order, into a bounded top-K heap.
func (e *Engine) score(ctx context.Context, sub *sublattice, uniques []enumerate.Unique, labelSpecies []string) (*topk.Heap, []CandidateError, error) {
	cfg, log := e.cfg, e.opts.logger

	jobs := make([]oracle.Job, len(uniques))
	for i, u := range uniques {
		jobs[i] = oracle.Job{Index: u.Index, Labels: u.Labels}
	}

	pool := oracle.NewPool(cfg.workers, e.timedFactory(), func(labels []uint8) *crystal.Structure {
		return decorate(cfg.base, sub.indices, labels, labelSpecies)
	}, func(o *oracle.Options) {
		o.Policy = e.opts.policy
		o.Limiter = e.opts.limiter
	})

	heap := topk.New(cfg.topK)
	var failures []CandidateError
	done := 0
	best := math.Inf(1)

	start := time.Now()
	err := pool.Run(ctx, jobs, func(out oracle.Outcome) error {
		done++
		if out.Err != nil {
			failures = append(failures, CandidateError{Index: out.Index, Err: out.Err})
			log.Warn("candidate scoring failed", "index", out.Index, "error", out.Err)
		} else {
			heap.Offer(topk.Candidate{Index: out.Index, Score: out.Score, Labels: out.Labels})
			if out.Score < best {
				best = out.Score
			}
		}
		if done%e.opts.progressEvery == 0 || done == len(jobs) {
			log.Info("scoring progress", "done", done, "total", len(jobs), "best", best)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("scoring complete", "evaluated", done, "elapsed", time.Since(start))

	return heap, failures, nil
}

// timedFactory wraps the configured oracle factory so every Score call is
// recorded by the metrics collector.
func (e *Engine) timedFactory() oracle.Factory {
	inner, mc := e.cfg.factory, e.opts.metrics
	return oracle.FactoryFunc(func(ctx context.Context) (oracle.Oracle, error) {
		o, err := inner.New(ctx)
		if err != nil {
			return nil, err
		}
		return &timedOracle{inner: o, mc: mc}, nil
	})
}

type timedOracle struct {
	inner oracle.Oracle
	mc    MetricsCollector
}

func (t *timedOracle) Score(ctx context.Context, s *crystal.Structure) (float64, error) {
	start := time.Now()
	score, err := t.inner.Score(ctx, s)
	t.mc.RecordScore(time.Since(start), err)
	return score, err
}

func (t *timedOracle) Close() error {
	return t.inner.Close()
}
