package dopego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordEnumeration is called once per scan after symmetry reduction.
	// raw is the number of labelings checked, unique the number retained.
	RecordEnumeration(raw, unique int, duration time.Duration)

	// RecordScore is called after each oracle invocation.
	// err is nil if the invocation succeeded.
	RecordScore(duration time.Duration, err error)

	// RecordScan is called after each complete scan.
	// retained is the number of ranked candidates produced.
	RecordScan(retained int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEnumeration(int, int, time.Duration)  {}
func (NoopMetricsCollector) RecordScore(time.Duration, error)           {}
func (NoopMetricsCollector) RecordScan(int, time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EnumerationCount atomic.Int64
	RawChecked       atomic.Int64
	UniqueKept       atomic.Int64
	ScoreCount       atomic.Int64
	ScoreErrors      atomic.Int64
	ScoreTotalNanos  atomic.Int64
	ScanCount        atomic.Int64
	ScanErrors       atomic.Int64
	ScanTotalNanos   atomic.Int64
}

// RecordEnumeration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEnumeration(raw, unique int, duration time.Duration) {
	b.EnumerationCount.Add(1)
	b.RawChecked.Add(int64(raw))
	b.UniqueKept.Add(int64(unique))
}

// RecordScore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScore(duration time.Duration, err error) {
	b.ScoreCount.Add(1)
	b.ScoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScoreErrors.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(retained int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EnumerationCount: b.EnumerationCount.Load(),
		RawChecked:       b.RawChecked.Load(),
		UniqueKept:       b.UniqueKept.Load(),
		ScoreCount:       b.ScoreCount.Load(),
		ScoreErrors:      b.ScoreErrors.Load(),
		ScoreAvgNanos:    b.getAvgScoreNanos(),
		ScanCount:        b.ScanCount.Load(),
		ScanErrors:       b.ScanErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgScoreNanos() int64 {
	count := b.ScoreCount.Load()
	if count == 0 {
		return 0
	}
	return b.ScoreTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EnumerationCount int64
	RawChecked       int64
	UniqueKept       int64
	ScoreCount       int64
	ScoreErrors      int64
	ScoreAvgNanos    int64
	ScanCount        int64
	ScanErrors       int64
}
