package dopego

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}

	mc.RecordEnumeration(120, 30, 5*time.Millisecond)
	mc.RecordScore(2*time.Millisecond, nil)
	mc.RecordScore(4*time.Millisecond, errors.New("boom"))
	mc.RecordScan(15, 10*time.Millisecond, nil)
	mc.RecordScan(0, time.Millisecond, errors.New("boom"))

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.EnumerationCount)
	assert.Equal(t, int64(120), stats.RawChecked)
	assert.Equal(t, int64(30), stats.UniqueKept)
	assert.Equal(t, int64(2), stats.ScoreCount)
	assert.Equal(t, int64(1), stats.ScoreErrors)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.ScoreAvgNanos)
	assert.Equal(t, int64(2), stats.ScanCount)
	assert.Equal(t, int64(1), stats.ScanErrors)
}

func TestNoopMetricsCollector(t *testing.T) {
	// Interface compliance plus no-panic smoke test.
	var mc MetricsCollector = NoopMetricsCollector{}
	mc.RecordEnumeration(1, 1, time.Second)
	mc.RecordScore(time.Second, nil)
	mc.RecordScan(1, time.Second, nil)
}
