package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordRegions(t *testing.T, sw *Stopwatch, clock interface{ Advance(time.Duration) }, regions map[string]time.Duration, order []string) {
	t.Helper()
	for _, label := range order {
		require.NoError(t, sw.Start(label))
		clock.Advance(regions[label])
		_, err := sw.Stop()
		require.NoError(t, err)
	}
}

func Test_StatsAllRegions(t *testing.T) {
	sw, clock := newTestWatch(t)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
		"B": 300 * time.Millisecond,
		"C": 200 * time.Millisecond,
	}, []string{"A", "B", "C"})

	stats := sw.GetStats()
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 0.6, stats.Total.Seconds, 1e-9)
	assert.InDelta(t, 0.6/60, stats.Total.Minutes, 1e-9)
	assert.InDelta(t, 0.1, stats.Min.Seconds, 1e-9)
	assert.InDelta(t, 0.3, stats.Max.Seconds, 1e-9)
	assert.InDelta(t, 0.2, stats.Avg.Seconds, 1e-9)
	assert.InDelta(t, 0.2/60, stats.Avg.Minutes, 1e-9)
}

func Test_StatsWordBoundaryMatch(t *testing.T) {
	sw, clock := newTestWatch(t)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"load config":  100 * time.Millisecond,
		"load":         200 * time.Millisecond,
		"preload data": 400 * time.Millisecond,
	}, []string{"load config", "load", "preload data"})

	// "load" matches on word boundaries, so "preload" stays out.
	stats := sw.GetStats("load")
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 0.3, stats.Total.Seconds, 1e-9)
}

func Test_StatsExactMatchForNonAlphanumeric(t *testing.T) {
	sw, clock := newTestWatch(t)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"a+b":   100 * time.Millisecond,
		"a+b+c": 200 * time.Millisecond,
	}, []string{"a+b", "a+b+c"})

	stats := sw.GetStats("a+b")
	assert.Equal(t, 1, stats.Count)
	assert.InDelta(t, 0.1, stats.Total.Seconds, 1e-9)
}

func Test_StatsMultipleFilters(t *testing.T) {
	sw, clock := newTestWatch(t)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
		"B": 200 * time.Millisecond,
		"C": 400 * time.Millisecond,
	}, []string{"A", "B", "C"})

	stats := sw.GetStats("A", "C")
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 0.5, stats.Total.Seconds, 1e-9)
	assert.InDelta(t, 0.1, stats.Min.Seconds, 1e-9)
	assert.InDelta(t, 0.4, stats.Max.Seconds, 1e-9)
}

func Test_StatsEmptySubset(t *testing.T) {
	sw, clock := newTestWatch(t)

	// No regions at all.
	assert.Equal(t, Stats{}, sw.GetStats())

	// A typo'd filter is a normal empty result, not an error.
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
	}, []string{"A"})
	assert.Equal(t, Stats{}, sw.GetStats("missing"))
}

func Test_StatsSkipOpenRegions(t *testing.T) {
	sw, clock := newTestWatch(t)

	require.NoError(t, sw.Start("A"))
	clock.Advance(10 * time.Millisecond)
	require.NoError(t, sw.Start("B"))
	clock.Advance(10 * time.Millisecond)
	_, err := sw.Stop()
	require.NoError(t, err)

	stats := sw.GetStats()
	assert.Equal(t, 1, stats.Count)
}
