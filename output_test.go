package stopwatch

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StringDump(t *testing.T) {
	sw, clock := newTestWatch(t)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
		"B": 300 * time.Millisecond,
	}, []string{"A", "B"})

	dump := sw.String()
	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "label")
	assert.Contains(t, lines[0], "cumul_percent")
	assert.Contains(t, lines[1], "A")
	assert.Contains(t, lines[1], "0.100000")
	assert.Contains(t, lines[2], "B")
	assert.Contains(t, lines[2], "0.300000")
}

func Test_CompactDump(t *testing.T) {
	sw, clock := newTestWatch(t)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
		"B": 300 * time.Millisecond,
	}, []string{"A", "B"})

	b := strings.Builder{}
	n, err := sw.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, int64(b.Len()), n)

	want := "label,seconds,minutes,rel_percent,cumul_sec,cumul_min,cumul_percent\n" +
		"A,0.100000,0.001667,0.2500,0.100000,0.001667,0.2500\n" +
		"B,0.300000,0.005000,0.7500,0.400000,0.006667,1.0000\n"
	assert.Equal(t, want, b.String())
}

func Test_DumpBeforeIdleOmitsDerivedFields(t *testing.T) {
	sw, clock := newTestWatch(t)

	require.NoError(t, sw.Start("A"))
	clock.Advance(10 * time.Millisecond)
	require.NoError(t, sw.Start("B"))
	clock.Advance(10 * time.Millisecond)
	_, err := sw.Stop()
	require.NoError(t, err)

	b := strings.Builder{}
	_, err = sw.WriteTo(&b)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "B,0.010000,0.000167\n")
}

func Test_ToFileDefaultName(t *testing.T) {
	fs := afero.NewMemMapFs()
	sw, clock := newTestWatch(t)
	sw.WithFs(fs)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
	}, []string{"A"})

	require.NoError(t, sw.ToFile(""))

	// The stopwatch is named "test" and carries no extension, so ".txt"
	// is appended.
	data, err := afero.ReadFile(fs, "test.txt")
	require.NoError(t, err)
	assert.Contains(t, string(data), "A,0.100000")
}

func Test_ToFileExplicitName(t *testing.T) {
	fs := afero.NewMemMapFs()
	sw, clock := newTestWatch(t)
	sw.WithFs(fs)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
	}, []string{"A"})

	require.NoError(t, sw.ToFile("runs/latest.csv"))
	exists, err := afero.Exists(fs, "runs/latest.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func Test_AppendToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	sw, clock := newTestWatch(t)
	sw.WithFs(fs)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
	}, []string{"A"})

	require.NoError(t, sw.AppendToFile(""))
	require.NoError(t, sw.AppendToFile(""))

	data, err := afero.ReadFile(fs, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "label,seconds"))
}

func Test_ToFileOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	sw, clock := newTestWatch(t)
	sw.WithFs(fs)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"A": 100 * time.Millisecond,
	}, []string{"A"})

	require.NoError(t, sw.ToFile(""))
	require.NoError(t, sw.ToFile(""))

	data, err := afero.ReadFile(fs, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "label,seconds"))
}

func Test_Table(t *testing.T) {
	sw, clock := newTestWatch(t)
	recordRegions(t, sw, clock, map[string]time.Duration{
		"fetch": 100 * time.Millisecond,
		"parse": 300 * time.Millisecond,
	}, []string{"fetch", "parse"})

	table := sw.Table()
	assert.Contains(t, table, "fetch")
	assert.Contains(t, table, "parse")
	assert.Contains(t, table, "0.100000")
	assert.Contains(t, table, "0.300000")
}
