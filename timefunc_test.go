package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TimeFunc(t *testing.T) {
	sw, clock := newTestWatch(t)

	elapsed, err := TimeFunc(sw, func() {
		clock.Advance(50 * time.Millisecond)
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.05, elapsed, 1e-9)

	labels := sw.Labels()
	require.Len(t, labels, 1)
	assert.Contains(t, labels[0], "Test_TimeFunc")
}

func Test_TimeFuncDefaultsToSharedInstance(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	elapsed, err := TimeFunc(nil, func() {})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 0.0)
	assert.Len(t, Default().Labels(), 1)
}

func Test_TimeFuncPropagatesClockErrors(t *testing.T) {
	sw, _ := newTestWatch(t)
	sw.WithClockName("hourglass")

	_, err := TimeFunc(sw, func() {})
	assert.ErrorIs(t, err, ErrUnknownClock)
}
