package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAveragesFrameTimes(t *testing.T) {
	require.NoError(t, MetricsInitialize())
	*metricsState = MetricsState{}

	// A full window of 16ms frames averages out to 16ms.
	for i := uint8(0); i < AVG_COUNT; i++ {
		MetricsUpdate(0.016)
	}
	assert.InDelta(t, 16.0, MetricsFrameTime(), 1e-9)

	fps, frameTime := MetricsFrame()
	assert.Equal(t, MetricsFPS(), fps)
	assert.Equal(t, MetricsFrameTime(), frameTime)
}

func TestMetricsCountsFramesPerSecond(t *testing.T) {
	require.NoError(t, MetricsInitialize())
	*metricsState = MetricsState{}

	// Quarter second frames, so the shown rate is published on the first
	// update past the one second mark.
	for i := 0; i < 4; i++ {
		MetricsUpdate(0.25)
	}
	assert.Equal(t, 0.0, MetricsFPS())
	MetricsUpdate(0.25)
	assert.Equal(t, 4.0, MetricsFPS())
}

func TestClockMeasuresElapsed(t *testing.T) {
	clock := NewClock()

	// Non-started clocks stay at zero.
	clock.Update()
	assert.Equal(t, 0.0, clock.Elapsed())

	clock.Start()
	time.Sleep(10 * time.Millisecond)
	clock.Update()
	first := clock.Elapsed()
	assert.Greater(t, first, 0.0)

	// Stopping freezes but keeps the last reading.
	clock.Stop()
	clock.Update()
	assert.Equal(t, first, clock.Elapsed())

	// Restarting resets.
	clock.Start()
	assert.Equal(t, 0.0, clock.Elapsed())
}
