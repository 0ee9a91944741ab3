package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulationClockStartsAtRealtime(t *testing.T) {
	clock := NewSimulationClock()
	assert.Equal(t, 2, clock.Preset())
	assert.Equal(t, 1.0, clock.Scale())
	assert.Equal(t, 0.0, clock.Now())
}

func TestSimulationClockAdvanceScalesDelta(t *testing.T) {
	clock := NewSimulationClock()
	clock.Advance(0.5)
	clock.Advance(0.5)
	assert.InDelta(t, 1.0, clock.Now(), 1e-12)

	clock.SetPreset(4)
	assert.Equal(t, 5.0, clock.Scale())
	clock.Advance(1)
	assert.InDelta(t, 6.0, clock.Now(), 1e-12)
}

func TestSimulationClockPauseHoldsTime(t *testing.T) {
	clock := NewSimulationClock()
	clock.Advance(2)
	clock.SetPreset(0)
	assert.Equal(t, 0.0, clock.Scale())

	clock.Advance(100)
	clock.Advance(100)
	assert.InDelta(t, 2.0, clock.Now(), 1e-12)
}

func TestSimulationClockPresetSwitchNeverRewinds(t *testing.T) {
	clock := NewSimulationClock()
	clock.SetPreset(4)
	clock.Advance(1)
	before := clock.Now()

	// Dropping to half speed keeps the accumulated time and only slows
	// further growth.
	clock.SetPreset(1)
	assert.Equal(t, before, clock.Now())
	clock.Advance(1)
	assert.InDelta(t, before+0.5, clock.Now(), 1e-12)
}

func TestSimulationClockIgnoresOutOfRangePresets(t *testing.T) {
	clock := NewSimulationClock()
	clock.SetPreset(-1)
	assert.Equal(t, 2, clock.Preset())
	clock.SetPreset(len(SpeedPresets))
	assert.Equal(t, 2, clock.Preset())
}
