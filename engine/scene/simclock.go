package scene

// Speed presets the simulation clock steps through. Index 0 pauses the
// simulation while the rest of the application keeps running.
var SpeedPresets = [...]float64{0, 0.5, 1.0, 2.0, 5.0}

// SimulationClock accumulates scaled simulation time, decoupled from wall
// time. Switching presets never rewinds or jumps the accumulated time, it
// only changes how fast it grows from now on.
type SimulationClock struct {
	accumulated float64
	presetIndex int
}

// NewSimulationClock starts at zero with the 1x preset active.
func NewSimulationClock() *SimulationClock {
	return &SimulationClock{presetIndex: 2}
}

// Advance adds a frame's wall delta, scaled by the active preset. Always
// called once per frame, a paused clock simply accumulates nothing.
func (sc *SimulationClock) Advance(frameDelta float64) {
	sc.accumulated += frameDelta * SpeedPresets[sc.presetIndex]
}

// SetPreset selects a speed preset. Out of range indices are ignored.
func (sc *SimulationClock) SetPreset(index int) {
	if index < 0 || index >= len(SpeedPresets) {
		return
	}
	sc.presetIndex = index
}

// Preset returns the index of the active preset.
func (sc *SimulationClock) Preset() int {
	return sc.presetIndex
}

// Scale returns the active preset's multiplier.
func (sc *SimulationClock) Scale() float64 {
	return SpeedPresets[sc.presetIndex]
}

// Now returns the accumulated simulation time in seconds.
func (sc *SimulationClock) Now() float64 {
	return sc.accumulated
}
