package viewer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/components"
	"github.com/spaghettifunk/helios/engine/scene"
)

func testState(t *testing.T) *viewerState {
	t.Helper()
	registry, err := scene.NewRegistry([]*scene.CelestialBody{
		{Name: "sun", Radius: 2},
		{Name: "earth", Radius: 0.5, ParentName: "sun", OrbitRadius: 10, OrbitSpeed: 0.2},
		{Name: "moon", Radius: 0.15, ParentName: "earth", OrbitRadius: 1.5, OrbitSpeed: 1.5},
		{Name: "mars", Radius: 0.3, ParentName: "sun", OrbitRadius: 15, OrbitSpeed: 0.15},
	})
	require.NoError(t, err)
	registry.UpdateAll(0)

	return &viewerState{
		WorldCamera: components.NewCamera(),
		registry:    registry,
		simClock:    scene.NewSimulationClock(),
		hud:         &HUD{},
	}
}

func TestLockToKnownBody(t *testing.T) {
	g := &ViewerGame{}
	state := testState(t)
	state.WorldCamera.SetPosition(mgl32.Vec3{0, 5, 20})

	g.lockTo(state, "earth")

	assert.Equal(t, "earth", state.WorldCamera.LockTarget())
	earth, _ := state.registry.Get("earth")
	distance := state.WorldCamera.GetPosition().Sub(earth.WorldPosition()).Len()
	assert.InDelta(t, 0.5*5, distance, 1e-3)
	assert.True(t, state.hud.dirty)
}

func TestLockToUnknownBodyIsIgnored(t *testing.T) {
	g := &ViewerGame{}
	state := testState(t)

	g.lockTo(state, "pluto")

	assert.False(t, state.WorldCamera.Locked())
}

func TestCycleLockFromFreeFlight(t *testing.T) {
	g := &ViewerGame{}

	// Forward enters at the first body, backward at the last.
	state := testState(t)
	g.cycleLock(state, 1)
	assert.Equal(t, "sun", state.WorldCamera.LockTarget())

	state = testState(t)
	g.cycleLock(state, -1)
	assert.Equal(t, "mars", state.WorldCamera.LockTarget())
}

func TestCycleLockWalksScenarioOrder(t *testing.T) {
	g := &ViewerGame{}
	state := testState(t)

	for _, expected := range []string{"sun", "earth", "moon", "mars", "sun"} {
		g.cycleLock(state, 1)
		assert.Equal(t, expected, state.WorldCamera.LockTarget())
	}

	// And back again, wrapping the other way.
	for _, expected := range []string{"mars", "moon", "earth", "sun", "mars"} {
		g.cycleLock(state, -1)
		assert.Equal(t, expected, state.WorldCamera.LockTarget())
	}
}

func TestCycleLockEmptyRegistry(t *testing.T) {
	g := &ViewerGame{}
	registry, err := scene.NewRegistry(nil)
	require.NoError(t, err)
	state := &viewerState{
		WorldCamera: components.NewCamera(),
		registry:    registry,
		simClock:    scene.NewSimulationClock(),
		hud:         &HUD{},
	}

	g.cycleLock(state, 1)
	assert.False(t, state.WorldCamera.Locked())
}

func TestProcessCommandsKeyBindings(t *testing.T) {
	require.NoError(t, core.EventInitialize())
	require.NoError(t, core.InputInitialize())

	g := &ViewerGame{}
	state := testState(t)

	tap := func(key core.KeyCode) {
		require.NoError(t, core.InputProcessKey(key, true))
		g.processCommands(state)
		require.NoError(t, core.InputUpdate(0.016))
		require.NoError(t, core.InputProcessKey(key, false))
		require.NoError(t, core.InputUpdate(0.016))
	}

	tap(core.KEY_E)
	assert.Equal(t, "earth", state.WorldCamera.LockTarget())

	tap(core.KEY_M)
	assert.Equal(t, "mars", state.WorldCamera.LockTarget())

	tap(core.KEY_N)
	assert.False(t, state.WorldCamera.Locked())

	tap(core.KEY_5)
	assert.Equal(t, 4, state.simClock.Preset())
	tap(core.KEY_1)
	assert.Equal(t, 0, state.simClock.Preset())

	tap(core.KEY_TAB)
	assert.Equal(t, "sun", state.WorldCamera.LockTarget())

	// Shift-tab cycles backwards.
	require.NoError(t, core.InputProcessKey(core.KEY_LSHIFT, true))
	tap(core.KEY_TAB)
	assert.Equal(t, "mars", state.WorldCamera.LockTarget())
	require.NoError(t, core.InputProcessKey(core.KEY_LSHIFT, false))
	require.NoError(t, core.InputUpdate(0.016))
}

func TestProcessCommandsNoRepeatWhileHeld(t *testing.T) {
	require.NoError(t, core.EventInitialize())
	require.NoError(t, core.InputInitialize())

	g := &ViewerGame{}
	state := testState(t)

	require.NoError(t, core.InputProcessKey(core.KEY_TAB, true))
	g.processCommands(state)
	require.Equal(t, "sun", state.WorldCamera.LockTarget())
	require.NoError(t, core.InputUpdate(0.016))

	// The key is still held on the following frames, the lock must stay put.
	for i := 0; i < 3; i++ {
		g.processCommands(state)
		require.NoError(t, core.InputUpdate(0.016))
	}
	assert.Equal(t, "sun", state.WorldCamera.LockTarget())

	require.NoError(t, core.InputProcessKey(core.KEY_TAB, false))
	require.NoError(t, core.InputUpdate(0.016))
}

func TestProcessMovementFreeFlight(t *testing.T) {
	require.NoError(t, core.EventInitialize())
	require.NoError(t, core.InputInitialize())

	g := &ViewerGame{}
	state := testState(t)
	camera := state.WorldCamera

	// Hold W for a tenth of a second at the default speed.
	require.NoError(t, core.InputProcessKey(core.KEY_W, true))
	g.processMovement(state, 0.1)
	position := camera.GetPosition()
	assert.InDelta(t, -0.5, position.Z(), 1e-4)
	require.NoError(t, core.InputProcessKey(core.KEY_W, false))
	require.NoError(t, core.InputUpdate(0.016))

	// Sprinting triples the speed.
	require.NoError(t, core.InputProcessKey(core.KEY_LSHIFT, true))
	require.NoError(t, core.InputProcessKey(core.KEY_SPACE, true))
	g.processMovement(state, 0.1)
	assert.InDelta(t, 1.5, camera.GetPosition().Y(), 1e-4)
	require.NoError(t, core.InputProcessKey(core.KEY_LSHIFT, false))
	require.NoError(t, core.InputProcessKey(core.KEY_SPACE, false))
	require.NoError(t, core.InputUpdate(0.016))
}

func TestProcessMovementMouseLookInversion(t *testing.T) {
	require.NoError(t, core.EventInitialize())
	require.NoError(t, core.InputInitialize())

	g := &ViewerGame{}
	state := testState(t)

	// Baseline, then drag up the screen. The camera must pitch up.
	require.NoError(t, core.InputProcessMouseMove(100, 100))
	require.NoError(t, core.InputUpdate(0.016))
	require.NoError(t, core.InputProcessMouseMove(100, 40))
	g.processMovement(state, 0.016)

	assert.Greater(t, state.WorldCamera.Front.Y(), float32(0))
	require.NoError(t, core.InputUpdate(0.016))
}

func TestProcessMovementScrollZoom(t *testing.T) {
	require.NoError(t, core.EventInitialize())
	require.NoError(t, core.InputInitialize())

	g := &ViewerGame{}
	state := testState(t)

	require.NoError(t, core.InputProcessMouseWheel(5))
	g.processMovement(state, 0.016)
	assert.InDelta(t, 40, state.WorldCamera.Zoom, 1e-4)
	require.NoError(t, core.InputUpdate(0.016))
}
