package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The input state is a package singleton, so every test starts from a
// clean slate instead of inheriting keys a previous test left down.
func resetInput(t *testing.T) {
	t.Helper()
	require.NoError(t, InputInitialize())
	inputState.KeyboardCurrent = KeyboardState{}
	inputState.KeyboardPrevious = KeyboardState{}
	inputState.MouseCurrent = MouseState{}
	inputState.MousePrevious = MouseState{}
	inputState.MouseInitialized = false
}

func TestKeyPressEdgeAcrossFrames(t *testing.T) {
	resetInput(t)

	require.NoError(t, InputProcessKey(KEY_W, true))
	assert.True(t, InputIsKeyDown(KEY_W))
	assert.True(t, InputWasKeyUp(KEY_W), "a fresh press must read as up on the previous frame")

	// End of frame. The key is still held but no longer a fresh press.
	require.NoError(t, InputUpdate(0.016))
	assert.True(t, InputIsKeyDown(KEY_W))
	assert.True(t, InputWasKeyDown(KEY_W))

	require.NoError(t, InputProcessKey(KEY_W, false))
	assert.True(t, InputIsKeyUp(KEY_W))
	assert.True(t, InputWasKeyDown(KEY_W))

	require.NoError(t, InputUpdate(0.016))
	assert.True(t, InputWasKeyUp(KEY_W))
}

func TestMouseFirstMoveSetsBaseline(t *testing.T) {
	resetInput(t)

	// The very first position report must not register as movement,
	// otherwise the camera jumps on the first frame.
	require.NoError(t, InputProcessMouseMove(640, 360))
	dx, dy := InputGetMouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	require.NoError(t, InputProcessMouseMove(650, 350))
	dx, dy = InputGetMouseDelta()
	assert.Equal(t, 10.0, dx)
	assert.Equal(t, -10.0, dy)

	x, y := InputGetMousePosition()
	assert.Equal(t, 650.0, x)
	assert.Equal(t, 350.0, y)

	require.NoError(t, InputUpdate(0.016))
	dx, dy = InputGetMouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestMouseWheelResetsEachFrame(t *testing.T) {
	resetInput(t)

	require.NoError(t, InputProcessMouseWheel(1))
	require.NoError(t, InputProcessMouseWheel(0.5))
	assert.Equal(t, 1.5, InputMouseWheelDelta())

	require.NoError(t, InputUpdate(0.016))
	assert.Zero(t, InputMouseWheelDelta())
}

func TestMouseButtonsRollOver(t *testing.T) {
	resetInput(t)

	require.NoError(t, InputProcessButton(BUTTON_LEFT, true))
	assert.True(t, InputIsButtonDown(BUTTON_LEFT))
	assert.True(t, InputWasButtonUp(BUTTON_LEFT))
	assert.True(t, InputIsButtonUp(BUTTON_RIGHT))

	require.NoError(t, InputUpdate(0.016))
	assert.True(t, InputWasButtonDown(BUTTON_LEFT))
}

func TestShutdownInputGoesInert(t *testing.T) {
	resetInput(t)
	t.Cleanup(func() { require.NoError(t, InputInitialize()) })

	require.NoError(t, InputProcessKey(KEY_A, true))
	require.NoError(t, InputShutdown())

	assert.False(t, InputIsKeyDown(KEY_A))
	dx, dy := InputGetMouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}
