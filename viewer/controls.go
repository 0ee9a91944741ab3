package viewer

import (
	"github.com/spaghettifunk/helios/engine/core"
)

// keyPressed reports a key that went down this frame.
func keyPressed(key core.KeyCode) bool {
	return core.InputIsKeyDown(key) && core.InputWasKeyUp(key)
}

// processCommands handles the one-shot keys: speed presets, camera locks and
// lock cycling. Escape and F11 belong to the engine, not the viewer.
func (g *ViewerGame) processCommands(state *viewerState) {
	presetKeys := [...]core.KeyCode{core.KEY_1, core.KEY_2, core.KEY_3, core.KEY_4, core.KEY_5}
	for i, key := range presetKeys {
		if keyPressed(key) {
			state.simClock.SetPreset(i)
			state.hud.Invalidate()
		}
	}

	if keyPressed(core.KEY_E) {
		g.lockTo(state, "earth")
	}
	if keyPressed(core.KEY_M) {
		g.lockTo(state, "mars")
	}
	if keyPressed(core.KEY_N) {
		state.WorldCamera.Unlock()
		state.hud.Invalidate()
	}
	if keyPressed(core.KEY_TAB) {
		direction := 1
		if core.InputIsKeyDown(core.KEY_LSHIFT) || core.InputIsKeyDown(core.KEY_RSHIFT) {
			direction = -1
		}
		g.cycleLock(state, direction)
	}
}

// lockTo locks the camera onto the named body. Unknown names are ignored, a
// scenario does not have to define the bodies the default bindings expect.
func (g *ViewerGame) lockTo(state *viewerState, name string) {
	body, ok := state.registry.Get(name)
	if !ok {
		core.LogDebug("lock requested for unknown body '%s', ignored", name)
		return
	}
	state.WorldCamera.Lock(name, body.WorldPosition(), body.Radius)
	state.hud.Invalidate()
}

// cycleLock moves the lock to the next or previous body in scenario order,
// wrapping at both ends. From free flight, forward starts at the first body
// and backward at the last.
func (g *ViewerGame) cycleLock(state *viewerState, direction int) {
	count := state.registry.Len()
	if count == 0 {
		return
	}

	next := 0
	index, locked := state.registry.IndexOf(state.WorldCamera.LockTarget())
	switch {
	case !locked && direction < 0:
		next = count - 1
	case locked:
		next = ((index+direction)%count + count) % count
	}

	body := state.registry.Bodies()[next]
	state.WorldCamera.Lock(body.Name, body.WorldPosition(), body.Radius)
	state.hud.Invalidate()
}

// processMovement applies mouse look, scroll and the flight keys. A locked
// camera ignores translation and turns scroll into orbit distance instead of
// field of view, so everything can be applied unconditionally.
func (g *ViewerGame) processMovement(state *viewerState, deltaTime float64) {
	camera := state.WorldCamera

	dx, dy := core.InputGetMouseDelta()
	if dx != 0 || dy != 0 {
		// Screen y grows downwards, camera pitch grows upwards.
		camera.ProcessLook(float32(dx), float32(-dy))
	}
	if scroll := core.InputMouseWheelDelta(); scroll != 0 {
		camera.ProcessScroll(float32(scroll))
	}

	velocity := camera.MoveSpeed(core.InputIsKeyDown(core.KEY_LSHIFT)) * float32(deltaTime)
	if core.InputIsKeyDown(core.KEY_W) {
		camera.MoveForward(velocity)
	}
	if core.InputIsKeyDown(core.KEY_S) {
		camera.MoveBackward(velocity)
	}
	if core.InputIsKeyDown(core.KEY_A) {
		camera.MoveLeft(velocity)
	}
	if core.InputIsKeyDown(core.KEY_D) {
		camera.MoveRight(velocity)
	}
	if core.InputIsKeyDown(core.KEY_SPACE) {
		camera.MoveUp(velocity)
	}
	if core.InputIsKeyDown(core.KEY_X) {
		camera.MoveDown(velocity)
	}
}
