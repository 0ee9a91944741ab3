package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	camera := NewCamera()

	assert.Equal(t, "free", camera.Mode())
	assert.False(t, camera.Locked())
	assert.Equal(t, "", camera.LockTarget())
	assert.Equal(t, DefaultZoom, camera.Zoom)
	assert.Equal(t, DefaultSpeed, camera.Speed)
	assert.Equal(t, DefaultSprintSpeed, camera.SprintSpeed)
	assert.Equal(t, DefaultSensitivity, camera.Sensitivity)

	// Yaw -90 looks down the negative Z axis.
	assert.InDelta(t, 0, camera.Front.X(), 1e-5)
	assert.InDelta(t, 0, camera.Front.Y(), 1e-5)
	assert.InDelta(t, -1, camera.Front.Z(), 1e-5)
}

func TestLockSnapsDistanceAndKeepsDirection(t *testing.T) {
	camera := NewCamera()
	camera.SetPosition(mgl32.Vec3{0, 5, 20})

	target := mgl32.Vec3{10, 0, 0}
	camera.Lock("earth", target, 0.5)

	assert.True(t, camera.Locked())
	assert.Equal(t, "locked", camera.Mode())
	assert.Equal(t, "earth", camera.LockTarget())

	// The camera snaps onto the tether along its current bearing.
	offset := camera.GetPosition().Sub(target)
	assert.InDelta(t, 0.5*5, offset.Len(), 1e-3)

	expected := mgl32.Vec3{-10, 5, 20}.Normalize().Mul(2.5)
	assert.InDelta(t, expected.X(), offset.X(), 1e-2)
	assert.InDelta(t, expected.Y(), offset.Y(), 1e-2)
	assert.InDelta(t, expected.Z(), offset.Z(), 1e-2)

	// Locking always restores the default field of view.
	camera.Unlock()
	camera.ProcessScroll(30)
	assert.InDelta(t, 15, camera.Zoom, 1e-5)
	camera.Lock("earth", target, 0.5)
	assert.Equal(t, DefaultZoom, camera.Zoom)
}

func TestLockFromInsideTarget(t *testing.T) {
	camera := NewCamera()
	target := mgl32.Vec3{3, 1, -2}
	camera.SetPosition(target)

	camera.Lock("sun", target, 2)

	// Degenerate direction falls back to +Z at the snap distance.
	offset := camera.GetPosition().Sub(target)
	assert.InDelta(t, 0, offset.X(), 1e-4)
	assert.InDelta(t, 0, offset.Y(), 1e-4)
	assert.InDelta(t, 10, offset.Z(), 1e-4)
}

func TestUnlockKeepsViewDirection(t *testing.T) {
	camera := NewCamera()
	camera.SetPosition(mgl32.Vec3{0, 5, 20})
	camera.Lock("earth", mgl32.Vec3{10, 0, 0}, 0.5)

	front := camera.Front
	camera.Unlock()

	assert.False(t, camera.Locked())
	assert.Equal(t, "", camera.LockTarget())
	assert.InDelta(t, front.X(), camera.Front.X(), 1e-3)
	assert.InDelta(t, front.Y(), camera.Front.Y(), 1e-3)
	assert.InDelta(t, front.Z(), camera.Front.Z(), 1e-3)

	// Unlocking twice is harmless.
	camera.Unlock()
	assert.False(t, camera.Locked())
}

func TestMovementIgnoredWhileLocked(t *testing.T) {
	camera := NewCamera()
	camera.Lock("earth", mgl32.Vec3{10, 0, 0}, 0.5)
	position := camera.GetPosition()

	camera.MoveForward(5)
	camera.MoveBackward(5)
	camera.MoveLeft(5)
	camera.MoveRight(5)
	camera.MoveUp(5)
	camera.MoveDown(5)
	camera.SetPosition(mgl32.Vec3{99, 99, 99})

	assert.Equal(t, position, camera.GetPosition())
}

func TestUpdateLockedFollowsTarget(t *testing.T) {
	camera := NewCamera()
	camera.SetPosition(mgl32.Vec3{0, 5, 20})
	camera.Lock("earth", mgl32.Vec3{10, 0, 0}, 0.5)
	distance := camera.GetPosition().Sub(mgl32.Vec3{10, 0, 0}).Len()

	moved := mgl32.Vec3{0, 0, 10}
	camera.UpdateLocked(moved)

	// Same tether, new centre.
	assert.InDelta(t, distance, camera.GetPosition().Sub(moved).Len(), 1e-3)

	// The camera keeps facing the target.
	lookDir := moved.Sub(camera.GetPosition()).Normalize()
	assert.InDelta(t, lookDir.X(), camera.Front.X(), 1e-4)
	assert.InDelta(t, lookDir.Y(), camera.Front.Y(), 1e-4)
	assert.InDelta(t, lookDir.Z(), camera.Front.Z(), 1e-4)
}

func TestProcessLookClampsPitch(t *testing.T) {
	camera := NewCamera()
	camera.ProcessLook(0, 1e6)

	// Pitch stops short of straight up, so Front never degenerates.
	assert.InDelta(t, 0.99985, camera.Front.Y(), 1e-3)
	assert.Less(t, camera.Front.Y(), float32(1.0))

	camera.ProcessLook(0, -1e6)
	assert.InDelta(t, -0.99985, camera.Front.Y(), 1e-3)
}

func TestProcessLookTurnsCamera(t *testing.T) {
	camera := NewCamera()

	// 900 screen units at sensitivity 0.1 is a 90 degree turn, from -Z
	// around to +X.
	camera.ProcessLook(900, 0)
	assert.InDelta(t, 1, camera.Front.X(), 1e-4)
	assert.InDelta(t, 0, camera.Front.Z(), 1e-3)
}

func TestProcessScrollClampsZoom(t *testing.T) {
	camera := NewCamera()

	camera.ProcessScroll(5)
	assert.InDelta(t, 40, camera.Zoom, 1e-5)

	camera.ProcessScroll(1000)
	assert.Equal(t, float32(1), camera.Zoom)

	camera.ProcessScroll(-1000)
	assert.Equal(t, float32(45), camera.Zoom)
}

func TestProcessScrollMovesAlongTether(t *testing.T) {
	camera := NewCamera()
	target := mgl32.Vec3{0, 0, 0}
	camera.SetPosition(mgl32.Vec3{0, 0, 10})
	camera.Lock("sun", target, 1)
	require.InDelta(t, 5, camera.GetPosition().Sub(target).Len(), 1e-4)

	// Scrolling in closes 5% of the distance per step.
	camera.ProcessScroll(1)
	camera.UpdateLocked(target)
	assert.InDelta(t, 4.75, camera.GetPosition().Sub(target).Len(), 1e-3)

	camera.ProcessScroll(1e6)
	camera.UpdateLocked(target)
	assert.InDelta(t, 1.5, camera.GetPosition().Sub(target).Len(), 1e-3)

	camera.ProcessScroll(-1e6)
	camera.UpdateLocked(target)
	assert.InDelta(t, 50, camera.GetPosition().Sub(target).Len(), 1e-2)
}

func TestMoveSpeedScalesWithSprintAndZoom(t *testing.T) {
	camera := NewCamera()
	assert.InDelta(t, 5, camera.MoveSpeed(false), 1e-5)
	assert.InDelta(t, 15, camera.MoveSpeed(true), 1e-5)

	// Fully zoomed in, movement slows to a tenth for fine positioning.
	camera.Zoom = 4.5
	assert.InDelta(t, 0.5, camera.MoveSpeed(false), 1e-5)
	assert.InDelta(t, 1.5, camera.MoveSpeed(true), 1e-5)
}

func TestFreeFlyMovement(t *testing.T) {
	camera := NewCamera()

	camera.MoveForward(2)
	camera.MoveRight(3)
	camera.MoveUp(1)

	position := camera.GetPosition()
	assert.InDelta(t, 3, position.X(), 1e-4)
	assert.InDelta(t, 1, position.Y(), 1e-4)
	assert.InDelta(t, -2, position.Z(), 1e-4)

	camera.MoveBackward(2)
	camera.MoveLeft(3)
	camera.MoveDown(1)
	position = camera.GetPosition()
	assert.InDelta(t, 0, position.Len(), 1e-4)
}

func TestGetViewLooksAtLockTarget(t *testing.T) {
	camera := NewCamera()
	camera.SetPosition(mgl32.Vec3{0, 5, 20})
	target := mgl32.Vec3{10, 0, 0}
	camera.Lock("earth", target, 2)

	view := camera.GetView()
	eye := view.Mul4x1(target.Vec4(1))

	// The locked target sits straight ahead in eye space.
	distance := camera.GetPosition().Sub(target).Len()
	assert.InDelta(t, 0, eye.X(), 1e-3)
	assert.InDelta(t, 0, eye.Y(), 1e-3)
	assert.InDelta(t, -distance, eye.Z(), 1e-3)
}
