package components

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/math"
)

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

const (
	DefaultYaw         float32 = -90.0
	DefaultPitch       float32 = 0.0
	DefaultSpeed       float32 = 5.0
	DefaultSprintSpeed float32 = 15.0
	DefaultSensitivity float32 = 0.1
	DefaultZoom        float32 = 45.0

	// Clamp to avoid Gimbal lock.
	pitchLimit float32 = 89.0

	minZoom float32 = 1.0
	maxZoom float32 = 45.0

	// Locked distances are expressed in multiples of the target radius.
	lockDistanceFactor    float32 = 5.0
	minLockDistanceFactor float32 = 1.5
	maxLockDistanceFactor float32 = 50.0
)

// cameraMode is the state the camera currently operates in. Exactly one of
// the two implementations is active at any time.
type cameraMode interface {
	name() string
}

// freeFly holds the orientation of an unconstrained camera.
type freeFly struct {
	yaw   float32
	pitch float32
}

func (*freeFly) name() string { return "free" }

// orbitLock tethers the camera to a named body at a spherical offset.
type orbitLock struct {
	target   string
	yaw      float32
	pitch    float32
	distance float32
	radius   float32
}

func (*orbitLock) name() string { return "locked" }

/**
 * @brief Represents a camera that can fly freely through the scene or orbit
 * a locked target. Ideally, these are created and managed by the camera
 * system.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly so the view matrix is
	 * recalculated when needed.
	 */
	Position mgl32.Vec3
	/** @brief The normalized direction the camera looks along. */
	Front mgl32.Vec3
	/** @brief The camera's right vector, derived from Front and WorldUp. */
	Right mgl32.Vec3
	/** @brief The camera's up vector, derived from Right and Front. */
	Up mgl32.Vec3
	/** @brief The world up reference used to derive the basis. */
	WorldUp mgl32.Vec3

	/** @brief The field of view in degrees, narrowed by scrolling in free mode. */
	Zoom float32
	/** @brief Movement speed in units per second. */
	Speed float32
	/** @brief Movement speed while sprinting. */
	SprintSpeed float32
	/** @brief Mouse look sensitivity in degrees per screen unit. */
	Sensitivity float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix mgl32.Mat4

	mode cameraMode
	// World position of the locked target, refreshed every UpdateLocked.
	focus mgl32.Vec3
}

type CameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *Camera
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

// Reset puts the camera back at the origin in free mode with all defaults.
func (c *Camera) Reset() {
	c.Position = mgl32.Vec3{}
	c.WorldUp = mgl32.Vec3{0, 1, 0}
	c.Zoom = DefaultZoom
	c.Speed = DefaultSpeed
	c.SprintSpeed = DefaultSprintSpeed
	c.Sensitivity = DefaultSensitivity
	c.mode = &freeFly{yaw: DefaultYaw, pitch: DefaultPitch}
	c.updateVectors()
	c.ViewMatrix = mgl32.Ident4()
	c.IsDirty = true
}

// Mode returns "free" or "locked".
func (c *Camera) Mode() string {
	return c.mode.name()
}

func (c *Camera) Locked() bool {
	_, ok := c.mode.(*orbitLock)
	return ok
}

// LockTarget returns the locked body name, or "" in free mode.
func (c *Camera) LockTarget() string {
	if lock, ok := c.mode.(*orbitLock); ok {
		return lock.target
	}
	return ""
}

// Lock tethers the camera to the named target. The viewing direction is
// preserved: the spherical angles are derived from where the camera sits
// relative to the target right now, only the distance snaps to a multiple
// of the target radius.
func (c *Camera) Lock(target string, targetPosition mgl32.Vec3, radius float32) {
	dir := c.Position.Sub(targetPosition)
	if dir.LenSqr() < 1e-12 {
		// Camera sits inside the target, pick an arbitrary side.
		dir = mgl32.Vec3{0, 0, 1}
	}
	dir = dir.Normalize()

	lock := &orbitLock{
		target:   target,
		yaw:      mgl32.RadToDeg(float32(gomath.Atan2(float64(dir.Z()), float64(dir.X())))),
		pitch:    mgl32.RadToDeg(float32(gomath.Asin(float64(dir.Y())))),
		distance: radius * lockDistanceFactor,
		radius:   radius,
	}
	c.mode = lock
	c.Zoom = DefaultZoom
	c.UpdateLocked(targetPosition)
}

// Unlock releases the tether and keeps the current viewing direction, so
// the free mode angles are derived from the Front vector.
func (c *Camera) Unlock() {
	if !c.Locked() {
		return
	}
	c.mode = &freeFly{
		yaw:   mgl32.RadToDeg(float32(gomath.Atan2(float64(c.Front.Z()), float64(c.Front.X())))),
		pitch: mgl32.RadToDeg(float32(gomath.Asin(float64(c.Front.Y())))),
	}
	c.updateVectors()
	c.IsDirty = true
}

// UpdateLocked repositions the camera on its spherical offset around the
// target's current position. Call once per frame while locked, after the
// scene is solved.
func (c *Camera) UpdateLocked(targetPosition mgl32.Vec3) {
	lock, ok := c.mode.(*orbitLock)
	if !ok {
		return
	}

	yawRad := float64(mgl32.DegToRad(lock.yaw))
	pitchRad := float64(mgl32.DegToRad(lock.pitch))
	offset := mgl32.Vec3{
		float32(gomath.Cos(yawRad) * gomath.Cos(pitchRad)),
		float32(gomath.Sin(pitchRad)),
		float32(gomath.Sin(yawRad) * gomath.Cos(pitchRad)),
	}.Mul(lock.distance)

	c.Position = targetPosition.Add(offset)
	c.focus = targetPosition

	// The basis keeps pointing at the target so an unlock continues
	// looking the same way.
	c.Front = targetPosition.Sub(c.Position).Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
	c.IsDirty = true
}

// ProcessLook applies a mouse delta. dx is positive to the right, dy is
// positive looking up. In free mode the sensitivity shrinks together with
// the zoom for fine aiming, in locked mode it stays constant.
func (c *Camera) ProcessLook(dx, dy float32) {
	switch m := c.mode.(type) {
	case *freeFly:
		scaled := c.Sensitivity * c.zoomFactor()
		m.yaw += dx * scaled
		m.pitch += dy * scaled
		m.pitch = math.Clamp(m.pitch, -pitchLimit, pitchLimit)
		c.updateVectors()
	case *orbitLock:
		m.yaw += dx * c.Sensitivity
		m.pitch -= dy * c.Sensitivity
		m.pitch = math.Clamp(m.pitch, -pitchLimit, pitchLimit)
	}
	c.IsDirty = true
}

// ProcessScroll applies a wheel delta. Free mode narrows the field of view,
// locked mode moves the camera along the tether, faster when far away.
func (c *Camera) ProcessScroll(yoffset float32) {
	switch m := c.mode.(type) {
	case *freeFly:
		c.Zoom -= yoffset
		c.Zoom = math.Clamp(c.Zoom, minZoom, maxZoom)
	case *orbitLock:
		m.distance -= yoffset * 0.5 * (m.distance * 0.1)
		m.distance = math.Clamp(m.distance,
			m.radius*minLockDistanceFactor,
			m.radius*maxLockDistanceFactor)
	}
	c.IsDirty = true
}

// MoveSpeed returns the per second movement speed for this frame. Zooming
// in slows movement down in the same proportion as the look sensitivity.
func (c *Camera) MoveSpeed(sprint bool) float32 {
	speed := c.Speed
	if sprint {
		speed = c.SprintSpeed
	}
	return speed * c.zoomFactor()
}

func (c *Camera) MoveForward(amount float32) {
	if c.Locked() {
		return
	}
	c.Position = c.Position.Add(c.Front.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveBackward(amount float32) {
	if c.Locked() {
		return
	}
	c.Position = c.Position.Sub(c.Front.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveLeft(amount float32) {
	if c.Locked() {
		return
	}
	c.Position = c.Position.Sub(c.Right.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveRight(amount float32) {
	if c.Locked() {
		return
	}
	c.Position = c.Position.Add(c.Right.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveUp(amount float32) {
	if c.Locked() {
		return
	}
	c.Position = c.Position.Add(c.WorldUp.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveDown(amount float32) {
	if c.Locked() {
		return
	}
	c.Position = c.Position.Sub(c.WorldUp.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) GetPosition() mgl32.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position mgl32.Vec3) {
	if c.Locked() {
		return
	}
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) GetView() mgl32.Mat4 {
	if c.IsDirty {
		if c.Locked() {
			c.ViewMatrix = mgl32.LookAtV(c.Position, c.focus, c.WorldUp)
		} else {
			c.ViewMatrix = mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
		}
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// zoomFactor maps the zoom onto [0.1, 1] so a narrow field of view slows
// both looking and moving.
func (c *Camera) zoomFactor() float32 {
	return math.Clamp(c.Zoom/maxZoom, 0.1, 1.0)
}

func (c *Camera) updateVectors() {
	fly, ok := c.mode.(*freeFly)
	if !ok {
		return
	}
	yawRad := float64(mgl32.DegToRad(fly.yaw))
	pitchRad := float64(mgl32.DegToRad(fly.pitch))
	front := mgl32.Vec3{
		float32(gomath.Cos(yawRad) * gomath.Cos(pitchRad)),
		float32(gomath.Sin(pitchRad)),
		float32(gomath.Sin(yawRad) * gomath.Cos(pitchRad)),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
