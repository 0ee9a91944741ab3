package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axes shorter than this skip the spin rotation instead of normalizing.
const minAxisLength = 1e-8

// UpdateAll recomputes every body's world matrix for the simulation time t,
// in seconds. The cached order guarantees a child always reads a parent
// position already solved for this frame, never a stale one.
func (r *Registry) UpdateAll(t float64) {
	for _, i := range r.order {
		r.solveBody(r.bodies[i], t)
	}
}

func (r *Registry) solveBody(b *CelestialBody, t float64) {
	// Orbits are flat circles in the XZ plane around the parent position.
	angle := t * float64(b.OrbitSpeed)
	offset := mgl32.Vec3{
		float32(math.Cos(angle)) * b.OrbitRadius,
		0,
		float32(math.Sin(angle)) * b.OrbitRadius,
	}

	centre := mgl32.Vec3{}
	if b.parent != noParent {
		centre = r.bodies[b.parent].WorldPosition()
	}
	position := centre.Add(offset)

	world := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	if axis := b.RotationAxis; axis.Len() > minAxisLength {
		spin := mgl32.HomogRotate3D(float32(t)*b.RotationSpeed, axis.Normalize())
		world = world.Mul4(spin)
	}
	world = world.Mul4(mgl32.Scale3D(b.Radius, b.Radius, b.Radius))

	b.WorldMatrix = world
}
