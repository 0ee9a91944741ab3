package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveRootBodyAtTimeZero(t *testing.T) {
	registry, err := NewRegistry([]*CelestialBody{
		{Name: "earth", Radius: 0.5, OrbitRadius: 10, OrbitSpeed: 0.2},
	})
	require.NoError(t, err)

	registry.UpdateAll(0)
	earth, _ := registry.Get("earth")
	position := earth.WorldPosition()
	assert.InDelta(t, 10, position.X(), 1e-5)
	assert.InDelta(t, 0, position.Y(), 1e-5)
	assert.InDelta(t, 0, position.Z(), 1e-5)
}

func TestSolveOrbitStaysInXZPlane(t *testing.T) {
	registry, err := NewRegistry([]*CelestialBody{
		{Name: "earth", Radius: 0.5, OrbitRadius: 10, OrbitSpeed: 0.2},
	})
	require.NoError(t, err)
	earth, _ := registry.Get("earth")

	// A quarter orbit: angle = t * speed = pi/2.
	quarter := math.Pi / 2 / 0.2
	registry.UpdateAll(quarter)
	position := earth.WorldPosition()
	assert.InDelta(t, 0, position.X(), 1e-3)
	assert.InDelta(t, 0, position.Y(), 1e-5)
	assert.InDelta(t, 10, position.Z(), 1e-3)

	for _, tick := range []float64{0.3, 1.7, 12.5, 400} {
		registry.UpdateAll(tick)
		p := earth.WorldPosition()
		assert.InDelta(t, 0, p.Y(), 1e-4, "orbit left the XZ plane at t=%g", tick)
		radius := mgl32.Vec2{p.X(), p.Z()}.Len()
		assert.InDelta(t, 10, radius, 1e-3, "orbit radius drifted at t=%g", tick)
	}
}

func TestSolveOrbitIsPeriodic(t *testing.T) {
	registry, err := NewRegistry([]*CelestialBody{
		{Name: "earth", Radius: 0.5, OrbitRadius: 10, OrbitSpeed: 0.2},
	})
	require.NoError(t, err)
	earth, _ := registry.Get("earth")

	period := 2 * math.Pi / 0.2
	for _, tick := range []float64{0, 1.3, 7.9} {
		registry.UpdateAll(tick)
		before := earth.WorldPosition()
		registry.UpdateAll(tick + period)
		after := earth.WorldPosition()
		assert.InDelta(t, 0, after.Sub(before).Len(), 1e-4,
			"one full period did not return the body to t=%g", tick)
	}
}

func TestSolveChildOrbitsParentPosition(t *testing.T) {
	registry, err := NewRegistry(solBodies())
	require.NoError(t, err)

	registry.UpdateAll(0)
	earth, _ := registry.Get("earth")
	moon, _ := registry.Get("moon")

	// At t=0 every orbit angle is zero, so positions stack along +X.
	assert.InDelta(t, 10, earth.WorldPosition().X(), 1e-5)
	assert.InDelta(t, 11.5, moon.WorldPosition().X(), 1e-5)

	// The moon stays within its orbit radius of wherever the earth is.
	for _, tick := range []float64{0.5, 3, 42} {
		registry.UpdateAll(tick)
		distance := moon.WorldPosition().Sub(earth.WorldPosition()).Len()
		assert.InDelta(t, 1.5, distance, 1e-3, "moon drifted at t=%g", tick)
	}
}

func TestSolveChildIgnoresParentSpinAndScale(t *testing.T) {
	build := func(spin float32) *Registry {
		registry, err := NewRegistry([]*CelestialBody{
			{Name: "sun", Radius: 5, RotationSpeed: spin, RotationAxis: mgl32.Vec3{0, 1, 0}},
			{Name: "earth", Radius: 0.5, ParentName: "sun", OrbitRadius: 10, OrbitSpeed: 0.2},
		})
		require.NoError(t, err)
		return registry
	}

	spinning := build(123)
	still := build(0)
	spinning.UpdateAll(7.3)
	still.UpdateAll(7.3)

	a, _ := spinning.Get("earth")
	b, _ := still.Get("earth")
	assert.InDelta(t, 0, a.WorldPosition().Sub(b.WorldPosition()).Len(), 1e-5,
		"parent spin leaked into the child position")
}

func TestSolveBakesRadiusIntoWorldMatrix(t *testing.T) {
	registry, err := NewRegistry([]*CelestialBody{
		{Name: "sun", Radius: 2},
	})
	require.NoError(t, err)

	registry.UpdateAll(0)
	sun, _ := registry.Get("sun")

	// A unit sphere vertex at (1,0,0) must land on the surface.
	surface := sun.WorldMatrix.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 2, surface.X(), 1e-5)
	assert.InDelta(t, 0, surface.Y(), 1e-5)
	assert.InDelta(t, 0, surface.Z(), 1e-5)
	assert.InDelta(t, 1, surface.W(), 1e-5)
}

func TestSolveZeroAxisSkipsSpin(t *testing.T) {
	registry, err := NewRegistry([]*CelestialBody{
		{Name: "moon", Radius: 0.15, OrbitRadius: 1.5, RotationSpeed: 5},
	})
	require.NoError(t, err)

	registry.UpdateAll(9.9)
	moon, _ := registry.Get("moon")

	// With no spin the matrix is translation times scale, so a +X unit
	// vertex stays on the +X side of the body.
	position := moon.WorldPosition()
	surface := moon.WorldMatrix.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	offset := surface.Sub(position)
	assert.InDelta(t, 0.15, offset.X(), 1e-5)
	assert.InDelta(t, 0, offset.Y(), 1e-5)
	assert.InDelta(t, 0, offset.Z(), 1e-5)
}

func TestSolveSpinsAroundAxis(t *testing.T) {
	// Half a turn around +Y: t * speed = pi.
	registry, err := NewRegistry([]*CelestialBody{
		{Name: "earth", Radius: 1, RotationSpeed: 1, RotationAxis: mgl32.Vec3{0, 1, 0}},
	})
	require.NoError(t, err)

	registry.UpdateAll(math.Pi)
	earth, _ := registry.Get("earth")
	surface := earth.WorldMatrix.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.InDelta(t, -1, surface.X(), 1e-4)
	assert.InDelta(t, 0, surface.Z(), 1e-4)
}

func TestWorldPositionMatchesTranslationColumn(t *testing.T) {
	registry, err := NewRegistry([]*CelestialBody{
		{Name: "mars", Radius: 0.3, OrbitRadius: 15, OrbitSpeed: 0.15,
			RotationSpeed: 0.9, RotationAxis: mgl32.Vec3{0, 1, 0}},
	})
	require.NoError(t, err)

	registry.UpdateAll(2.5)
	mars, _ := registry.Get("mars")

	angle := 2.5 * 0.15
	assert.InDelta(t, 15*math.Cos(angle), mars.WorldPosition().X(), 1e-3)
	assert.InDelta(t, 15*math.Sin(angle), mars.WorldPosition().Z(), 1e-3)
}
