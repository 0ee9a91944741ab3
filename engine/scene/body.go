package scene

import "github.com/go-gl/mathgl/mgl32"

const noParent = -1

// CelestialBody is a single body of a scenario hierarchy. Orbit and spin
// parameters are fixed at load time, the world matrix is rewritten by the
// registry on every solve.
type CelestialBody struct {
	Name          string
	Radius        float32
	TexturePath   string
	Emissive      bool
	OrbitRadius   float32
	OrbitSpeed    float32
	RotationSpeed float32
	RotationAxis  mgl32.Vec3
	ParentName    string

	WorldMatrix mgl32.Mat4

	// Index of the resolved parent body, noParent for roots.
	parent int
}

// WorldPosition returns the translation component of the body's world
// matrix. Children orbit around this point, ignoring the parent's spin
// and scale.
func (b *CelestialBody) WorldPosition() mgl32.Vec3 {
	return b.WorldMatrix.Col(3).Vec3()
}

// Scenario is a fully parsed scene description, ready to be handed to a
// registry.
type Scenario struct {
	Name           string
	Bodies         []*CelestialBody
	CameraPosition mgl32.Vec3
	LightPosition  mgl32.Vec3
	LightColour    mgl32.Vec3
}
