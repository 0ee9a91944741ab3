package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh pairs a geometry with the model matrix it is drawn with. The owner
// rewrites Model every frame before the render packet is built.
type Mesh struct {
	UniqueID   uint32
	Name       string
	Generation uint8
	Geometry   *Geometry
	Model      mgl32.Mat4
}
