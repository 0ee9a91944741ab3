package metadata

import (
	"github.com/spaghettifunk/helios/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/**
 * @brief Represents the configuration for a geometry.
 * Exactly one of Vertices or Vertices2D is populated.
 */
type GeometryConfig struct {
	/** @brief An array of 3D vertices. */
	Vertices []math.Vertex3D
	/** @brief An array of 2D vertices, used by UI geometry. */
	Vertices2D []math.Vertex2D
	/** @brief An array of Indices. */
	Indices []uint32

	/** @brief The Name of the geometry. */
	Name string
	/** @brief The name of the material used by the geometry. */
	MaterialName string
}

type GeometryReference struct {
	ReferenceCount uint64
	Geometry       *Geometry
	AutoRelease    bool
}

/**
 * @brief Represents actual geometry in the world.
 * Typically (but not always, depending on use) paired with a material.
 */
type Geometry struct {
	/** @brief The geometry identifier. */
	ID uint32
	/** @brief The internal geometry identifier, used by the renderer backend to map to internal resources. */
	InternalID uint32
	/** @brief The geometry generation. Incremented every time the geometry changes. */
	Generation uint16
	/** @brief The geometry name. */
	Name string
	/** @brief A pointer to the material associated with this geometry. */
	Material *Material
}
