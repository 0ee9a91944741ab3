package math

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief Represents a single vertex in 3D space.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position mgl32.Vec3
	/** @brief The normal of the vertex. */
	Normal mgl32.Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord mgl32.Vec2
}

/**
 * @brief Represents a single vertex in 2D space.
 */
type Vertex2D struct {
	/** @brief The position of the vertex */
	Position mgl32.Vec2
	/** @brief The texture coordinate of the vertex. */
	Texcoord mgl32.Vec2
}

// Number of float32 components in a Vertex3D, used for buffer strides.
const Vertex3DFloats = 8

// Number of float32 components in a Vertex2D.
const Vertex2DFloats = 4
