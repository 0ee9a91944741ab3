package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
)

/** @brief Known render view types, which have logic associated with them. */
type RenderViewKnownType int

const (
	/** @brief A view which only renders objects with *no* transparency. */
	RENDERER_VIEW_KNOWN_TYPE_WORLD RenderViewKnownType = 0x01
	/** @brief A view which only renders ui objects. */
	RENDERER_VIEW_KNOWN_TYPE_UI RenderViewKnownType = 0x02
	/** @brief A view which only renders skybox objects. */
	RENDERER_VIEW_KNOWN_TYPE_SKYBOX RenderViewKnownType = 0x03
)

/**
 * @brief A render view instance, responsible for the generation of view
 * packets based on internal logic and given config. Views hold no GPU
 * state; the render view system submits their packets to the backend.
 */
type IRenderView interface {
	/** @brief Called when this view is created. Resolves shaders and passes. */
	OnCreate() error
	/** @brief Called when this view is destroyed. */
	OnDestroy() error
	/** @brief Called when the owner of this view (such as the window) is resized. */
	OnResize(width, height uint32)
	/** @brief Builds a render view packet using the provided view and freeform data. */
	OnBuildPacket(data interface{}) (*RenderViewPacket, error)
	/** @brief The unique name of this view. */
	Name() string
}

/**
 * @brief A packet for and generated by a render view, which contains
 * data about what is to be rendered.
 */
type RenderViewPacket struct {
	/** @brief The view this packet is associated with. */
	View IRenderView
	/** @brief The current view matrix. */
	ViewMatrix mgl32.Mat4
	/** @brief The current projection matrix. */
	ProjectionMatrix mgl32.Mat4
	/** @brief The current view position, if applicable. */
	ViewPosition mgl32.Vec3
	/** @brief The current scene ambient colour, if applicable. */
	AmbientColour mgl32.Vec4
	/** @brief The Geometries to be drawn. */
	Geometries []*GeometryRenderData
	/** @brief Holds a pointer to freeform data, typically understood both by the object and consuming view. */
	ExtendedData interface{}
}

type MeshPacketData struct {
	Meshes []*Mesh
}

// Everything the world view needs for one frame of lit geometry.
type WorldPacketData struct {
	Meshes        []*Mesh
	LightPosition mgl32.Vec3
	LightColour   mgl32.Vec3
}

type UIPacketData struct {
	MeshData *MeshPacketData
	Texts    []*UIText
}

type SkyboxPacketData struct {
	Skybox *Skybox
}
