package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief The types of clearing to be done on a renderpass.
 * Can be combined together for multiple clearing functions.
 */
type RenderpassClearFlag uint32

const (
	/** @brief No clearing should be done. */
	RENDERPASS_CLEAR_NONE_FLAG RenderpassClearFlag = 0x0
	/** @brief Clear the colour buffer. */
	RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG RenderpassClearFlag = 0x1
	/** @brief Clear the depth buffer. */
	RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG RenderpassClearFlag = 0x2
	/** @brief Clear the stencil buffer. */
	RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG RenderpassClearFlag = 0x4
)

type RenderPassConfig struct {
	/** @brief The Name of this renderpass. */
	Name string
	/** @brief The clear colour used for this renderpass. */
	ClearColour mgl32.Vec4
	/** @brief The clear flags for this renderpass. */
	ClearFlags RenderpassClearFlag
	/** @brief The value the depth buffer is cleared to. */
	Depth float32
	/** @brief The value the stencil buffer is cleared to. */
	Stencil uint32
	/** @brief Whether depth testing is active during this pass. */
	DepthTest bool
	/** @brief Whether fragments write the depth buffer during this pass. */
	DepthWrite bool
	/** @brief Whether alpha blending is active during this pass. */
	Blend bool
	/** @brief The face culling mode during this pass. */
	CullMode FaceCullMode
}

/**
 * @brief Represents a generic RenderPass.
 */
type RenderPass struct {
	/** @brief The id of the renderpass */
	ID uint16
	/** @brief The Name of this renderpass. */
	Name string
	/** @brief The current render area of the renderpass. */
	RenderArea mgl32.Vec4
	/** @brief The clear colour used for this renderpass. */
	ClearColour mgl32.Vec4
	/** @brief The clear flags for this renderpass. */
	ClearFlags RenderpassClearFlag
	/** @brief The depth clear value of this renderpass. */
	Depth float32
	/** @brief The stencil clear value of this renderpass. */
	Stencil uint32
	/** @brief Internal renderpass data */
	InternalData interface{}
}

/**
 * @brief A structure which is generated by the application and sent once
 * to the renderer to render a given frame. Consists of any data required,
 * such as delta time and a collection of views to be rendered.
 */
type RenderPacket struct {
	DeltaTime float64
	/** An array of ViewPackets to be rendered. */
	ViewPackets []*RenderViewPacket
}

type GeometryRenderData struct {
	Model    mgl32.Mat4
	Geometry *Geometry
	UniqueID uint32
}
