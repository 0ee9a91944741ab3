package opengl

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/math"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

/**
 * @brief GPU-side state for one uploaded geometry.
 */
type OpenGLGeometry struct {
	/** @brief The internal geometry id, also stored on the metadata geometry. */
	ID uint32

	/** @brief Incremented every time the vertex data is re-uploaded. */
	Generation  uint32
	VAO         uint32
	VBO         uint32
	EBO         uint32
	VertexCount int32
	IndexCount  int32
}

func (gr *OpenGLRenderer) CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) bool {
	if len(config.Vertices) == 0 && len(config.Vertices2D) == 0 {
		core.LogError("func CreateGeometry called with no vertex data for %s", config.Name)
		return false
	}

	internal := &OpenGLGeometry{
		ID: gr.nextGeometryID,
	}

	gl.GenVertexArrays(1, &internal.VAO)
	gl.GenBuffers(1, &internal.VBO)
	gl.BindVertexArray(internal.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, internal.VBO)

	if len(config.Vertices) > 0 {
		data := flattenVertices3D(config.Vertices)
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

		stride := int32(math.Vertex3DFloats * 4)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
		gl.EnableVertexAttribArray(2)
		gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
		internal.VertexCount = int32(len(config.Vertices))
	} else {
		data := flattenVertices2D(config.Vertices2D)
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

		stride := int32(math.Vertex2DFloats * 4)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
		internal.VertexCount = int32(len(config.Vertices2D))
	}

	if len(config.Indices) > 0 {
		gl.GenBuffers(1, &internal.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, internal.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(config.Indices)*4, gl.Ptr(config.Indices), gl.STATIC_DRAW)
		internal.IndexCount = int32(len(config.Indices))
	}

	gl.BindVertexArray(0)

	gr.geometries[internal.ID] = internal
	gr.nextGeometryID++

	geometry.InternalID = internal.ID
	geometry.Generation = internal.Generation

	return true
}

func (gr *OpenGLRenderer) DestroyGeometry(geometry *metadata.Geometry) {
	if geometry == nil || geometry.InternalID == metadata.InvalidID {
		return
	}
	internal, ok := gr.geometries[geometry.InternalID]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &internal.VAO)
	gl.DeleteBuffers(1, &internal.VBO)
	if internal.EBO != 0 {
		gl.DeleteBuffers(1, &internal.EBO)
	}
	delete(gr.geometries, geometry.InternalID)
	geometry.InternalID = metadata.InvalidID
	geometry.Generation = metadata.InvalidID
}

func (gr *OpenGLRenderer) DrawGeometry(data *metadata.GeometryRenderData) {
	if data.Geometry == nil || data.Geometry.InternalID == metadata.InvalidID {
		return
	}
	internal, ok := gr.geometries[data.Geometry.InternalID]
	if !ok {
		return
	}
	gl.BindVertexArray(internal.VAO)
	if internal.IndexCount > 0 {
		gl.DrawElements(gl.TRIANGLES, internal.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, internal.VertexCount)
	}
	gl.BindVertexArray(0)
}

// flattenVertices3D interleaves position, normal and texcoord the way the
// vertex attribute layout expects them.
func flattenVertices3D(vertices []math.Vertex3D) []float32 {
	out := make([]float32, 0, len(vertices)*math.Vertex3DFloats)
	for _, v := range vertices {
		out = append(out,
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
			v.Texcoord.X(), v.Texcoord.Y(),
		)
	}
	return out
}

func flattenVertices2D(vertices []math.Vertex2D) []float32 {
	out := make([]float32, 0, len(vertices)*math.Vertex2DFloats)
	for _, v := range vertices {
		out = append(out,
			v.Position.X(), v.Position.Y(),
			v.Texcoord.X(), v.Texcoord.Y(),
		)
	}
	return out
}
