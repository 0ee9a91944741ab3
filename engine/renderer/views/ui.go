package views

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type RenderViewUI struct {
	ShaderID uint32
	NearClip float32
	FarClip  float32
	Width    uint32
	Height   uint32
	// ProjectionMatrix maps screen pixels with the origin at the top left.
	ProjectionMatrix mgl32.Mat4
	ViewMatrix       mgl32.Mat4
	// Shader
	Shader *metadata.Shader
}

func NewRenderViewUI(shader *metadata.Shader) *RenderViewUI {
	return &RenderViewUI{
		ShaderID: shader.ID,
		Shader:   shader,
	}
}

func (vu *RenderViewUI) Name() string {
	return "ui"
}

func (vu *RenderViewUI) OnCreate() error {
	vu.NearClip = -100.0
	vu.FarClip = 100.0
	vu.ViewMatrix = mgl32.Ident4()
	vu.OnResize(1280, 720)
	return nil
}

func (vu *RenderViewUI) OnDestroy() error {
	return nil
}

func (vu *RenderViewUI) OnResize(width, height uint32) {
	vu.Width = width
	vu.Height = height
	vu.ProjectionMatrix = mgl32.Ortho(0.0, float32(width), float32(height), 0.0, vu.NearClip, vu.FarClip)
}

func (vu *RenderViewUI) OnBuildPacket(data interface{}) (*metadata.RenderViewPacket, error) {
	uiData, ok := data.(*metadata.UIPacketData)
	if !ok {
		return nil, fmt.Errorf("ui view requires ui packet data")
	}

	packet := &metadata.RenderViewPacket{
		View:             vu,
		ProjectionMatrix: vu.ProjectionMatrix,
		ViewMatrix:       vu.ViewMatrix,
		Geometries:       []*metadata.GeometryRenderData{},
		ExtendedData:     uiData,
	}

	if uiData.MeshData != nil {
		for _, mesh := range uiData.MeshData.Meshes {
			if mesh == nil || mesh.Geometry == nil {
				continue
			}
			packet.Geometries = append(packet.Geometries, &metadata.GeometryRenderData{
				Geometry: mesh.Geometry,
				Model:    mesh.Model,
				UniqueID: mesh.UniqueID,
			})
		}
	}

	return packet, nil
}
