package views

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/renderer/components"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type RenderViewSkybox struct {
	ShaderID uint32
	FOV      float32
	NearClip float32
	FarClip  float32
	Width    uint32
	Height   uint32
	// WorldCamera supplies the orientation; the translation is stripped so
	// the sky never moves.
	WorldCamera *components.Camera
	// Shader
	Shader *metadata.Shader
}

func NewRenderViewSkybox(shader *metadata.Shader, camera *components.Camera) *RenderViewSkybox {
	return &RenderViewSkybox{
		ShaderID:    shader.ID,
		Shader:      shader,
		WorldCamera: camera,
	}
}

func (vs *RenderViewSkybox) Name() string {
	return "skybox"
}

func (vs *RenderViewSkybox) OnCreate() error {
	vs.NearClip = 0.1
	vs.FarClip = 1000.0
	vs.FOV = components.DefaultZoom
	vs.Width = 1280
	vs.Height = 720
	return nil
}

func (vs *RenderViewSkybox) OnDestroy() error {
	return nil
}

func (vs *RenderViewSkybox) OnResize(width, height uint32) {
	vs.Width = width
	vs.Height = height
}

func (vs *RenderViewSkybox) OnBuildPacket(data interface{}) (*metadata.RenderViewPacket, error) {
	skyboxData, ok := data.(*metadata.SkyboxPacketData)
	if !ok {
		return nil, fmt.Errorf("skybox view requires skybox packet data")
	}

	// The camera zoom narrows the sky together with the scene.
	vs.FOV = vs.WorldCamera.Zoom
	aspect := float32(vs.Width) / float32(vs.Height)

	// Zero out the translation so the skybox stays put on screen.
	viewMatrix := vs.WorldCamera.GetView()
	viewMatrix[12] = 0.0
	viewMatrix[13] = 0.0
	viewMatrix[14] = 0.0

	return &metadata.RenderViewPacket{
		View:             vs,
		ProjectionMatrix: mgl32.Perspective(mgl32.DegToRad(vs.FOV), aspect, vs.NearClip, vs.FarClip),
		ViewMatrix:       viewMatrix,
		ViewPosition:     vs.WorldCamera.GetPosition(),
		ExtendedData:     skyboxData,
	}, nil
}
