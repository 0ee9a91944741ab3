package views

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/renderer/components"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type RenderViewWorld struct {
	ShaderID      uint32
	FOV           float32
	NearClip      float32
	FarClip       float32
	Width         uint32
	Height        uint32
	AmbientColour mgl32.Vec4
	WorldCamera   *components.Camera
	// Shader
	Shader *metadata.Shader
}

// geometryDistance pairs a transparent draw with its camera distance so the
// draws can be sorted back to front.
type geometryDistance struct {
	distance   float32
	renderData *metadata.GeometryRenderData
}

func NewRenderViewWorld(shader *metadata.Shader, camera *components.Camera) *RenderViewWorld {
	return &RenderViewWorld{
		ShaderID:    shader.ID,
		Shader:      shader,
		WorldCamera: camera,
	}
}

func (vw *RenderViewWorld) Name() string {
	return "world"
}

func (vw *RenderViewWorld) OnCreate() error {
	vw.NearClip = 0.1
	vw.FarClip = 1000.0
	vw.FOV = components.DefaultZoom
	vw.AmbientColour = mgl32.Vec4{0.1, 0.1, 0.1, 1.0}
	vw.Width = 1280
	vw.Height = 720
	return nil
}

func (vw *RenderViewWorld) OnDestroy() error {
	return nil
}

func (vw *RenderViewWorld) OnResize(width, height uint32) {
	vw.Width = width
	vw.Height = height
}

func (vw *RenderViewWorld) OnBuildPacket(data interface{}) (*metadata.RenderViewPacket, error) {
	worldData, ok := data.(*metadata.WorldPacketData)
	if !ok {
		return nil, fmt.Errorf("world view requires world packet data")
	}

	vw.FOV = vw.WorldCamera.Zoom
	aspect := float32(vw.Width) / float32(vw.Height)
	cameraPosition := vw.WorldCamera.GetPosition()

	packet := &metadata.RenderViewPacket{
		View:             vw,
		ProjectionMatrix: mgl32.Perspective(mgl32.DegToRad(vw.FOV), aspect, vw.NearClip, vw.FarClip),
		ViewMatrix:       vw.WorldCamera.GetView(),
		ViewPosition:     cameraPosition,
		AmbientColour:    vw.AmbientColour,
		Geometries:       []*metadata.GeometryRenderData{},
		ExtendedData:     worldData,
	}

	// Opaque geometries draw first in mesh order. Transparent ones are held
	// back and sorted by distance so the blending stays correct.
	transparent := []*geometryDistance{}
	for _, mesh := range worldData.Meshes {
		if mesh == nil || mesh.Geometry == nil {
			continue
		}
		renderData := &metadata.GeometryRenderData{
			Geometry: mesh.Geometry,
			Model:    mesh.Model,
			UniqueID: mesh.UniqueID,
		}

		hasTransparency := false
		if material := mesh.Geometry.Material; material != nil && material.DiffuseMap != nil && material.DiffuseMap.Texture != nil {
			hasTransparency = (material.DiffuseMap.Texture.Flags & metadata.TextureFlagBits(metadata.TextureFlagHasTransparency)) != 0
		}
		if !hasTransparency {
			packet.Geometries = append(packet.Geometries, renderData)
			continue
		}

		// Bodies are modelled around their local origin, so the model
		// translation is the world position.
		center := mgl32.Vec3{mesh.Model[12], mesh.Model[13], mesh.Model[14]}
		transparent = append(transparent, &geometryDistance{
			distance:   center.Sub(cameraPosition).Len(),
			renderData: renderData,
		})
	}

	sort.Slice(transparent, func(i, j int) bool {
		return transparent[i].distance > transparent[j].distance
	})
	for _, gd := range transparent {
		packet.Geometries = append(packet.Geometries, gd.renderData)
	}

	return packet, nil
}
