package systems

import (
	"fmt"

	mgl32 "github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/helios/engine/assets"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/platform"
	"github.com/spaghettifunk/helios/engine/renderer"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/renderer/opengl"
)

const (
	SkyboxRenderPassName string = "Renderpass.Builtin.Skybox"
	WorldRenderPassName  string = "Renderpass.Builtin.World"
	UIRenderPassName     string = "Renderpass.Builtin.UI"
)

// RendererSystem owns the backend and the builtin renderpasses, and drives
// the per-frame begin/views/end sequence.
type RendererSystem struct {
	backend      renderer.RendererBackend
	assetManager *assets.AssetManager

	// application
	AppName   string
	AppWidth  uint32
	AppHeight uint32

	// engine specific
	Platform *platform.Platform

	SkyboxShaderID uint32
	WorldShaderID  uint32
	UIShaderID     uint32

	// The current window framebuffer width.
	FramebufferWidth uint32
	// The current window framebuffer height.
	FramebufferHeight uint32

	// A pointer to the skybox renderpass, cleared first each frame.
	SkyboxRenderPass *metadata.RenderPass
	// A pointer to the world renderpass.
	WorldRenderPass *metadata.RenderPass
	// A pointer to the UI renderpass, drawn last with blending.
	UIRenderPass *metadata.RenderPass

	// The number of frames rendered since startup.
	FrameNumber uint64

	// A window resize waiting to be applied on the frame loop thread.
	resizePending bool
}

func NewRendererSystem(rendererType renderer.RendererType, appName string, appWidth, appHeight uint32, p *platform.Platform, am *assets.AssetManager) (*RendererSystem, error) {
	r := &RendererSystem{
		assetManager: am,
		AppName:      appName,
		AppWidth:     appWidth,
		AppHeight:    appHeight,
		Platform:     p,
	}
	switch rendererType {
	case renderer.OpenGL:
		r.backend = opengl.New(p)
	default:
		err := fmt.Errorf("renderer type %d is not supported", rendererType)
		core.LogError(err.Error())
		return nil, err
	}
	return r, nil
}

func (r *RendererSystem) Initialize(shaderSystem *ShaderSystem) error {
	// The real framebuffer size can differ from the requested window size
	// on high-DPI displays.
	fbWidth, fbHeight := r.Platform.FramebufferSize()
	r.FramebufferWidth = uint32(fbWidth)
	r.FramebufferHeight = uint32(fbHeight)
	r.FrameNumber = 0

	if err := r.backend.Initialize(r.AppName, r.FramebufferWidth, r.FramebufferHeight); err != nil {
		return err
	}

	passConfigs := []*metadata.RenderPassConfig{
		{
			Name:        SkyboxRenderPassName,
			ClearColour: mgl32.Vec4{0.0, 0.0, 0.02, 1.0},
			ClearFlags:  metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG | metadata.RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG,
			Depth:       1.0,
			DepthTest:   true,
			DepthWrite:  false,
			CullMode:    metadata.FaceCullModeNone,
		},
		{
			Name:       WorldRenderPassName,
			ClearFlags: metadata.RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG | metadata.RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG,
			Depth:      1.0,
			DepthTest:  true,
			DepthWrite: true,
			CullMode:   metadata.FaceCullModeBack,
		},
		{
			Name:       UIRenderPassName,
			ClearFlags: metadata.RENDERPASS_CLEAR_NONE_FLAG,
			Blend:      true,
			CullMode:   metadata.FaceCullModeNone,
		},
	}
	for _, config := range passConfigs {
		if _, err := r.backend.RenderPassCreate(config); err != nil {
			return err
		}
	}

	r.SkyboxRenderPass = r.backend.RenderPassGet(SkyboxRenderPassName)
	r.WorldRenderPass = r.backend.RenderPassGet(WorldRenderPassName)
	r.UIRenderPass = r.backend.RenderPassGet(UIRenderPassName)

	// Builtin shaders.
	builtins := []struct {
		name string
		out  *uint32
	}{
		{metadata.BUILTIN_SHADER_NAME_SKYBOX, &r.SkyboxShaderID},
		{metadata.BUILTIN_SHADER_NAME_WORLD, &r.WorldShaderID},
		{metadata.BUILTIN_SHADER_NAME_UI, &r.UIShaderID},
	}
	for _, builtin := range builtins {
		configResource, err := r.assetManager.LoadAsset(builtin.name, metadata.ResourceTypeShader, nil)
		if err != nil {
			core.LogError("failed to load builtin shader %s", builtin.name)
			return err
		}
		config, ok := configResource.Data.(*metadata.ShaderConfig)
		if !ok {
			return fmt.Errorf("shader resource %s did not contain a shader config", builtin.name)
		}
		shader, err := shaderSystem.CreateShader(config)
		if err != nil {
			core.LogError("failed to create builtin shader %s", builtin.name)
			return err
		}
		*builtin.out = shader.ID
		r.assetManager.UnloadAsset(configResource)
	}

	return nil
}

func (r *RendererSystem) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *RendererSystem) BeginFrame(deltaTime float64) error {
	return r.backend.BeginFrame(deltaTime)
}

func (r *RendererSystem) EndFrame(deltaTime float64) error {
	return r.backend.EndFrame(deltaTime)
}

// OnResize stores the new framebuffer size. The backend update is deferred
// to the next DrawFrame so the GL calls stay on the frame loop thread.
func (r *RendererSystem) OnResize(width, height uint16) error {
	r.FramebufferWidth = uint32(width)
	r.FramebufferHeight = uint32(height)
	r.resizePending = true
	return nil
}

func (r *RendererSystem) DrawFrame(packet *metadata.RenderPacket, renderViewSystem *RenderViewSystem) error {
	r.FrameNumber++

	if r.resizePending {
		if err := r.backend.Resized(uint16(r.FramebufferWidth), uint16(r.FramebufferHeight)); err != nil {
			return err
		}
		renderViewSystem.OnWindowResize(r.FramebufferWidth, r.FramebufferHeight)
		r.resizePending = false
	}

	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}

	// Render each view in packet order.
	for i := 0; i < len(packet.ViewPackets); i++ {
		viewPacket := packet.ViewPackets[i]
		if err := renderViewSystem.OnRender(viewPacket); err != nil {
			err := fmt.Errorf("error rendering view index %d: %s", i, err)
			core.LogError(err.Error())
			return err
		}
	}

	// End the frame. If this fails, it is likely unrecoverable.
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		err := fmt.Errorf("func EndFrame failed. Application shutting down")
		core.LogError(err.Error())
		return err
	}

	return nil
}

func (r *RendererSystem) TextureCreate(pixels []uint8, texture *metadata.Texture) {
	r.backend.TextureCreate(pixels, texture)
}

func (r *RendererSystem) TextureCreateCube(facePixels [6][]uint8, texture *metadata.Texture) {
	r.backend.TextureCreateCube(facePixels, texture)
}

func (r *RendererSystem) TextureDestroy(texture *metadata.Texture) {
	r.backend.TextureDestroy(texture)
}

func (r *RendererSystem) TextureWriteData(texture *metadata.Texture, pixels []uint8) {
	r.backend.TextureWriteData(texture, pixels)
}

func (r *RendererSystem) TextureMapAcquireResources(textureMap *metadata.TextureMap) bool {
	return r.backend.TextureMapAcquireResources(textureMap)
}

func (r *RendererSystem) TextureMapReleaseResources(textureMap *metadata.TextureMap) {
	r.backend.TextureMapReleaseResources(textureMap)
}

func (r *RendererSystem) TextureMapBind(textureMap *metadata.TextureMap, unit uint32) bool {
	return r.backend.TextureMapBind(textureMap, unit)
}

func (r *RendererSystem) CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) bool {
	return r.backend.CreateGeometry(geometry, config)
}

func (r *RendererSystem) DestroyGeometry(geometry *metadata.Geometry) {
	r.backend.DestroyGeometry(geometry)
}

func (r *RendererSystem) DrawGeometry(data *metadata.GeometryRenderData) {
	r.backend.DrawGeometry(data)
}

func (r *RendererSystem) RenderPassGet(name string) *metadata.RenderPass {
	return r.backend.RenderPassGet(name)
}

func (r *RendererSystem) RenderPassBegin(pass *metadata.RenderPass) bool {
	return r.backend.RenderPassBegin(pass)
}

func (r *RendererSystem) RenderPassEnd(pass *metadata.RenderPass) bool {
	return r.backend.RenderPassEnd(pass)
}

func (r *RendererSystem) ShaderCreate(shader *metadata.Shader, config *metadata.ShaderConfig, sources map[metadata.ShaderStage]string) bool {
	return r.backend.ShaderCreate(shader, config, sources)
}

func (r *RendererSystem) ShaderDestroy(shader *metadata.Shader) {
	r.backend.ShaderDestroy(shader)
}

func (r *RendererSystem) ShaderUse(shader *metadata.Shader) bool {
	return r.backend.ShaderUse(shader)
}

func (r *RendererSystem) ShaderSetUniform(shader *metadata.Shader, name string, value interface{}) bool {
	return r.backend.ShaderSetUniform(shader, name, value)
}

func (r *RendererSystem) IsMultithreaded() bool {
	return r.backend.IsMultithreaded()
}
