package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/renderer/views"
)

/** @brief The configuration for the render view system. */
type RenderViewSystemConfig struct {
	/** @brief The maximum number of views that can be registered with the system. */
	MaxViewCount uint16
}

/**
 * @brief Owns the registered render views and submits their packets to the
 * backend. Views themselves only produce packet data; every GL call of a
 * frame goes through this system so it stays on the frame loop thread.
 */
type RenderViewSystem struct {
	Lookup          map[string]metadata.IRenderView
	MaxViewCount    uint32
	registeredOrder []metadata.IRenderView
	// subsystems
	renderer       *RendererSystem
	shaderSystem   *ShaderSystem
	cameraSystem   *CameraSystem
	materialSystem *MaterialSystem
	fontSystem     *FontSystem
}

func NewRenderViewSystem(config RenderViewSystemConfig, r *RendererSystem, ss *ShaderSystem, cs *CameraSystem, ms *MaterialSystem, fs *FontSystem) (*RenderViewSystem, error) {
	if config.MaxViewCount == 0 {
		return nil, fmt.Errorf("func NewRenderViewSystem - config.MaxViewCount must be > 0")
	}
	rvs := &RenderViewSystem{
		MaxViewCount:   uint32(config.MaxViewCount),
		Lookup:         make(map[string]metadata.IRenderView, config.MaxViewCount),
		renderer:       r,
		shaderSystem:   ss,
		cameraSystem:   cs,
		materialSystem: ms,
		fontSystem:     fs,
	}
	return rvs, nil
}

func (rvs *RenderViewSystem) Shutdown() error {
	// Destroy in reverse registration order.
	for i := len(rvs.registeredOrder) - 1; i >= 0; i-- {
		view := rvs.registeredOrder[i]
		if err := view.OnDestroy(); err != nil {
			core.LogError("failed to destroy render view '%s'", view.Name())
			return err
		}
		delete(rvs.Lookup, view.Name())
	}
	rvs.registeredOrder = nil
	return nil
}

// Create registers the view and runs its creation hook. The view's name
// must be unique within the system.
func (rvs *RenderViewSystem) Create(view metadata.IRenderView) error {
	if view == nil {
		return fmt.Errorf("func Create requires a valid view")
	}
	if _, ok := rvs.Lookup[view.Name()]; ok {
		return fmt.Errorf("a view named '%s' already exists, a new one will not be created", view.Name())
	}
	if uint32(len(rvs.registeredOrder)) >= rvs.MaxViewCount {
		return fmt.Errorf("no available space for a new view, change the system config to account for more")
	}
	if err := view.OnCreate(); err != nil {
		return err
	}
	view.OnResize(rvs.renderer.FramebufferWidth, rvs.renderer.FramebufferHeight)
	rvs.Lookup[view.Name()] = view
	rvs.registeredOrder = append(rvs.registeredOrder, view)
	return nil
}

/**
 * @brief Called when the owner of the views (i.e. the window) is resized.
 *
 * @param width The new width in pixels.
 * @param height The new height in pixels.
 */
func (rvs *RenderViewSystem) OnWindowResize(width, height uint32) {
	for _, view := range rvs.registeredOrder {
		view.OnResize(width, height)
	}
}

/**
 * @brief Obtains a pointer to a view with the given name.
 *
 * @param name The name of the view.
 * @return A pointer to a view if found; otherwise nil.
 */
func (rvs *RenderViewSystem) Get(name string) metadata.IRenderView {
	if view, ok := rvs.Lookup[name]; ok {
		return view
	}
	return nil
}

/**
 * @brief Builds a render view packet using the provided view and freeform data.
 *
 * @param view A pointer to the view to use.
 * @param data Freeform data used to build the packet.
 * @return The generated packet, or an error.
 */
func (rvs *RenderViewSystem) BuildPacket(view metadata.IRenderView, data interface{}) (*metadata.RenderViewPacket, error) {
	if view == nil {
		return nil, fmt.Errorf("func BuildPacket requires a valid view")
	}
	return view.OnBuildPacket(data)
}

/**
 * @brief Renders the contents of the given packet through the view's
 * renderpass and shader.
 *
 * @param packet A pointer to the packet whose data is to be rendered.
 * @return nil on success; otherwise an error.
 */
func (rvs *RenderViewSystem) OnRender(packet *metadata.RenderViewPacket) error {
	if packet == nil || packet.View == nil {
		return nil
	}
	switch view := packet.View.(type) {
	case *views.RenderViewSkybox:
		return rvs.skyboxOnRender(view, packet)
	case *views.RenderViewWorld:
		return rvs.worldOnRender(view, packet)
	case *views.RenderViewUI:
		return rvs.uiOnRender(view, packet)
	default:
		return fmt.Errorf("view '%s' has no render path", packet.View.Name())
	}
}

func (rvs *RenderViewSystem) OnDestroyPacket(packet *metadata.RenderViewPacket) {
	packet.Geometries = nil
	packet.ExtendedData = nil
}

func (rvs *RenderViewSystem) skyboxOnRender(view *views.RenderViewSkybox, packet *metadata.RenderViewPacket) error {
	pass := rvs.renderer.SkyboxRenderPass
	if !rvs.renderer.RenderPassBegin(pass) {
		return fmt.Errorf("skybox renderpass failed to begin")
	}

	skyboxData, ok := packet.ExtendedData.(*metadata.SkyboxPacketData)
	if !ok || skyboxData.Skybox == nil {
		// Nothing to draw, the pass still ran so the clear happened.
		rvs.renderer.RenderPassEnd(pass)
		return nil
	}

	if !rvs.shaderSystem.UseShaderByID(view.ShaderID) {
		return fmt.Errorf("failed to use skybox shader, render frame failed")
	}
	ok = rvs.shaderSystem.SetUniform("projection", packet.ProjectionMatrix)
	ok = rvs.shaderSystem.SetUniform("view", packet.ViewMatrix) && ok
	if !ok {
		return fmt.Errorf("failed to apply skybox globals")
	}

	if !rvs.renderer.TextureMapBind(skyboxData.Skybox.Cubemap, 0) {
		return fmt.Errorf("failed to bind the skybox cubemap")
	}
	if !rvs.shaderSystem.SetUniform("cube_texture", int32(0)) {
		return fmt.Errorf("failed to apply the skybox cubemap uniform")
	}

	rvs.renderer.DrawGeometry(&metadata.GeometryRenderData{
		Geometry: skyboxData.Skybox.Geometry,
	})

	if !rvs.renderer.RenderPassEnd(pass) {
		return fmt.Errorf("skybox renderpass failed to end")
	}
	return nil
}

func (rvs *RenderViewSystem) worldOnRender(view *views.RenderViewWorld, packet *metadata.RenderViewPacket) error {
	pass := rvs.renderer.WorldRenderPass
	if !rvs.renderer.RenderPassBegin(pass) {
		return fmt.Errorf("world renderpass failed to begin")
	}

	if !rvs.shaderSystem.UseShaderByID(view.ShaderID) {
		return fmt.Errorf("failed to use world shader, render frame failed")
	}

	lightPosition := packet.ViewPosition
	lightColour := mgl32.Vec3{1, 1, 1}
	if worldData, ok := packet.ExtendedData.(*metadata.WorldPacketData); ok {
		lightPosition = worldData.LightPosition
		lightColour = worldData.LightColour
	}
	if err := rvs.materialSystem.ApplyGlobal(view.ShaderID, packet.ProjectionMatrix, packet.ViewMatrix, packet.AmbientColour, packet.ViewPosition, lightPosition, lightColour); err != nil {
		return err
	}

	for _, renderData := range packet.Geometries {
		material := renderData.Geometry.Material
		if material == nil {
			material = rvs.materialSystem.GetDefault()
		}
		if err := rvs.materialSystem.ApplyInstance(material); err != nil {
			core.LogWarn("failed to apply material '%s', skipping draw", material.Name)
			continue
		}
		if err := rvs.materialSystem.ApplyLocal(material, renderData.Model); err != nil {
			return err
		}
		rvs.renderer.DrawGeometry(renderData)
	}

	if !rvs.renderer.RenderPassEnd(pass) {
		return fmt.Errorf("world renderpass failed to end")
	}
	return nil
}

func (rvs *RenderViewSystem) uiOnRender(view *views.RenderViewUI, packet *metadata.RenderViewPacket) error {
	pass := rvs.renderer.UIRenderPass
	if !rvs.renderer.RenderPassBegin(pass) {
		return fmt.Errorf("ui renderpass failed to begin")
	}

	if !rvs.shaderSystem.UseShaderByID(view.ShaderID) {
		return fmt.Errorf("failed to use ui shader, render frame failed")
	}
	if err := rvs.materialSystem.ApplyGlobal(view.ShaderID, packet.ProjectionMatrix, packet.ViewMatrix, packet.AmbientColour, packet.ViewPosition, packet.ViewPosition, mgl32.Vec3{1, 1, 1}); err != nil {
		return err
	}

	// UI meshes first.
	for _, renderData := range packet.Geometries {
		material := renderData.Geometry.Material
		if material == nil {
			material = rvs.materialSystem.GetDefault()
		}
		if err := rvs.materialSystem.ApplyInstance(material); err != nil {
			core.LogWarn("failed to apply material '%s', skipping draw", material.Name)
			continue
		}
		if err := rvs.materialSystem.ApplyLocal(material, renderData.Model); err != nil {
			return err
		}
		rvs.renderer.DrawGeometry(renderData)
	}

	// Then the text on top.
	if uiData, ok := packet.ExtendedData.(*metadata.UIPacketData); ok {
		for _, text := range uiData.Texts {
			if err := rvs.renderText(text); err != nil {
				core.LogWarn("failed to draw text %d: %s", text.UniqueID, err.Error())
			}
		}
	}

	if !rvs.renderer.RenderPassEnd(pass) {
		return fmt.Errorf("ui renderpass failed to end")
	}
	return nil
}

// renderText draws one text instance with the UI shader already in use.
func (rvs *RenderViewSystem) renderText(text *metadata.UIText) error {
	if text == nil || text.Data == nil || text.Geometry == nil {
		return nil
	}
	// Empty strings produce no glyph quads.
	if text.Geometry.InternalID == metadata.InvalidID {
		return nil
	}

	if !rvs.renderer.TextureMapBind(text.Data.Atlas, 0) {
		return fmt.Errorf("failed to bind the font atlas of '%s'", text.Data.Face)
	}
	ok := rvs.shaderSystem.SetUniform("diffuse_texture", int32(0))
	ok = rvs.shaderSystem.SetUniform("diffuse_colour", text.Colour) && ok

	model := mgl32.Translate3D(text.Position.X(), text.Position.Y(), 0)
	ok = rvs.shaderSystem.SetUniform("model", model) && ok
	if !ok {
		return fmt.Errorf("failed to apply text uniforms")
	}

	rvs.renderer.DrawGeometry(&metadata.GeometryRenderData{
		Geometry: text.Geometry,
		UniqueID: text.UniqueID,
	})
	return nil
}
