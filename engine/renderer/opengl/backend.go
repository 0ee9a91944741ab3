package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	mgl32 "github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/platform"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

/**
 * @brief The OpenGL 3.3 core profile implementation of the renderer backend.
 * Every method must be called from the thread that owns the GL context,
 * which is the same thread that pumps window messages.
 */
type OpenGLRenderer struct {
	platform *platform.Platform

	framebufferWidth  uint32
	framebufferHeight uint32

	// Uploaded geometries keyed by the internal id handed back on creation.
	geometries     map[uint32]*OpenGLGeometry
	nextGeometryID uint32

	renderpasses     map[string]*metadata.RenderPass
	nextRenderpassID uint16
}

func New(p *platform.Platform) *OpenGLRenderer {
	return &OpenGLRenderer{
		platform:     p,
		geometries:   make(map[uint32]*OpenGLGeometry),
		renderpasses: make(map[string]*metadata.RenderPass),
	}
}

func (gr *OpenGLRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	// The window context must already be current on this thread, otherwise
	// the function pointers cannot be loaded.
	if err := gl.Init(); err != nil {
		core.LogFatal("failed to initialize OpenGL: %s", err)
		return err
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	device := gl.GoStr(gl.GetString(gl.RENDERER))
	core.LogInfo("%s running on OpenGL %s (%s)", appName, version, device)

	gr.framebufferWidth = appWidth
	gr.framebufferHeight = appHeight

	gl.Viewport(0, 0, int32(appWidth), int32(appHeight))
	gl.Enable(gl.DEPTH_TEST)
	// LEQUAL instead of LESS so fragments forced to the far plane, such as
	// the skybox, still pass against a cleared depth buffer.
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	return nil
}

func (gr *OpenGLRenderer) Shutdown() error {
	for id, geometry := range gr.geometries {
		gl.DeleteVertexArrays(1, &geometry.VAO)
		gl.DeleteBuffers(1, &geometry.VBO)
		if geometry.EBO != 0 {
			gl.DeleteBuffers(1, &geometry.EBO)
		}
		delete(gr.geometries, id)
	}
	gr.renderpasses = make(map[string]*metadata.RenderPass)
	return nil
}

func (gr *OpenGLRenderer) Resized(width, height uint16) error {
	gr.framebufferWidth = uint32(width)
	gr.framebufferHeight = uint32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
	for _, pass := range gr.renderpasses {
		pass.RenderArea[2] = float32(width)
		pass.RenderArea[3] = float32(height)
	}
	return nil
}

func (gr *OpenGLRenderer) BeginFrame(deltaTime float64) error {
	return nil
}

// EndFrame presents the finished frame. With swap interval 1 this is where
// the main loop blocks for vsync.
func (gr *OpenGLRenderer) EndFrame(deltaTime float64) error {
	gr.platform.SwapBuffers()
	return nil
}

/**
 * @brief Per-pass pipeline state resolved from the renderpass config.
 */
type OpenGLRenderPass struct {
	DepthTest  bool
	DepthWrite bool
	Blend      bool
	CullMode   metadata.FaceCullMode
}

func (gr *OpenGLRenderer) RenderPassCreate(config *metadata.RenderPassConfig) (*metadata.RenderPass, error) {
	if _, exists := gr.renderpasses[config.Name]; exists {
		err := fmt.Errorf("a renderpass named %s already exists", config.Name)
		core.LogError(err.Error())
		return nil, err
	}
	pass := &metadata.RenderPass{
		ID:          gr.nextRenderpassID,
		Name:        config.Name,
		RenderArea:  mgl32.Vec4{0, 0, float32(gr.framebufferWidth), float32(gr.framebufferHeight)},
		ClearColour: config.ClearColour,
		ClearFlags:  config.ClearFlags,
		Depth:       config.Depth,
		Stencil:     config.Stencil,
		InternalData: &OpenGLRenderPass{
			DepthTest:  config.DepthTest,
			DepthWrite: config.DepthWrite,
			Blend:      config.Blend,
			CullMode:   config.CullMode,
		},
	}
	gr.nextRenderpassID++
	gr.renderpasses[config.Name] = pass
	return pass, nil
}

func (gr *OpenGLRenderer) RenderPassDestroy(pass *metadata.RenderPass) {
	if pass == nil {
		return
	}
	pass.InternalData = nil
	delete(gr.renderpasses, pass.Name)
}

func (gr *OpenGLRenderer) RenderPassBegin(pass *metadata.RenderPass) bool {
	state, ok := pass.InternalData.(*OpenGLRenderPass)
	if !ok {
		core.LogError("renderpass %s has no backend state", pass.Name)
		return false
	}

	// Clears honour the current write masks, so they run with writes fully
	// enabled before the pass state is applied.
	var clearMask uint32
	if pass.ClearFlags&metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG != 0 {
		gl.ClearColor(pass.ClearColour.X(), pass.ClearColour.Y(), pass.ClearColour.Z(), pass.ClearColour.W())
		clearMask |= gl.COLOR_BUFFER_BIT
	}
	if pass.ClearFlags&metadata.RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG != 0 {
		gl.ClearDepth(float64(pass.Depth))
		clearMask |= gl.DEPTH_BUFFER_BIT
	}
	if pass.ClearFlags&metadata.RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG != 0 {
		gl.ClearStencil(int32(pass.Stencil))
		clearMask |= gl.STENCIL_BUFFER_BIT
	}
	if clearMask != 0 {
		gl.DepthMask(true)
		gl.Clear(clearMask)
	}

	if state.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(state.DepthWrite)

	if state.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}

	switch state.CullMode {
	case metadata.FaceCullModeNone:
		gl.Disable(gl.CULL_FACE)
	case metadata.FaceCullModeFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case metadata.FaceCullModeBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case metadata.FaceCullModeFrontAndBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT_AND_BACK)
	}

	return true
}

func (gr *OpenGLRenderer) RenderPassEnd(pass *metadata.RenderPass) bool {
	// State is fully re-applied by the next RenderPassBegin, nothing to
	// restore here.
	return true
}

func (gr *OpenGLRenderer) RenderPassGet(name string) *metadata.RenderPass {
	pass, ok := gr.renderpasses[name]
	if !ok {
		core.LogWarn("no renderpass named %s registered", name)
		return nil
	}
	return pass
}

func (gr *OpenGLRenderer) IsMultithreaded() bool {
	return false
}
