package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spaghettifunk/helios/engine/assets"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/platform"
	"github.com/spaghettifunk/helios/engine/renderer"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/renderer/views"
	"github.com/spaghettifunk/helios/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
}

func New(g *Game) (*Engine, error) {
	core.LogSetLevel(g.ApplicationConfig.LogLevel)

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	r, err := systems.NewRendererSystem(renderer.OpenGL, g.ApplicationConfig.Name,
		g.ApplicationConfig.StartWidth, g.ApplicationConfig.StartHeight, p, am)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(r, am, g.ApplicationConfig.FontConfig)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		platform:      p,
		assetManager:  am,
		systemManager: sm,
		isRunning:     true,
		isSuspended:   false,
		width:         g.ApplicationConfig.StartWidth,
		height:        g.ApplicationConfig.StartHeight,
		lastTime:      0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if err := core.InputInitialize(); err != nil {
		return err
	}
	if err := core.EventInitialize(); err != nil {
		return err
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if e.gameInstance.FnBoot != nil {
		if err := e.gameInstance.FnBoot(); err != nil {
			return err
		}
	}

	config := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(config.Name, config.StartPosX, config.StartPosY,
		config.StartWidth, config.StartHeight, config.Fullscreen); err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := e.assetManager.Initialize(filepath.Join(wd, "assets")); err != nil {
		return err
	}

	// The GL context is current on this thread from here on.
	if err := e.systemManager.Initialize(); err != nil {
		return err
	}

	if err := e.createBuiltinViews(); err != nil {
		return err
	}

	camera := e.systemManager.CameraSystem.GetDefault()
	camera.Zoom = config.Camera.FOV
	camera.Sensitivity = config.Camera.Sensitivity
	camera.Speed = config.Camera.Speed
	camera.SprintSpeed = config.Camera.SprintSpeed

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}

	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// createBuiltinViews registers the three views every frame renders in order:
// skybox first, then the world geometry, then the screen space overlay.
func (e *Engine) createBuiltinViews() error {
	sm := e.systemManager

	skyboxShader, err := sm.ShaderSystem.GetShader(metadata.BUILTIN_SHADER_NAME_SKYBOX)
	if err != nil {
		return err
	}
	worldShader, err := sm.ShaderSystem.GetShader(metadata.BUILTIN_SHADER_NAME_WORLD)
	if err != nil {
		return err
	}
	uiShader, err := sm.ShaderSystem.GetShader(metadata.BUILTIN_SHADER_NAME_UI)
	if err != nil {
		return err
	}

	camera := sm.CameraSystem.GetDefault()
	if err := sm.RenderViewSystem.Create(views.NewRenderViewSkybox(skyboxShader, camera)); err != nil {
		return err
	}
	if err := sm.RenderViewSystem.Create(views.NewRenderViewWorld(worldShader, camera)); err != nil {
		return err
	}
	if err := sm.RenderViewSystem.Create(views.NewRenderViewUI(uiShader)); err != nil {
		return err
	}
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var lastTitleTime float64

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		// Events posted from other goroutines (watcher, signals) are
		// handled here, on the frame thread.
		core.EventPump()

		if e.isSuspended {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogFatal("game update failed, shutting down")
			e.isRunning = false
			break
		}

		packet := &metadata.RenderPacket{
			DeltaTime: delta,
		}
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogFatal("game render failed, shutting down")
			e.isRunning = false
			break
		}

		if err := e.systemManager.RendererSystem.DrawFrame(packet, e.systemManager.RenderViewSystem); err != nil {
			core.LogError("frame draw failed: %s", err.Error())
		}

		// Per-frame system work that must run on the frame thread, such
		// as uploading textures decoded by the job workers.
		e.systemManager.Update()

		frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
		core.MetricsUpdate(frameElapsedTime)
		if currentTime-lastTitleTime >= 1.0 {
			fps, frameTime := core.MetricsFrame()
			e.platform.SetTitle(fmt.Sprintf("%s | %.0f fps %.2f ms",
				e.gameInstance.ApplicationConfig.Name, fps, frameTime))
			lastTitleTime = currentTime
		}

		// Input state copying happens at the very end of the frame so
		// everything above sees a stable pressed/released picture.
		core.InputUpdate(delta)

		e.lastTime = currentTime
	}

	e.currentStage = EngineStageShuttingDown
	return nil
}

func (e *Engine) Shutdown() error {
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	// The watcher goroutine stops before the systems it posts events to.
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.systemManager.RendererSystem.Shutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := core.EventShutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
	}
}

func (e *Engine) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event payload for event type `%d`", context.Type)
		return
	}

	if context.Type != core.EVENT_CODE_KEY_PRESSED {
		return
	}

	switch ke.KeyCode {
	case core.KEY_ESCAPE:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
	case core.KEY_F11:
		e.platform.ToggleFullscreen()
	}
}

func (e *Engine) onResized(context core.EventContext) {
	if context.Type != core.EVENT_CODE_RESIZED {
		return
	}
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event payload for event type `%d`", context.Type)
		return
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width != e.width || height != e.height {
		e.width = width
		e.height = height

		core.LogDebug("window resize: %d, %d", width, height)

		// Handle minimization
		if width == 0 || height == 0 {
			core.LogInfo("window minimized, suspending application")
			e.isSuspended = true
			return
		}

		if e.isSuspended {
			core.LogInfo("window restored, resuming application")
			e.isSuspended = false
		}
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
		if err := e.systemManager.RendererSystem.OnResize(uint16(width), uint16(height)); err != nil {
			core.LogError(err.Error())
		}
	}
}
