package viewer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/components"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/scene"
)

// Sphere tessellation for body meshes.
const (
	sphereRings   uint32 = 48
	sphereSectors uint32 = 64
)

// ViewerGame is the solar system viewer built on top of the engine. It loads
// a scenario, keeps one mesh per body in sync with the transform solver and
// feeds the skybox, world and ui views each frame.
type ViewerGame struct {
	*engine.Game
}

type viewerState struct {
	WorldCamera *components.Camera

	width  uint32
	height uint32

	scenarioName string
	scenario     *scene.Scenario
	registry     *scene.Registry
	simClock     *scene.SimulationClock

	skybox *metadata.Skybox
	// bodyMeshes[i] belongs to registry.Bodies()[i].
	bodyMeshes []*metadata.Mesh

	hud *HUD

	assetListener uint32
}

// NewViewerGame wires the viewer callbacks into a game instance. A nil
// config runs with the defaults.
func NewViewerGame(config *engine.ApplicationConfig) *ViewerGame {
	if config == nil {
		config = engine.DefaultApplicationConfig()
	}
	vg := &ViewerGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &viewerState{
				simClock: scene.NewSimulationClock(),
				skybox: &metadata.Skybox{
					Cubemap: &metadata.TextureMap{},
				},
			},
		},
	}
	vg.FnBoot = vg.Boot
	vg.FnInitialize = vg.Initialize
	vg.FnUpdate = vg.Update
	vg.FnRender = vg.Render
	vg.FnOnResize = vg.OnResize
	vg.FnShutdown = vg.Shutdown
	return vg
}

func (g *ViewerGame) Boot() error {
	core.LogInfo("booting viewer, scenario '%s'", g.ApplicationConfig.Scenario)
	return nil
}

func (g *ViewerGame) Initialize() error {
	if g.SystemManager == nil {
		return fmt.Errorf("the engine has not initialized the subsystems yet")
	}

	state := g.State.(*viewerState)
	state.width = g.ApplicationConfig.StartWidth
	state.height = g.ApplicationConfig.StartHeight
	state.WorldCamera = g.SystemManager.CameraSystem.GetDefault()

	if err := g.setupSkybox(state); err != nil {
		return err
	}
	if err := g.loadScenario(state, g.ApplicationConfig.Scenario); err != nil {
		return err
	}
	state.WorldCamera.SetPosition(state.scenario.CameraPosition)

	hud, err := newHUD(g.SystemManager.FontSystem)
	if err != nil {
		return err
	}
	state.hud = hud
	state.hud.Layout(state.width, state.height)

	state.assetListener = core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, g.onAssetChanged)

	return nil
}

// Update runs once per frame. The simulation advances and the solver runs
// before commands are handled, so a lock issued this frame grabs a position
// that is already up to date. A new speed preset takes effect on the next
// advance.
func (g *ViewerGame) Update(deltaTime float64) error {
	state := g.State.(*viewerState)

	state.simClock.Advance(deltaTime)
	state.registry.UpdateAll(state.simClock.Now())

	bodies := state.registry.Bodies()
	for i, mesh := range state.bodyMeshes {
		mesh.Model = bodies[i].WorldMatrix
	}

	g.processCommands(state)
	g.processMovement(state, deltaTime)

	// A locked camera follows its target as it moves along the orbit. The
	// target can disappear underneath the lock on a scenario reload.
	if state.WorldCamera.Locked() {
		if body, ok := state.registry.Get(state.WorldCamera.LockTarget()); ok {
			state.WorldCamera.UpdateLocked(body.WorldPosition())
		} else {
			state.WorldCamera.Unlock()
		}
	}

	state.hud.Update(deltaTime, state)

	return nil
}

func (g *ViewerGame) Render(packet *metadata.RenderPacket, deltaTime float64) error {
	state := g.State.(*viewerState)
	rvs := g.SystemManager.RenderViewSystem

	skyboxPacket, err := rvs.BuildPacket(rvs.Get("skybox"), &metadata.SkyboxPacketData{
		Skybox: state.skybox,
	})
	if err != nil {
		return err
	}

	worldPacket, err := rvs.BuildPacket(rvs.Get("world"), &metadata.WorldPacketData{
		Meshes:        state.bodyMeshes,
		LightPosition: state.scenario.LightPosition,
		LightColour:   state.scenario.LightColour,
	})
	if err != nil {
		return err
	}

	uiPacket, err := rvs.BuildPacket(rvs.Get("ui"), &metadata.UIPacketData{
		MeshData: &metadata.MeshPacketData{},
		Texts:    state.hud.Texts(),
	})
	if err != nil {
		return err
	}

	packet.ViewPackets = []*metadata.RenderViewPacket{skyboxPacket, worldPacket, uiPacket}
	return nil
}

func (g *ViewerGame) OnResize(width, height uint32) error {
	state := g.State.(*viewerState)
	state.width = width
	state.height = height
	if state.hud != nil {
		state.hud.Layout(width, height)
	}
	return nil
}

func (g *ViewerGame) Shutdown() error {
	state := g.State.(*viewerState)

	core.EventUnregister(core.EVENT_CODE_ASSET_CHANGED, state.assetListener)

	if state.hud != nil {
		state.hud.Destroy()
		state.hud = nil
	}

	g.destroyBodyMeshes(state.bodyMeshes)
	state.bodyMeshes = nil

	if state.skybox.Cubemap.Texture != nil {
		g.SystemManager.TextureSystem.Release(state.skybox.Cubemap.Texture.Name)
		state.skybox.Cubemap.Texture = nil
	}
	g.SystemManager.RendererSystem.TextureMapReleaseResources(state.skybox.Cubemap)

	return nil
}

// setupSkybox acquires the cubemap and the cube it is drawn on. Missing face
// images are not an error, the texture system generates a starfield instead.
func (g *ViewerGame) setupSkybox(state *viewerState) error {
	cubemap := state.skybox.Cubemap
	cubemap.FilterMagnify = metadata.TextureFilterModeLinear
	cubemap.FilterMinify = metadata.TextureFilterModeLinear
	cubemap.RepeatU = metadata.TextureRepeatClampToEdge
	cubemap.RepeatV = metadata.TextureRepeatClampToEdge
	cubemap.RepeatW = metadata.TextureRepeatClampToEdge
	cubemap.Use = metadata.TextureUseMapCubemap
	if !g.SystemManager.RendererSystem.TextureMapAcquireResources(cubemap) {
		return fmt.Errorf("unable to acquire sampler resources for the skybox cube map")
	}

	texture := g.SystemManager.TextureSystem.AcquireCube("skybox", true)
	if texture == nil {
		return fmt.Errorf("unable to acquire the skybox cube texture")
	}
	cubemap.Texture = texture

	config, err := g.SystemManager.GeometrySystem.GenerateCubeConfig(10.0, 10.0, 10.0, 1.0, 1.0, "Geometry.Skybox", "")
	if err != nil {
		return err
	}
	// The skybox view samples the cubemap directly, no material involved.
	config.MaterialName = ""
	geometry, err := g.SystemManager.GeometrySystem.AcquireFromConfig(config, true)
	if err != nil {
		return err
	}
	state.skybox.Geometry = geometry

	return nil
}

// loadScenario parses the named scenario, builds the registry and one mesh
// per body and swaps everything into the state.
func (g *ViewerGame) loadScenario(state *viewerState, name string) error {
	resource, err := g.SystemManager.AssetManager.LoadAsset(name, metadata.ResourceTypeScenario, nil)
	if err != nil {
		return err
	}
	scenario, ok := resource.Data.(*scene.Scenario)
	if !ok {
		return fmt.Errorf("asset '%s' did not load as a scenario", name)
	}

	registry, err := scene.NewRegistry(scenario.Bodies)
	if err != nil {
		return err
	}
	// Solve once so every body has a valid world matrix before the first
	// frame and before any camera lock reads a position.
	registry.UpdateAll(state.simClock.Now())

	meshes, err := g.createBodyMeshes(registry)

	state.scenarioName = name
	state.scenario = scenario
	state.registry = registry
	state.bodyMeshes = meshes

	return err
}

// createBodyMeshes builds a unit sphere mesh for every body in the registry,
// in registry order. The solver bakes each body's radius into its world
// matrix, so the spheres pick up their size from the model matrix alone.
func (g *ViewerGame) createBodyMeshes(registry *scene.Registry) ([]*metadata.Mesh, error) {
	bodies := registry.Bodies()
	meshes := make([]*metadata.Mesh, 0, len(bodies))
	for _, body := range bodies {
		materialConfig := &metadata.MaterialConfig{
			Name:           "Material.Body." + body.Name,
			ShaderName:     metadata.BUILTIN_SHADER_NAME_WORLD,
			AutoRelease:    true,
			DiffuseColour:  mgl32.Vec4{1.0, 1.0, 1.0, 1.0},
			DiffuseMapName: body.TexturePath,
			Emissive:       body.Emissive,
		}
		if _, err := g.SystemManager.MaterialSystem.AcquireFromConfig(materialConfig); err != nil {
			g.destroyBodyMeshes(meshes)
			return nil, err
		}

		geometryConfig, err := g.SystemManager.GeometrySystem.GenerateSphereConfig(1.0, sphereRings, sphereSectors, "Geometry.Body."+body.Name, materialConfig.Name)
		if err != nil {
			g.SystemManager.MaterialSystem.Release(materialConfig.Name)
			g.destroyBodyMeshes(meshes)
			return nil, err
		}
		mesh, err := g.SystemManager.MeshSystem.CreateFromConfig("Mesh.Body."+body.Name, geometryConfig, true)
		if err != nil {
			g.SystemManager.MaterialSystem.Release(materialConfig.Name)
			g.destroyBodyMeshes(meshes)
			return nil, err
		}
		// The geometry holds the material reference from here on.
		g.SystemManager.MaterialSystem.Release(materialConfig.Name)

		mesh.Model = body.WorldMatrix
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// destroyBodyMeshes tears meshes down along with the geometries, materials
// and textures behind them, via the auto-release chain.
func (g *ViewerGame) destroyBodyMeshes(meshes []*metadata.Mesh) {
	for _, mesh := range meshes {
		g.SystemManager.MeshSystem.Destroy(mesh)
	}
}

// onAssetChanged is fired on the frame thread after the asset watcher sees a
// file under assets/ change. Scenario edits rebuild the scene in place,
// texture and shader source edits reload the GPU resources behind the
// existing handles.
func (g *ViewerGame) onAssetChanged(context core.EventContext) {
	event, ok := context.Data.(*core.AssetEvent)
	if !ok {
		return
	}
	state := g.State.(*viewerState)

	assetType, known := g.SystemManager.AssetManager.AssetType(event.Path)
	if !known {
		return
	}

	switch assetType {
	case metadata.ResourceTypeScenario:
		name := strings.TrimSuffix(filepath.Base(event.Path), filepath.Ext(event.Path))
		if name != state.scenarioName {
			return
		}
		if err := g.reloadScenario(state); err != nil {
			core.LogError("scenario '%s' reload failed: %s", name, err)
		}
	case metadata.ResourceTypeImage:
		name := filepath.Base(event.Path)
		if g.SystemManager.TextureSystem.Reload(name) {
			core.LogInfo("texture '%s' reloaded", name)
		}
	case metadata.ResourceTypeText:
		relative, err := filepath.Rel(g.SystemManager.AssetManager.BasePath(), event.Path)
		if err != nil {
			return
		}
		g.SystemManager.ShaderSystem.ReloadFromSource(filepath.ToSlash(relative))
	}
}

// reloadScenario replaces the loaded scenario with whatever is on disk now.
// A lock whose target survives the reload follows the new body, a lock on a
// vanished body falls back to free flight. A scenario that no longer parses
// leaves the current scene running.
func (g *ViewerGame) reloadScenario(state *viewerState) error {
	name := state.scenarioName

	resource, err := g.SystemManager.AssetManager.LoadAsset(name, metadata.ResourceTypeScenario, nil)
	if err != nil {
		return err
	}
	scenario, ok := resource.Data.(*scene.Scenario)
	if !ok {
		return fmt.Errorf("asset '%s' did not load as a scenario", name)
	}
	registry, err := scene.NewRegistry(scenario.Bodies)
	if err != nil {
		return err
	}
	registry.UpdateAll(state.simClock.Now())

	// The old materials must drop to zero references before the new ones
	// are acquired under the same names, or stale configs would survive.
	g.destroyBodyMeshes(state.bodyMeshes)
	state.bodyMeshes = nil

	meshes, err := g.createBodyMeshes(registry)

	state.scenario = scenario
	state.registry = registry
	state.bodyMeshes = meshes

	if target := state.WorldCamera.LockTarget(); target != "" {
		if body, ok := registry.Get(target); ok {
			state.WorldCamera.Lock(target, body.WorldPosition(), body.Radius)
		} else {
			core.LogInfo("camera lock target '%s' is gone after the reload, back to free flight", target)
			state.WorldCamera.Unlock()
		}
	}
	state.hud.Invalidate()

	if err != nil {
		return err
	}
	core.LogInfo("scenario '%s' reloaded, %d bodies", name, registry.Len())
	return nil
}
