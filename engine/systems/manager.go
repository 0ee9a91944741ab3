package systems

import (
	"github.com/spaghettifunk/helios/engine/assets"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

const (
	defaultJobWorkerCount = 4
	defaultJobQueueSize   = 64

	maxTextureCount    = 1024
	maxShaderCount     = 64
	maxMaterialCount   = 512
	maxGeometryCount   = 1024
	maxCameraCount     = 16
	maxRenderViewCount = 8
)

// SystemManager wires every engine system together in dependency order and
// tears them down in reverse.
type SystemManager struct {
	JobSystem        *JobSystem
	CameraSystem     *CameraSystem
	TextureSystem    *TextureSystem
	ShaderSystem     *ShaderSystem
	MaterialSystem   *MaterialSystem
	GeometrySystem   *GeometrySystem
	MeshSystem       *MeshSystem
	FontSystem       *FontSystem
	RenderViewSystem *RenderViewSystem
	RendererSystem   *RendererSystem
	AssetManager     *assets.AssetManager
}

func NewSystemManager(r *RendererSystem, am *assets.AssetManager, fontConfig *metadata.FontSystemConfig) (*SystemManager, error) {
	js, err := NewJobSystem(defaultJobWorkerCount, defaultJobQueueSize)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: maxCameraCount,
	})
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(TextureSystemConfig{
		MaxTextureCount: maxTextureCount,
	}, js, am, r)
	if err != nil {
		return nil, err
	}
	ss, err := NewShaderSystem(ShaderSystemConfig{
		MaxShaderCount: maxShaderCount,
	}, am, r)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(MaterialSystemConfig{
		MaxMaterialCount: maxMaterialCount,
	}, ts, ss, r)
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(GeometrySystemConfig{
		MaxGeometryCount: maxGeometryCount,
	}, ms, r)
	if err != nil {
		return nil, err
	}
	msys, err := NewMeshSystem(gs)
	if err != nil {
		return nil, err
	}
	if fontConfig == nil {
		fontConfig = &metadata.FontSystemConfig{
			MaxBitmapFontCount: 8,
			MaxSystemFontCount: 8,
		}
	}
	fs, err := NewFontSystem(fontConfig, ts, am, r)
	if err != nil {
		return nil, err
	}
	rvs, err := NewRenderViewSystem(RenderViewSystemConfig{
		MaxViewCount: maxRenderViewCount,
	}, r, ss, cs, ms, fs)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		JobSystem:        js,
		CameraSystem:     cs,
		TextureSystem:    ts,
		ShaderSystem:     ss,
		MaterialSystem:   ms,
		GeometrySystem:   gs,
		MeshSystem:       msys,
		FontSystem:       fs,
		RenderViewSystem: rvs,
		RendererSystem:   r,
		AssetManager:     am,
	}, nil
}

// Initialize runs the GL-dependent setup of every system. The renderer
// backend needs a current context, so this runs on the frame loop thread
// once the window exists.
func (sm *SystemManager) Initialize() error {
	if err := sm.RendererSystem.Initialize(sm.ShaderSystem); err != nil {
		return err
	}
	if err := sm.TextureSystem.Initialize(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Initialize(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Initialize(); err != nil {
		return err
	}
	if err := sm.FontSystem.Initialize(); err != nil {
		return err
	}
	return nil
}

// Update runs the per-frame system work on the frame loop thread, such as
// uploading textures whose pixel data finished decoding on a worker.
func (sm *SystemManager) Update() {
	sm.TextureSystem.Update()
}

// Shutdown tears the systems down in reverse dependency order. The job
// system stops before the texture system so every in-flight decode has
// either landed in the upload queue or been dropped by the time the GL
// objects are destroyed. The renderer itself is shut down by the caller
// afterwards.
func (sm *SystemManager) Shutdown() error {
	if err := sm.RenderViewSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.FontSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MeshSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ShaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
