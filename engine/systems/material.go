package systems

import (
	"fmt"

	mgl32 "github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

/** @brief The material system configuration. */
type MaterialSystemConfig struct {
	/** @brief The maximum number of loaded materials. */
	MaxMaterialCount uint32
}

/**
 * @brief Owns every material in the engine. Materials are created from
 * configs assembled in code and reference counted by name, so two bodies
 * sharing a surface description share the material. The diffuse texture is
 * acquired through the texture system; when the config names no map, or the
 * named file never loads, the material renders with a generated default
 * chosen by its emissive flag.
 */
type MaterialSystem struct {
	Config MaterialSystemConfig
	// DefaultMaterial is a plain white lit surface.
	DefaultMaterial *metadata.Material
	// RegisteredMaterials holds the preallocated material slots.
	RegisteredMaterials []*metadata.Material
	// RegisteredMaterialTable maps a material name to its reference entry.
	RegisteredMaterialTable map[string]*metadata.MaterialReference

	textureSystem *TextureSystem
	shaderSystem  *ShaderSystem
	renderer      *RendererSystem
}

func NewMaterialSystem(config MaterialSystemConfig, ts *TextureSystem, ss *ShaderSystem, r *RendererSystem) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		return nil, fmt.Errorf("func NewMaterialSystem requires MaxMaterialCount > 0")
	}
	ms := &MaterialSystem{
		Config:                  config,
		RegisteredMaterials:     make([]*metadata.Material, config.MaxMaterialCount),
		RegisteredMaterialTable: make(map[string]*metadata.MaterialReference),
		textureSystem:           ts,
		shaderSystem:            ss,
		renderer:                r,
	}
	// Invalidate every slot.
	for i := range ms.RegisteredMaterials {
		ms.RegisteredMaterials[i] = &metadata.Material{
			ID:         metadata.InvalidID,
			InternalID: metadata.InvalidID,
			Generation: metadata.InvalidID,
		}
	}
	return ms, nil
}

// Initialize creates the default material. Must run after the texture and
// shader systems are ready.
func (ms *MaterialSystem) Initialize() error {
	ms.DefaultMaterial = &metadata.Material{
		ID:            metadata.InvalidID,
		InternalID:    metadata.InvalidID,
		Generation:    metadata.InvalidID,
		Name:          metadata.DefaultMaterialName,
		DiffuseColour: mgl32.Vec4{1, 1, 1, 1},
		Shininess:     32.0,
		ShaderID:      ms.shaderSystem.GetShaderID(metadata.BUILTIN_SHADER_NAME_WORLD),
		DiffuseMap: &metadata.TextureMap{
			Texture:       ms.textureSystem.GetDefaultTexture(),
			Use:           metadata.TextureUseMapDiffuse,
			FilterMinify:  metadata.TextureFilterModeLinear,
			FilterMagnify: metadata.TextureFilterModeLinear,
			RepeatU:       metadata.TextureRepeatRepeat,
			RepeatV:       metadata.TextureRepeatRepeat,
			RepeatW:       metadata.TextureRepeatRepeat,
		},
	}
	if !ms.renderer.TextureMapAcquireResources(ms.DefaultMaterial.DiffuseMap) {
		return fmt.Errorf("failed to acquire texture map resources for the default material")
	}
	return nil
}

func (ms *MaterialSystem) Shutdown() error {
	for _, m := range ms.RegisteredMaterials {
		if m.ID != metadata.InvalidID {
			ms.destroyMaterial(m)
		}
	}
	if ms.DefaultMaterial != nil && ms.DefaultMaterial.DiffuseMap != nil {
		ms.renderer.TextureMapReleaseResources(ms.DefaultMaterial.DiffuseMap)
	}
	ms.RegisteredMaterialTable = make(map[string]*metadata.MaterialReference)
	return nil
}

/**
 * @brief Attempts to acquire a material with the given name. The material
 * must already have been created from a config; acquiring it again only
 * increases the reference count.
 */
func (ms *MaterialSystem) Acquire(name string) (*metadata.Material, error) {
	if name == metadata.DefaultMaterialName {
		return ms.DefaultMaterial, nil
	}
	ref, exists := ms.RegisteredMaterialTable[name]
	if !exists || ref.Handle == metadata.InvalidID {
		return nil, fmt.Errorf("material '%s' has not been created yet, use AcquireFromConfig", name)
	}
	ref.ReferenceCount++
	return ms.RegisteredMaterials[ref.Handle], nil
}

/**
 * @brief Acquires a material from the given config, creating it on first use.
 * Subsequent acquires with a config of the same name return the already
 * created material.
 */
func (ms *MaterialSystem) AcquireFromConfig(config *metadata.MaterialConfig) (*metadata.Material, error) {
	if config == nil || config.Name == "" {
		return nil, fmt.Errorf("func AcquireFromConfig requires a config with a name")
	}
	if config.Name == metadata.DefaultMaterialName {
		return ms.DefaultMaterial, nil
	}

	ref, exists := ms.RegisteredMaterialTable[config.Name]
	if !exists {
		ref = &metadata.MaterialReference{
			Handle:      metadata.InvalidID,
			AutoRelease: config.AutoRelease,
		}
		ms.RegisteredMaterialTable[config.Name] = ref
	}
	ref.ReferenceCount++

	if ref.Handle == metadata.InvalidID {
		slot := ms.findFreeSlot()
		if slot == metadata.InvalidID {
			delete(ms.RegisteredMaterialTable, config.Name)
			return nil, fmt.Errorf("material system cannot hold more than %d materials, adjust the configuration", ms.Config.MaxMaterialCount)
		}
		m := ms.RegisteredMaterials[slot]
		if err := ms.loadMaterial(config, m); err != nil {
			delete(ms.RegisteredMaterialTable, config.Name)
			return nil, err
		}
		m.ID = slot
		ref.Handle = slot
		core.LogDebug("material '%s' did not exist yet, created and reference count is now %d", config.Name, ref.ReferenceCount)
	}
	return ms.RegisteredMaterials[ref.Handle], nil
}

/**
 * @brief Releases a material with the given name. Once the reference count
 * of an auto-release material reaches zero its resources are freed.
 */
func (ms *MaterialSystem) Release(name string) {
	if name == metadata.DefaultMaterialName {
		return
	}
	ref, exists := ms.RegisteredMaterialTable[name]
	if !exists {
		core.LogWarn("func Release attempted to release unknown material '%s'", name)
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount == 0 && ref.AutoRelease {
		if ref.Handle != metadata.InvalidID {
			ms.destroyMaterial(ms.RegisteredMaterials[ref.Handle])
		}
		delete(ms.RegisteredMaterialTable, name)
		core.LogDebug("released material '%s', material unloaded because reference count reached 0 and auto-release is set", name)
	}
}

/** @brief Gets the default material. */
func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.DefaultMaterial
}

func (ms *MaterialSystem) findFreeSlot() uint32 {
	for i := range ms.RegisteredMaterials {
		if ms.RegisteredMaterials[i].ID == metadata.InvalidID {
			return uint32(i)
		}
	}
	return metadata.InvalidID
}

// loadMaterial fills a material slot from a config and acquires its texture.
func (ms *MaterialSystem) loadMaterial(config *metadata.MaterialConfig, m *metadata.Material) error {
	m.Name = config.Name
	m.DiffuseColour = config.DiffuseColour
	m.Shininess = config.Shininess
	m.Emissive = config.Emissive
	if m.Shininess <= 0 {
		m.Shininess = 32.0
	}

	shaderName := config.ShaderName
	if shaderName == "" {
		shaderName = metadata.BUILTIN_SHADER_NAME_WORLD
	}
	m.ShaderID = ms.shaderSystem.GetShaderID(shaderName)
	if m.ShaderID == metadata.InvalidID {
		return fmt.Errorf("material '%s' references unknown shader '%s'", config.Name, shaderName)
	}

	var texture *metadata.Texture
	if config.DiffuseMapName != "" {
		// The texture fills in asynchronously; until then the render views
		// substitute a default at bind time.
		texture = ms.textureSystem.Acquire(config.DiffuseMapName, true)
	}
	if texture == nil {
		if config.Emissive {
			texture = ms.textureSystem.GetDefaultDiffuseTexture()
		} else {
			texture = ms.textureSystem.GetDefaultTexture()
		}
	}

	m.DiffuseMap = &metadata.TextureMap{
		Texture:       texture,
		Use:           metadata.TextureUseMapDiffuse,
		FilterMinify:  metadata.TextureFilterModeLinear,
		FilterMagnify: metadata.TextureFilterModeLinear,
		RepeatU:       metadata.TextureRepeatRepeat,
		RepeatV:       metadata.TextureRepeatRepeat,
		RepeatW:       metadata.TextureRepeatRepeat,
	}
	if !ms.renderer.TextureMapAcquireResources(m.DiffuseMap) {
		return fmt.Errorf("failed to acquire texture map resources for material '%s'", config.Name)
	}

	m.Generation = 0
	return nil
}

func (ms *MaterialSystem) destroyMaterial(m *metadata.Material) {
	if m.DiffuseMap != nil {
		t := m.DiffuseMap.Texture
		if t != nil && t != ms.textureSystem.DefaultTexture && t != ms.textureSystem.DefaultDiffuseTexture {
			ms.textureSystem.Release(t.Name)
		}
		ms.renderer.TextureMapReleaseResources(m.DiffuseMap)
		m.DiffuseMap = nil
	}
	m.ID = metadata.InvalidID
	m.InternalID = metadata.InvalidID
	m.Generation = metadata.InvalidID
	m.Name = ""
	m.ShaderID = metadata.InvalidID
	m.Emissive = false
}

// ApplyGlobal sets the per-frame uniforms shared by every material drawn
// with the given shader, which must already be in use.
func (ms *MaterialSystem) ApplyGlobal(shaderID uint32, projection, view mgl32.Mat4, ambientColour mgl32.Vec4, viewPosition, lightPosition, lightColour mgl32.Vec3) error {
	ok := ms.shaderSystem.SetUniform("projection", projection)
	ok = ms.shaderSystem.SetUniform("view", view) && ok

	switch shaderID {
	case ms.shaderSystem.GetShaderID(metadata.BUILTIN_SHADER_NAME_WORLD):
		ok = ms.shaderSystem.SetUniform("ambient_colour", ambientColour) && ok
		ok = ms.shaderSystem.SetUniform("view_position", viewPosition) && ok
		ok = ms.shaderSystem.SetUniform("light_position", lightPosition) && ok
		ok = ms.shaderSystem.SetUniform("light_colour", lightColour) && ok
	case ms.shaderSystem.GetShaderID(metadata.BUILTIN_SHADER_NAME_UI):
		// The UI shader has no lighting inputs.
	default:
		return fmt.Errorf("func ApplyGlobal has no uniform layout for shader id %d", shaderID)
	}
	if !ok {
		return fmt.Errorf("failed to apply global uniforms for shader id %d", shaderID)
	}
	return nil
}

// ApplyInstance sets the per-material uniforms and binds the diffuse map.
// A texture that is still decoding on a worker has no GPU data yet; a
// default is bound in its place so the surface still draws, tinted by the
// material's diffuse colour.
func (ms *MaterialSystem) ApplyInstance(m *metadata.Material) error {
	ok := ms.shaderSystem.SetUniform("diffuse_colour", m.DiffuseColour)
	if m.ShaderID == ms.shaderSystem.GetShaderID(metadata.BUILTIN_SHADER_NAME_WORLD) {
		ok = ms.shaderSystem.SetUniform("shininess", m.Shininess) && ok
		ok = ms.shaderSystem.SetUniform("is_emissive", m.Emissive) && ok
	}

	if m.DiffuseMap == nil {
		return fmt.Errorf("material '%s' has no diffuse map", m.Name)
	}
	original := m.DiffuseMap.Texture
	if original == nil || original.InternalData == nil {
		if m.Emissive {
			m.DiffuseMap.Texture = ms.textureSystem.GetDefaultDiffuseTexture()
		} else {
			m.DiffuseMap.Texture = ms.textureSystem.GetDefaultTexture()
		}
	}
	bound := ms.renderer.TextureMapBind(m.DiffuseMap, 0)
	// The map keeps pointing at the real texture so the upload that finishes
	// later is picked up on the next bind.
	m.DiffuseMap.Texture = original
	if !bound {
		return fmt.Errorf("failed to bind the diffuse map of material '%s'", m.Name)
	}
	ok = ms.shaderSystem.SetUniform("diffuse_texture", int32(0)) && ok

	if !ok {
		return fmt.Errorf("failed to apply instance uniforms for material '%s'", m.Name)
	}
	return nil
}

// ApplyLocal sets the model matrix for the next draw.
func (ms *MaterialSystem) ApplyLocal(m *metadata.Material, model mgl32.Mat4) error {
	if !ms.shaderSystem.SetUniform("model", model) {
		return fmt.Errorf("failed to apply the model matrix for material '%s'", m.Name)
	}
	return nil
}
