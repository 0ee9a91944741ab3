package systems

import (
	"fmt"

	"github.com/spaghettifunk/helios/engine/assets"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
}

/**
 * @brief Compiles, tracks and binds shader programs. Shaders are created from
 * a configuration that names one GLSL source per stage; the system loads the
 * sources through the asset manager and hands them to the renderer. The
 * configuration is kept for the shader's lifetime so an edited source file
 * can be recompiled in place.
 */
type ShaderSystem struct {
	Config ShaderSystemConfig
	// Lookup maps a shader name to its identifier.
	Lookup map[string]uint32
	// CurrentShaderID identifies the currently bound shader.
	CurrentShaderID uint32
	// Shaders holds the preallocated shader slots.
	Shaders []*metadata.Shader
	// configs retains the creation config per shader for reloads.
	configs map[uint32]*metadata.ShaderConfig

	assetManager *assets.AssetManager
	renderer     *RendererSystem
}

func NewShaderSystem(config ShaderSystemConfig, am *assets.AssetManager, r *RendererSystem) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		return nil, fmt.Errorf("func NewShaderSystem requires MaxShaderCount > 0")
	}
	ss := &ShaderSystem{
		Config:          config,
		Lookup:          make(map[string]uint32),
		CurrentShaderID: metadata.InvalidID,
		Shaders:         make([]*metadata.Shader, config.MaxShaderCount),
		configs:         make(map[uint32]*metadata.ShaderConfig),
		assetManager:    am,
		renderer:        r,
	}
	// Invalidate all shader slots.
	for i := range ss.Shaders {
		ss.Shaders[i] = &metadata.Shader{ID: metadata.InvalidID}
	}
	return ss, nil
}

func (ss *ShaderSystem) Shutdown() error {
	for _, shader := range ss.Shaders {
		if shader.ID != metadata.InvalidID {
			ss.renderer.ShaderDestroy(shader)
			shader.ID = metadata.InvalidID
		}
	}
	ss.Lookup = make(map[string]uint32)
	ss.configs = make(map[uint32]*metadata.ShaderConfig)
	ss.CurrentShaderID = metadata.InvalidID
	return nil
}

/**
 * @brief Creates a new shader from the given config, loading and compiling
 * every stage source it names.
 *
 * @param config The configuration to be used when creating the shader.
 * @return The created shader, or an error.
 */
func (ss *ShaderSystem) CreateShader(config *metadata.ShaderConfig) (*metadata.Shader, error) {
	if config == nil || config.Name == "" {
		return nil, fmt.Errorf("func CreateShader requires a config with a name")
	}
	if _, exists := ss.Lookup[config.Name]; exists {
		return nil, fmt.Errorf("a shader named '%s' already exists", config.Name)
	}
	if len(config.Stages) == 0 {
		return nil, fmt.Errorf("shader '%s' does not define any stages", config.Name)
	}

	id := ss.newShaderID()
	if id == metadata.InvalidID {
		return nil, fmt.Errorf("shader system cannot hold more than %d shaders, adjust the configuration", ss.Config.MaxShaderCount)
	}

	shader := ss.Shaders[id]
	shader.ID = id
	shader.Name = config.Name
	shader.State = metadata.SHADER_STATE_NOT_CREATED

	sources, err := ss.loadStageSources(config)
	if err != nil {
		shader.ID = metadata.InvalidID
		return nil, err
	}
	if !ss.renderer.ShaderCreate(shader, config, sources) {
		shader.ID = metadata.InvalidID
		return nil, fmt.Errorf("shader '%s' failed to compile or link", config.Name)
	}

	ss.Lookup[config.Name] = id
	ss.configs[id] = config
	return shader, nil
}

/**
 * @brief Gets the identifier of a shader by name.
 *
 * @param shaderName The name of the shader.
 * @return The shader id, if found; otherwise InvalidID.
 */
func (ss *ShaderSystem) GetShaderID(shaderName string) uint32 {
	id, exists := ss.Lookup[shaderName]
	if !exists {
		return metadata.InvalidID
	}
	return id
}

/**
 * @brief Returns a pointer to a shader with the given identifier.
 *
 * @param shaderID The shader identifier.
 * @return A pointer to a shader, if found.
 */
func (ss *ShaderSystem) GetShaderByID(shaderID uint32) (*metadata.Shader, error) {
	if shaderID >= uint32(ss.Config.MaxShaderCount) || ss.Shaders[shaderID].ID == metadata.InvalidID {
		return nil, fmt.Errorf("shader with ID %d not found", shaderID)
	}
	return ss.Shaders[shaderID], nil
}

/**
 * @brief Returns a pointer to a shader with the given name.
 *
 * @param shaderName The name to search for. Case sensitive.
 * @return A pointer to a shader, if found.
 */
func (ss *ShaderSystem) GetShader(shaderName string) (*metadata.Shader, error) {
	id := ss.GetShaderID(shaderName)
	if id == metadata.InvalidID {
		return nil, fmt.Errorf("shader with name '%s' not found", shaderName)
	}
	return ss.GetShaderByID(id)
}

/**
 * @brief Uses the shader with the given name.
 *
 * @param shaderName The name of the shader to use. Case sensitive.
 * @return True on success; otherwise false.
 */
func (ss *ShaderSystem) UseShader(shaderName string) bool {
	id := ss.GetShaderID(shaderName)
	if id == metadata.InvalidID {
		core.LogError("func UseShader called with unknown shader '%s'", shaderName)
		return false
	}
	return ss.UseShaderByID(id)
}

/**
 * @brief Uses the shader with the given identifier.
 *
 * @param shaderID The identifier of the shader to be used.
 * @return True on success; otherwise false.
 */
func (ss *ShaderSystem) UseShaderByID(shaderID uint32) bool {
	shader, err := ss.GetShaderByID(shaderID)
	if err != nil {
		core.LogError(err.Error())
		return false
	}
	if !ss.renderer.ShaderUse(shader) {
		return false
	}
	ss.CurrentShaderID = shaderID
	return true
}

/**
 * @brief Sets the value of a uniform with the given name to the supplied
 * value. Operates against the currently-used shader.
 *
 * @param uniformName The name of the uniform to be set.
 * @param value The value to be set.
 * @return True on success; otherwise false.
 */
func (ss *ShaderSystem) SetUniform(uniformName string, value interface{}) bool {
	if ss.CurrentShaderID == metadata.InvalidID {
		core.LogError("func SetUniform called without a shader in use")
		return false
	}
	return ss.renderer.ShaderSetUniform(ss.Shaders[ss.CurrentShaderID], uniformName, value)
}

// ReloadFromSource recompiles every shader whose stage list names the given
// source resource. Returns true if at least one shader picked up the change.
// A source that no longer compiles keeps the previous program running.
func (ss *ShaderSystem) ReloadFromSource(resourceName string) bool {
	reloaded := false
	for id, config := range ss.configs {
		uses := false
		for _, stage := range config.Stages {
			if stage.ResourceName == resourceName {
				uses = true
				break
			}
		}
		if !uses {
			continue
		}
		if err := ss.reloadShader(ss.Shaders[id], config); err != nil {
			core.LogError("shader '%s' reload failed: %s", config.Name, err)
			continue
		}
		core.LogInfo("shader '%s' reloaded from '%s'", config.Name, resourceName)
		reloaded = true
	}
	return reloaded
}

func (ss *ShaderSystem) reloadShader(shader *metadata.Shader, config *metadata.ShaderConfig) error {
	sources, err := ss.loadStageSources(config)
	if err != nil {
		return err
	}
	if !ss.renderer.ShaderCreate(shader, config, sources) {
		return fmt.Errorf("recompile failed, previous program stays active")
	}
	return nil
}

// loadStageSources reads the GLSL text for every stage in the config.
func (ss *ShaderSystem) loadStageSources(config *metadata.ShaderConfig) (map[metadata.ShaderStage]string, error) {
	sources := make(map[metadata.ShaderStage]string, len(config.Stages))
	for _, stage := range config.Stages {
		resource, err := ss.assetManager.LoadAsset(stage.ResourceName, metadata.ResourceTypeText, nil)
		if err != nil {
			return nil, fmt.Errorf("shader '%s' stage source '%s' failed to load: %w", config.Name, stage.ResourceName, err)
		}
		text, ok := resource.Data.(string)
		if !ok {
			ss.assetManager.UnloadAsset(resource)
			return nil, fmt.Errorf("shader '%s' stage source '%s' did not load as text", config.Name, stage.ResourceName)
		}
		sources[stage.Stage] = text
		ss.assetManager.UnloadAsset(resource)
	}
	return sources, nil
}

func (ss *ShaderSystem) newShaderID() uint32 {
	for i := range ss.Shaders {
		if ss.Shaders[i].ID == metadata.InvalidID {
			return uint32(i)
		}
	}
	return metadata.InvalidID
}
