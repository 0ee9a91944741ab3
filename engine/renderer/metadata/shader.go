package metadata

const (
	/** @brief The name of the builtin skybox shader. */
	BUILTIN_SHADER_NAME_SKYBOX string = "Shader.Builtin.Skybox"
	/** @brief The name of the builtin world shader. */
	BUILTIN_SHADER_NAME_WORLD string = "Shader.Builtin.World"
	/** @brief The name of the builtin UI shader. */
	BUILTIN_SHADER_NAME_UI string = "Shader.Builtin.UI"
)

/**
 * @brief Represents the current state of a given shader.
 */
type ShaderState int

const (
	/** @brief The shader has not yet gone through the creation process, and is unusable.*/
	SHADER_STATE_NOT_CREATED ShaderState = iota
	/** @brief The shader has gone through the creation process, but not initialization. It is unusable.*/
	SHADER_STATE_UNINITIALIZED
	/** @brief The shader is created and initialized, and is ready for use.*/
	SHADER_STATE_INITIALIZED
)

/** @brief Shader stages available in the system. */
type ShaderStage int

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageGeometry ShaderStage = 0x00000002
	ShaderStageFragment ShaderStage = 0x00000004
	ShaderStageCompute  ShaderStage = 0x0000008
)

/** @brief One stage of a shader program and the resource holding its source. */
type ShaderStageConfig struct {
	Stage ShaderStage
	/** @brief The resource name of the GLSL source. */
	ResourceName string
}

/**
 * @brief The configuration of a shader program. Uniform locations are
 * resolved once after linking, for the names listed here.
 */
type ShaderConfig struct {
	/** @brief The Name of the shader. */
	Name string
	/** @brief The stages to compile and link. */
	Stages []*ShaderStageConfig
	/** @brief The uniform names this shader exposes. */
	Uniforms []string
}

/**
 * @brief Represents a shader on the frontend.
 */
type Shader struct {
	/** @brief The shader identifier */
	ID uint32

	Name string

	/** @brief The internal State of the shader. */
	State ShaderState

	/** @brief An opaque pointer to hold renderer API specific data. Renderer is responsible for creation and destruction of this. */
	InternalData interface{}
}
