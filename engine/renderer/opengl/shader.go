package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	mgl32 "github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

/**
 * @brief The linked GL program backing a shader, with the uniform
 * locations resolved at creation time.
 */
type OpenGLShader struct {
	Program          uint32
	UniformLocations map[string]int32
}

// ShaderCreate compiles and links the stages listed in the config. The
// sources map holds the GLSL text per stage, already loaded by the caller.
func (gr *OpenGLRenderer) ShaderCreate(shader *metadata.Shader, config *metadata.ShaderConfig, sources map[metadata.ShaderStage]string) bool {
	program := gl.CreateProgram()
	handles := make([]uint32, 0, len(config.Stages))

	for _, stage := range config.Stages {
		source, ok := sources[stage.Stage]
		if !ok {
			core.LogError("shader %s is missing the source for stage 0x%x", config.Name, stage.Stage)
			gl.DeleteProgram(program)
			return false
		}
		handle, err := compileStage(source, stage.Stage)
		if err != nil {
			core.LogError("shader %s stage %s failed to compile: %s", config.Name, stage.ResourceName, err)
			gl.DeleteProgram(program)
			return false
		}
		gl.AttachShader(program, handle)
		handles = append(handles, handle)
	}

	gl.LinkProgram(program)
	for _, handle := range handles {
		gl.DetachShader(program, handle)
		gl.DeleteShader(handle)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(msg))
		core.LogError("shader %s failed to link: %s", config.Name, msg)
		gl.DeleteProgram(program)
		return false
	}

	locations := make(map[string]int32, len(config.Uniforms))
	for _, name := range config.Uniforms {
		location := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		if location < 0 {
			// Uploads to location -1 are silently dropped by GL, so a
			// missing uniform only costs this one warning.
			core.LogWarn("shader %s has no active uniform named %s", config.Name, name)
		}
		locations[name] = location
	}

	// On a reload the previous program survives until the replacement has
	// linked, so a broken edit never leaves the shader unusable.
	if previous, ok := shader.InternalData.(*OpenGLShader); ok {
		gl.DeleteProgram(previous.Program)
	}

	shader.InternalData = &OpenGLShader{
		Program:          program,
		UniformLocations: locations,
	}
	shader.State = metadata.SHADER_STATE_INITIALIZED
	return true
}

func (gr *OpenGLRenderer) ShaderDestroy(shader *metadata.Shader) {
	internal, ok := shader.InternalData.(*OpenGLShader)
	if !ok {
		return
	}
	gl.DeleteProgram(internal.Program)
	shader.InternalData = nil
	shader.State = metadata.SHADER_STATE_NOT_CREATED
}

func (gr *OpenGLRenderer) ShaderUse(shader *metadata.Shader) bool {
	internal, ok := shader.InternalData.(*OpenGLShader)
	if !ok {
		core.LogError("shader %s cannot be used before it is created", shader.Name)
		return false
	}
	gl.UseProgram(internal.Program)
	return true
}

// ShaderSetUniform uploads a single uniform value to the shader, which must
// currently be in use.
func (gr *OpenGLRenderer) ShaderSetUniform(shader *metadata.Shader, name string, value interface{}) bool {
	internal, ok := shader.InternalData.(*OpenGLShader)
	if !ok {
		return false
	}
	location, ok := internal.UniformLocations[name]
	if !ok {
		core.LogError("shader %s has no uniform named %s", shader.Name, name)
		return false
	}

	switch v := value.(type) {
	case mgl32.Mat4:
		gl.UniformMatrix4fv(location, 1, false, &v[0])
	case mgl32.Vec4:
		gl.Uniform4fv(location, 1, &v[0])
	case mgl32.Vec3:
		gl.Uniform3fv(location, 1, &v[0])
	case mgl32.Vec2:
		gl.Uniform2fv(location, 1, &v[0])
	case float32:
		gl.Uniform1f(location, v)
	case int32:
		gl.Uniform1i(location, v)
	case int:
		gl.Uniform1i(location, int32(v))
	case bool:
		var b int32
		if v {
			b = 1
		}
		gl.Uniform1i(location, b)
	default:
		core.LogError("unsupported uniform type for %s on shader %s", name, shader.Name)
		return false
	}
	return true
}

func compileStage(source string, stage metadata.ShaderStage) (uint32, error) {
	var glType uint32
	switch stage {
	case metadata.ShaderStageVertex:
		glType = gl.VERTEX_SHADER
	case metadata.ShaderStageFragment:
		glType = gl.FRAGMENT_SHADER
	case metadata.ShaderStageGeometry:
		glType = gl.GEOMETRY_SHADER
	default:
		return 0, fmt.Errorf("shader stage 0x%x is not supported on OpenGL 3.3", stage)
	}

	handle := gl.CreateShader(glType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("%v", msg)
	}
	return handle, nil
}
