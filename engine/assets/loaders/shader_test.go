package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

func writeShaderConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.shadercfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestShaderLoaderParsesConfig(t *testing.T) {
	loader := &ShaderLoader{}
	resource, err := loader.Load(writeShaderConfig(t, `
name = "Shader.Builtin.World"
uniforms = ["projection", "view", "model"]

[[stages]]
stage = "vertex"
source = "shaders/Shader.Builtin.World.vert.glsl"

[[stages]]
stage = "fragment"
source = "shaders/Shader.Builtin.World.frag.glsl"
`), metadata.ResourceTypeShader, nil)
	require.NoError(t, err)

	config, ok := resource.Data.(*metadata.ShaderConfig)
	require.True(t, ok)
	assert.Equal(t, "Shader.Builtin.World", config.Name)
	assert.Equal(t, []string{"projection", "view", "model"}, config.Uniforms)

	require.Len(t, config.Stages, 2)
	assert.Equal(t, metadata.ShaderStageVertex, config.Stages[0].Stage)
	assert.Equal(t, "shaders/Shader.Builtin.World.vert.glsl", config.Stages[0].ResourceName)
	assert.Equal(t, metadata.ShaderStageFragment, config.Stages[1].Stage)
}

func TestShaderLoaderRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"no name", `
[[stages]]
stage = "vertex"
source = "a.glsl"
`,
		},
		{"no stages", `name = "empty"`},
		{
			"unknown stage", `
name = "odd"

[[stages]]
stage = "tessellation"
source = "a.glsl"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &ShaderLoader{}
			_, err := loader.Load(writeShaderConfig(t, tt.content), metadata.ResourceTypeShader, nil)
			assert.Error(t, err)
		})
	}
}
