package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadApplicationConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	defaults := DefaultApplicationConfig()
	assert.Equal(t, defaults, config)
}

func TestLoadApplicationConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
title = "Helios Test"
width = 1920

[camera]
fov = 60.0

[scenario]
name = "binary-star"
`), 0o644))

	config, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Helios Test", config.Name)
	assert.Equal(t, uint32(1920), config.StartWidth)
	assert.Equal(t, "binary-star", config.Scenario)
	assert.Equal(t, float32(60), config.Camera.FOV)

	// Everything the file does not mention keeps its default.
	assert.Equal(t, uint32(720), config.StartHeight)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, float32(0.1), config.Camera.Sensitivity)
	assert.Equal(t, float32(15), config.Camera.SprintSpeed)
	assert.False(t, config.Fullscreen)
}

func TestLoadApplicationConfigRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\ntitle ="), 0o644))

	config, err := LoadApplicationConfig(path)
	assert.Error(t, err)
	assert.Nil(t, config)
}
