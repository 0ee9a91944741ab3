package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/scene"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadScenario(t *testing.T, content string) *scene.Scenario {
	t.Helper()
	loader := &ScenarioLoader{}
	resource, err := loader.Load(writeScenario(t, content), metadata.ResourceTypeScenario, nil)
	require.NoError(t, err)
	scenario, ok := resource.Data.(*scene.Scenario)
	require.True(t, ok, "scenario loader must return a *scene.Scenario")
	return scenario
}

func TestScenarioLoaderFullFile(t *testing.T) {
	scenario := loadScenario(t, `
name = "sol"

[[bodies]]
name = "sun"
radius = 2.0
emissive = true
rotation_speed = 0.05
texture = "sun.png"

[[bodies]]
name = "earth"
parent = "sun"
radius = 0.5
orbit_radius = 10.0
orbit_speed = 0.2
rotation_speed = 1.0
rotation_axis = [0.397, 0.918, 0.0]

[light]
position = [0.0, 0.0, 0.0]
colour = [1.0, 0.95, 0.9]

[camera]
position = [0.0, 8.0, 25.0]
`)

	assert.Equal(t, "sol", scenario.Name)
	require.Len(t, scenario.Bodies, 2)

	sun := scenario.Bodies[0]
	assert.Equal(t, "sun", sun.Name)
	assert.True(t, sun.Emissive)
	assert.Equal(t, "sun.png", sun.TexturePath)
	assert.Equal(t, float32(2.0), sun.Radius)

	earth := scenario.Bodies[1]
	assert.Equal(t, "sun", earth.ParentName)
	assert.Equal(t, float32(10.0), earth.OrbitRadius)
	assert.InDelta(t, 0.918, earth.RotationAxis.Y(), 1e-5)

	assert.InDelta(t, 0.95, scenario.LightColour.Y(), 1e-5)
	assert.InDelta(t, 25.0, scenario.CameraPosition.Z(), 1e-5)
}

func TestScenarioLoaderDefaults(t *testing.T) {
	scenario := loadScenario(t, `
name = "minimal"

[[bodies]]
name = "rock"
radius = 1.0
`)

	require.Len(t, scenario.Bodies, 1)
	rock := scenario.Bodies[0]

	// Untilted spin, white light at the origin, camera on the default perch.
	assert.Equal(t, float32(0), rock.OrbitRadius)
	assert.InDelta(t, 1.0, rock.RotationAxis.Y(), 1e-6)
	assert.InDelta(t, 0.0, rock.RotationAxis.X(), 1e-6)
	assert.Equal(t, float32(1), scenario.LightColour.X())
	assert.Equal(t, float32(20), scenario.CameraPosition.Z())
	assert.Equal(t, float32(5), scenario.CameraPosition.Y())
}

func TestScenarioLoaderMalformedAxisFallsBack(t *testing.T) {
	scenario := loadScenario(t, `
name = "tilted"

[[bodies]]
name = "rock"
radius = 1.0
rotation_axis = [1.0, 0.0]
`)

	// A two component axis is ignored in favour of straight up.
	assert.InDelta(t, 1.0, scenario.Bodies[0].RotationAxis.Y(), 1e-6)
}

func TestScenarioLoaderRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no bodies", `name = "empty"`},
		{
			"unnamed body", `
[[bodies]]
radius = 1.0
`,
		},
		{
			"duplicate body", `
[[bodies]]
name = "twin"
radius = 1.0

[[bodies]]
name = "twin"
radius = 2.0
`,
		},
		{
			"zero radius", `
[[bodies]]
name = "point"
radius = 0.0
`,
		},
		{
			"negative radius", `
[[bodies]]
name = "inverted"
radius = -1.0
`,
		},
		{"not toml", `{"name": "json"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &ScenarioLoader{}
			resource, err := loader.Load(writeScenario(t, tt.content), metadata.ResourceTypeScenario, nil)
			assert.Error(t, err)
			assert.Nil(t, resource)
		})
	}
}

func TestScenarioLoaderMissingFile(t *testing.T) {
	loader := &ScenarioLoader{}
	_, err := loader.Load(filepath.Join(t.TempDir(), "absent.toml"), metadata.ResourceTypeScenario, nil)
	assert.Error(t, err)
}
