package loaders

import (
	"fmt"
	"os"

	mgl32 "github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/scene"
)

type ScenarioLoader struct{}

type scenarioFile struct {
	Name   string          `toml:"name"`
	Bodies []scenarioBody  `toml:"bodies"`
	Light  *scenarioLight  `toml:"light"`
	Camera *scenarioCamera `toml:"camera"`
}

type scenarioBody struct {
	Name          string    `toml:"name"`
	Parent        string    `toml:"parent"`
	Radius        float32   `toml:"radius"`
	Texture       string    `toml:"texture"`
	Emissive      bool      `toml:"emissive"`
	OrbitRadius   float32   `toml:"orbit_radius"`
	OrbitSpeed    float32   `toml:"orbit_speed"`
	RotationSpeed float32   `toml:"rotation_speed"`
	RotationAxis  []float32 `toml:"rotation_axis"`
}

type scenarioLight struct {
	Position []float32 `toml:"position"`
	Colour   []float32 `toml:"colour"`
}

type scenarioCamera struct {
	Position []float32 `toml:"position"`
}

// Load parses a scenario description. Body names must be unique and radii
// positive; hierarchy problems such as cycles are left to the registry,
// which sees the full picture.
func (sl *ScenarioLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file scenarioFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %s", path, err)
	}
	if len(file.Bodies) == 0 {
		return nil, fmt.Errorf("scenario %s declares no bodies", path)
	}

	scenario := &scene.Scenario{
		Name:           file.Name,
		Bodies:         make([]*scene.CelestialBody, 0, len(file.Bodies)),
		CameraPosition: mgl32.Vec3{0, 5, 20},
		LightColour:    mgl32.Vec3{1, 1, 1},
	}

	seen := make(map[string]bool, len(file.Bodies))
	for _, body := range file.Bodies {
		if body.Name == "" {
			return nil, fmt.Errorf("scenario %s contains a body with no name", path)
		}
		if seen[body.Name] {
			return nil, fmt.Errorf("scenario %s declares body %q twice", path, body.Name)
		}
		seen[body.Name] = true
		if body.Radius <= 0 {
			return nil, fmt.Errorf("scenario %s: body %q needs a positive radius, got %g", path, body.Name, body.Radius)
		}

		scenario.Bodies = append(scenario.Bodies, &scene.CelestialBody{
			Name:          body.Name,
			ParentName:    body.Parent,
			Radius:        body.Radius,
			TexturePath:   body.Texture,
			Emissive:      body.Emissive,
			OrbitRadius:   body.OrbitRadius,
			OrbitSpeed:    body.OrbitSpeed,
			RotationSpeed: body.RotationSpeed,
			RotationAxis:  vec3OrDefault(body.RotationAxis, mgl32.Vec3{0, 1, 0}),
		})
	}

	if file.Light != nil {
		scenario.LightPosition = vec3OrDefault(file.Light.Position, mgl32.Vec3{})
		scenario.LightColour = vec3OrDefault(file.Light.Colour, mgl32.Vec3{1, 1, 1})
	}
	if file.Camera != nil {
		scenario.CameraPosition = vec3OrDefault(file.Camera.Position, scenario.CameraPosition)
	}

	return &metadata.Resource{
		Name:     file.Name,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     scenario,
	}, nil
}

func (sl *ScenarioLoader) Unload(*metadata.Resource) error {
	return nil
}

func vec3OrDefault(values []float32, fallback mgl32.Vec3) mgl32.Vec3 {
	if len(values) != 3 {
		return fallback
	}
	return mgl32.Vec3{values[0], values[1], values[2]}
}
