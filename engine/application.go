package engine

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name       string
	Fullscreen bool
	LogLevel   string
	// Scenario name, resolved to assets/scenarios/<name>.toml.
	Scenario string
	Camera   CameraConfig
	// Fonts to load at startup. Nil falls back to the builtin face.
	FontConfig *metadata.FontSystemConfig
}

// CameraConfig overrides the default camera tuning.
type CameraConfig struct {
	FOV         float32 `toml:"fov"`
	Sensitivity float32 `toml:"sensitivity"`
	Speed       float32 `toml:"speed"`
	SprintSpeed float32 `toml:"sprint_speed"`
}

// configFile mirrors the layout of assets/config.toml.
type configFile struct {
	Window struct {
		Title      string `toml:"title"`
		Width      uint32 `toml:"width"`
		Height     uint32 `toml:"height"`
		Fullscreen bool   `toml:"fullscreen"`
	} `toml:"window"`
	Camera CameraConfig `toml:"camera"`
	Log    struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Scenario struct {
		Name string `toml:"name"`
	} `toml:"scenario"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Helios",
		Fullscreen:  false,
		LogLevel:    "info",
		Scenario:    "sol",
		Camera: CameraConfig{
			FOV:         45.0,
			Sensitivity: 0.1,
			Speed:       5.0,
			SprintSpeed: 15.0,
		},
	}
}

// LoadApplicationConfig reads the TOML config file at path and overlays it
// onto the defaults. A missing file is not an error, the defaults are used
// as-is so the application can run from a bare checkout.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			core.LogWarn("config file `%s` not found, using defaults", path)
			return config, nil
		}
		return nil, err
	}

	file := configFile{}
	file.Camera = config.Camera
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	if file.Window.Title != "" {
		config.Name = file.Window.Title
	}
	if file.Window.Width > 0 {
		config.StartWidth = file.Window.Width
	}
	if file.Window.Height > 0 {
		config.StartHeight = file.Window.Height
	}
	config.Fullscreen = file.Window.Fullscreen
	if file.Log.Level != "" {
		config.LogLevel = file.Log.Level
	}
	if file.Scenario.Name != "" {
		config.Scenario = file.Scenario.Name
	}
	config.Camera = file.Camera

	return config, nil
}
