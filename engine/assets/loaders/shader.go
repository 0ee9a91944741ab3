package loaders

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type ShaderLoader struct{}

// shadercfg files are TOML. They name the program, its GLSL stage sources
// relative to the shaders directory, and the uniforms the views will set.
type shaderFile struct {
	Name     string            `toml:"name"`
	Stages   []shaderFileStage `toml:"stages"`
	Uniforms []string          `toml:"uniforms"`
}

type shaderFileStage struct {
	Stage  string `toml:"stage"`
	Source string `toml:"source"`
}

func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file shaderFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse shader config %s: %s", path, err)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("shader config %s has no name", path)
	}
	if len(file.Stages) == 0 {
		return nil, fmt.Errorf("shader config %s declares no stages", path)
	}

	config := &metadata.ShaderConfig{
		Name:     file.Name,
		Uniforms: file.Uniforms,
	}
	for _, stage := range file.Stages {
		parsed, err := parseShaderStage(stage.Stage)
		if err != nil {
			return nil, fmt.Errorf("shader config %s: %s", path, err)
		}
		config.Stages = append(config.Stages, &metadata.ShaderStageConfig{
			Stage:        parsed,
			ResourceName: stage.Source,
		})
	}

	return &metadata.Resource{
		Name:     file.Name,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     config,
	}, nil
}

func (sl *ShaderLoader) Unload(*metadata.Resource) error {
	return nil
}

func parseShaderStage(name string) (metadata.ShaderStage, error) {
	switch strings.ToLower(name) {
	case "vertex":
		return metadata.ShaderStageVertex, nil
	case "fragment":
		return metadata.ShaderStageFragment, nil
	case "geometry":
		return metadata.ShaderStageGeometry, nil
	case "compute":
		return metadata.ShaderStageCompute, nil
	default:
		return 0, fmt.Errorf("unknown shader stage %q", name)
	}
}
