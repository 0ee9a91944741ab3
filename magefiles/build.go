//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the viewer binary into bin/.
func (Build) Binary() error {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/helios", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Validates the GLSL sources under assets/shaders with glslangValidator.
// The engine compiles them at runtime, this only catches mistakes earlier.
func (Build) Shaders() error {
	sources, err := filepath.Glob("assets/shaders/*.glsl")
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no shader sources found under assets/shaders")
	}
	for _, source := range sources {
		stage := ""
		switch {
		case strings.HasSuffix(source, ".vert.glsl"):
			stage = "vert"
		case strings.HasSuffix(source, ".frag.glsl"):
			stage = "frag"
		default:
			continue
		}
		if _, err := executeCmd("glslangValidator", withArgs("-S", stage, source), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Runs the whole test suite.
func (Build) Test() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
