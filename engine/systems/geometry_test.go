package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

// The Generate*Config helpers are pure, they never touch renderer state.

func TestGenerateSphereConfigCounts(t *testing.T) {
	gs := &GeometrySystem{}
	config, err := gs.GenerateSphereConfig(1.0, 48, 64, "Geometry.Body.earth", "Material.Body.earth")
	require.NoError(t, err)

	// One extra column for the seam, one extra row for the poles.
	assert.Len(t, config.Vertices, 49*65)
	assert.Len(t, config.Indices, 48*64*6)
	assert.Equal(t, "Geometry.Body.earth", config.Name)
	assert.Equal(t, "Material.Body.earth", config.MaterialName)

	for _, index := range config.Indices {
		require.Less(t, index, uint32(len(config.Vertices)))
	}
}

func TestGenerateSphereConfigGeometry(t *testing.T) {
	gs := &GeometrySystem{}
	const radius = 2.5
	config, err := gs.GenerateSphereConfig(radius, 8, 12, "sphere", "")
	require.NoError(t, err)

	for i, vertex := range config.Vertices {
		assert.InDelta(t, 1, vertex.Normal.Len(), 1e-4, "normal %d is not unit length", i)
		assert.InDelta(t, radius, vertex.Position.Len(), 1e-4, "vertex %d is off the surface", i)

		// Analytic sphere normals point away from the centre.
		assert.InDelta(t, 0, vertex.Position.Sub(vertex.Normal.Mul(radius)).Len(), 1e-4)
	}

	// First ring is the north pole, last ring the south pole.
	assert.InDelta(t, radius, config.Vertices[0].Position.Y(), 1e-4)
	assert.InDelta(t, -radius, config.Vertices[len(config.Vertices)-1].Position.Y(), 1e-4)
}

func TestGenerateSphereConfigTexcoords(t *testing.T) {
	gs := &GeometrySystem{}
	const rings, sectors = 6, 9
	config, err := gs.GenerateSphereConfig(1, rings, sectors, "sphere", "")
	require.NoError(t, err)

	// The seam duplicates u=0 as u=1 and v runs 1 at the north pole down
	// to 0 at the south pole.
	assert.InDelta(t, 0, config.Vertices[0].Texcoord.X(), 1e-6)
	assert.InDelta(t, 1, config.Vertices[sectors].Texcoord.X(), 1e-6)
	assert.InDelta(t, 1, config.Vertices[0].Texcoord.Y(), 1e-6)
	assert.InDelta(t, 0, config.Vertices[rings*(sectors+1)].Texcoord.Y(), 1e-6)
}

func TestGenerateSphereConfigDefaults(t *testing.T) {
	gs := &GeometrySystem{}
	config, err := gs.GenerateSphereConfig(0, 1, 2, "", "")
	require.NoError(t, err)

	// Degenerate parameters fall back to the minimum viable sphere.
	assert.Len(t, config.Vertices, 4*4)
	assert.Len(t, config.Indices, 3*3*6)
	assert.Equal(t, metadata.DefaultGeometryName, config.Name)
	assert.Equal(t, metadata.DefaultMaterialName, config.MaterialName)
	assert.InDelta(t, 1, config.Vertices[0].Position.Len(), 1e-4)
}

func TestGenerateCubeConfig(t *testing.T) {
	gs := &GeometrySystem{}
	config, err := gs.GenerateCubeConfig(10, 10, 10, 1, 1, "Geometry.Skybox", "")
	require.NoError(t, err)

	assert.Len(t, config.Vertices, 24)
	assert.Len(t, config.Indices, 36)
	assert.Equal(t, "Geometry.Skybox", config.Name)

	for i, vertex := range config.Vertices {
		assert.InDelta(t, 1, vertex.Normal.Len(), 1e-5, "face normal %d is not unit length", i)
		// Every corner of a 10x10x10 cube sits at (+-5, +-5, +-5).
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, 5, float64(abs(vertex.Position[axis])), 1e-5)
		}
	}
	for _, index := range config.Indices {
		require.Less(t, index, uint32(24))
	}
}

func TestGenerateQuadConfig(t *testing.T) {
	gs := &GeometrySystem{}
	config, err := gs.GenerateQuadConfig(32, 16, "Geometry.HUD", "")
	require.NoError(t, err)

	require.Len(t, config.Vertices2D, 4)
	assert.Len(t, config.Indices, 6)
	assert.Empty(t, config.Vertices)

	// Origin in the top-left corner, extent at (width, height).
	assert.Equal(t, float32(0), config.Vertices2D[0].Position.X())
	assert.Equal(t, float32(0), config.Vertices2D[0].Position.Y())
	assert.Equal(t, float32(32), config.Vertices2D[1].Position.X())
	assert.Equal(t, float32(16), config.Vertices2D[1].Position.Y())
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
