package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solBodies() []*CelestialBody {
	return []*CelestialBody{
		{Name: "sun", Radius: 2, RotationSpeed: 0.05, RotationAxis: mgl32.Vec3{0, 1, 0}},
		{Name: "earth", Radius: 0.5, ParentName: "sun", OrbitRadius: 10, OrbitSpeed: 0.2},
		{Name: "moon", Radius: 0.15, ParentName: "earth", OrbitRadius: 1.5, OrbitSpeed: 1.5},
		{Name: "mars", Radius: 0.3, ParentName: "sun", OrbitRadius: 15, OrbitSpeed: 0.15},
	}
}

func TestNewRegistryKeepsInsertionOrder(t *testing.T) {
	registry, err := NewRegistry(solBodies())
	require.NoError(t, err)

	assert.Equal(t, 4, registry.Len())
	assert.False(t, registry.Degraded())

	names := make([]string, 0, registry.Len())
	for _, body := range registry.Bodies() {
		names = append(names, body.Name)
	}
	assert.Equal(t, []string{"sun", "earth", "moon", "mars"}, names)

	idx, ok := registry.IndexOf("mars")
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = registry.IndexOf("pluto")
	assert.False(t, ok)
}

func TestRegistryGet(t *testing.T) {
	registry, err := NewRegistry(solBodies())
	require.NoError(t, err)

	moon, ok := registry.Get("moon")
	require.True(t, ok)
	assert.Equal(t, "moon", moon.Name)
	assert.Equal(t, float32(0.15), moon.Radius)

	_, ok = registry.Get("phobos")
	assert.False(t, ok)
}

func TestNewRegistryRejectsDuplicateNames(t *testing.T) {
	bodies := []*CelestialBody{
		{Name: "sun", Radius: 2},
		{Name: "sun", Radius: 1},
	}
	registry, err := NewRegistry(bodies)
	assert.ErrorIs(t, err, ErrDuplicateBody)
	assert.Nil(t, registry)
}

func TestNewRegistryRejectsCycles(t *testing.T) {
	tests := []struct {
		name   string
		bodies []*CelestialBody
	}{
		{
			name: "two body cycle",
			bodies: []*CelestialBody{
				{Name: "a", Radius: 1, ParentName: "b"},
				{Name: "b", Radius: 1, ParentName: "a"},
			},
		},
		{
			name: "self parent",
			bodies: []*CelestialBody{
				{Name: "a", Radius: 1, ParentName: "a"},
			},
		},
		{
			name: "three body cycle",
			bodies: []*CelestialBody{
				{Name: "a", Radius: 1, ParentName: "c"},
				{Name: "b", Radius: 1, ParentName: "a"},
				{Name: "c", Radius: 1, ParentName: "b"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := NewRegistry(tt.bodies)
			assert.ErrorIs(t, err, ErrCyclicHierarchy)
			assert.Nil(t, registry)
		})
	}
}

func TestNewRegistryUnknownParentOrbitsOrigin(t *testing.T) {
	bodies := []*CelestialBody{
		{Name: "sun", Radius: 2},
		{Name: "stray", Radius: 1, ParentName: "ghost", OrbitRadius: 4},
	}
	registry, err := NewRegistry(bodies)
	require.NoError(t, err)
	assert.True(t, registry.Degraded())

	registry.UpdateAll(0)
	stray, ok := registry.Get("stray")
	require.True(t, ok)
	position := stray.WorldPosition()
	assert.InDelta(t, 4, position.X(), 1e-5)
	assert.InDelta(t, 0, position.Y(), 1e-5)
	assert.InDelta(t, 0, position.Z(), 1e-5)
}

func TestRegistryChildDeclaredBeforeParent(t *testing.T) {
	bodies := []*CelestialBody{
		{Name: "moon", Radius: 0.15, ParentName: "earth", OrbitRadius: 1.5},
		{Name: "earth", Radius: 0.5, OrbitRadius: 10},
	}
	registry, err := NewRegistry(bodies)
	require.NoError(t, err)

	// Insertion order is unaffected by the internal solve order.
	assert.Equal(t, "moon", registry.Bodies()[0].Name)

	registry.UpdateAll(0)
	moon, _ := registry.Get("moon")
	position := moon.WorldPosition()
	assert.InDelta(t, 11.5, position.X(), 1e-5)
	assert.InDelta(t, 0, position.Z(), 1e-5)
}
