package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
	"github.com/spaghettifunk/helios/engine/scene"
)

// newTestManager builds an asset directory with the usual layout and an
// initialized manager on top of it.
func newTestManager(t *testing.T) (*AssetManager, string) {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"scenarios", "shaders", "textures"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenarios", "test.toml"), []byte(`
name = "test"

[[bodies]]
name = "rock"
radius = 1.0
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", "pass.frag.glsl"),
		[]byte("void main() {}\n"), 0o644))

	manager, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, manager.Initialize(dir))
	t.Cleanup(func() { manager.Shutdown() })

	return manager, dir
}

func TestLoadAssetScenario(t *testing.T) {
	manager, dir := newTestManager(t)
	assert.Equal(t, dir, manager.BasePath())

	resource, err := manager.LoadAsset("test", metadata.ResourceTypeScenario, nil)
	require.NoError(t, err)

	scenario, ok := resource.Data.(*scene.Scenario)
	require.True(t, ok)
	assert.Equal(t, "test", scenario.Name)
	require.Len(t, scenario.Bodies, 1)
	assert.Equal(t, "rock", scenario.Bodies[0].Name)
}

func TestLoadAssetText(t *testing.T) {
	manager, _ := newTestManager(t)

	// Text assets resolve relative to the base path, so shader sources are
	// addressed as shaders/<file>.
	resource, err := manager.LoadAsset("shaders/pass.frag.glsl", metadata.ResourceTypeText, nil)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", resource.Data.(string))
}

func TestLoadAssetMissing(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.LoadAsset("absent", metadata.ResourceTypeScenario, nil)
	assert.Error(t, err)
}

func TestLoadAssetCreatedAfterStartup(t *testing.T) {
	manager, dir := newTestManager(t)

	// A scenario dropped in after Initialize must load without waiting for
	// the watcher to index it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenarios", "late.toml"), []byte(`
name = "late"

[[bodies]]
name = "comet"
radius = 0.2
`), 0o644))

	resource, err := manager.LoadAsset("late", metadata.ResourceTypeScenario, nil)
	require.NoError(t, err)
	assert.Equal(t, "late", resource.Data.(*scene.Scenario).Name)
}

func TestAssetTypeMapping(t *testing.T) {
	manager, dir := newTestManager(t)

	// Indexed file.
	assetType, ok := manager.AssetType(filepath.Join(dir, "scenarios", "test.toml"))
	require.True(t, ok)
	assert.Equal(t, metadata.ResourceTypeScenario, assetType)

	// Unindexed paths fall back to the extension.
	tests := []struct {
		path     string
		expected metadata.ResourceType
	}{
		{"textures/earth.png", metadata.ResourceTypeImage},
		{"textures/mars.JPG", metadata.ResourceTypeImage},
		{"shaders/world.vert.glsl", metadata.ResourceTypeText},
		{"shaders/world.shadercfg", metadata.ResourceTypeShader},
		{"scenarios/other.toml", metadata.ResourceTypeScenario},
		{"fonts/noto.ttf", metadata.ResourceTypeSystemFont},
		{"fonts/noto.fnt", metadata.ResourceTypeBitmapFont},
	}
	for _, tt := range tests {
		assetType, ok := manager.AssetType(tt.path)
		require.True(t, ok, "no type for %s", tt.path)
		assert.Equal(t, tt.expected, assetType, tt.path)
	}

	_, ok = manager.AssetType("README.md")
	assert.False(t, ok)
}

func TestWatcherPostsDebouncedChangeEvents(t *testing.T) {
	require.NoError(t, core.EventInitialize())
	_, dir := newTestManager(t)

	// Drain anything earlier tests may have left in the queue.
	core.EventPump()

	var changed []string
	id := core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, func(context core.EventContext) {
		event := context.Data.(*core.AssetEvent)
		changed = append(changed, event.Path)
	})
	defer core.EventUnregister(core.EVENT_CODE_ASSET_CHANGED, id)

	// A burst of writes to the same file collapses into one notification.
	target := filepath.Join(dir, "scenarios", "test.toml")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte(`
name = "test"

[[bodies]]
name = "rock"
radius = 2.0
`), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		core.EventPump()
		return len(changed) > 0
	}, 5*time.Second, 25*time.Millisecond, "no change event arrived")

	// Allow any straggler timers to fire before counting.
	time.Sleep(2 * reloadDebounce)
	core.EventPump()
	assert.Equal(t, []string{target}, changed)
}
