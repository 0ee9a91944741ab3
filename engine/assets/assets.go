package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/helios/engine/assets/loaders"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

// Editors tend to write a file several times in quick succession, so change
// notifications are held back until the writes settle.
const reloadDebounce = 250 * time.Millisecond

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes everything under the asset directory, loads assets
// through per-type loaders and watches the directory for changes. A change
// to a known asset is posted to the event queue as EVENT_CODE_ASSET_CHANGED
// and picked up by the main loop on the next pump.
type AssetManager struct {
	basePath string

	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	fsnotify *fsnotify.Watcher
	pending  map[string]*time.Timer
	done     chan struct{}
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: watcher,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	am.basePath = assetsDir

	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}

	am.registerLoader(metadata.ResourceTypeText, &loaders.TextLoader{})
	am.registerLoader(metadata.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(metadata.ResourceTypeScenario, &loaders.ScenarioLoader{})
	am.registerLoader(metadata.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})
	am.registerLoader(metadata.ResourceTypeSystemFont, &loaders.SystemFontLoader{})

	go am.watch()

	return nil
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)

	am.mutex.Lock()
	for path, timer := range am.pending {
		timer.Stop()
		delete(am.pending, path)
	}
	am.mutex.Unlock()

	return am.fsnotify.Close()
}

func (am *AssetManager) BasePath() string {
	return am.basePath
}

func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadAsset resolves the on-disk location for the named asset of the given
// type and runs it through the registered loader.
func (am *AssetManager) LoadAsset(filename string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	path, err := am.assetPath(filename, resourceType)
	if err != nil {
		return nil, err
	}

	am.mutex.RLock()
	_, exists := am.assets[path]
	am.mutex.RUnlock()
	if !exists {
		// Files created after startup are indexed by the watcher, but a
		// load may race ahead of that notification.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("asset not found: %s", path)
		}
	}

	loader, ok := am.loaders[resourceType]
	if !ok {
		return nil, fmt.Errorf("no loader registered for resource type %d", resourceType)
	}

	resource, err := loader.Load(path, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{Path: path, Type: resourceType, LastLoaded: time.Now()}
	am.mutex.Unlock()

	return resource, nil
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// AssetType reports the indexed type of the given path, usually coming from
// a change notification.
func (am *AssetManager) AssetType(path string) (metadata.ResourceType, bool) {
	am.mutex.RLock()
	info, ok := am.assets[path]
	am.mutex.RUnlock()
	if ok {
		return info.Type, true
	}
	return determineAssetType(path)
}

func (am *AssetManager) assetPath(filename string, resourceType metadata.ResourceType) (string, error) {
	switch resourceType {
	case metadata.ResourceTypeText, metadata.ResourceTypeBinary:
		return filepath.Join(am.basePath, filename), nil
	case metadata.ResourceTypeImage:
		return filepath.Join(am.basePath, "textures", filename), nil
	case metadata.ResourceTypeShader:
		return filepath.Join(am.basePath, "shaders", filename+".shadercfg"), nil
	case metadata.ResourceTypeScenario:
		return filepath.Join(am.basePath, "scenarios", filename+".toml"), nil
	case metadata.ResourceTypeBitmapFont:
		return filepath.Join(am.basePath, "fonts", filename+".fnt"), nil
	case metadata.ResourceTypeSystemFont:
		return filepath.Join(am.basePath, "fonts", filename+".ttf"), nil
	default:
		return "", fmt.Errorf("no path mapping for resource type %d", resourceType)
	}
}

func (am *AssetManager) watch() {
	for {
		select {
		case event, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := am.addRecursive(event.Name); err != nil {
						core.LogWarn("failed to watch new directory %s: %s", event.Name, err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.indexAsset(event.Name)
				am.scheduleReload(event.Name)
			}
			if event.Op&fsnotify.Remove != 0 {
				am.removeAsset(event.Name)
			}
		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)
		case <-am.done:
			return
		}
	}
}

// scheduleReload collapses a burst of writes to the same file into a single
// change notification on the main thread's event queue.
func (am *AssetManager) scheduleReload(path string) {
	if _, known := determineAssetType(path); !known {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if timer, ok := am.pending[path]; ok {
		timer.Reset(reloadDebounce)
		return
	}
	am.pending[path] = time.AfterFunc(reloadDebounce, func() {
		am.mutex.Lock()
		delete(am.pending, path)
		am.mutex.Unlock()
		core.EventPost(core.EventContext{
			Type: core.EVENT_CODE_ASSET_CHANGED,
			Data: &core.AssetEvent{Path: path},
		})
	})
}

// addRecursive watches the named directory and all directories below it,
// indexing every file found on the way.
func (am *AssetManager) addRecursive(root string) error {
	return filepath.Walk(root, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.indexAsset(walkPath)
		return nil
	})
}

func (am *AssetManager) indexAsset(path string) {
	assetType, known := determineAssetType(path)
	if !known {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, exists := am.assets[path]; exists {
		return
	}
	am.assets[path] = AssetInfo{
		Path: path,
		Type: assetType,
	}
}

func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, path)
}

func determineAssetType(path string) (metadata.ResourceType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return metadata.ResourceTypeImage, true
	case ".glsl", ".vert", ".frag":
		return metadata.ResourceTypeText, true
	case ".shadercfg":
		return metadata.ResourceTypeShader, true
	case ".toml":
		return metadata.ResourceTypeScenario, true
	case ".fnt":
		return metadata.ResourceTypeBitmapFont, true
	case ".ttf", ".otf":
		return metadata.ResourceTypeSystemFont, true
	default:
		return metadata.ResourceTypeCustom, false
	}
}
