package systems

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/helios/engine/assets"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

// Dimensions of the generated fallback textures.
const (
	defaultTextureDimension   uint32 = 256
	defaultTextureCellSize    uint32 = 16
	starfieldFaceDimension    uint32 = 512
	starfieldSeed             uint64 = 0x534f4c // deterministic sky across runs
	starfieldPixelsPerStar    uint32 = 512
	starfieldBloomBrightness  uint8  = 230
	maxPendingTextureUploads  uint32 = 128
	cubeTextureFaceCount             = 6
)

/** @brief The texture system configuration */
type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

/**
 * @brief Owns every texture in the engine. Textures are acquired by name and
 * reference counted; a name acquired twice returns the same texture. File
 * backed textures are decoded on a job worker and uploaded to the GPU on the
 * frame thread during Update, since the renderer is single threaded. Until the
 * upload lands (or when the file is missing entirely) callers render with one
 * of the generated default textures instead.
 */
type TextureSystem struct {
	Config TextureSystemConfig
	// DefaultTexture is a generated checkerboard, the stand-in for lit surfaces.
	DefaultTexture *metadata.Texture
	// DefaultDiffuseTexture is flat white, the stand-in for emissive surfaces
	// so the material colour shows through as a plain tint.
	DefaultDiffuseTexture *metadata.Texture
	// RegisteredTextures holds the preallocated texture slots.
	RegisteredTextures []*metadata.Texture
	// RegisteredTextureTable maps a texture name to its reference entry.
	RegisteredTextureTable map[string]*metadata.TextureReference
	// pendingUploads carries decoded images from job workers to Update.
	pendingUploads chan *textureLoadResult

	jobSystem    *JobSystem
	assetManager *assets.AssetManager
	renderer     *RendererSystem
}

// textureLoadResult is what a load job hands back to the frame thread.
type textureLoadResult struct {
	params          *metadata.TextureLoadParams
	hasTransparency bool
}

func NewTextureSystem(config TextureSystemConfig, js *JobSystem, am *assets.AssetManager, r *RendererSystem) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		return nil, fmt.Errorf("func NewTextureSystem requires MaxTextureCount > 0")
	}
	ts := &TextureSystem{
		Config:                 config,
		RegisteredTextures:     make([]*metadata.Texture, config.MaxTextureCount),
		RegisteredTextureTable: make(map[string]*metadata.TextureReference),
		pendingUploads:         make(chan *textureLoadResult, maxPendingTextureUploads),
		jobSystem:              js,
		assetManager:           am,
		renderer:               r,
	}
	// Invalidate every slot.
	for i := range ts.RegisteredTextures {
		ts.RegisteredTextures[i] = &metadata.Texture{
			ID:         metadata.InvalidID,
			Generation: metadata.InvalidID,
		}
	}
	return ts, nil
}

// Initialize uploads the generated default textures. Must run on the frame
// thread with the rendering backend already initialized.
func (ts *TextureSystem) Initialize() error {
	ts.DefaultTexture = &metadata.Texture{
		ID:           metadata.InvalidID,
		Name:         metadata.DEFAULT_TEXTURE_NAME,
		TextureType:  metadata.TextureType2d,
		Width:        defaultTextureDimension,
		Height:       defaultTextureDimension,
		ChannelCount: 4,
		Generation:   metadata.InvalidID,
	}
	ts.renderer.TextureCreate(generateCheckerboardPixels(defaultTextureDimension, defaultTextureCellSize), ts.DefaultTexture)

	ts.DefaultDiffuseTexture = &metadata.Texture{
		ID:           metadata.InvalidID,
		Name:         metadata.DEFAULT_DIFFUSE_TEXTURE_NAME,
		TextureType:  metadata.TextureType2d,
		Width:        16,
		Height:       16,
		ChannelCount: 4,
		Generation:   metadata.InvalidID,
	}
	ts.renderer.TextureCreate(generateFlatPixels(16, 255, 255, 255, 255), ts.DefaultDiffuseTexture)

	// Default textures keep an invalid generation so material reload tracking
	// never mistakes them for freshly loaded data.
	ts.DefaultTexture.Generation = metadata.InvalidID
	ts.DefaultDiffuseTexture.Generation = metadata.InvalidID

	return nil
}

func (ts *TextureSystem) Shutdown() error {
	// Unload anything a worker decoded that never reached the GPU.
	drained := false
	for !drained {
		select {
		case result := <-ts.pendingUploads:
			if result.params.ImageResource != nil {
				ts.assetManager.UnloadAsset(result.params.ImageResource)
			}
		default:
			drained = true
		}
	}
	for _, t := range ts.RegisteredTextures {
		if t.InternalData != nil {
			ts.renderer.TextureDestroy(t)
		}
	}
	if ts.DefaultTexture != nil {
		ts.renderer.TextureDestroy(ts.DefaultTexture)
	}
	if ts.DefaultDiffuseTexture != nil {
		ts.renderer.TextureDestroy(ts.DefaultDiffuseTexture)
	}
	ts.RegisteredTextureTable = make(map[string]*metadata.TextureReference)
	return nil
}

// Update uploads decoded images to the GPU. Called once per frame on the
// frame thread.
func (ts *TextureSystem) Update() {
	for {
		select {
		case result := <-ts.pendingUploads:
			ts.uploadTexture(result)
		default:
			return
		}
	}
}

/**
 * @brief Attempts to acquire a texture with the given name. If it has not yet
 * been loaded, this triggers a background load; the returned texture is valid
 * immediately but renders as a default until the upload completes. If the file
 * does not exist the texture keeps its invalid generation and callers fall
 * back to a generated placeholder for good.
 */
func (ts *TextureSystem) Acquire(name string, autoRelease bool) *metadata.Texture {
	if name == metadata.DEFAULT_TEXTURE_NAME {
		core.LogWarn("func Acquire called for the default texture, use GetDefaultTexture instead")
		return ts.DefaultTexture
	}
	handle := ts.processTextureReference(name, metadata.TextureType2d, 1, autoRelease)
	if handle == metadata.InvalidID {
		core.LogError("func Acquire failed to obtain a handle for texture '%s'", name)
		return nil
	}
	return ts.RegisteredTextures[handle]
}

/**
 * @brief Attempts to acquire a cubemap texture with the given name. Requires
 * textures with names as the base, one per side of a cube, in the following
 * order: +X (right), -X (left), +Y (up), -Y (down), +Z (front), -Z (back).
 * For a base name of "skybox" the faces are "skybox_r", "skybox_l" and so on.
 * When any face is missing a procedural starfield replaces all six. Cube
 * loads are synchronous and must run on the frame thread.
 */
func (ts *TextureSystem) AcquireCube(name string, autoRelease bool) *metadata.Texture {
	handle := ts.processTextureReference(name, metadata.TextureTypeCube, 1, autoRelease)
	if handle == metadata.InvalidID {
		core.LogError("func AcquireCube failed to obtain a handle for texture '%s'", name)
		return nil
	}
	t := ts.RegisteredTextures[handle]
	if t.InternalData == nil {
		if !ts.loadCubeTextures(name, t) {
			core.LogError("func AcquireCube failed to load cube faces for texture '%s'", name)
			ts.processTextureReference(name, metadata.TextureTypeCube, -1, autoRelease)
			return nil
		}
	}
	return t
}

/**
 * @brief Releases a texture acquired by name. Once the reference count of an
 * auto-release texture reaches zero its GPU resources are freed and the slot
 * becomes available again.
 */
func (ts *TextureSystem) Release(name string) {
	if name == metadata.DEFAULT_TEXTURE_NAME || name == metadata.DEFAULT_DIFFUSE_TEXTURE_NAME {
		return
	}
	ts.processTextureReference(name, metadata.TextureType2d, -1, false)
}

// Reload re-reads a registered texture from disk, typically in response to a
// file watcher event. Unknown names are ignored, since not every changed
// asset is a texture somebody acquired. Must run on the frame thread.
func (ts *TextureSystem) Reload(name string) bool {
	ref, exists := ts.RegisteredTextureTable[name]
	if !exists || ref.Handle == metadata.InvalidID {
		return false
	}
	t := ts.RegisteredTextures[ref.Handle]
	if t.TextureType == metadata.TextureTypeCube {
		ts.renderer.TextureDestroy(t)
		return ts.loadCubeTextures(name, t)
	}
	ts.loadTexture(name, t)
	return true
}

/** @brief Gets the default checkerboard texture. */
func (ts *TextureSystem) GetDefaultTexture() *metadata.Texture {
	return ts.DefaultTexture
}

/** @brief Gets the default flat white diffuse texture. */
func (ts *TextureSystem) GetDefaultDiffuseTexture() *metadata.Texture {
	return ts.DefaultDiffuseTexture
}

// processTextureReference adjusts the reference count for the named texture,
// creating its slot and kicking off a load on first acquire and releasing the
// slot when an auto-release texture drops to zero references. Returns the
// slot handle, or InvalidID on release or failure.
func (ts *TextureSystem) processTextureReference(name string, textureType metadata.TextureType, referenceDiff int, autoRelease bool) uint32 {
	ref, exists := ts.RegisteredTextureTable[name]
	if !exists {
		if referenceDiff < 0 {
			core.LogWarn("func processTextureReference attempted to release unknown texture '%s'", name)
			return metadata.InvalidID
		}
		ref = &metadata.TextureReference{
			Handle:      metadata.InvalidID,
			AutoRelease: autoRelease,
		}
		ts.RegisteredTextureTable[name] = ref
	}

	if referenceDiff > 0 {
		ref.ReferenceCount++
		if ref.Handle == metadata.InvalidID {
			slot := ts.findFreeSlot()
			if slot == metadata.InvalidID {
				delete(ts.RegisteredTextureTable, name)
				core.LogError("texture system cannot hold more than %d textures, adjust the configuration", ts.Config.MaxTextureCount)
				return metadata.InvalidID
			}
			t := ts.RegisteredTextures[slot]
			t.ID = slot
			t.Name = name
			t.TextureType = textureType
			t.Generation = metadata.InvalidID
			ref.Handle = slot
			// Cube faces are loaded synchronously by the caller.
			if textureType == metadata.TextureType2d {
				ts.loadTexture(name, t)
			}
			core.LogDebug("texture '%s' did not exist yet, created and reference count is now %d", name, ref.ReferenceCount)
		} else {
			core.LogDebug("texture '%s' already exists, reference count increased to %d", name, ref.ReferenceCount)
		}
		return ref.Handle
	}

	// Release path.
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount == 0 && ref.AutoRelease {
		if ref.Handle != metadata.InvalidID {
			ts.destroyTexture(ts.RegisteredTextures[ref.Handle])
		}
		delete(ts.RegisteredTextureTable, name)
		core.LogDebug("released texture '%s', texture unloaded because reference count reached 0 and auto-release is set", name)
	} else {
		core.LogDebug("released texture '%s', reference count is now %d (auto-release %t)", name, ref.ReferenceCount, ref.AutoRelease)
	}
	return metadata.InvalidID
}

func (ts *TextureSystem) findFreeSlot() uint32 {
	for i := range ts.RegisteredTextures {
		if ts.RegisteredTextures[i].ID == metadata.InvalidID {
			return uint32(i)
		}
	}
	return metadata.InvalidID
}

// loadTexture submits a background job that decodes the image from disk. The
// GPU upload happens later, on the frame thread, when Update drains the
// result.
func (ts *TextureSystem) loadTexture(name string, texture *metadata.Texture) {
	params := &metadata.TextureLoadParams{
		ResourceName: name,
		OutTexture:   texture,
	}
	ts.jobSystem.Submit(metadata.JobTask{
		JobType:     metadata.JOB_TYPE_RESOURCE_LOAD,
		Priority:    metadata.JOB_PRIORITY_NORMAL,
		InputParams: params,
		OnStart:     ts.textureLoadJobStart,
		OnComplete:  ts.textureLoadJobComplete,
		OnFailure:   ts.textureLoadJobFail,
	})
}

// textureLoadJobStart runs on a job worker. It only touches the filesystem
// and the decoded pixels, never the GPU.
func (ts *TextureSystem) textureLoadJobStart(params interface{}, resultChan chan interface{}) error {
	loadParams, ok := params.(*metadata.TextureLoadParams)
	if !ok {
		return fmt.Errorf("func textureLoadJobStart requires TextureLoadParams input")
	}
	resource, err := ts.assetManager.LoadAsset(loadParams.ResourceName, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		resultChan <- loadParams
		return err
	}
	imageData, ok := resource.Data.(*metadata.ImageResourceData)
	if !ok {
		resultChan <- loadParams
		return fmt.Errorf("asset '%s' did not decode to image data", loadParams.ResourceName)
	}
	// Scan for transparency while still off the frame thread.
	hasTransparency := false
	for i := 3; i < len(imageData.Pixels); i += 4 {
		if imageData.Pixels[i] < 255 {
			hasTransparency = true
			break
		}
	}
	loadParams.ImageResource = resource
	resultChan <- &textureLoadResult{
		params:          loadParams,
		hasTransparency: hasTransparency,
	}
	return nil
}

// textureLoadJobComplete runs on a job worker and hands the decoded image to
// the frame thread.
func (ts *TextureSystem) textureLoadJobComplete(resultChan chan interface{}) {
	result, ok := (<-resultChan).(*textureLoadResult)
	if !ok {
		return
	}
	ts.pendingUploads <- result
}

func (ts *TextureSystem) textureLoadJobFail(resultChan chan interface{}) {
	if loadParams, ok := (<-resultChan).(*metadata.TextureLoadParams); ok {
		core.LogWarn("texture '%s' could not be loaded, rendering with a generated placeholder instead", loadParams.ResourceName)
	}
}

// uploadTexture pushes a decoded image to the GPU. Frame thread only.
func (ts *TextureSystem) uploadTexture(result *textureLoadResult) {
	params := result.params
	t := params.OutTexture
	if t == nil || t.ID == metadata.InvalidID {
		// Released while the decode was in flight.
		ts.assetManager.UnloadAsset(params.ImageResource)
		return
	}
	imageData, ok := params.ImageResource.Data.(*metadata.ImageResourceData)
	if !ok {
		ts.assetManager.UnloadAsset(params.ImageResource)
		return
	}
	t.Width = imageData.Width
	t.Height = imageData.Height
	t.ChannelCount = imageData.ChannelCount
	t.Flags &^= metadata.TextureFlagBits(metadata.TextureFlagHasTransparency)
	if result.hasTransparency {
		t.Flags |= metadata.TextureFlagBits(metadata.TextureFlagHasTransparency)
	}
	if t.InternalData != nil {
		ts.renderer.TextureWriteData(t, imageData.Pixels)
	} else {
		ts.renderer.TextureCreate(imageData.Pixels, t)
	}
	ts.assetManager.UnloadAsset(params.ImageResource)
	core.LogDebug("texture '%s' uploaded, generation is now %d", t.Name, t.Generation)
}

// loadCubeTextures loads all six cube faces and uploads them as one cubemap.
// If any face is missing, all six are replaced with a generated starfield.
// Frame thread only.
func (ts *TextureSystem) loadCubeTextures(name string, texture *metadata.Texture) bool {
	faceNames := [cubeTextureFaceCount]string{
		name + "_r", name + "_l",
		name + "_u", name + "_d",
		name + "_f", name + "_b",
	}
	var facePixels [cubeTextureFaceCount][]uint8
	width, height := uint32(0), uint32(0)
	complete := true
	for i, faceName := range faceNames {
		// Cube faces are sampled in a left-handed space, no vertical flip.
		resource, err := ts.assetManager.LoadAsset(faceName, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: false})
		if err != nil {
			core.LogInfo("cube face '%s' is not available, the skybox falls back to a generated starfield", faceName)
			complete = false
			break
		}
		imageData, ok := resource.Data.(*metadata.ImageResourceData)
		if !ok {
			ts.assetManager.UnloadAsset(resource)
			complete = false
			break
		}
		if width == 0 {
			width = imageData.Width
			height = imageData.Height
		} else if imageData.Width != width || imageData.Height != height {
			core.LogError("all cube faces of '%s' must share the same dimensions, face '%s' is %dx%d instead of %dx%d",
				name, faceName, imageData.Width, imageData.Height, width, height)
			ts.assetManager.UnloadAsset(resource)
			return false
		}
		facePixels[i] = imageData.Pixels
		ts.assetManager.UnloadAsset(resource)
	}

	if !complete {
		width = starfieldFaceDimension
		height = starfieldFaceDimension
		for i := range facePixels {
			facePixels[i] = generateStarfieldPixels(starfieldFaceDimension, starfieldSeed+uint64(i))
		}
	}

	texture.Width = width
	texture.Height = height
	texture.ChannelCount = 4
	ts.renderer.TextureCreateCube(facePixels, texture)
	return true
}

// destroyTexture releases the GPU resources of a texture and resets its slot.
func (ts *TextureSystem) destroyTexture(texture *metadata.Texture) {
	ts.renderer.TextureDestroy(texture)
	texture.ID = metadata.InvalidID
	texture.Generation = metadata.InvalidID
	texture.Name = ""
	texture.Width = 0
	texture.Height = 0
	texture.ChannelCount = 0
	texture.Flags = 0
}

// generateCheckerboardPixels builds the blue and white checkerboard used as
// the default texture.
func generateCheckerboardPixels(dimension, cellSize uint32) []uint8 {
	pixels := make([]uint8, dimension*dimension*4)
	for i := range pixels {
		pixels[i] = 255
	}
	for row := uint32(0); row < dimension; row++ {
		for col := uint32(0); col < dimension; col++ {
			if ((row/cellSize)+(col/cellSize))%2 == 0 {
				continue
			}
			index := (row*dimension + col) * 4
			// Knock out red and green, leaving blue cells.
			pixels[index] = 0
			pixels[index+1] = 0
		}
	}
	return pixels
}

func generateFlatPixels(dimension uint32, r, g, b, a uint8) []uint8 {
	pixels := make([]uint8, dimension*dimension*4)
	for i := uint32(0); i < dimension*dimension; i++ {
		pixels[i*4+0] = r
		pixels[i*4+1] = g
		pixels[i*4+2] = b
		pixels[i*4+3] = a
	}
	return pixels
}

// generateStarfieldPixels scatters stars over a near-black sky. Seeded per
// face so the six cube faces differ but remain stable across runs.
func generateStarfieldPixels(dimension uint32, seed uint64) []uint8 {
	rng := rand.New(rand.NewSource(seed))
	pixels := make([]uint8, dimension*dimension*4)
	for i := uint32(0); i < dimension*dimension; i++ {
		// A faint blue floor so the void is not a dead black.
		pixels[i*4+2] = 8
		pixels[i*4+3] = 255
	}
	starCount := dimension * dimension / starfieldPixelsPerStar
	for i := uint32(0); i < starCount; i++ {
		x := rng.Uint32() % dimension
		y := rng.Uint32() % dimension
		brightness := uint8(120 + rng.Intn(136))
		r, g, b := brightness, brightness, brightness
		switch rng.Intn(3) {
		case 0: // cool star
			r -= r / 8
		case 2: // warm star
			b -= b / 8
		}
		setStarPixel(pixels, dimension, x, y, r, g, b)
		if brightness > starfieldBloomBrightness {
			// Bright stars bleed into their neighbours.
			half := brightness / 2
			setStarPixel(pixels, dimension, x+1, y, half, half, half)
			setStarPixel(pixels, dimension, x-1, y, half, half, half)
			setStarPixel(pixels, dimension, x, y+1, half, half, half)
			setStarPixel(pixels, dimension, x, y-1, half, half, half)
		}
	}
	return pixels
}

func setStarPixel(pixels []uint8, dimension, x, y uint32, r, g, b uint8) {
	if x >= dimension || y >= dimension {
		return
	}
	index := (y*dimension + x) * 4
	pixels[index] = r
	pixels[index+1] = g
	pixels[index+2] = b
	pixels[index+3] = 255
}
