package systems

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/helios/engine/assets"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/math"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

const (
	// systemFontAtlasDimension is the edge length of a rasterized glyph atlas.
	systemFontAtlasDimension = 512
	// fallbackFontAtlasDimension fits the full printable ASCII range of the
	// builtin 7x13 face with room to spare.
	fallbackFontAtlasDimension = 128
	// atlasGlyphPadding keeps neighbouring glyphs from bleeding into each
	// other when the atlas is sampled with linear filtering.
	atlasGlyphPadding = 2
)

type BitmapFontInternalData struct {
	LoadedResource *metadata.Resource
	// Casted pointer to resource data for convenience.
	ResourceData *metadata.BitmapFontResourceData
}

// SystemFontVariantData is the per-size state of a rasterized font. The face
// keeps the glyph source around so the atlas can be rebuilt when text needs
// codepoints that have not been rasterized yet.
type SystemFontVariantData struct {
	Codepoints []int32
	Face       font.Face
}

type BitmapFontLookup struct {
	ID             uint16
	ReferenceCount uint16
	Font           *BitmapFontInternalData
}

type SystemFontLookup struct {
	ID             uint16
	ReferenceCount uint16
	SizeVariants   []*metadata.FontData
	Face           string
	FontBinary     []byte
	ParsedFont     *sfnt.Font
}

/** @brief The font system owns every loaded typeface and the screen text
 * instances built from them. Bitmap fonts come pre-rasterized with their
 * page image, system fonts are rasterized on demand into an atlas owned by
 * this system. When neither kind is available a builtin bitmap face keeps
 * text readable.
 */
type FontSystem struct {
	Config           *metadata.FontSystemConfig
	BitmapFontLookup map[string]uint16
	SystemFontLookup map[string]uint16
	BitmapFonts      []*BitmapFontLookup
	SystemFonts      []*SystemFontLookup

	fallback *metadata.FontData

	textureSystem *TextureSystem
	assetManager  *assets.AssetManager
	renderer      *RendererSystem
}

func NewFontSystem(config *metadata.FontSystemConfig, ts *TextureSystem, am *assets.AssetManager, r *RendererSystem) (*FontSystem, error) {
	if config.MaxBitmapFontCount == 0 || config.MaxSystemFontCount == 0 {
		return nil, fmt.Errorf("config.MaxBitmapFontCount and config.MaxSystemFontCount must be greater than zero")
	}
	fs := &FontSystem{
		Config:           config,
		BitmapFontLookup: make(map[string]uint16),
		SystemFontLookup: make(map[string]uint16),
		BitmapFonts:      make([]*BitmapFontLookup, config.MaxBitmapFontCount),
		SystemFonts:      make([]*SystemFontLookup, config.MaxSystemFontCount),
		textureSystem:    ts,
		assetManager:     am,
		renderer:         r,
	}
	for i := range fs.BitmapFonts {
		fs.BitmapFonts[i] = &BitmapFontLookup{ID: metadata.InvalidIDUint16}
	}
	for i := range fs.SystemFonts {
		fs.SystemFonts[i] = &SystemFontLookup{ID: metadata.InvalidIDUint16}
	}
	return fs, nil
}

// Initialize loads every configured font. A font that fails to load is
// skipped with a warning so the application still comes up with text
// rendered through the builtin face.
func (fs *FontSystem) Initialize() error {
	for _, cfg := range fs.Config.BitmapFontConfigs {
		if _, ok := fs.BitmapFontLookup[cfg.Name]; ok {
			core.LogWarn("font system: a bitmap font named '%s' already exists and will not be loaded again", cfg.Name)
			continue
		}
		if err := fs.LoadBitmapFont(cfg); err != nil {
			core.LogWarn("font system: bitmap font '%s' failed to load: %s", cfg.Name, err.Error())
		}
	}
	for _, cfg := range fs.Config.SystemFontConfigs {
		if _, ok := fs.SystemFontLookup[cfg.Name]; ok {
			core.LogWarn("font system: a system font named '%s' already exists and will not be loaded again", cfg.Name)
			continue
		}
		if err := fs.LoadSystemFont(cfg); err != nil {
			core.LogWarn("font system: system font '%s' failed to load: %s", cfg.Name, err.Error())
		}
	}
	return nil
}

func (fs *FontSystem) Shutdown() error {
	for _, lookup := range fs.BitmapFonts {
		if lookup.ID == metadata.InvalidIDUint16 {
			continue
		}
		if err := fs.destroyFontData(lookup.Font.ResourceData.Data); err != nil {
			return err
		}
		if lookup.Font.LoadedResource != nil {
			fs.assetManager.UnloadAsset(lookup.Font.LoadedResource)
		}
		lookup.ID = metadata.InvalidIDUint16
	}
	for _, lookup := range fs.SystemFonts {
		if lookup.ID == metadata.InvalidIDUint16 {
			continue
		}
		for _, variant := range lookup.SizeVariants {
			if err := fs.destroyFontData(variant); err != nil {
				return err
			}
		}
		lookup.SizeVariants = nil
		lookup.ID = metadata.InvalidIDUint16
	}
	if fs.fallback != nil {
		if err := fs.destroyFontData(fs.fallback); err != nil {
			return err
		}
		fs.fallback = nil
	}
	return nil
}

// LoadBitmapFont loads a pre-rasterized font description and acquires the
// page texture it references. Only single-page fonts are supported.
func (fs *FontSystem) LoadBitmapFont(config *metadata.BitmapFontConfig) error {
	id := metadata.InvalidIDUint16
	for i := uint16(0); i < uint16(fs.Config.MaxBitmapFontCount); i++ {
		if fs.BitmapFonts[i].ID == metadata.InvalidIDUint16 {
			id = i
			break
		}
	}
	if id == metadata.InvalidIDUint16 {
		return fmt.Errorf("no space left to allocate a new bitmap font, adjust the configuration to allow more")
	}

	resource, err := fs.assetManager.LoadAsset(config.ResourceName, metadata.ResourceTypeBitmapFont, nil)
	if err != nil {
		return err
	}
	resourceData, ok := resource.Data.(*metadata.BitmapFontResourceData)
	if !ok {
		fs.assetManager.UnloadAsset(resource)
		return fmt.Errorf("resource '%s' did not produce bitmap font data", config.ResourceName)
	}
	if len(resourceData.Pages) == 0 {
		fs.assetManager.UnloadAsset(resource)
		return fmt.Errorf("bitmap font '%s' references no page images", config.Name)
	}
	if len(resourceData.Pages) > 1 {
		core.LogWarn("font system: bitmap font '%s' has %d pages, only the first is used", config.Name, len(resourceData.Pages))
	}

	lookup := fs.BitmapFonts[id]
	lookup.Font = &BitmapFontInternalData{
		LoadedResource: resource,
		ResourceData:   resourceData,
	}

	// The page image lives alongside the other textures and is acquired by
	// its file name.
	pageTexture := fs.textureSystem.Acquire(resourceData.Pages[0].Name, true)
	if pageTexture == nil {
		fs.assetManager.UnloadAsset(resource)
		return fmt.Errorf("page image '%s' of bitmap font '%s' could not be acquired", resourceData.Pages[0].Name, config.Name)
	}
	resourceData.Data.Atlas = &metadata.TextureMap{
		Texture: pageTexture,
	}

	if err := fs.setupFontData(resourceData.Data); err != nil {
		fs.assetManager.UnloadAsset(resource)
		return err
	}

	lookup.ID = id
	fs.BitmapFontLookup[config.Name] = id
	return nil
}

// LoadSystemFont parses a TrueType binary and rasterizes an atlas for the
// configured default size. Further sizes are rasterized when acquired.
func (fs *FontSystem) LoadSystemFont(config *metadata.SystemFontConfig) error {
	resource, err := fs.assetManager.LoadAsset(config.ResourceName, metadata.ResourceTypeSystemFont, nil)
	if err != nil {
		return err
	}
	resourceData, ok := resource.Data.(*metadata.SystemFontResourceData)
	if !ok {
		fs.assetManager.UnloadAsset(resource)
		return fmt.Errorf("resource '%s' did not produce system font data", config.ResourceName)
	}

	// The binary outlives the resource, the face parsed from it is kept for
	// the lifetime of the lookup.
	parsed, err := opentype.Parse(resourceData.FontBinary)
	if err != nil {
		fs.assetManager.UnloadAsset(resource)
		return fmt.Errorf("font binary of '%s' could not be parsed: %w", config.ResourceName, err)
	}

	loaded := false
	for _, face := range resourceData.Fonts {
		if _, exists := fs.SystemFontLookup[face.Name]; exists {
			core.LogWarn("font system: a system font face named '%s' already exists and will not be loaded again", face.Name)
			continue
		}
		id := metadata.InvalidIDUint16
		for i := uint16(0); i < uint16(fs.Config.MaxSystemFontCount); i++ {
			if fs.SystemFonts[i].ID == metadata.InvalidIDUint16 {
				id = i
				break
			}
		}
		if id == metadata.InvalidIDUint16 {
			fs.assetManager.UnloadAsset(resource)
			return fmt.Errorf("no space left to allocate a new system font, adjust the configuration to allow more")
		}

		lookup := fs.SystemFonts[id]
		lookup.Face = face.Name
		lookup.FontBinary = resourceData.FontBinary
		lookup.ParsedFont = parsed

		variant, err := fs.createSystemFontVariant(lookup, config.DefaultSize, face.Name)
		if err != nil {
			fs.assetManager.UnloadAsset(resource)
			return fmt.Errorf("size variant %d of system font '%s' could not be created: %w", config.DefaultSize, face.Name, err)
		}
		if err := fs.setupFontData(variant); err != nil {
			fs.assetManager.UnloadAsset(resource)
			return err
		}
		lookup.SizeVariants = append(lookup.SizeVariants, variant)
		lookup.ID = id
		fs.SystemFontLookup[face.Name] = id
		loaded = true
	}

	fs.assetManager.UnloadAsset(resource)
	if !loaded {
		return fmt.Errorf("resource '%s' contained no loadable faces", config.ResourceName)
	}
	return nil
}

// Acquire resolves the named font at the requested size and attaches it to
// the text instance. Unknown names fall back to the builtin face.
func (fs *FontSystem) Acquire(fontName string, fontSize uint16, text *metadata.UIText) error {
	if text.UITextType == metadata.UI_TEXT_TYPE_BITMAP {
		if id, ok := fs.BitmapFontLookup[fontName]; ok {
			lookup := fs.BitmapFonts[id]
			lookup.ReferenceCount++
			text.Data = lookup.Font.ResourceData.Data
			// Bitmap fonts are rasterized at a fixed size.
			if fontSize != uint16(lookup.Font.ResourceData.Data.Size) {
				core.LogWarn("font system: bitmap font '%s' is fixed at size %d, requested size %d is ignored", fontName, lookup.Font.ResourceData.Data.Size, fontSize)
			}
			return nil
		}
	}
	if text.UITextType == metadata.UI_TEXT_TYPE_SYSTEM {
		if id, ok := fs.SystemFontLookup[fontName]; ok {
			lookup := fs.SystemFonts[id]
			for _, variant := range lookup.SizeVariants {
				if uint16(variant.Size) == fontSize {
					lookup.ReferenceCount++
					text.Data = variant
					return nil
				}
			}
			variant, err := fs.createSystemFontVariant(lookup, fontSize, fontName)
			if err != nil {
				return fmt.Errorf("size variant %d of system font '%s' could not be created: %w", fontSize, fontName, err)
			}
			if err := fs.setupFontData(variant); err != nil {
				return err
			}
			lookup.SizeVariants = append(lookup.SizeVariants, variant)
			lookup.ReferenceCount++
			text.Data = variant
			return nil
		}
	}

	core.LogWarn("font system: no font named '%s' is loaded, falling back to the builtin face", fontName)
	fallback, err := fs.fallbackFontData()
	if err != nil {
		return err
	}
	text.Data = fallback
	return nil
}

// VerifyAtlas makes sure every codepoint of the text can be drawn. Bitmap
// fonts carry a fixed glyph set, rasterized fonts grow their atlas.
func (fs *FontSystem) VerifyAtlas(data *metadata.FontData, text string) error {
	if data.FontType == metadata.FONT_TYPE_BITMAP {
		return nil
	}
	internal, ok := data.InternalData.(*SystemFontVariantData)
	if !ok {
		return fmt.Errorf("font '%s' carries no rasterizer state", data.Face)
	}
	added := false
	for _, r := range text {
		if r < 128 {
			continue
		}
		known := false
		for _, cp := range internal.Codepoints {
			if cp == int32(r) {
				known = true
				break
			}
		}
		if !known {
			internal.Codepoints = append(internal.Codepoints, int32(r))
			added = true
		}
	}
	if added {
		return fs.rebuildVariantAtlas(data)
	}
	return nil
}

// UITextCreate builds a renderable text instance from a loaded font.
func (fs *FontSystem) UITextCreate(textType metadata.UITextType, fontName string, fontSize uint16, content string) (*metadata.UIText, error) {
	if textType != metadata.UI_TEXT_TYPE_BITMAP && textType != metadata.UI_TEXT_TYPE_SYSTEM {
		return nil, fmt.Errorf("unknown text type %d", textType)
	}
	text := &metadata.UIText{
		UITextType: textType,
		Text:       content,
		Colour:     mgl32.Vec4{1, 1, 1, 1},
	}
	if err := fs.Acquire(fontName, fontSize, text); err != nil {
		return nil, err
	}
	if err := fs.VerifyAtlas(text.Data, content); err != nil {
		return nil, err
	}
	text.Geometry = &metadata.Geometry{
		ID:         metadata.InvalidID,
		InternalID: metadata.InvalidID,
		Generation: metadata.InvalidIDUint16,
		Name:       fmt.Sprintf("__ui_text_geometry_%s", uuid.New().String()),
	}
	if err := fs.regenerateGeometry(text); err != nil {
		return nil, err
	}
	text.UniqueID = core.IdentifierAcquireNewID(text)
	return text, nil
}

// UITextSetPosition moves the text origin in screen pixels.
func (fs *FontSystem) UITextSetPosition(text *metadata.UIText, position mgl32.Vec2) {
	text.Position = position
}

// UITextSetText replaces the content and rebuilds the glyph quads.
func (fs *FontSystem) UITextSetText(text *metadata.UIText, content string) error {
	if text.Text == content {
		return nil
	}
	text.Text = content
	if err := fs.VerifyAtlas(text.Data, content); err != nil {
		return err
	}
	if err := fs.regenerateGeometry(text); err != nil {
		return err
	}
	text.Generation++
	return nil
}

func (fs *FontSystem) UITextDestroy(text *metadata.UIText) {
	if text.Geometry != nil && text.Geometry.InternalID != metadata.InvalidID {
		fs.renderer.DestroyGeometry(text.Geometry)
	}
	if err := core.IdentifierReleaseID(text.UniqueID); err != nil {
		core.LogWarn("font system: %s", err.Error())
	}
	fs.releaseFontReference(text.Data)
	text.Data = nil
	text.Geometry = nil
}

func (fs *FontSystem) releaseFontReference(data *metadata.FontData) {
	if data == nil || data == fs.fallback {
		return
	}
	switch data.FontType {
	case metadata.FONT_TYPE_BITMAP:
		for _, lookup := range fs.BitmapFonts {
			if lookup.ID == metadata.InvalidIDUint16 || lookup.Font == nil {
				continue
			}
			if lookup.Font.ResourceData.Data == data && lookup.ReferenceCount > 0 {
				lookup.ReferenceCount--
				return
			}
		}
	case metadata.FONT_TYPE_SYSTEM:
		for _, lookup := range fs.SystemFonts {
			if lookup.ID == metadata.InvalidIDUint16 {
				continue
			}
			for _, variant := range lookup.SizeVariants {
				if variant == data && lookup.ReferenceCount > 0 {
					lookup.ReferenceCount--
					return
				}
			}
		}
	}
}

// createSystemFontVariant instantiates the parsed font at a concrete pixel
// size and rasterizes the default codepoint set into a fresh atlas texture.
func (fs *FontSystem) createSystemFontVariant(lookup *SystemFontLookup, size uint16, fontName string) (*metadata.FontData, error) {
	face, err := opentype.NewFace(lookup.ParsedFont, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	variant := &metadata.FontData{
		FontType:   metadata.FONT_TYPE_SYSTEM,
		Face:       fontName,
		Size:       uint32(size),
		AtlasSizeX: systemFontAtlasDimension,
		AtlasSizeY: systemFontAtlasDimension,
		Atlas:      &metadata.TextureMap{},
		InternalData: &SystemFontVariantData{
			Codepoints: defaultCodepoints(),
			Face:       face,
		},
	}
	metrics := face.Metrics()
	variant.LineHeight = int32(metrics.Height.Ceil())
	variant.Baseline = int32(metrics.Ascent.Ceil())

	variant.Atlas.Texture = &metadata.Texture{
		ID:           metadata.InvalidID,
		TextureType:  metadata.TextureType2d,
		Name:         fmt.Sprintf("__system_text_atlas_%s_sz%d_%s", fontName, size, uuid.New().String()),
		Width:        systemFontAtlasDimension,
		Height:       systemFontAtlasDimension,
		ChannelCount: 4,
		Generation:   metadata.InvalidID,
	}
	if err := fs.rebuildVariantAtlas(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// rebuildVariantAtlas rasterizes the variant's codepoints into its atlas
// texture with a shelf packer. Glyph cells are recorded in screen
// conventions, offsets measured from the top of the line.
func (fs *FontSystem) rebuildVariantAtlas(variant *metadata.FontData) error {
	internal, ok := variant.InternalData.(*SystemFontVariantData)
	if !ok {
		return fmt.Errorf("font '%s' carries no rasterizer state", variant.Face)
	}
	atlasWidth := int(variant.AtlasSizeX)
	atlasHeight := int(variant.AtlasSizeY)
	rgba := image.NewRGBA(image.Rect(0, 0, atlasWidth, atlasHeight))
	drawer := &font.Drawer{
		Dst:  rgba,
		Src:  image.White,
		Face: internal.Face,
	}

	penX := atlasGlyphPadding
	penY := atlasGlyphPadding
	shelfHeight := 0
	glyphs := make([]*metadata.FontGlyph, 0, len(internal.Codepoints))
	for _, cp := range internal.Codepoints {
		r := rune(cp)
		if cp == -1 {
			// The placeholder glyph drawn for codepoints the text asks for
			// but the face cannot supply.
			r = '?'
		}
		bounds, advance, ok := internal.Face.GlyphBounds(r)
		if !ok {
			r = '?'
			bounds, advance, _ = internal.Face.GlyphBounds(r)
		}
		width := (bounds.Max.X - bounds.Min.X).Ceil()
		height := (bounds.Max.Y - bounds.Min.Y).Ceil()
		if penX+width+atlasGlyphPadding > atlasWidth {
			penX = atlasGlyphPadding
			penY += shelfHeight + atlasGlyphPadding
			shelfHeight = 0
		}
		if penY+height+atlasGlyphPadding > atlasHeight {
			return fmt.Errorf("atlas of font '%s' at size %d cannot hold %d codepoints", variant.Face, variant.Size, len(internal.Codepoints))
		}
		if width > 0 && height > 0 {
			drawer.Dot = fixed.Point26_6{
				X: fixed.I(penX) - bounds.Min.X,
				Y: fixed.I(penY) - bounds.Min.Y,
			}
			drawer.DrawString(string(r))
		}
		glyphs = append(glyphs, &metadata.FontGlyph{
			Codepoint: cp,
			X:         uint16(penX),
			Y:         uint16(penY),
			Width:     uint16(width),
			Height:    uint16(height),
			XOffset:   int16(bounds.Min.X.Floor()),
			YOffset:   int16(variant.Baseline + int32(bounds.Min.Y.Floor())),
			XAdvance:  int16(advance.Ceil()),
		})
		if height > shelfHeight {
			shelfHeight = height
		}
		penX += width + atlasGlyphPadding
	}
	variant.Glyphs = glyphs

	texture := variant.Atlas.Texture
	if texture.InternalData != nil {
		fs.renderer.TextureWriteData(texture, rgba.Pix)
	} else {
		fs.renderer.TextureCreate(rgba.Pix, texture)
	}
	return nil
}

// fallbackFontData lazily builds a variant around the builtin fixed 7x13
// face. It goes through the same rasterizer as parsed fonts.
func (fs *FontSystem) fallbackFontData() (*metadata.FontData, error) {
	if fs.fallback != nil {
		return fs.fallback, nil
	}
	face := basicfont.Face7x13
	variant := &metadata.FontData{
		FontType:   metadata.FONT_TYPE_SYSTEM,
		Face:       "builtin-7x13",
		Size:       13,
		AtlasSizeX: fallbackFontAtlasDimension,
		AtlasSizeY: fallbackFontAtlasDimension,
		Atlas:      &metadata.TextureMap{},
		InternalData: &SystemFontVariantData{
			Codepoints: defaultCodepoints(),
			Face:       face,
		},
	}
	metrics := face.Metrics()
	variant.LineHeight = int32(metrics.Height.Ceil())
	variant.Baseline = int32(metrics.Ascent.Ceil())
	variant.Atlas.Texture = &metadata.Texture{
		ID:           metadata.InvalidID,
		TextureType:  metadata.TextureType2d,
		Name:         fmt.Sprintf("__fallback_text_atlas_%s", uuid.New().String()),
		Width:        fallbackFontAtlasDimension,
		Height:       fallbackFontAtlasDimension,
		ChannelCount: 4,
		Generation:   metadata.InvalidID,
	}
	if err := fs.rebuildVariantAtlas(variant); err != nil {
		return nil, err
	}
	if err := fs.setupFontData(variant); err != nil {
		return nil, err
	}
	fs.fallback = variant
	return fs.fallback, nil
}

// setupFontData finishes a font once its atlas texture exists, wiring the
// sampler state and deriving the tab advance when the face does not carry
// one.
func (fs *FontSystem) setupFontData(font *metadata.FontData) error {
	font.Atlas.FilterMagnify = metadata.TextureFilterModeLinear
	font.Atlas.FilterMinify = metadata.TextureFilterModeLinear
	font.Atlas.RepeatU = metadata.TextureRepeatClampToEdge
	font.Atlas.RepeatV = metadata.TextureRepeatClampToEdge
	font.Atlas.RepeatW = metadata.TextureRepeatClampToEdge
	font.Atlas.Use = metadata.TextureUseMapDiffuse
	if !fs.renderer.TextureMapAcquireResources(font.Atlas) {
		return fmt.Errorf("sampler resources of font '%s' could not be acquired", font.Face)
	}
	if font.TabXAdvance == 0 {
		if glyph := findGlyph(font, int32('\t')); glyph != nil {
			font.TabXAdvance = float32(glyph.XAdvance)
		} else if glyph := findGlyph(font, int32(' ')); glyph != nil {
			font.TabXAdvance = float32(glyph.XAdvance) * 4.0
		} else {
			font.TabXAdvance = float32(font.Size) * 4.0
		}
	}
	return nil
}

func (fs *FontSystem) destroyFontData(data *metadata.FontData) error {
	if data == nil {
		return nil
	}
	if data.Atlas != nil {
		fs.renderer.TextureMapReleaseResources(data.Atlas)
		if data.FontType == metadata.FONT_TYPE_BITMAP {
			// The page texture belongs to the texture registry.
			if data.Atlas.Texture != nil {
				fs.textureSystem.Release(data.Atlas.Texture.Name)
			}
		} else if data.Atlas.Texture != nil && data.Atlas.Texture.InternalData != nil {
			fs.renderer.TextureDestroy(data.Atlas.Texture)
		}
		data.Atlas.Texture = nil
	}
	data.Glyphs = nil
	data.Kernings = nil
	return nil
}

// regenerateGeometry lays the text out as one textured quad per visible
// glyph and uploads the result, replacing any previous buffers.
func (fs *FontSystem) regenerateGeometry(text *metadata.UIText) error {
	data := text.Data
	runes := []rune(text.Text)

	vertices := make([]math.Vertex2D, 0, len(runes)*4)
	indices := make([]uint32, 0, len(runes)*6)

	x := float32(0)
	y := float32(0)
	for i, r := range runes {
		if r == '\n' {
			x = 0
			y += float32(data.LineHeight)
			continue
		}
		if r == '\t' {
			x += data.TabXAdvance
			continue
		}
		glyph := findGlyph(data, int32(r))
		if glyph == nil {
			glyph = findGlyph(data, -1)
		}
		if glyph == nil {
			glyph = findGlyph(data, int32('?'))
		}
		if glyph == nil {
			core.LogWarn("font system: font '%s' has no glyph for codepoint %d and no placeholder, skipping", data.Face, r)
			continue
		}
		if glyph.Width > 0 && glyph.Height > 0 {
			minX := x + float32(glyph.XOffset)
			minY := y + float32(glyph.YOffset)
			maxX := minX + float32(glyph.Width)
			maxY := minY + float32(glyph.Height)
			tMinX := float32(glyph.X) / float32(data.AtlasSizeX)
			tMaxX := float32(glyph.X+glyph.Width) / float32(data.AtlasSizeX)
			tMinY := float32(glyph.Y) / float32(data.AtlasSizeY)
			tMaxY := float32(glyph.Y+glyph.Height) / float32(data.AtlasSizeY)
			if data.FontType == metadata.FONT_TYPE_BITMAP {
				// Page images are flipped vertically at load, mirror the V
				// axis to match.
				tMinY = 1.0 - tMinY
				tMaxY = 1.0 - tMaxY
			}
			base := uint32(len(vertices))
			vertices = append(vertices,
				math.Vertex2D{Position: mgl32.Vec2{minX, minY}, Texcoord: mgl32.Vec2{tMinX, tMinY}},
				math.Vertex2D{Position: mgl32.Vec2{maxX, maxY}, Texcoord: mgl32.Vec2{tMaxX, tMaxY}},
				math.Vertex2D{Position: mgl32.Vec2{minX, maxY}, Texcoord: mgl32.Vec2{tMinX, tMaxY}},
				math.Vertex2D{Position: mgl32.Vec2{maxX, minY}, Texcoord: mgl32.Vec2{tMaxX, tMinY}},
			)
			indices = append(indices, base+2, base+1, base+0, base+3, base+0, base+1)
		}

		advance := int32(glyph.XAdvance)
		if i+1 < len(runes) {
			for _, kerning := range data.Kernings {
				if kerning.Codepoint0 == int32(r) && kerning.Codepoint1 == int32(runes[i+1]) {
					advance += int32(kerning.Amount)
					break
				}
			}
		}
		x += float32(advance)
	}

	// The quad count changes with the content, so the old buffers are
	// released and fresh ones uploaded.
	if text.Geometry.InternalID != metadata.InvalidID {
		fs.renderer.DestroyGeometry(text.Geometry)
	}
	if len(vertices) == 0 {
		return nil
	}
	config := &metadata.GeometryConfig{
		Name:       text.Geometry.Name,
		Vertices2D: vertices,
		Indices:    indices,
	}
	if !fs.renderer.CreateGeometry(text.Geometry, config) {
		return fmt.Errorf("glyph geometry of text %d could not be created", text.UniqueID)
	}
	return nil
}

// defaultCodepoints is the printable ASCII range plus the placeholder slot.
func defaultCodepoints() []int32 {
	codepoints := make([]int32, 0, 96)
	codepoints = append(codepoints, -1)
	for cp := int32(32); cp < 127; cp++ {
		codepoints = append(codepoints, cp)
	}
	return codepoints
}

func findGlyph(data *metadata.FontData, codepoint int32) *metadata.FontGlyph {
	for _, glyph := range data.Glyphs {
		if glyph.Codepoint == codepoint {
			return glyph
		}
	}
	return nil
}
