package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

// A minimal AngelCode text descriptor with two glyphs and one kerning pair.
const testFnt = `info face="TestFace" size=21 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=24 base=19 scaleW=256 scaleH=256 pages=1 packed=0 alphaChnl=1 redChnl=0 greenChnl=0 blueChnl=0
page id=0 file="TestFace_0.png"
chars count=2
char id=65   x=0     y=0     width=14    height=15    xoffset=0     yoffset=4     xadvance=13    page=0  chnl=15
char id=86   x=14    y=0     width=15    height=15    xoffset=-1    yoffset=4     xadvance=13    page=0  chnl=15
kernings count=1
kerning first=65  second=86  amount=-1
`

func TestBitmapFontLoaderParsesDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFnt), 0o644))

	loader := &BitmapFontLoader{}
	resource, err := loader.Load(path, metadata.ResourceTypeBitmapFont, nil)
	require.NoError(t, err)

	data, ok := resource.Data.(*metadata.BitmapFontResourceData)
	require.True(t, ok)

	assert.Equal(t, "TestFace", data.Data.Face)
	assert.Equal(t, uint32(21), data.Data.Size)
	assert.Equal(t, int32(24), data.Data.LineHeight)
	assert.Equal(t, int32(19), data.Data.Baseline)
	assert.Equal(t, int32(256), data.Data.AtlasSizeX)

	require.Len(t, data.Pages, 1)
	assert.Equal(t, "TestFace_0.png", data.Pages[0].Name)

	require.Len(t, data.Data.Glyphs, 2)
	var glyphA *metadata.FontGlyph
	for _, glyph := range data.Data.Glyphs {
		if glyph.Codepoint == 65 {
			glyphA = glyph
		}
	}
	require.NotNil(t, glyphA, "glyph for 'A' missing")
	assert.Equal(t, uint16(14), glyphA.Width)
	assert.Equal(t, int16(13), glyphA.XAdvance)

	require.Len(t, data.Data.Kernings, 1)
	assert.Equal(t, int32(65), data.Data.Kernings[0].Codepoint0)
	assert.Equal(t, int32(86), data.Data.Kernings[0].Codepoint1)
	assert.Equal(t, int16(-1), data.Data.Kernings[0].Amount)
}

func TestBitmapFontLoaderUnloadClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFnt), 0o644))

	loader := &BitmapFontLoader{}
	resource, err := loader.Load(path, metadata.ResourceTypeBitmapFont, nil)
	require.NoError(t, err)

	require.NoError(t, loader.Unload(resource))
	assert.Nil(t, resource.Data)
	assert.Zero(t, resource.DataSize)
}

func TestBitmapFontLoaderMissingFile(t *testing.T) {
	loader := &BitmapFontLoader{}
	_, err := loader.Load(filepath.Join(t.TempDir(), "absent.fnt"), metadata.ResourceTypeBitmapFont, nil)
	assert.Error(t, err)
}
