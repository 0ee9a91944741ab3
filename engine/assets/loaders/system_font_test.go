package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

func TestSystemFontLoaderParsesTTF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	loader := &SystemFontLoader{}
	resource, err := loader.Load(path, metadata.ResourceTypeSystemFont, nil)
	require.NoError(t, err)

	assert.Equal(t, "Go", resource.Name)
	data, ok := resource.Data.(*metadata.SystemFontResourceData)
	require.True(t, ok)
	assert.Equal(t, goregular.TTF, data.FontBinary)
	require.Len(t, data.Fonts, 1)
	assert.Equal(t, "Go", data.Fonts[0].Name)
}

func TestSystemFontLoaderRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.ttf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a font"), 0o644))

	loader := &SystemFontLoader{}
	_, err := loader.Load(path, metadata.ResourceTypeSystemFont, nil)
	assert.Error(t, err)
}
