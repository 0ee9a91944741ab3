package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

// writeTestPNG writes a 2x2 image with a red top-left pixel and a blue
// bottom-left pixel, the rest black.
func writeTestPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 0, color.RGBA{A: 255})
	img.Set(1, 1, color.RGBA{A: 255})

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestImageLoaderFlipsRowsForGL(t *testing.T) {
	loader := &ImageLoader{}
	resource, err := loader.Load(writeTestPNG(t), metadata.ResourceTypeImage, nil)
	require.NoError(t, err)

	data, ok := resource.Data.(*metadata.ImageResourceData)
	require.True(t, ok)
	assert.Equal(t, uint32(2), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.Equal(t, uint8(4), data.ChannelCount)
	require.Len(t, data.Pixels, 2*2*4)

	// Row zero now holds the bottom of the image, so the blue pixel
	// comes first and the red one moved to the second row.
	assert.Equal(t, []uint8{0, 0, 255, 255}, data.Pixels[0:4])
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[8:12])
}

func TestImageLoaderKeepsRowsWhenAsked(t *testing.T) {
	loader := &ImageLoader{}
	resource, err := loader.Load(writeTestPNG(t), metadata.ResourceTypeImage,
		&metadata.ImageResourceParams{FlipY: false})
	require.NoError(t, err)

	data := resource.Data.(*metadata.ImageResourceData)
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[0:4])
}

func TestImageLoaderRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	loader := &ImageLoader{}
	_, err := loader.Load(path, metadata.ResourceTypeImage, nil)
	assert.Error(t, err)
}

func TestClampDimensions(t *testing.T) {
	w, h := clampDimensions(1024, 512)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)

	// Oversized images scale down uniformly on the largest side.
	w, h = clampDimensions(8192, 4096)
	assert.Equal(t, 4096, w)
	assert.Equal(t, 2048, h)
}
