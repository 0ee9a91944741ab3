package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type ImageLoader struct{}

// Anything larger gets downscaled on load. Keeps texture memory in check
// when a scenario points at photography-sized source images.
const maxImageDimension = 4096

// Load decodes a PNG or JPEG file into tightly packed RGBA pixels. GL
// expects row zero at the bottom, so images are flipped unless the params
// say otherwise.
func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	flipY := true
	if typedParams, ok := params.(*metadata.ImageResourceParams); ok {
		flipY = typedParams.FlipY
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %s", path, err)
	}

	bounds := src.Bounds()
	width, height := clampDimensions(bounds.Dx(), bounds.Dy())
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		xdraw.Draw(rgba, rgba.Bounds(), src, bounds.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), src, bounds, xdraw.Src, nil)
	}

	if flipY {
		flipRows(rgba.Pix, rgba.Stride, height)
	}

	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(len(rgba.Pix)),
		Data: &metadata.ImageResourceData{
			ChannelCount: 4,
			Width:        uint32(width),
			Height:       uint32(height),
			Pixels:       rgba.Pix,
		},
	}, nil
}

func (il *ImageLoader) Unload(*metadata.Resource) error {
	return nil
}

func clampDimensions(width, height int) (int, int) {
	largest := width
	if height > largest {
		largest = height
	}
	if largest <= maxImageDimension {
		return width, height
	}
	scale := float64(maxImageDimension) / float64(largest)
	return int(float64(width) * scale), int(float64(height) * scale)
}

func flipRows(pixels []uint8, stride, height int) {
	row := make([]uint8, stride)
	for y := 0; y < height/2; y++ {
		top := pixels[y*stride : (y+1)*stride]
		bottom := pixels[(height-1-y)*stride : (height-y)*stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}
