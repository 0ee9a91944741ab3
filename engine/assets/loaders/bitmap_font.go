package loaders

import (
	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type BitmapFontLoader struct{}

// Load imports an AngelCode .fnt descriptor. The page images referenced by
// the descriptor are acquired later through the texture system.
func (fl *BitmapFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	descriptor, err := bmfont.LoadDescriptor(path)
	if err != nil {
		return nil, err
	}

	resourceData := &metadata.BitmapFontResourceData{
		Data: &metadata.FontData{
			FontType:   metadata.FONT_TYPE_BITMAP,
			Face:       descriptor.Info.Face,
			Size:       uint32(descriptor.Info.Size),
			LineHeight: int32(descriptor.Common.LineHeight),
			Baseline:   int32(descriptor.Common.Base),
			AtlasSizeX: int32(descriptor.Common.ScaleW),
			AtlasSizeY: int32(descriptor.Common.ScaleH),
			Glyphs:     make([]*metadata.FontGlyph, 0, len(descriptor.Chars)),
			Kernings:   make([]*metadata.FontKerning, 0, len(descriptor.Kerning)),
		},
		Pages: make([]*metadata.BitmapFontPage, 0, len(descriptor.Pages)),
	}

	for _, page := range descriptor.Pages {
		resourceData.Pages = append(resourceData.Pages, &metadata.BitmapFontPage{
			ID:   int8(page.ID),
			Name: page.File,
		})
	}

	for _, char := range descriptor.Chars {
		resourceData.Data.Glyphs = append(resourceData.Data.Glyphs, &metadata.FontGlyph{
			Codepoint: int32(char.ID),
			X:         uint16(char.X),
			Y:         uint16(char.Y),
			Width:     uint16(char.Width),
			Height:    uint16(char.Height),
			XOffset:   int16(char.XOffset),
			YOffset:   int16(char.YOffset),
			XAdvance:  int16(char.XAdvance),
			PageID:    uint8(char.Page),
		})
	}

	for pair, kerning := range descriptor.Kerning {
		resourceData.Data.Kernings = append(resourceData.Data.Kernings, &metadata.FontKerning{
			Codepoint0: int32(pair.First),
			Codepoint1: int32(pair.Second),
			Amount:     int16(kerning.Amount),
		})
	}

	return &metadata.Resource{
		Name:     descriptor.Info.Face,
		FullPath: path,
		DataSize: uint64(len(descriptor.Chars)),
		Data:     resourceData,
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *metadata.Resource) error {
	if resource != nil && resource.Data != nil {
		if data, ok := resource.Data.(*metadata.BitmapFontResourceData); ok {
			data.Data.Glyphs = nil
			data.Data.Kernings = nil
			data.Pages = nil
		}
		resource.Data = nil
		resource.DataSize = 0
	}
	return nil
}
